package plan9

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"pkt.systems/acmectl/schema"
	"pkt.systems/pslog"
)

// streamConfig wires a lineStream to its pipeline. read/decode/cancel
// are nil in tests that feed the readers directly.
type streamConfig struct {
	// ctx is the context the pipeline was opened under. Its
	// cancellation makes the exit count as an expected shutdown.
	ctx          context.Context
	out          io.Reader
	readStderr   io.Reader
	decodeStderr io.Reader
	read         *exec.Cmd
	decode       *exec.Cmd
	cancel       context.CancelFunc
	buffer       int
	grace        time.Duration
}

// lineStream pumps decoded event lines from the pipeline's stdout into
// a channel and owns the pipeline's teardown.
type lineStream struct {
	events chan schema.Event
	log    pslog.Logger

	ctx    context.Context
	read   *exec.Cmd
	decode *exec.Cmd
	cancel context.CancelFunc
	grace  time.Duration

	errMu      sync.Mutex
	err        error
	lastStderr string

	wg        sync.WaitGroup
	closing   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
	started   time.Time
}

func newLineStream(log pslog.Logger, sc streamConfig) *lineStream {
	s := &lineStream{
		events:  make(chan schema.Event, sc.buffer),
		log:     log,
		ctx:     sc.ctx,
		read:    sc.read,
		decode:  sc.decode,
		cancel:  sc.cancel,
		grace:   sc.grace,
		closing: make(chan struct{}),
		done:    make(chan struct{}),
		started: time.Now(),
	}
	s.wg.Add(3)
	go s.readLines(sc.out)
	go s.drainStderr("9p", sc.readStderr)
	go s.drainStderr("acmeevent", sc.decodeStderr)
	go s.reap()
	return s
}

func (s *lineStream) readLines(r io.Reader) {
	defer s.wg.Done()
	defer s.teardown()
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadBytes('\n')
		text := strings.TrimSpace(string(line))
		if text != "" {
			s.log.Trace("acme event", "text_len", len(text), "preview", previewText(text, 200))
			select {
			case s.events <- schema.Event{Text: text}:
			case <-s.closing:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Warn("event read failed", "err", err)
				s.setErr(err)
			}
			return
		}
	}
}

// teardown reaps whatever of the pipeline is still alive once the
// decoded output ends. A decoder that dies under a live 9p would
// otherwise keep the stderr drains, and with them reap, blocked.
func (s *lineStream) teardown() {
	s.signalProcs(syscall.SIGTERM)
	if s.cancel != nil {
		time.AfterFunc(s.grace, s.cancel)
	}
}

func (s *lineStream) drainStderr(proc string, r io.Reader) {
	defer s.wg.Done()
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		s.errMu.Lock()
		s.lastStderr = text
		s.errMu.Unlock()
		s.log.Trace("pipeline stderr", "proc", proc, "text", text)
	}
	if err := scanner.Err(); err != nil {
		s.log.Warn("stderr drain failed", "proc", proc, "err", err)
		s.setErr(err)
	}
}

func (s *lineStream) reap() {
	s.wg.Wait()
	var readErr, decodeErr error
	if s.read != nil {
		readErr = s.read.Wait()
	}
	if s.decode != nil {
		decodeErr = s.decode.Wait()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.finish(readErr, decodeErr)
	close(s.events)
	close(s.done)
}

// finish records why the pipeline ended. Exits caused by Close are
// expected; anything else non-zero surfaces through Next.
func (s *lineStream) finish(readErr, decodeErr error) {
	readCode, readSignal := exitStatus(readErr)
	decodeCode, decodeSignal := exitStatus(decodeErr)
	fields := []any{
		"read_exit", readCode,
		"decode_exit", decodeCode,
		"duration_ms", time.Since(s.started).Milliseconds(),
	}
	if readSignal != "" {
		fields = append(fields, "read_signal", readSignal)
	}
	if decodeSignal != "" {
		fields = append(fields, "decode_signal", decodeSignal)
	}
	if s.stopped() || s.lifetimeDone() || (readErr == nil && decodeErr == nil) {
		s.log.Debug("event pipeline finished", fields...)
		return
	}
	tail := s.stderrLine()
	if tail != "" {
		fields = append(fields, "stderr", tail)
	}
	s.log.Warn("event pipeline failed", fields...)
	err := fmt.Errorf("%w: pipeline exited (9p %d, acmeevent %d)", schema.ErrStreamClosed, readCode, decodeCode)
	if tail != "" {
		err = fmt.Errorf("%w: %s", err, tail)
	}
	s.setErr(err)
}

// Next blocks until an event arrives, ctx is done, or the stream ends.
func (s *lineStream) Next(ctx context.Context) (schema.Event, error) {
	select {
	case <-ctx.Done():
		return schema.Event{}, ctx.Err()
	case event, ok := <-s.events:
		if ok {
			return event, nil
		}
		s.errMu.Lock()
		err := s.err
		s.errMu.Unlock()
		if err == nil {
			return schema.Event{}, schema.ErrStreamClosed
		}
		if !errors.Is(err, schema.ErrStreamClosed) {
			err = fmt.Errorf("%w: %w", schema.ErrStreamClosed, err)
		}
		return schema.Event{}, err
	}
}

// Close terminates the pipeline: graceful signal first, kill after the
// grace window. Termination errors are swallowed; the processes may
// already be gone.
func (s *lineStream) Close() error {
	s.closeOnce.Do(func() {
		close(s.closing)
		s.signalProcs(syscall.SIGTERM)
		select {
		case <-s.done:
		case <-time.After(s.grace):
			s.signalProcs(syscall.SIGKILL)
			if s.read != nil || s.decode != nil {
				<-s.done
			}
		}
	})
	return nil
}

func (s *lineStream) signalProcs(sig syscall.Signal) {
	for _, cmd := range []*exec.Cmd{s.read, s.decode} {
		if cmd == nil || cmd.Process == nil {
			continue
		}
		_ = cmd.Process.Signal(sig)
	}
}

func (s *lineStream) stopped() bool {
	select {
	case <-s.closing:
		return true
	default:
		return false
	}
}

func (s *lineStream) lifetimeDone() bool {
	return s.ctx != nil && s.ctx.Err() != nil
}

func (s *lineStream) setErr(err error) {
	if err == nil {
		return
	}
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *lineStream) stderrLine() string {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.lastStderr
}

func exitStatus(err error) (int, string) {
	if err == nil {
		return 0, ""
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		signal := ""
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			signal = status.Signal().String()
		}
		return exitErr.ExitCode(), signal
	}
	return -1, ""
}

func previewText(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max]
}
