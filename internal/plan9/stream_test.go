package plan9

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"pkt.systems/acmectl/schema"
	"pkt.systems/pslog"
)

func quietLogger() pslog.Logger {
	return pslog.NewWithOptions(io.Discard, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.ErrorLevel,
	})
}

func newTestStream(out io.Reader) *lineStream {
	return newLineStream(quietLogger(), streamConfig{
		out:          out,
		readStderr:   strings.NewReader(""),
		decodeStderr: strings.NewReader(""),
		buffer:       8,
		grace:        50 * time.Millisecond,
	})
}

func TestLineStreamDeliversLinesInOrder(t *testing.T) {
	s := newTestStream(strings.NewReader("A\nB\nC\n"))
	defer s.Close()
	ctx := context.Background()

	for _, want := range []string{"A", "B", "C"} {
		ev, err := s.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if ev.Text != want {
			t.Fatalf("event = %q, want %q", ev.Text, want)
		}
	}
	if _, err := s.Next(ctx); !errors.Is(err, schema.ErrStreamClosed) {
		t.Fatalf("Next after end = %v, want ErrStreamClosed", err)
	}
}

func TestLineStreamSkipsBlankLines(t *testing.T) {
	s := newTestStream(strings.NewReader("A\n\n   \nB\n"))
	defer s.Close()
	ctx := context.Background()

	for _, want := range []string{"A", "B"} {
		ev, err := s.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if ev.Text != want {
			t.Fatalf("event = %q, want %q", ev.Text, want)
		}
	}
	if _, err := s.Next(ctx); !errors.Is(err, schema.ErrStreamClosed) {
		t.Fatalf("Next after end = %v, want ErrStreamClosed", err)
	}
}

func TestLineStreamNextHonorsContext(t *testing.T) {
	pr, pw := io.Pipe()
	s := newTestStream(pr)
	defer pw.Close()
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Next = %v, want context.Canceled", err)
	}
}

func TestLineStreamCloseUnblocksPendingNext(t *testing.T) {
	pr, pw := io.Pipe()
	s := newTestStream(pr)

	done := make(chan error, 1)
	go func() {
		_, err := s.Next(context.Background())
		done <- err
	}()

	_ = s.Close()
	_ = pw.Close()

	select {
	case err := <-done:
		if !errors.Is(err, schema.ErrStreamClosed) {
			t.Fatalf("Next = %v, want ErrStreamClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Next still blocked after Close")
	}

	// Close is idempotent.
	_ = s.Close()
}

func TestLineStreamReadErrorMatchesStreamClosed(t *testing.T) {
	pr, pw := io.Pipe()
	s := newTestStream(pr)
	defer s.Close()

	pw.CloseWithError(errors.New("conn reset"))

	_, err := s.Next(context.Background())
	if !errors.Is(err, schema.ErrStreamClosed) {
		t.Fatalf("Next = %v, want ErrStreamClosed match", err)
	}
	if !strings.Contains(err.Error(), "conn reset") {
		t.Fatalf("message = %q, want underlying read error", err.Error())
	}
}

func TestDrainStderrRecordsError(t *testing.T) {
	pr, pw := io.Pipe()
	stderrR, stderrW := io.Pipe()
	s := newLineStream(quietLogger(), streamConfig{
		out:          pr,
		readStderr:   stderrR,
		decodeStderr: strings.NewReader(""),
		buffer:       8,
		grace:        50 * time.Millisecond,
	})
	defer s.Close()

	stderrW.CloseWithError(errors.New("stderr torn"))
	_ = pw.Close()

	_, err := s.Next(context.Background())
	if !errors.Is(err, schema.ErrStreamClosed) {
		t.Fatalf("Next = %v, want ErrStreamClosed match", err)
	}
	if !strings.Contains(err.Error(), "stderr torn") {
		t.Fatalf("message = %q, want drain error", err.Error())
	}
}

func TestPreviewText(t *testing.T) {
	if got := previewText("abcdef", 4); got != "abcd" {
		t.Fatalf("previewText = %q, want %q", got, "abcd")
	}
	if got := previewText("abc", 4); got != "abc" {
		t.Fatalf("previewText = %q, want %q", got, "abc")
	}
}
