package core

import (
	"context"
	"errors"
	"sync"

	"pkt.systems/acmectl/schema"
	"pkt.systems/pslog"
)

// Events owns at most one live event stream for a window. The stream is
// started on the first pull and torn down on Stop, on stream end, or
// when the lifetime context given at construction is cancelled.
type Events struct {
	id     schema.WinID
	source EventSource
	logger pslog.Logger

	// lifetime scopes every stream the manager starts. Cancelling it
	// reaps a live pipeline even when Stop is never called.
	lifetime context.Context

	mu     sync.Mutex
	stream EventStream
}

// NewEvents constructs an idle manager for one window.
func NewEvents(lifetime context.Context, id schema.WinID, source EventSource, logger pslog.Logger) *Events {
	if lifetime == nil {
		lifetime = context.Background()
	}
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Events{id: id, source: source, logger: logger, lifetime: lifetime}
}

// Next returns the next event, opening a new stream when none is live.
// It blocks until an event arrives, ctx is done, or the stream ends.
// Stream end returns schema.ErrStreamClosed and resets the manager, so
// a later Next starts a fresh pipeline.
func (e *Events) Next(ctx context.Context) (schema.Event, error) {
	stream, err := e.acquire()
	if err != nil {
		return schema.Event{}, err
	}
	ev, err := stream.Next(ctx)
	if err != nil && errors.Is(err, schema.ErrStreamClosed) {
		e.release(stream)
	}
	return ev, err
}

// Stop terminates the live stream, if any. Safe before any Next,
// idempotent, and unblocks a concurrently blocked Next, which then
// returns schema.ErrStreamClosed. Termination errors are swallowed.
func (e *Events) Stop() {
	e.mu.Lock()
	stream := e.stream
	e.stream = nil
	e.mu.Unlock()
	if stream == nil {
		return
	}
	e.logger.Debug("event stream stop")
	_ = stream.Close()
}

func (e *Events) acquire() (EventStream, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stream != nil {
		return e.stream, nil
	}
	e.logger.Debug("event stream open")
	stream, err := e.source.Open(e.lifetime, e.id)
	if err != nil {
		return nil, err
	}
	e.stream = stream
	return stream, nil
}

// release drops stream if it is still the live one. A stale Next that
// lost a Stop/restart race must not tear down the newer stream.
func (e *Events) release(stream EventStream) {
	e.mu.Lock()
	current := e.stream == stream
	if current {
		e.stream = nil
	}
	e.mu.Unlock()
	if current {
		_ = stream.Close()
		e.logger.Debug("event stream closed")
	}
}
