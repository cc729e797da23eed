package core

import (
	"context"

	"pkt.systems/acmectl/schema"
)

// Accessor performs single-shot reads and writes of a window's control
// files. Each call maps to one invocation of the underlying transport.
type Accessor interface {
	ReadFile(ctx context.Context, id schema.WinID, file string) ([]byte, error)
	WriteFile(ctx context.Context, id schema.WinID, file string, data []byte) error
}

// EventSource opens a live event stream for a window. Every Open starts
// a fresh background pipeline.
type EventSource interface {
	Open(ctx context.Context, id schema.WinID) (EventStream, error)
}

// EventStream yields decoded event lines from a window.
type EventStream interface {
	// Next blocks until an event arrives, the stream ends
	// (schema.ErrStreamClosed), or ctx is done.
	Next(ctx context.Context) (schema.Event, error)
	// Close terminates the stream and its background pipeline. It is
	// idempotent and safe to call while a Next is blocked.
	Close() error
}
