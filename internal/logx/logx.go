package logx

import (
	"context"

	"pkt.systems/acmectl/schema"
	"pkt.systems/pslog"
)

type contextKey int

const winKey contextKey = iota

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithWin annotates the context logger with the window id if present.
func WithWin(ctx context.Context, id schema.WinID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if id != "" {
		if current, ok := ctx.Value(winKey).(schema.WinID); ok && current == id {
			return log
		}
		log = log.With("win", id)
	}
	return log
}

// ContextWithWin stores the window marker on the context for log de-duplication.
func ContextWithWin(ctx context.Context, id schema.WinID) context.Context {
	if ctx == nil || id == "" {
		return ctx
	}
	return context.WithValue(ctx, winKey, id)
}

// ContextWithWinLogger attaches the logger and window marker to the context.
func ContextWithWinLogger(ctx context.Context, log pslog.Logger, id schema.WinID) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithWin(ctx, id)
}
