// Package acmectl drives the acme text editor through the plan9port
// command line tools: single-shot control file access and a pull-based
// event stream, one session per window.
package acmectl

import (
	"context"
	"os"
	"strings"
	"time"

	"pkt.systems/acmectl/core"
	"pkt.systems/acmectl/internal/logx"
	"pkt.systems/acmectl/internal/plan9"
	"pkt.systems/acmectl/schema"
	"pkt.systems/pslog"
)

// WinidEnv is the environment variable acme sets for commands started
// from a window.
const WinidEnv = "winid"

// Config configures a session.
type Config struct {
	// WindowID picks the window explicitly. Empty resolves from the
	// winid environment variable at Attach time.
	WindowID string
	// NinePBinary and AcmeEventBinary locate the plan9port tools.
	// Empty uses "9p" and "acmeevent" from PATH.
	NinePBinary     string
	AcmeEventBinary string
	// ExtraArgs are inserted before each 9p verb.
	ExtraArgs []string
	// Env entries are appended to the environment of spawned processes.
	Env []string
	// EventBuffer is the channel depth for decoded events.
	EventBuffer int
	// StopGrace bounds graceful pipeline termination before kill.
	StopGrace time.Duration
}

// Deps overrides the transport, mainly for tests. Zero value uses the
// plan9port tools from Config.
type Deps struct {
	Accessor core.Accessor
	Source   core.EventSource
	Logger   pslog.Logger
}

// Session binds one window's control files and event stream.
type Session struct {
	window *core.Window
	events *core.Events
}

// Attach resolves the window id and builds a session. ctx scopes every
// event pipeline the session starts: cancelling it reaps a live
// pipeline even when Close is never called.
func Attach(ctx context.Context, cfg Config, deps Deps) (*Session, error) {
	base := deps.Logger
	if base == nil {
		base = logx.Ctx(ctx)
	}

	id := schema.WinID(strings.TrimSpace(cfg.WindowID))
	if id == "" {
		resolved, err := WindowIDFromEnv()
		if err != nil {
			return nil, err
		}
		id = resolved
	}
	// No-op when ctx already carries a logger marked for this window.
	winLog := logx.WithWin(pslog.ContextWithLogger(ctx, base), id)

	accessor := deps.Accessor
	source := deps.Source
	if accessor == nil || source == nil {
		tool := plan9.New(plan9.Config{
			NinePBinary:     cfg.NinePBinary,
			AcmeEventBinary: cfg.AcmeEventBinary,
			ExtraArgs:       cfg.ExtraArgs,
			Env:             cfg.Env,
			EventBuffer:     cfg.EventBuffer,
			StopGrace:       cfg.StopGrace,
		}, base)
		if accessor == nil {
			accessor = tool
		}
		if source == nil {
			source = tool
		}
	}

	window, err := core.NewWindow(id, accessor, winLog)
	if err != nil {
		return nil, err
	}
	return &Session{
		window: window,
		events: core.NewEvents(ctx, id, source, winLog),
	}, nil
}

// WindowIDFromEnv resolves the ambient window id acme sets for commands
// started from a window.
func WindowIDFromEnv() (schema.WinID, error) {
	id := strings.TrimSpace(os.Getenv(WinidEnv))
	if id == "" {
		return "", schema.ErrNoWindowID
	}
	return schema.WinID(id), nil
}

// Window returns the control file surface.
func (s *Session) Window() *core.Window { return s.window }

// Events returns the event stream manager.
func (s *Session) Events() *core.Events { return s.events }

// NextEvent pulls the next event line, starting the stream on first
// use.
func (s *Session) NextEvent(ctx context.Context) (schema.Event, error) {
	return s.events.Next(ctx)
}

// Close stops event streaming. Idempotent; control file calls remain
// usable afterwards.
func (s *Session) Close() error {
	s.events.Stop()
	return nil
}
