// Package plan9 drives the plan9port command line tools that expose the
// acme file tree: 9p(1) for single-shot control file access and
// acmeevent(1) for decoding a window's event file into text lines.
package plan9

import (
	"context"
	"time"

	"pkt.systems/acmectl/schema"
	"pkt.systems/pslog"
)

// eventFile is the per-window file that blocks until the next event.
const eventFile = "event"

// Config controls how the plan9port tools are invoked.
type Config struct {
	// NinePBinary is the 9p client binary, "9p" by default.
	NinePBinary string
	// AcmeEventBinary is the event decoder, "acmeevent" by default.
	AcmeEventBinary string
	// ExtraArgs are inserted before the 9p verb, for flags such as
	// -a addr or -n namespace.
	ExtraArgs []string
	// Env entries are appended to the inherited environment of every
	// spawned process.
	Env []string
	// EventBuffer is the channel depth for decoded events.
	EventBuffer int
	// StopGrace bounds graceful pipeline termination before kill.
	StopGrace time.Duration
}

func (c Config) normalized() Config {
	if c.NinePBinary == "" {
		c.NinePBinary = "9p"
	}
	if c.AcmeEventBinary == "" {
		c.AcmeEventBinary = "acmeevent"
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = 32
	}
	if c.StopGrace <= 0 {
		c.StopGrace = 3 * time.Second
	}
	return c
}

// Tool implements core.Accessor and core.EventSource over the external
// binaries.
type Tool struct {
	cfg    Config
	logger pslog.Logger
}

// New constructs a Tool with defaults filled in.
func New(cfg Config, logger pslog.Logger) *Tool {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Tool{cfg: cfg.normalized(), logger: logger}
}

// acmePath addresses a window file in the served acme tree.
func acmePath(id schema.WinID, file string) string {
	return "acme/" + string(id) + "/" + file
}

func readArgs(cfg Config, id schema.WinID, file string) []string {
	args := append([]string{}, cfg.ExtraArgs...)
	return append(args, "read", acmePath(id, file))
}

func writeArgs(cfg Config, id schema.WinID, file string) []string {
	args := append([]string{}, cfg.ExtraArgs...)
	return append(args, "write", acmePath(id, file))
}
