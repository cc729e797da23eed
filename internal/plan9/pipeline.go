package plan9

import (
	"context"
	"os"
	"os/exec"

	"pkt.systems/acmectl/core"
	"pkt.systems/acmectl/schema"
)

// Open starts the decode pipeline for a window's event file, the
// equivalent of "9p read acme/<id>/event | acmeevent". The pipeline is
// bound to ctx: cancelling it reaps both processes.
func (t *Tool) Open(ctx context.Context, id schema.WinID) (core.EventStream, error) {
	cfg := t.cfg
	log := t.logger.With("win", string(id))

	pipeCtx, cancel := context.WithCancel(ctx)
	read := exec.CommandContext(pipeCtx, cfg.NinePBinary, readArgs(cfg, id, eventFile)...)
	decode := exec.CommandContext(pipeCtx, cfg.AcmeEventBinary)
	env := append(os.Environ(), cfg.Env...)
	read.Env = env
	decode.Env = env

	pr, pw, err := os.Pipe()
	if err != nil {
		cancel()
		return nil, &schema.SpawnError{Binary: cfg.NinePBinary, Err: err}
	}
	read.Stdout = pw
	decode.Stdin = pr

	closePipe := func() {
		_ = pw.Close()
		_ = pr.Close()
	}

	readStderr, err := read.StderrPipe()
	if err != nil {
		cancel()
		closePipe()
		return nil, &schema.SpawnError{Binary: cfg.NinePBinary, Err: err}
	}
	out, err := decode.StdoutPipe()
	if err != nil {
		cancel()
		closePipe()
		return nil, &schema.SpawnError{Binary: cfg.AcmeEventBinary, Err: err}
	}
	decodeStderr, err := decode.StderrPipe()
	if err != nil {
		cancel()
		closePipe()
		return nil, &schema.SpawnError{Binary: cfg.AcmeEventBinary, Err: err}
	}

	if err := read.Start(); err != nil {
		cancel()
		closePipe()
		log.Error("event pipeline start failed", "binary", cfg.NinePBinary, "err", err)
		return nil, &schema.SpawnError{Binary: cfg.NinePBinary, Err: err}
	}
	if err := decode.Start(); err != nil {
		closePipe()
		_ = read.Process.Kill()
		_ = read.Wait()
		cancel()
		log.Error("event pipeline start failed", "binary", cfg.AcmeEventBinary, "err", err)
		return nil, &schema.SpawnError{Binary: cfg.AcmeEventBinary, Err: err}
	}
	// The children hold their own pipe ends now.
	closePipe()

	log.Info("event pipeline started",
		"read_pid", read.Process.Pid, "decode_pid", decode.Process.Pid)
	return newLineStream(log, streamConfig{
		ctx:          ctx,
		out:          out,
		readStderr:   readStderr,
		decodeStderr: decodeStderr,
		read:         read,
		decode:       decode,
		cancel:       cancel,
		buffer:       cfg.EventBuffer,
		grace:        cfg.StopGrace,
	}), nil
}
