package plan9

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"pkt.systems/acmectl/schema"
)

const stderrTailLimit = 512

// ReadFile reads acme/<id>/<file> with one 9p invocation.
func (t *Tool) ReadFile(ctx context.Context, id schema.WinID, file string) ([]byte, error) {
	return t.call(ctx, "read", id, file, nil)
}

// WriteFile writes data to acme/<id>/<file> with one 9p invocation. The
// payload is newline-terminated the way the usual echo pipeline would
// have done.
func (t *Tool) WriteFile(ctx context.Context, id schema.WinID, file string, data []byte) error {
	_, err := t.call(ctx, "write", id, file, terminated(data))
	return err
}

func (t *Tool) call(ctx context.Context, op string, id schema.WinID, file string, stdin []byte) ([]byte, error) {
	var args []string
	if op == "read" {
		args = readArgs(t.cfg, id, file)
	} else {
		args = writeArgs(t.cfg, id, file)
	}
	t.logger.Debug("9p call start", "op", op, "win", id, "file", file, "args", args)

	cmd := exec.CommandContext(ctx, t.cfg.NinePBinary, args...)
	cmd.Env = append(os.Environ(), t.cfg.Env...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		accessErr := &schema.AccessError{
			Op:       op,
			Win:      id,
			File:     file,
			ExitCode: exitCode,
			Stderr:   stderrTail(stderr.Bytes()),
			Err:      err,
		}
		t.logger.Warn("9p call failed",
			"op", op, "win", id, "file", file,
			"exit_code", exitCode, "stderr", accessErr.Stderr, "err", err)
		return nil, accessErr
	}
	t.logger.Debug("9p call ok",
		"op", op, "win", id, "file", file,
		"bytes", stdout.Len(), "duration_ms", time.Since(started).Milliseconds())
	return stdout.Bytes(), nil
}

// terminated appends the trailing newline echo(1) would have added.
func terminated(data []byte) []byte {
	if len(data) > 0 && data[len(data)-1] == '\n' {
		return data
	}
	out := make([]byte, 0, len(data)+1)
	out = append(out, data...)
	return append(out, '\n')
}

func stderrTail(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= stderrTailLimit {
		return s
	}
	return s[len(s)-stderrTailLimit:]
}
