package schema

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAccessErrorMessage(t *testing.T) {
	err := &AccessError{
		Op:       "read",
		Win:      WinID("4"),
		File:     "ctl",
		ExitCode: 1,
		Stderr:   "file not found",
		Err:      errors.New("exit status 1"),
	}
	msg := err.Error()
	if !strings.Contains(msg, "read acme/4/ctl") {
		t.Fatalf("message missing target: %q", msg)
	}
	if !strings.Contains(msg, "exit status 1") {
		t.Fatalf("message missing cause: %q", msg)
	}
	if !strings.Contains(msg, "file not found") {
		t.Fatalf("message missing stderr: %q", msg)
	}
}

func TestAccessErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	wrapped := fmt.Errorf("call: %w", &AccessError{Op: "write", Win: "7", File: "tag", ExitCode: -1, Err: cause})
	var accessErr *AccessError
	if !errors.As(wrapped, &accessErr) {
		t.Fatalf("expected AccessError in chain")
	}
	if accessErr.File != "tag" {
		t.Fatalf("unexpected file %q", accessErr.File)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected cause in chain")
	}
}

func TestSpawnErrorMessage(t *testing.T) {
	cause := errors.New("executable file not found")
	err := &SpawnError{Binary: "acmeevent", Err: cause}
	if !strings.Contains(err.Error(), "acmeevent") {
		t.Fatalf("message missing binary: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
}
