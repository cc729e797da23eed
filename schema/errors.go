package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrNoWindowID indicates no explicit window id was given and the
	// winid environment variable is unset or empty.
	ErrNoWindowID = errors.New("no window id")
	// ErrStreamClosed indicates the event stream ended or was stopped.
	ErrStreamClosed = errors.New("event stream closed")
	// ErrEmptyFileName indicates a control file name was empty.
	ErrEmptyFileName = errors.New("empty file name")
	// ErrEmptyWindowName indicates a window rename with an empty name.
	ErrEmptyWindowName = errors.New("empty window name")
)

// AccessError reports a failed single-shot control file read or write.
// It wraps the underlying cause (lookup, spawn, I/O, or exit failure).
type AccessError struct {
	// Op is "read" or "write".
	Op string
	// Win and File name the control file the call targeted.
	Win  WinID
	File string
	// ExitCode is the subprocess exit code, or -1 when the process did
	// not run to completion.
	ExitCode int
	// Stderr holds a bounded tail of the subprocess stderr, if any.
	Stderr string
	// Err is the underlying cause.
	Err error
}

func (e *AccessError) Error() string {
	msg := fmt.Sprintf("%s acme/%s/%s", e.Op, e.Win, e.File)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *AccessError) Unwrap() error { return e.Err }

// SpawnError reports that a process of the event pipeline could not be
// started.
type SpawnError struct {
	// Binary is the command that failed to start.
	Binary string
	// Err is the underlying cause.
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Binary, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }
