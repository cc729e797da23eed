package plan9

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"pkt.systems/acmectl/schema"
)

func TestReadWriteArgs(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		win       schema.WinID
		file      string
		wantRead  []string
		wantWrite []string
	}{
		{
			name:      "plain",
			cfg:       Config{}.normalized(),
			win:       "4",
			file:      "ctl",
			wantRead:  []string{"read", "acme/4/ctl"},
			wantWrite: []string{"write", "acme/4/ctl"},
		},
		{
			name:      "extra args precede the verb",
			cfg:       Config{ExtraArgs: []string{"-a", "tcp!fs!564"}}.normalized(),
			win:       "12",
			file:      "event",
			wantRead:  []string{"-a", "tcp!fs!564", "read", "acme/12/event"},
			wantWrite: []string{"-a", "tcp!fs!564", "write", "acme/12/event"},
		},
	}
	for _, tc := range tests {
		if got := readArgs(tc.cfg, tc.win, tc.file); !reflect.DeepEqual(got, tc.wantRead) {
			t.Fatalf("%s: readArgs = %v, want %v", tc.name, got, tc.wantRead)
		}
		if got := writeArgs(tc.cfg, tc.win, tc.file); !reflect.DeepEqual(got, tc.wantWrite) {
			t.Fatalf("%s: writeArgs = %v, want %v", tc.name, got, tc.wantWrite)
		}
	}
}

func TestConfigNormalized(t *testing.T) {
	cfg := Config{}.normalized()
	if cfg.NinePBinary != "9p" || cfg.AcmeEventBinary != "acmeevent" {
		t.Fatalf("default binaries = %q, %q, want 9p, acmeevent", cfg.NinePBinary, cfg.AcmeEventBinary)
	}
	if cfg.EventBuffer != 32 {
		t.Fatalf("default buffer = %d, want 32", cfg.EventBuffer)
	}
	if cfg.StopGrace != 3*time.Second {
		t.Fatalf("default grace = %v, want 3s", cfg.StopGrace)
	}

	custom := Config{
		NinePBinary:     "/opt/plan9/bin/9p",
		AcmeEventBinary: "/opt/plan9/bin/acmeevent",
		EventBuffer:     5,
		StopGrace:       time.Second,
	}.normalized()
	if custom.NinePBinary != "/opt/plan9/bin/9p" || custom.EventBuffer != 5 || custom.StopGrace != time.Second {
		t.Fatalf("custom values not preserved: %+v", custom)
	}
}

func TestAcmePath(t *testing.T) {
	if got := acmePath("4", "ctl"); got != "acme/4/ctl" {
		t.Fatalf("acmePath = %q, want %q", got, "acme/4/ctl")
	}
}

func TestTerminated(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare", in: "clean", want: "clean\n"},
		{name: "already terminated", in: "clean\n", want: "clean\n"},
		{name: "empty", in: "", want: "\n"},
	}
	for _, tc := range tests {
		if got := string(terminated([]byte(tc.in))); got != tc.want {
			t.Fatalf("%s: terminated(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestStderrTail(t *testing.T) {
	if got := stderrTail([]byte("  mount failed\n")); got != "mount failed" {
		t.Fatalf("stderrTail = %q, want %q", got, "mount failed")
	}
	long := strings.Repeat("x", stderrTailLimit+100)
	if got := stderrTail([]byte(long)); len(got) != stderrTailLimit {
		t.Fatalf("stderrTail length = %d, want %d", len(got), stderrTailLimit)
	}
}

func TestExitStatus(t *testing.T) {
	if code, signal := exitStatus(nil); code != 0 || signal != "" {
		t.Fatalf("exitStatus(nil) = %d, %q, want 0", code, signal)
	}
	if code, _ := exitStatus(errors.New("not an exit error")); code != -1 {
		t.Fatalf("exitStatus(plain error) = %d, want -1", code)
	}
}
