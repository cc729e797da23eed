package acmectl

import (
	"context"
	"errors"
	"testing"

	"pkt.systems/acmectl/core"
	"pkt.systems/acmectl/schema"
)

type stubAccessor struct {
	files map[string]string
}

func (s *stubAccessor) ReadFile(ctx context.Context, id schema.WinID, file string) ([]byte, error) {
	return []byte(s.files[file]), nil
}

func (s *stubAccessor) WriteFile(ctx context.Context, id schema.WinID, file string, data []byte) error {
	if s.files == nil {
		s.files = map[string]string{}
	}
	s.files[file] = string(data)
	return nil
}

type stubStream struct {
	lines  []string
	pos    int
	closed bool
}

func (s *stubStream) Next(ctx context.Context) (schema.Event, error) {
	if s.closed || s.pos >= len(s.lines) {
		return schema.Event{}, schema.ErrStreamClosed
	}
	ev := schema.Event{Text: s.lines[s.pos]}
	s.pos++
	return ev, nil
}

func (s *stubStream) Close() error {
	s.closed = true
	return nil
}

type stubSource struct {
	lines []string
	opens int
}

func (s *stubSource) Open(ctx context.Context, id schema.WinID) (core.EventStream, error) {
	s.opens++
	return &stubStream{lines: s.lines}, nil
}

func stubDeps(source *stubSource) Deps {
	return Deps{Accessor: &stubAccessor{}, Source: source}
}

func TestAttachPrefersExplicitWindowID(t *testing.T) {
	t.Setenv(WinidEnv, "9")
	sess, err := Attach(context.Background(), Config{WindowID: "4"}, stubDeps(&stubSource{}))
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	defer sess.Close()
	if got := sess.Window().ID(); got != "4" {
		t.Fatalf("window id = %q, want 4", got)
	}
}

func TestAttachFallsBackToAmbientWindowID(t *testing.T) {
	t.Setenv(WinidEnv, " 7 ")
	sess, err := Attach(context.Background(), Config{}, stubDeps(&stubSource{}))
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	defer sess.Close()
	if got := sess.Window().ID(); got != "7" {
		t.Fatalf("window id = %q, want 7", got)
	}
}

func TestAttachWithoutWindowID(t *testing.T) {
	t.Setenv(WinidEnv, "")
	if _, err := Attach(context.Background(), Config{}, stubDeps(&stubSource{})); !errors.Is(err, schema.ErrNoWindowID) {
		t.Fatalf("Attach = %v, want ErrNoWindowID", err)
	}
}

func TestSessionControlSurface(t *testing.T) {
	access := &stubAccessor{}
	source := &stubSource{}
	sess, err := Attach(context.Background(), Config{WindowID: "4"}, Deps{Accessor: access, Source: source})
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	defer sess.Close()

	if err := sess.Window().MarkDirty(context.Background()); err != nil {
		t.Fatalf("MarkDirty: %v", err)
	}
	if got := access.files["ctl"]; got != "dirty" {
		t.Fatalf("ctl = %q, want dirty", got)
	}
}

func TestSessionNextEventAndClose(t *testing.T) {
	source := &stubSource{lines: []string{"A", "B"}}
	sess, err := Attach(context.Background(), Config{WindowID: "4"}, stubDeps(source))
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	ctx := context.Background()
	for _, want := range []string{"A", "B"} {
		ev, err := sess.NextEvent(ctx)
		if err != nil {
			t.Fatalf("NextEvent: %v", err)
		}
		if ev.Text != want {
			t.Fatalf("event = %q, want %q", ev.Text, want)
		}
	}
	if _, err := sess.NextEvent(ctx); !errors.Is(err, schema.ErrStreamClosed) {
		t.Fatalf("NextEvent after end = %v, want ErrStreamClosed", err)
	}

	if err := sess.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestCloseThenNextEventRestarts(t *testing.T) {
	source := &stubSource{lines: []string{"A"}}
	sess, err := Attach(context.Background(), Config{WindowID: "4"}, stubDeps(source))
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	defer sess.Close()

	ctx := context.Background()
	if ev, err := sess.NextEvent(ctx); err != nil || ev.Text != "A" {
		t.Fatalf("NextEvent = %q, %v, want A", ev.Text, err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if ev, err := sess.NextEvent(ctx); err != nil || ev.Text != "A" {
		t.Fatalf("NextEvent after Close = %q, %v, want A", ev.Text, err)
	}
	if source.opens != 2 {
		t.Fatalf("opens = %d, want 2", source.opens)
	}
}
