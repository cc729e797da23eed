package core

import (
	"context"
	"errors"
	"strings"

	"pkt.systems/acmectl/schema"
	"pkt.systems/pslog"
)

// Control files addressed under acme/<id>/.
const (
	fileCtl = "ctl"
	fileTag = "tag"
)

// ctl messages understood by acme. Each derived operation writes exactly
// one of these literals to the window's ctl file and reads nothing.
const (
	ctlClean    = "clean"
	ctlDirty    = "dirty"
	ctlClearTag = "cleartag"
	ctlGet      = "get"
	ctlPut      = "put"
	ctlDel      = "del"
	ctlShow     = "show"
)

// Window drives one acme window through an Accessor. The id is fixed at
// construction; resolving it from the environment is the caller's job.
type Window struct {
	id     schema.WinID
	access Accessor
	logger pslog.Logger
}

// NewWindow binds a window id to an accessor.
func NewWindow(id schema.WinID, access Accessor, logger pslog.Logger) (*Window, error) {
	if strings.TrimSpace(string(id)) == "" {
		return nil, schema.ErrNoWindowID
	}
	if access == nil {
		return nil, errors.New("nil accessor")
	}
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Window{id: id, access: access, logger: logger}, nil
}

// ID returns the window id.
func (w *Window) ID() schema.WinID { return w.id }

// ReadFile reads the named control file of this window.
func (w *Window) ReadFile(ctx context.Context, file string) ([]byte, error) {
	if strings.TrimSpace(file) == "" {
		return nil, schema.ErrEmptyFileName
	}
	w.logger.Debug("window read", "file", file)
	return w.access.ReadFile(ctx, w.id, file)
}

// WriteFile writes data to the named control file of this window.
func (w *Window) WriteFile(ctx context.Context, file string, data []byte) error {
	if strings.TrimSpace(file) == "" {
		return schema.ErrEmptyFileName
	}
	w.logger.Debug("window write", "file", file, "bytes", len(data))
	return w.access.WriteFile(ctx, w.id, file, data)
}

func (w *Window) writeCtl(ctx context.Context, msg string) error {
	w.logger.Debug("window ctl", "msg", msg)
	return w.access.WriteFile(ctx, w.id, fileCtl, []byte(msg))
}

// MarkClean marks the window clean, as if its body had been saved.
func (w *Window) MarkClean(ctx context.Context) error {
	return w.writeCtl(ctx, ctlClean)
}

// MarkDirty marks the window dirty.
func (w *Window) MarkDirty(ctx context.Context) error {
	return w.writeCtl(ctx, ctlDirty)
}

// ClearTag removes everything after the | in the window tag.
func (w *Window) ClearTag(ctx context.Context) error {
	return w.writeCtl(ctx, ctlClearTag)
}

// Reload replaces the window body with the named file's contents on
// disk, like the Get button.
func (w *Window) Reload(ctx context.Context) error {
	return w.writeCtl(ctx, ctlGet)
}

// Save writes the window body to the named file on disk, like the Put
// button.
func (w *Window) Save(ctx context.Context) error {
	return w.writeCtl(ctx, ctlPut)
}

// Delete deletes the window, like the Del button. acme refuses when the
// window is dirty.
func (w *Window) Delete(ctx context.Context) error {
	return w.writeCtl(ctx, ctlDel)
}

// Show makes the window visible on screen.
func (w *Window) Show(ctx context.Context) error {
	return w.writeCtl(ctx, ctlShow)
}

// SetName retitles the window.
func (w *Window) SetName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return schema.ErrEmptyWindowName
	}
	return w.writeCtl(ctx, "name "+name)
}

// NameAndTags reads the tag file once and parses it into the window name
// and the user-added tag words.
func (w *Window) NameAndTags(ctx context.Context) (schema.WindowInfo, error) {
	raw, err := w.access.ReadFile(ctx, w.id, fileTag)
	if err != nil {
		return schema.WindowInfo{}, err
	}
	return ParseTag(string(raw)), nil
}

// Name reads the tag file once and returns the window name, the first
// field of the tag line.
func (w *Window) Name(ctx context.Context) (string, error) {
	raw, err := w.access.ReadFile(ctx, w.id, fileTag)
	if err != nil {
		return "", err
	}
	return firstField(string(raw)), nil
}
