package schema

// WinID identifies an acme window. Window ids are the decimal directory
// names under acme/ in the editor's file tree; the type stays opaque and
// is never treated as a number.
type WinID string

// Event is one decoded line from a window's event stream, as emitted by
// acmeevent(1). The payload is kept opaque; consumers that need fields
// split Text themselves.
type Event struct {
	Text string
}

// WindowInfo is the parsed form of a window's tag line.
type WindowInfo struct {
	// Name is the window name, the part of the tag before the built-in
	// " Del" marker.
	Name string
	// Tags are the user-added tag words after the | separator. Nil when
	// the tag has no | region.
	Tags []string
}
