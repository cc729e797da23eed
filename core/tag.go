package core

import (
	"strings"

	"pkt.systems/acmectl/schema"
)

// tagDelMarker is the start of the built-in tag words acme appends after
// the window name (" Del Snarf ...").
const tagDelMarker = " Del"

// ParseTag splits a raw tag line into the window name and the user-added
// tag words. The name is everything before the built-in " Del" marker
// (the whole line when the marker is absent). Tags are the
// whitespace-separated words after the | separator; a tag without | has
// no user region and yields nil tags.
func ParseTag(line string) schema.WindowInfo {
	line = strings.TrimRight(line, "\r\n")
	name, rest, _ := strings.Cut(line, tagDelMarker)
	_, custom, _ := strings.Cut(rest, "|")
	tags := strings.Fields(custom)
	if len(tags) == 0 {
		tags = nil
	}
	return schema.WindowInfo{Name: name, Tags: tags}
}

// firstField returns the first whitespace-separated field of line, or ""
// when the line is blank.
func firstField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
