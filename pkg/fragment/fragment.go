// Package fragment copies marker-delimited regions between HTML documents.
package fragment

import (
	"strings"

	"weblocalizer/internal/domain/entities"
)

// span locates the first Start marker and the first End marker after it. It
// returns the byte range of the interior.
func span(doc string, m entities.FragmentMarker) (int, int, bool) {
	if m.Start == "" || m.End == "" {
		return 0, 0, false
	}
	start := strings.Index(doc, m.Start)
	if start < 0 {
		return 0, 0, false
	}
	from := start + len(m.Start)
	end := strings.Index(doc[from:], m.End)
	if end < 0 {
		return 0, 0, false
	}
	return from, from + end, true
}

// Extract returns the text strictly between the markers, newlines included.
func Extract(doc string, m entities.FragmentMarker) (string, bool) {
	from, to, ok := span(doc, m)
	if !ok {
		return "", false
	}
	return doc[from:to], true
}

// Splice replaces the interior of the first marker span with content, keeping
// the markers. Without a span, doc is returned unchanged and ok is false.
func Splice(doc, content string, m entities.FragmentMarker) (string, bool) {
	from, to, ok := span(doc, m)
	if !ok {
		return doc, false
	}
	var b strings.Builder
	b.Grow(len(doc) - (to - from) + len(content))
	b.WriteString(doc[:from])
	b.WriteString(content)
	b.WriteString(doc[to:])
	return b.String(), true
}
