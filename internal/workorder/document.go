// Package workorder turns the extracted text of a service-order (OS) document
// into a structured ExtractionResult.
//
// The package is pure: it never opens files and never fails because a field
// is missing. Absent fields are nil, unparseable amounts are zero.
package workorder

import "strings"

// Document is the normalized line view of one work order.
// Lines are trimmed, non-empty and kept in extraction order.
type Document struct {
	lines []string
	full  string
}

// NewDocument joins page texts in page order and normalizes them into lines
func NewDocument(pages []string) *Document {
	text := strings.Join(pages, "\n")

	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}

	return &Document{
		lines: lines,
		full:  strings.Join(lines, "\n"),
	}
}

// Lines returns a copy of the normalized lines
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Len returns the number of normalized lines
func (d *Document) Len() int {
	return len(d.lines)
}

// FullText returns the normalized lines joined by newline
func (d *Document) FullText() string {
	return d.full
}

// indexOf returns the position of the first line equal to s, or -1
func (d *Document) indexOf(s string) int {
	for i, l := range d.lines {
		if l == s {
			return i
		}
	}
	return -1
}

// firstLine returns the first line accepted by match
func (d *Document) firstLine(match func(string) bool) (string, bool) {
	for _, l := range d.lines {
		if match(l) {
			return l, true
		}
	}
	return "", false
}

// scanAfter locates the first line accepted by label and returns the first of
// the following window lines accepted by accept. Only the first label
// occurrence is considered.
func (d *Document) scanAfter(label func(string) bool, window int, accept func(string) bool) (string, bool) {
	for i, l := range d.lines {
		if !label(l) {
			continue
		}
		end := min(i+1+window, len(d.lines))
		for j := i + 1; j < end; j++ {
			if accept(d.lines[j]) {
				return d.lines[j], true
			}
		}
		return "", false
	}
	return "", false
}

func hasPrefix(prefix string) func(string) bool {
	return func(l string) bool { return strings.HasPrefix(l, prefix) }
}

func isLabel(l string) bool {
	return strings.HasSuffix(l, ":")
}

func notLabel(l string) bool {
	return !isLabel(l)
}

func optional(s string, ok bool) *string {
	if !ok {
		return nil
	}
	return &s
}
