// Package debug produces human readable dumps stored in debug reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxTextLen limits quoted text in dumps, comments may be huge.
const maxTextLen = 160

// TreeWriter accumulates indented outline, two spaces per level.
type TreeWriter struct {
	sb strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

func (tw *TreeWriter) String() string {
	return tw.sb.String()
}

func (tw *TreeWriter) put(depth int, s string) {
	tw.sb.WriteString(strings.Repeat("  ", depth))
	tw.sb.WriteString(s)
	tw.sb.WriteByte('\n')
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.put(depth, fmt.Sprintf(format, args...))
}

// TextBlock writes quoted (and possibly shortened) text value.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.put(depth, label+": "+encodeText(value))
}

// Field writes "label: value" using default formatting for value.
func (tw *TreeWriter) Field(depth int, label string, value any) {
	tw.put(depth, fmt.Sprintf("%s: %v", label, value))
}

func encodeText(raw string) string {
	n := utf8.RuneCountInString(raw)
	switch {
	case n == 0:
		return ""
	case n <= maxTextLen:
		return strconv.Quote(raw)
	}
	cut := 0
	for range maxTextLen {
		_, size := utf8.DecodeRuneInString(raw[cut:])
		cut += size
	}
	return fmt.Sprintf("%s... (%d more)", strconv.Quote(raw[:cut]), n-maxTextLen)
}
