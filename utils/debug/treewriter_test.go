package debug

import (
	"strings"
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "test", nil, "test\n"},
		{"depth 2", 2, "double indent", nil, "    double indent\n"},
		{"with formatting", 1, "Section %d: %s", []any{1, "Passed"}, "  Section 1: Passed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tw := NewTreeWriter()
	tw.TextBlock(1, "Text", "line\nbreak")
	tw.TextBlock(0, "Empty", "")

	want := "  Text: \"line\\nbreak\"\nEmpty: \n"
	if got := tw.String(); got != want {
		t.Errorf("TextBlock() = %q, want %q", got, want)
	}
}

func TestTreeWriter_Field(t *testing.T) {
	tw := NewTreeWriter()
	tw.Field(1, "Width", 600)
	if got := tw.String(); got != "  Width: 600\n" {
		t.Errorf("Field() = %q", got)
	}
}

func TestEncodeText_Long(t *testing.T) {
	long := strings.Repeat("я", maxTextLen+5)
	got := encodeText(long)
	if !strings.HasSuffix(got, "... (5 more)") {
		t.Errorf("encodeText() = %q, expected shortened text", got)
	}
	if encodeText("short") != `"short"` {
		t.Errorf("encodeText(short) = %q", encodeText("short"))
	}
}
