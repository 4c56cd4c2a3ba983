package content

import (
	"strings"
	"testing"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    []string
	}{
		{"empty", "", nil},
		{"text only", "all good", []string{"text:all good"}},
		{"marker only", marker("1"), []string{"marker:index.php?/attachments/get/1"}},
		{
			"interleaved",
			"See " + marker("1") + " and " + marker("2") + " done",
			[]string{"text:See ", "marker:index.php?/attachments/get/1", "text: and ", "marker:index.php?/attachments/get/2", "text: done"},
		},
		{
			"adjacent markers",
			marker("a") + marker("b"),
			[]string{"marker:index.php?/attachments/get/a", "marker:index.php?/attachments/get/b"},
		},
		{
			"not a marker",
			"![alt](index.php?/attachments/get/1) ![](http://example.com/x.png)",
			[]string{"text:![alt](index.php?/attachments/get/1) ![](http://example.com/x.png)"},
		},
		{"unterminated", "![](index.php?/attachments/get/1", []string{"text:![](index.php?/attachments/get/1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			var rebuilt strings.Builder
			for tok := range Tokens(tt.comment) {
				if tok.Kind == TokenMarker {
					got = append(got, "marker:"+tok.Ref)
				} else {
					got = append(got, "text:"+tt.comment[tok.Start:tok.End])
				}
				rebuilt.WriteString(tt.comment[tok.Start:tok.End])
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Tokens() = %q, want %q", got, tt.want)
			}
			if rebuilt.String() != tt.comment {
				t.Errorf("tokens do not cover comment: %q", rebuilt.String())
			}
		})
	}
}

func TestTokens_Restartable(t *testing.T) {
	seq := Tokens("a " + marker("1") + " b")

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if first, second := count(), count(); first != 3 || second != 3 {
		t.Errorf("iterations produced %d and %d tokens, want 3 and 3", first, second)
	}

	for tok := range seq {
		if tok.Kind != TokenText {
			t.Errorf("first token kind = %v", tok.Kind)
		}
		break
	}
}
