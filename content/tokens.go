// Package content turns TestRail run data into ordered document segments:
// comments are split into text and inline images, attachments are rendered
// and tests are grouped and resolved.
package content

import (
	"iter"
	"regexp"
)

type TokenKind int

const (
	TokenText TokenKind = iota
	TokenMarker
)

func (k TokenKind) String() string {
	if k == TokenMarker {
		return "marker"
	}
	return "text"
}

// Token is a piece of comment. Start and End are byte offsets into comment,
// Ref is marker target for TokenMarker.
type Token struct {
	Kind  TokenKind
	Start int
	End   int
	Ref   string
}

// markerRe matches inline image markers TestRail puts into comments:
// ![](index.php?/attachments/get/<id>)
var markerRe = regexp.MustCompile(`!\[\]\((index\.php\?/attachments/get/[^)]+)\)`)

// Tokens splits comment into alternating text and marker tokens in source
// order. Text tokens are never empty, concatenating all tokens restores
// comment. Sequence is lazy and may be iterated any number of times.
func Tokens(comment string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		pos := 0
		for pos < len(comment) {
			m := markerRe.FindStringSubmatchIndex(comment[pos:])
			if m == nil {
				break
			}
			start, end := pos+m[0], pos+m[1]
			if start > pos {
				if !yield(Token{Kind: TokenText, Start: pos, End: start}) {
					return
				}
			}
			if !yield(Token{Kind: TokenMarker, Start: start, End: end, Ref: comment[pos+m[2] : pos+m[3]]}) {
				return
			}
			pos = end
		}
		if pos < len(comment) {
			yield(Token{Kind: TokenText, Start: pos, End: len(comment)})
		}
	}
}
