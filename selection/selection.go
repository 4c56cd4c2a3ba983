// Package selection resolves test range expressions such as "1-5,7,10-12"
// given on the command line into test id sets.
package selection

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// maxSpan limits single range expansion, protects against typos like "1-9999999999".
const maxSpan = 1_000_000

// SyntaxError reports malformed range expression.
type SyntaxError struct {
	Expr   string
	Part   string
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("bad test range expression %q: %s", e.Expr, e.Reason)
	}
	return fmt.Sprintf("bad test range expression %q at %q: %s", e.Expr, e.Part, e.Reason)
}

// Parse converts expression of the form item(-item)?(,item(-item)?)* into
// sorted list of unique ids. Whitespace around items is ignored. Empty
// expression results in empty list.
func Parse(expr string) ([]int, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	var ids []int
	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, &SyntaxError{Expr: expr, Reason: "empty item"}
		}

		lo, hi, isRange := strings.Cut(part, "-")
		start, err := parseItem(expr, part, lo)
		if err != nil {
			return nil, err
		}
		if !isRange {
			ids = append(ids, start)
			continue
		}
		end, err := parseItem(expr, part, hi)
		if err != nil {
			return nil, err
		}
		if end < start {
			return nil, &SyntaxError{Expr: expr, Part: part, Reason: "range end is less than start"}
		}
		if end-start >= maxSpan {
			return nil, &SyntaxError{Expr: expr, Part: part, Reason: "range is too wide"}
		}
		for id := start; id <= end; id++ {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

func parseItem(expr, part, item string) (int, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return 0, &SyntaxError{Expr: expr, Part: part, Reason: "missing number"}
	}
	n, err := strconv.Atoi(item)
	if err != nil {
		return 0, &SyntaxError{Expr: expr, Part: part, Reason: "not a number"}
	}
	if n <= 0 {
		return 0, &SyntaxError{Expr: expr, Part: part, Reason: "ids must be positive"}
	}
	return n, nil
}

// Set is the result of combining inclusion and exclusion expressions. When
// no inclusion expression was given every id is included unless excluded.
type Set struct {
	include []int
	exclude []int
}

// New builds Set from "--tests" and "--exclude" expressions.
func New(tests, exclude string) (*Set, error) {
	inc, err := Parse(tests)
	if err != nil {
		return nil, err
	}
	exc, err := Parse(exclude)
	if err != nil {
		return nil, err
	}
	return &Set{include: inc, exclude: exc}, nil
}

// All reports whether Set selects every id not explicitly excluded.
func (s *Set) All() bool {
	return s == nil || len(s.include) == 0
}

// Includes checks if id is selected.
func (s *Set) Includes(id int) bool {
	if s == nil {
		return true
	}
	if _, found := slices.BinarySearch(s.exclude, id); found {
		return false
	}
	if len(s.include) == 0 {
		return true
	}
	_, found := slices.BinarySearch(s.include, id)
	return found
}

// IDs returns explicitly selected ids in ascending order with exclusions
// removed. It returns nil when Set is not explicit (see All).
func (s *Set) IDs() []int {
	if s.All() {
		return nil
	}
	out := make([]int, 0, len(s.include))
	for _, id := range s.include {
		if s.Includes(id) {
			out = append(out, id)
		}
	}
	return out
}

// Excluded returns excluded ids in ascending order.
func (s *Set) Excluded() []int {
	if s == nil {
		return nil
	}
	return slices.Clone(s.exclude)
}

func (s *Set) String() string {
	if s == nil {
		return "all"
	}
	var b strings.Builder
	if len(s.include) == 0 {
		b.WriteString("all")
	} else {
		b.WriteString(join(s.IDs()))
	}
	if len(s.exclude) > 0 {
		b.WriteString(" except ")
		b.WriteString(join(s.exclude))
	}
	return b.String()
}

func join(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
