package content

import (
	"math"
	"strings"

	"trexport/common"
	"trexport/testrail"
)

// StatusGroup is a set of tests sharing status, tests keep run order.
type StatusGroup struct {
	Status common.Status
	Tests  []testrail.Test
}

// GroupByStatus partitions tests by status in fixed order: Passed, Blocked,
// Untested, Retest, Failed, Unknown. Empty groups are omitted.
func GroupByStatus(tests []testrail.Test) []StatusGroup {
	buckets := make(map[common.Status][]testrail.Test)
	for _, t := range tests {
		s := t.Status()
		buckets[s] = append(buckets[s], t)
	}

	var groups []StatusGroup
	for _, s := range common.StatusValues() {
		if len(buckets[s]) == 0 {
			continue
		}
		groups = append(groups, StatusGroup{Status: s, Tests: buckets[s]})
	}
	return groups
}

// Summary is run level statistics shown on cover page.
type Summary struct {
	Total  int
	Passed int
	// PassedPercent is rounded to one decimal place.
	PassedPercent float64
}

func Summarize(tests []testrail.Test) Summary {
	s := Summary{Total: len(tests)}
	for _, t := range tests {
		if t.Status() == common.StatusPassed {
			s.Passed++
		}
	}
	if s.Total > 0 {
		s.PassedPercent = math.Round(float64(s.Passed)/float64(s.Total)*1000) / 10
	}
	return s
}

// SelectRelevantResults keeps results which have comment or attachments,
// order is preserved.
func SelectRelevantResults(results []testrail.Result) []testrail.Result {
	var out []testrail.Result
	for _, r := range results {
		if strings.TrimSpace(r.Comment) != "" || len(r.AttachmentRefs()) > 0 {
			out = append(out, r)
		}
	}
	return out
}
