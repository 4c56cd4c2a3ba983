package content

import (
	"sort"

	"github.com/maruel/natural"

	"trexport/model"
	"trexport/utils/debug"
)

// String dumps resolved content for debug report.
func (c *Content) String() string {
	tw := debug.NewTreeWriter()
	if c.Run != nil {
		tw.Line(0, "Run %d", c.Run.ID)
		tw.TextBlock(1, "Name", c.Run.Name)
		tw.TextBlock(1, "Refs", c.Run.Refs)
	}
	tw.Line(0, "Summary: total=%d passed=%d (%.1f%%)", c.Summary.Total, c.Summary.Passed, c.Summary.PassedPercent)

	images := make(map[string]int)
	for _, g := range c.Groups {
		tw.Line(0, "Group %s (%d)", g.Status, len(g.Tests))
		for _, tc := range g.Tests {
			tw.Line(1, "Test %d failed=%t results=%d", tc.Test.ID, tc.Failed, len(tc.Results))
			tw.TextBlock(2, "Title", tc.Test.Title)
			for _, r := range tc.Results {
				tw.Line(2, "Result %d: %d comment segments, %d attachments", r.ID, len(r.Comment), len(r.Attachments))
				for _, seg := range append(r.Comment[:len(r.Comment):len(r.Comment)], r.Attachments...) {
					if img, ok := seg.(model.Image); ok {
						images[img.SourceID]++
					}
				}
			}
		}
	}

	if len(images) > 0 {
		keys := make([]string, 0, len(images))
		for k := range images {
			keys = append(keys, k)
		}
		sort.Sort(natural.StringSlice(keys))
		tw.Line(0, "Images (%d)", len(keys))
		for _, k := range keys {
			tw.Line(1, "%s: used %d time(s)", k, images[k])
		}
	}
	return tw.String()
}
