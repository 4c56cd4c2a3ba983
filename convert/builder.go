package convert

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"trexport/common"
	"trexport/config"
	"trexport/content"
	"trexport/model"
	"trexport/testrail"
)

// Font sizes in half-points and spacing in twips.
const (
	sizeCoverTitle = 48
	sizeCoverLine  = 24
	sizeStatus     = 28
	sizeTestTitle  = 30
	sizeResult     = 24
	sizeComment    = 22

	spaceSmall  = 100
	spaceNormal = 200
	spaceLarge  = 300

	documentCreator     = "TestRail Exporter"
	documentDescription = "Exported test run from TestRail"
)

// Builder composes document from resolved content. One Builder is used per
// export.
type Builder struct {
	fonts     config.FontsConfig
	generated time.Time
}

func NewBuilder(fonts config.FontsConfig, generated time.Time) *Builder {
	return &Builder{fonts: fonts, generated: generated}
}

// CommentStyle is style of comment text, resolver uses it for text segments.
func (b *Builder) CommentStyle() model.Style {
	return model.Style{Size: sizeComment}
}

// Build composes complete document: cover section followed by section with
// tests grouped by status.
func (b *Builder) Build(c *content.Content) *model.Document {
	doc := &model.Document{Meta: b.meta(c.Run)}
	doc.AddSection().Add(b.cover(c.Run, c.Summary)...)

	body := doc.AddSection()
	for _, g := range c.Groups {
		body.Add(b.statusHeading(g.Status))
		for _, tc := range g.Tests {
			body.Add(b.test(tc)...)
		}
	}
	return doc
}

// Stream produces the same document as Build but resolves tests one at a
// time sending blocks to sink as soon as they are ready.
func (b *Builder) Stream(ctx context.Context, plan *content.Plan, resolver *content.Resolver, sink model.Sink) error {
	if err := sink.Begin(b.meta(plan.Run)); err != nil {
		return err
	}
	if err := sink.AppendSection(); err != nil {
		return err
	}
	if err := model.Emit(sink, b.cover(plan.Run, plan.Summary)...); err != nil {
		return fmt.Errorf("cover: %w", err)
	}
	if err := sink.AppendSection(); err != nil {
		return err
	}
	for _, g := range plan.Groups {
		if err := model.Emit(sink, b.statusHeading(g.Status)); err != nil {
			return err
		}
		for _, t := range g.Tests {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := model.Emit(sink, b.test(resolver.Resolve(ctx, t))...); err != nil {
				return fmt.Errorf("test %d: %w", t.ID, err)
			}
		}
	}
	return ctx.Err()
}

func (b *Builder) meta(run *testrail.Run) model.Meta {
	return model.Meta{
		Title:       fmt.Sprintf("Test Run %d Export", run.ID),
		Creator:     documentCreator,
		Description: documentDescription,
		Created:     b.generated,
	}
}

func (b *Builder) line(text string, size int, bold bool) *model.Paragraph {
	return &model.Paragraph{
		SpacingAfter: spaceNormal,
		Segments: []model.Segment{
			model.Text{Content: text, Style: model.Style{Size: size, Bold: bold, Font: b.fonts.Body}},
		},
	}
}

func (b *Builder) cover(run *testrail.Run, s content.Summary) []model.Block {
	refs := run.Refs
	if refs == "" {
		refs = "N/A"
	}
	return []model.Block{
		&model.Paragraph{
			Align:    model.AlignCenter,
			Segments: []model.Segment{model.Text{Content: run.Name, Style: model.Style{Size: sizeCoverTitle, Bold: true}}},
		},
		&model.Paragraph{SpacingAfter: spaceLarge},
		b.line(fmt.Sprintf("Run ID: %d", run.ID), sizeCoverLine, false),
		b.line("Test Run Name: "+run.Name, sizeCoverLine, false),
		b.line("Associated JIRA: "+refs, sizeCoverLine, false),
		b.line("Generated On: "+b.generated.Format("2006-01-02 15:04:05"), sizeCoverLine, false),
		b.line(fmt.Sprintf("Total Tests: %d", s.Total), sizeCoverLine, false),
		b.line(fmt.Sprintf("Passed: %d (%s%%)", s.Passed, formatPercent(s)), sizeCoverLine, false),
	}
}

// formatPercent shows one decimal place, run without tests shows plain 0.
func formatPercent(s content.Summary) string {
	if s.Total == 0 {
		return "0"
	}
	return strconv.FormatFloat(s.PassedPercent, 'f', 1, 64)
}

func (b *Builder) statusHeading(s common.Status) *model.Paragraph {
	return b.line("Status: "+s.String(), sizeStatus, true)
}

func (b *Builder) test(tc *content.TestContent) []model.Block {
	status := tc.Test.Status()
	blocks := []model.Block{
		&model.Paragraph{
			Align:        model.AlignCenter,
			SpacingAfter: spaceSmall,
			Segments: []model.Segment{
				model.Text{Content: tc.Test.Title, Style: model.Style{Size: sizeTestTitle, Bold: true, Font: b.fonts.Heading}},
			},
		},
		&model.Paragraph{Rule: true, SpacingAfter: spaceLarge},
		&model.Table{Rows: []model.Row{
			{Label: "Title", Value: tc.Test.Title, Fill: status.Color()},
			{Label: "Test ID", Value: strconv.FormatInt(tc.Test.ID, 10), Fill: status.Color()},
			{Label: "Status", Value: status.String(), Fill: status.Color()},
		}},
	}

	for i, r := range tc.Results {
		blocks = append(blocks, b.line(fmt.Sprintf("Result %d", i+1), sizeResult, true))
		for _, seg := range r.Comment {
			blocks = append(blocks, segmentParagraph(seg))
		}
		for _, seg := range r.Attachments {
			blocks = append(blocks, segmentParagraph(seg))
		}
		blocks = append(blocks, &model.Paragraph{SpacingAfter: spaceLarge})
	}
	return append(blocks, &model.Paragraph{})
}

// segmentParagraph puts every comment piece into own paragraph, text gets
// tighter spacing than images.
func segmentParagraph(seg model.Segment) *model.Paragraph {
	after := spaceNormal
	if _, ok := seg.(model.Text); ok {
		after = spaceSmall
	}
	return &model.Paragraph{SpacingAfter: after, Segments: []model.Segment{seg}}
}
