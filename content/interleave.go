package content

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"trexport/assets"
	"trexport/images"
	"trexport/model"
	"trexport/testrail"
)

// Fetcher provides remote assets, see assets.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, ref assets.Ref) (*assets.Asset, error)
}

// Options controls how segments are produced.
type Options struct {
	// MaxWidth is maximum image display width in pixels.
	MaxWidth int
	// Images controls image normalization before embedding.
	Images images.Options
	// TextStyle is applied to comment text.
	TextStyle model.Style
	// Concurrency limits number of tests resolved in parallel by Prepare.
	Concurrency int
	// Problems, when set, counts skipped images and failed result requests.
	Problems *Problems
}

// Interleave converts comment into ordered text and image segments. Text
// between markers is trimmed and dropped when empty, otherwise kept verbatim. Markers which could not
// be turned into image are skipped. Resulting order always follows comment.
func Interleave(ctx context.Context, comment string, fetcher Fetcher, opts Options, log *zap.Logger) []model.Segment {
	var out []model.Segment
	for tok := range Tokens(comment) {
		if ctx.Err() != nil {
			break
		}
		switch tok.Kind {
		case TokenText:
			if text := strings.TrimSpace(comment[tok.Start:tok.End]); text != "" {
				out = append(out, model.Text{Content: text, Style: opts.TextStyle})
			}
		case TokenMarker:
			ref := assets.InlineRef(tok.Ref)
			img, err := resolveImage(ctx, ref, fetcher, opts)
			if err != nil {
				opts.Problems.imageSkipped()
				log.Warn("Skipping inline image", zap.Stringer("ref", ref), zap.Error(err))
				continue
			}
			out = append(out, img)
		}
	}
	return out
}

// RenderAttachments converts result attachments into image segments keeping
// list order. Attachments which are not images or could not be fetched are
// omitted.
func RenderAttachments(ctx context.Context, refs []testrail.AttachmentRef, fetcher Fetcher, opts Options, log *zap.Logger) []model.Segment {
	var out []model.Segment
	for _, r := range refs {
		if ctx.Err() != nil {
			break
		}
		ref := assets.AttachmentRef(r.ID)
		img, err := resolveImage(ctx, ref, fetcher, opts)
		if err != nil {
			opts.Problems.imageSkipped()
			log.Warn("Skipping attachment", zap.Stringer("ref", ref), zap.Error(err))
			continue
		}
		out = append(out, img)
	}
	return out
}

func resolveImage(ctx context.Context, ref assets.Ref, fetcher Fetcher, opts Options) (model.Image, error) {
	a, err := fetcher.Fetch(ctx, ref)
	if err != nil {
		return model.Image{}, err
	}
	if !a.IsImage {
		return model.Image{}, fmt.Errorf("%w: %s", assets.ErrNotImage, a.ContentType)
	}

	normOpts := opts.Images
	normOpts.MaxWidth = opts.MaxWidth
	data, mime, err := images.Normalize(a.Data, a.ContentType, normOpts)
	if err != nil {
		return model.Image{}, err
	}
	dim, err := images.Resolve(data)
	if err != nil {
		return model.Image{}, err
	}
	scaled, err := images.Scale(dim, opts.MaxWidth)
	if err != nil {
		return model.Image{}, err
	}
	return model.Image{
		SourceID: ref.ID,
		Width:    scaled.Width,
		Height:   scaled.Height,
		Data:     data,
		MimeType: mime,
	}, nil
}
