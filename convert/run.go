package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"trexport/assets"
	"trexport/common"
	"trexport/content"
	"trexport/convert/docx"
	"trexport/images"
	"trexport/selection"
	"trexport/state"
	"trexport/testrail"
)

// ErrProblems is returned in strict mode when document was written but some
// results or images were skipped.
var ErrProblems = errors.New("export completed with problems")

// request describes single export independently of CLI framework.
type request struct {
	runID int64
	sel   *selection.Set
	dst   string
	mode  common.ExportMode
}

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)

	req := request{runID: cmd.Int64("run"), mode: env.Cfg.Export.Mode}
	if req.runID <= 0 {
		return errors.New("positive test run id must be specified with --run")
	}
	log := env.RunLogger(req.runID)
	if req.sel, err = selection.New(cmd.String("tests"), cmd.String("exclude")); err != nil {
		return fmt.Errorf("unable to parse test selection: %w", err)
	}
	if cmd.Bool("stream") {
		req.mode = common.ExportModeStream
	}

	req.dst = cmd.Args().Get(0)
	if len(req.dst) == 0 {
		if req.dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if req.dst, err = filepath.Abs(req.dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	env.Overwrite, env.Strict = cmd.Bool("overwrite"), cmd.Bool("strict")

	log.Info("Export starting",
		zap.Stringer("tests", req.sel), zap.Stringer("mode", req.mode), zap.String("destination", req.dst))
	defer func(start time.Time) {
		log.Info("Export completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return export(ctx, env, req, log)
}

// export produces document for a single run. Document is written to a
// temporary file next to the destination and moved into place only when
// complete.
func export(ctx context.Context, env *state.LocalEnv, req request, log *zap.Logger) (rerr error) {
	cfg := &env.Cfg.Export

	client, err := testrail.NewClient(&env.Cfg.TestRail, log)
	if err != nil {
		return err
	}
	fetcher, err := assets.NewFetcher(client, &cfg.Cache, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			log.Warn("Unable to close asset cache", zap.Error(err))
			return
		}
		if cfg.Cache.Directory == "" {
			return
		}
		// index is closed and checkpointed now
		if err := env.Rpt.StoreCopy("cache/"+assets.IndexName, filepath.Join(cfg.Cache.Directory, assets.IndexName)); err != nil {
			log.Debug("Unable to store cache index in report", zap.Error(err))
		}
	}()

	var (
		outputName, tmpName string
		w                   *docx.Writer
	)
	defer func() {
		// NOTE: image decoders are fed with whatever attachments users
		// uploaded, we want proper cleanup and a log record on panic.
		if r := recover(); r != nil {
			log.Error("Export ended with panic", zap.Any("panic", r), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("export panic: %v", r)
		}
		if rerr == nil {
			return
		}
		if w != nil {
			w.Abort()
		}
		if tmpName != "" {
			os.Remove(tmpName)
		}
	}()

	plan, err := content.Load(ctx, client, req.runID, req.sel, log)
	if err != nil {
		return err
	}

	generated := env.Started()
	builder := NewBuilder(cfg.Fonts, generated)
	problems := &content.Problems{}
	resolver := content.NewResolver(client, fetcher, content.Options{
		MaxWidth: cfg.MaxImageWidth,
		Images: images.Options{
			MaxWidth:    cfg.MaxImageWidth,
			Downscale:   cfg.Images.Downscale,
			JPEGQuality: cfg.Images.JPEGQuality,
		},
		TextStyle:   builder.CommentStyle(),
		Concurrency: cfg.Concurrency,
		Problems:    problems,
	}, log)

	outputName = buildOutputPath(plan.Run, req.dst, cfg, generated, log)
	if err := prepareOutput(outputName, env.Overwrite, log); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(outputName), "."+strings.TrimSuffix(filepath.Base(outputName), outputExt)+"-*"+outputExt)
	if err != nil {
		return fmt.Errorf("unable to create temporary output: %w", err)
	}
	tmpName = tmp.Name()
	tmp.Close()

	w, err = docx.Create(tmpName, docx.Options{Font: cfg.Fonts.Body, FixZip: cfg.FixZip}, log)
	if err != nil {
		return err
	}

	switch req.mode {
	case common.ExportModeStream:
		err = builder.Stream(ctx, plan, resolver, w)
	default:
		err = buildDocument(ctx, env, plan, resolver, builder, w)
	}
	if err != nil {
		return fmt.Errorf("unable to generate document for run %d: %w", req.runID, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}
	if err := os.Rename(tmpName, outputName); err != nil {
		return fmt.Errorf("unable to move document into place: %w", err)
	}

	// Store export result for debugging
	env.Rpt.Store(fmt.Sprintf("result-%d%s", req.runID, outputExt), outputName)

	downloaded, reused := fetcher.Stats()
	log.Info("Document written",
		zap.String("to", outputName),
		zap.Int("tests", plan.Summary.Total),
		zap.Int64("downloaded", downloaded),
		zap.Int64("reused", reused),
		zap.Int64("failed results", problems.Results()),
		zap.Int64("skipped images", problems.Images()))

	if env.Strict && problems.Total() > 0 {
		return fmt.Errorf("%w: %d failed results, %d skipped images", ErrProblems, problems.Results(), problems.Images())
	}
	return nil
}

// buildDocument resolves all tests in parallel, composes document model in
// memory and renders it to sink.
func buildDocument(ctx context.Context, env *state.LocalEnv, plan *content.Plan, resolver *content.Resolver, builder *Builder, w *docx.Writer) error {
	c, err := resolver.ResolveAll(ctx, plan)
	if err != nil {
		return err
	}
	doc := builder.Build(c)
	if env.Rpt.Enabled() {
		env.Rpt.StoreData(fmt.Sprintf("content-%d.txt", plan.Run.ID), []byte(c.String()))
		env.Rpt.StoreData(fmt.Sprintf("document-%d.txt", plan.Run.ID), []byte(doc.Dump()))
	}
	return doc.Render(w)
}

// prepareOutput refuses to touch existing file unless overwrite was requested
// and makes sure output directory exists.
func prepareOutput(outputName string, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(outputName); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}
