package content

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"trexport/common"
	"trexport/model"
	"trexport/selection"
	"trexport/testrail"
)

// Source is read side of TestRail API, see testrail.Client.
type Source interface {
	GetRun(ctx context.Context, runID int64) (*testrail.Run, error)
	GetTests(ctx context.Context, runID int64) ([]testrail.Test, error)
	GetResults(ctx context.Context, testID int64) ([]testrail.Result, error)
}

// ResolvedResult is relevant test result turned into segments.
type ResolvedResult struct {
	ID          int64
	Comment     []model.Segment
	Attachments []model.Segment
}

// TestContent is a test with all its relevant results resolved.
type TestContent struct {
	Test    testrail.Test
	Results []ResolvedResult
	// Failed is set when results could not be fetched.
	Failed bool
}

// Group is StatusGroup with resolved tests.
type Group struct {
	Status common.Status
	Tests  []*TestContent
}

// Content is everything needed to build document.
type Content struct {
	Run     *testrail.Run
	Summary Summary
	Groups  []Group
}

// Plan is run and selected tests before results are resolved.
type Plan struct {
	Run     *testrail.Run
	Tests   []testrail.Test
	Summary Summary
	Groups  []StatusGroup
}

// Load fetches run and its tests, applies selection, groups and summarizes
// selected tests. Any failure here is fatal for export.
func Load(ctx context.Context, src Source, runID int64, sel *selection.Set, log *zap.Logger) (*Plan, error) {
	run, err := src.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("unable to get run %d: %w", runID, err)
	}
	all, err := src.GetTests(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("unable to get tests of run %d: %w", runID, err)
	}

	tests := make([]testrail.Test, 0, len(all))
	for _, t := range all {
		if sel.Includes(int(t.ID)) {
			tests = append(tests, t)
		}
	}
	if ids := sel.IDs(); len(ids) > 0 {
		for _, id := range ids {
			if !slices.ContainsFunc(tests, func(t testrail.Test) bool { return t.ID == int64(id) }) {
				log.Warn("Requested test is not part of the run", zap.Int64("run", runID), zap.Int("test", id))
			}
		}
	}
	log.Debug("Tests selected", zap.Int64("run", runID), zap.Int("total", len(all)), zap.Int("selected", len(tests)), zap.Stringer("selection", sel))

	return &Plan{
		Run:     run,
		Tests:   tests,
		Summary: Summarize(tests),
		Groups:  GroupByStatus(tests),
	}, nil
}

// Resolver resolves results of a single test.
type Resolver struct {
	src     Source
	fetcher Fetcher
	opts    Options
	log     *zap.Logger
}

func NewResolver(src Source, fetcher Fetcher, opts Options, log *zap.Logger) *Resolver {
	return &Resolver{src: src, fetcher: fetcher, opts: opts, log: log}
}

// Resolve fetches test results and converts relevant ones into segments.
// Failure to fetch results is logged and reported through TestContent.Failed.
func (r *Resolver) Resolve(ctx context.Context, test testrail.Test) *TestContent {
	tc := &TestContent{Test: test}
	log := r.log.With(zap.Int64("test", test.ID))

	results, err := r.src.GetResults(ctx, test.ID)
	if err != nil {
		r.opts.Problems.resultsFailed()
		log.Warn("Unable to get test results", zap.Error(err))
		tc.Failed = true
		return tc
	}
	for _, res := range SelectRelevantResults(results) {
		rlog := log.With(zap.Int64("result", res.ID))
		tc.Results = append(tc.Results, ResolvedResult{
			ID:          res.ID,
			Comment:     Interleave(ctx, res.Comment, r.fetcher, r.opts, rlog),
			Attachments: RenderAttachments(ctx, res.AttachmentRefs(), r.fetcher, r.opts, rlog),
		})
	}
	return tc
}

// Prepare loads run and resolves every selected test, see Load and
// Resolver.ResolveAll.
func Prepare(ctx context.Context, src Source, fetcher Fetcher, runID int64, sel *selection.Set, opts Options, log *zap.Logger) (*Content, error) {
	plan, err := Load(ctx, src, runID, sel, log)
	if err != nil {
		return nil, err
	}
	return NewResolver(src, fetcher, opts, log).ResolveAll(ctx, plan)
}

// ResolveAll resolves every test of the plan. Tests are resolved in
// parallel, each task owns its slot so document order does not depend on
// completion order.
func (r *Resolver) ResolveAll(ctx context.Context, plan *Plan) (*Content, error) {
	c := &Content{Run: plan.Run, Summary: plan.Summary}
	var slots []*TestContent
	for _, sg := range plan.Groups {
		g := Group{Status: sg.Status}
		for _, t := range sg.Tests {
			tc := &TestContent{Test: t}
			g.Tests = append(g.Tests, tc)
			slots = append(slots, tc)
		}
		c.Groups = append(c.Groups, g)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.opts.Concurrency, 1))
	for _, slot := range slots {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			*slot = *r.Resolve(gctx, slot.Test)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolving tests of run %d: %w", plan.Run.ID, err)
	}
	return c, nil
}
