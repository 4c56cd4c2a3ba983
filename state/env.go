// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"trexport/config"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// export subcommand switches
	Overwrite bool
	Strict    bool

	started     time.Time
	releaseFunc func()
}

// ContextWithEnv attaches fresh environment to ctx. Until configuration is
// loaded logger discards everything.
func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &LocalEnv{Log: zap.NewNop(), started: time.Now()})
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	env, ok := ctx.Value(envKey{}).(*LocalEnv)
	if !ok {
		panic("program environment is missing from context")
	}
	return env
}

// Started is the moment program started, every document produced by this
// invocation carries it as generation time.
func (e *LocalEnv) Started() time.Time {
	return e.started
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.started)
}

// RunLogger returns logger for everything related to a single test run.
func (e *LocalEnv) RunLogger(runID int64) *zap.Logger {
	return e.Log.Named("export").With(zap.Int64("run", runID))
}

// CaptureStdLog sends output of standard library logger (net/http for
// example) to our log.
func (e *LocalEnv) CaptureStdLog() {
	if e.Log == nil || e.releaseFunc != nil {
		return
	}
	e.releaseFunc = zap.RedirectStdLog(e.Log)
}

// ReleaseStdLog flushes log and returns standard library logger to its
// previous state.
func (e *LocalEnv) ReleaseStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.releaseFunc != nil {
		e.releaseFunc()
		e.releaseFunc = nil
	}
}
