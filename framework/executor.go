package framework

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
)

const (
	skipReasonDisabled  = "disabled"
	skipReasonCancelled = "run cancelled"
	skipReasonFailFast  = "not run: fail-fast"
)

// Executor runs test units and produces their outcomes.
type Executor struct {
	// Policy controls whether a test keeps running after a failed assertion.
	Policy FailurePolicy
	// FailFast stops starting new units after the first failed or errored one.
	FailFast bool
	// Workers is the number of units run at once; 0 or 1 means sequential.
	Workers int
	// TestLogger receives progress events; it may be nil.
	TestLogger TestLogger
	// DebugLogger receives harness-level debug messages; it may be nil.
	DebugLogger Logger
}

func (e *Executor) testLogger() TestLogger {
	if e.TestLogger == nil {
		return NullTestLogger()
	}
	return e.TestLogger
}

func (e *Executor) debugLogger() Logger {
	if e.DebugLogger == nil {
		return NullLogger()
	}
	return e.DebugLogger
}

// Run executes a single unit and returns its outcome. A disabled unit is reported as
// skipped without its fixture being created. No panic from the unit, its fixture setup or
// its teardown escapes Run.
func (e *Executor) Run(unit *TestUnit) Outcome {
	return e.runUnit(0, unit)
}

func (e *Executor) runUnit(index int, unit *TestUnit) Outcome {
	logger := e.testLogger()
	if unit.disabled {
		reason := unit.disabledReason
		if reason == "" {
			reason = skipReasonDisabled
		}
		logger.TestSkipped(unit.id, reason)
		return Outcome{ID: unit.id, Index: index, Status: StatusSkipped, SkipReason: reason}
	}

	logger.TestStarted(unit.id)
	e.debugLogger().Printf("Running %s", unit.id)
	started := time.Now()

	t := newT(unit.id, e.Policy, logger)
	ferr := WithFixture(unit.fixture, func(state interface{}) {
		t.fixture = state
		t.run(unit.action)
	})

	outcome := t.outcome()
	var fe *FixtureError
	if errors.As(ferr, &fe) {
		switch fe.Phase {
		case FixtureSetup:
			outcome.Status = StatusErrored
			outcome.Fault = fe.fault()
			logger.TestError(unit.id, fe)
		case FixtureTeardown:
			outcome.TeardownFault = fe.fault()
			logger.TestError(unit.id, fe)
		}
	}
	outcome.Index = index
	outcome.Duration = time.Since(started)

	if outcome.Status == StatusSkipped {
		logger.TestSkipped(unit.id, outcome.SkipReason)
	} else {
		logger.TestFinished(outcome)
	}
	return outcome
}

// RunAll executes the units in order, sending each outcome to sink as soon as it is
// available. Cancelling ctx, or a failure when FailFast is set, stops new units from
// starting; units that were not started are recorded as skipped. A unit that has
// started always runs to completion, including its teardown.
//
// RunAll returns ctx.Err() if the run was cancelled, or the first error from sink.
func (e *Executor) RunAll(ctx context.Context, units []*TestUnit, sink OutcomeSink) error {
	if e.Workers > 1 {
		return e.runParallel(ctx, units, sink)
	}
	var stopReason string
	for i, u := range units {
		if stopReason == "" {
			stopReason = e.stopReason(ctx, false)
		}
		var o Outcome
		if stopReason != "" {
			o = e.notRun(i, u, stopReason)
		} else {
			o = e.runUnit(i, u)
			if e.FailFast && !o.OK() {
				stopReason = skipReasonFailFast
			}
		}
		if err := sink.Record(o); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (e *Executor) runParallel(ctx context.Context, units []*TestUnit, sink OutcomeSink) error {
	var failed atomic.Bool
	var sinkErr error // only accessed under the queue's lock, or after Wait
	queue := newOutcomeSortingQueue(func(o Outcome) {
		if err := sink.Record(o); err != nil && sinkErr == nil {
			sinkErr = err
		}
	})

	p := pool.New().WithMaxGoroutines(e.Workers)
	for i, u := range units {
		i, u := i, u
		p.Go(func() {
			if reason := e.stopReason(ctx, failed.Load()); reason != "" {
				queue.Accept(e.notRun(i, u, reason))
				return
			}
			o := e.runUnit(i, u)
			if !o.OK() {
				failed.Store(true)
			}
			queue.Accept(o)
		})
	}
	p.Wait()

	if sinkErr != nil {
		return sinkErr
	}
	return ctx.Err()
}

func (e *Executor) stopReason(ctx context.Context, failed bool) string {
	if ctx.Err() != nil {
		return skipReasonCancelled
	}
	if e.FailFast && failed {
		return skipReasonFailFast
	}
	return ""
}

func (e *Executor) notRun(index int, unit *TestUnit, reason string) Outcome {
	e.testLogger().TestSkipped(unit.id, reason)
	return Outcome{ID: unit.id, Index: index, Status: StatusSkipped, SkipReason: reason}
}
