package framework

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrReportFinalized is returned by Aggregator.Record once the report has been finalized.
var ErrReportFinalized = errors.New("report has already been finalized")

// OutcomeSink receives outcomes as they are produced.
type OutcomeSink interface {
	Record(outcome Outcome) error
}

// Aggregator collects outcomes into a Report. Record is safe for concurrent use.
type Aggregator struct {
	report    Report
	finalized bool
	lock      sync.Mutex
}

// NewAggregator starts a new report with a fresh run ID.
func NewAggregator() *Aggregator {
	return &Aggregator{
		report: Report{
			RunID:   uuid.New().String(),
			Started: time.Now(),
		},
	}
}

// Record appends an outcome to the report.
func (a *Aggregator) Record(outcome Outcome) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.finalized {
		return ErrReportFinalized
	}
	a.report.Outcomes = append(a.report.Outcomes, outcome)
	a.report.Counts.add(outcome.Status)
	return nil
}

// Finalize closes the run and returns the report, with outcomes in the order they were
// recorded. Calling it again returns the same report.
func (a *Aggregator) Finalize() Report {
	a.lock.Lock()
	defer a.lock.Unlock()
	if !a.finalized {
		a.finalized = true
		a.report.Duration = time.Since(a.report.Started)
	}
	ret := a.report
	ret.Outcomes = append([]Outcome(nil), a.report.Outcomes...)
	return ret
}
