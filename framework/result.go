package framework

import (
	"fmt"
	"strings"
	"time"
)

// TestID identifies a registered test unit by its suite and case name.
type TestID struct {
	Suite string
	Case  string
}

func (t TestID) String() string {
	return t.Suite + "." + t.Case
}

// ParseTestID splits a "suite.case" identifier. The case name is everything after the
// first dot, so case names may themselves contain dots.
func ParseTestID(s string) (TestID, error) {
	dot := strings.Index(s, ".")
	if dot <= 0 || dot == len(s)-1 {
		return TestID{}, fmt.Errorf("invalid test identifier %q, expected suite.case", s)
	}
	return TestID{Suite: s[:dot], Case: s[dot+1:]}, nil
}

// Status is the classification of one test outcome.
type Status string

const (
	StatusPassed  Status = "PASS"
	StatusFailed  Status = "FAIL"
	StatusErrored Status = "ERROR"
	StatusSkipped Status = "SKIP"
)

// Outcome is the result of executing, or skipping, one test unit.
type Outcome struct {
	ID TestID
	// Index is the position of the unit in the selected sequence.
	Index      int
	Status     Status
	Failures   []Failure
	Fault      *Fault
	SkipReason string
	// TeardownFault is set when the fixture teardown failed. It never changes Status.
	TeardownFault *Fault
	Duration      time.Duration
	DebugOutput   CapturedOutput
}

// OK is true if the outcome does not count against the run.
func (o Outcome) OK() bool {
	return o.Status == StatusPassed || o.Status == StatusSkipped
}

// Counts are the summary totals of a Report.
type Counts struct {
	Total   int
	Passed  int
	Failed  int
	Errored int
	Skipped int
}

func (c *Counts) add(s Status) {
	c.Total++
	switch s {
	case StatusPassed:
		c.Passed++
	case StatusFailed:
		c.Failed++
	case StatusErrored:
		c.Errored++
	case StatusSkipped:
		c.Skipped++
	}
}

func (c Counts) String() string {
	return fmt.Sprintf("%d passed, %d failed, %d errored, %d skipped, %d total",
		c.Passed, c.Failed, c.Errored, c.Skipped, c.Total)
}

// Report is the aggregate of all outcomes for one run.
type Report struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Counts   Counts
	Outcomes []Outcome
}

// OK is true if the run had no failed and no errored tests.
func (r Report) OK() bool {
	return r.Counts.Failed == 0 && r.Counts.Errored == 0
}

// NotPassed returns the outcomes that were failed or errored, in report order.
func (r Report) NotPassed() []Outcome {
	var ret []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			ret = append(ret, o)
		}
	}
	return ret
}
