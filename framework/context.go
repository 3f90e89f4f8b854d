package framework

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// FailurePolicy says what happens to the rest of a test after an assertion fails.
type FailurePolicy int

const (
	// ContinueOnFailure records the failure and keeps running the test, so that one
	// test can report several failures.
	ContinueOnFailure FailurePolicy = iota
	// StopOnFirstFailure records the failure and ends the test immediately.
	StopOnFirstFailure
)

// T is the context passed to a test action. It is used similarly to *testing.T, and
// implements require.TestingT so that testify's assert and require packages can be used
// against it: assert calls Errorf and the test continues, require also calls FailNow.
type T struct {
	id          TestID
	policy      FailurePolicy
	fixture     interface{}
	debugLogger CapturingLogger
	testLogger  TestLogger
	failures    []Failure
	fault       *Fault
	skipped     bool
	skipReason  string
	helpers     map[string]struct{}
	lock        sync.Mutex
}

// stopSignal is the panic value used by FailNow and Skip to unwind the test action.
type stopSignal struct {
	t *T
}

func newT(id TestID, policy FailurePolicy, testLogger TestLogger) *T {
	return &T{
		id:         id,
		policy:     policy,
		testLogger: testLogger,
		helpers:    make(map[string]struct{}),
	}
}

// run calls the action, converting any panic that is not one of our own stop signals
// into a fault.
func (t *T) run(action Action) {
	defer func() {
		if r := recover(); r != nil {
			if s, ok := r.(stopSignal); ok && s.t == t {
				return
			}
			fault := faultFromPanic(r, debug.Stack())
			t.lock.Lock()
			t.fault = fault
			t.lock.Unlock()
			t.testLogger.TestError(t.id, fault)
		}
	}()
	action(t)
}

// ID returns the identifier of the running test.
func (t *T) ID() TestID {
	return t.id
}

// Fixture returns the state created by the suite's fixture setup, or nil.
func (t *T) Fixture() interface{} {
	return t.fixture
}

// Helper marks the calling function as a helper, so that failures are reported at the
// location of its caller.
func (t *T) Helper() {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return
	}
	name := runtime.FuncForPC(pc).Name()
	t.lock.Lock()
	t.helpers[name] = struct{}{}
	t.lock.Unlock()
}

// Errorf records an assertion failure. Under StopOnFirstFailure it also ends the test.
func (t *T) Errorf(format string, args ...interface{}) {
	t.lock.Lock()
	location := findCallerLocation(2, t.helpers)
	f := newFailure(fmt.Sprintf(format, args...), location)
	t.failures = append(t.failures, f)
	t.lock.Unlock()
	t.testLogger.TestError(t.id, failureError{f})

	if t.policy == StopOnFirstFailure {
		t.FailNow()
	}
}

// Fail records a failure with no further description.
func (t *T) Fail() {
	t.Helper()
	t.Errorf("test failed")
}

// Failed is true if any failure has been recorded.
func (t *T) Failed() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.failures) != 0
}

// FailNow ends the test. If no failure was recorded yet, a generic one is added.
func (t *T) FailNow() {
	t.lock.Lock()
	if len(t.failures) == 0 {
		t.failures = append(t.failures, newFailure("test failed with no failure message",
			findCallerLocation(2, t.helpers)))
	}
	t.lock.Unlock()
	panic(stopSignal{t})
}

// Skip ends the test and reports it as skipped, unless it has already failed.
func (t *T) Skip() {
	t.lock.Lock()
	t.skipped = true
	t.lock.Unlock()
	panic(stopSignal{t})
}

// SkipWithReason is like Skip, with a reason shown in the report.
func (t *T) SkipWithReason(reason string) {
	t.lock.Lock()
	t.skipReason = reason
	t.lock.Unlock()
	t.Skip()
}

// Debug adds a message to the test's debug output, which is shown for failed tests
// when debug output is enabled.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

// DebugLogger returns a Logger that writes to the test's debug output.
func (t *T) DebugLogger() Logger {
	return &t.debugLogger
}

func (t *T) outcome() Outcome {
	t.lock.Lock()
	defer t.lock.Unlock()
	o := Outcome{
		ID:          t.id,
		Failures:    append([]Failure(nil), t.failures...),
		Fault:       t.fault,
		DebugOutput: t.debugLogger.Output(),
	}
	switch {
	case t.fault != nil:
		o.Status = StatusErrored
	case len(t.failures) != 0:
		o.Status = StatusFailed
	case t.skipped:
		o.Status = StatusSkipped
		o.SkipReason = t.skipReason
	default:
		o.Status = StatusPassed
	}
	return o
}

// failureError lets a Failure be passed to TestLogger.TestError.
type failureError struct {
	f Failure
}

func (e failureError) Error() string {
	if e.f.Location.IsKnown() {
		return e.f.Location.String() + ": " + e.f.Message
	}
	return e.f.Message
}
