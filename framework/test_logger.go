package framework

// TestLogger receives events as a run progresses. Implementations are called from the
// goroutine running the test, so in parallel mode they must be safe for concurrent use.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(outcome Outcome)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)         {}
func (n nullTestLogger) TestError(TestID, error)    {}
func (n nullTestLogger) TestFinished(Outcome)       {}
func (n nullTestLogger) TestSkipped(TestID, string) {}

// NullTestLogger returns a TestLogger that ignores all events.
func NullTestLogger() TestLogger { return nullTestLogger{} }

// MultiTestLogger sends every event to each of the loggers in turn.
type MultiTestLogger []TestLogger

func (m MultiTestLogger) TestStarted(id TestID) {
	for _, l := range m {
		l.TestStarted(id)
	}
}

func (m MultiTestLogger) TestError(id TestID, err error) {
	for _, l := range m {
		l.TestError(id, err)
	}
}

func (m MultiTestLogger) TestFinished(outcome Outcome) {
	for _, l := range m {
		l.TestFinished(outcome)
	}
}

func (m MultiTestLogger) TestSkipped(id TestID, reason string) {
	for _, l := range m {
		l.TestSkipped(id, reason)
	}
}
