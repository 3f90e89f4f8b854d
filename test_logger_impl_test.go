package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/launchdarkly/unit-test-harness/framework"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestConsoleTestLogger(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	c := &ConsoleTestLogger{Out: &buf, DebugOutputOnFailure: true}
	id := framework.TestID{Suite: "S", Case: "c"}

	c.TestStarted(id)
	c.TestError(id, errors.New("line 1\nline 2"))
	c.TestFinished(framework.Outcome{
		ID:          id,
		Status:      framework.StatusFailed,
		DebugOutput: framework.CapturedOutput{{Message: "dbg"}},
	})
	c.TestSkipped(framework.TestID{Suite: "S", Case: "d"}, "disabled")

	out := buf.String()
	assert.Contains(t, out, "[S.c]\n  line 1\n  line 2\n  FAILED: S.c\n")
	assert.Contains(t, out, "DEBUG ")
	assert.Contains(t, out, "dbg\n")
	assert.Contains(t, out, "  SKIPPED: S.d (disabled)\n")
}

func TestConsoleTestLoggerProblemsOnly(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	c := &ConsoleTestLogger{Out: &buf, ProblemsOnly: true}
	id := framework.TestID{Suite: "S", Case: "c"}

	c.TestStarted(id)
	c.TestSkipped(id, "")
	c.TestFinished(framework.Outcome{ID: id, Status: framework.StatusPassed})
	assert.Equal(t, "", buf.String())

	c.TestFinished(framework.Outcome{ID: id, Status: framework.StatusErrored})
	assert.Equal(t, "  ERRORED: S.c\n", buf.String())
}

func TestRunWithProgressBar(t *testing.T) {
	code, out, errOut := runCommand(t, "run", "--progress")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "2 passed, 2 failed, 2 errored, 1 skipped, 7 total\n")
	assert.Contains(t, errOut, "FAILED: FooTest.test_failure")
	assert.NotContains(t, errOut, "[FooTest.test_success]")
}
