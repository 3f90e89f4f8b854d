package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/launchdarkly/unit-test-harness/framework"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

var (
	errorColor   = color.New(color.FgRed)
	failedColor  = color.New(color.FgRed, color.Bold)
	skippedColor = color.New(color.FgYellow)
)

// ConsoleTestLogger prints progress for each test as it runs.
type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
	// ProblemsOnly suppresses the start and skip lines, for use alongside a progress bar.
	ProblemsOnly bool
	lock         sync.Mutex
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	if c.ProblemsOnly {
		return
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, line := range strings.Split(err.Error(), "\n") {
		errorColor.Fprintf(c.Out, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(outcome framework.Outcome) {
	c.lock.Lock()
	defer c.lock.Unlock()
	failed := !outcome.OK()
	switch outcome.Status {
	case framework.StatusFailed:
		failedColor.Fprintf(c.Out, "  FAILED: %s\n", outcome.ID)
	case framework.StatusErrored:
		failedColor.Fprintf(c.Out, "  ERRORED: %s\n", outcome.ID)
	}
	if len(outcome.DebugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		outcome.DebugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if c.ProblemsOnly {
		return
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	if reason == "" {
		skippedColor.Fprintf(c.Out, "  SKIPPED: %s\n", id)
	} else {
		skippedColor.Fprintf(c.Out, "  SKIPPED: %s (%s)\n", id, reason)
	}
}

// ProgressTestLogger shows a progress bar that advances as each test finishes.
type ProgressTestLogger struct {
	bar *progressbar.ProgressBar
}

func NewProgressTestLogger(out io.Writer, total int) *ProgressTestLogger {
	return &ProgressTestLogger{
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("Running tests"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionClearOnFinish(),
		),
	}
}

func (p *ProgressTestLogger) TestStarted(id framework.TestID) {
	p.bar.Describe(id.String())
}

func (p *ProgressTestLogger) TestError(framework.TestID, error) {}

func (p *ProgressTestLogger) TestFinished(framework.Outcome) {
	_ = p.bar.Add(1)
}

func (p *ProgressTestLogger) TestSkipped(framework.TestID, string) {
	_ = p.bar.Add(1)
}

func (p *ProgressTestLogger) Finish() {
	_ = p.bar.Finish()
}
