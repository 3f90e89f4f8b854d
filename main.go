package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/launchdarkly/unit-test-harness/config"
	"github.com/launchdarkly/unit-test-harness/foosuite"
	"github.com/launchdarkly/unit-test-harness/framework"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const programName = "unit-test-harness"

// errTestsFailed means the run completed but some tests failed or errored. It only
// affects the exit code; the details are already in the report.
var errTestsFailed = errors.New("some tests did not pass")

// errRunCancelled means the run was interrupted; it has already been reported.
var errRunCancelled = errors.New("test run was cancelled")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], foosuite.Register, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command line and returns the process exit code.
func execute(
	ctx context.Context,
	args []string,
	register func(*framework.Registry) error,
	stdout, stderr io.Writer,
) int {
	cmd := newRootCommand(register, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errTestsFailed) && !errors.Is(err, errRunCancelled) {
			fmt.Fprintf(stderr, "Error: %s\n", err)
		}
		return 1
	}
	return 0
}

func newRootCommand(register func(*framework.Registry) error, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           programName,
		Short:         "Run registered test suites and report the results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	var runParams commandParams
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the selected tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, &runParams, register, stdout, stderr)
		},
	}
	runParams.addRunFlags(runCmd.Flags())

	var listParams commandParams
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the selected tests without running them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, units, err := selectUnits(cmd, &listParams, register)
			if err != nil {
				return err
			}
			printList(stdout, units)
			return nil
		},
	}
	listParams.addSelectionFlags(listCmd.Flags())

	root.AddCommand(runCmd, listCmd)
	return root
}

func selectUnits(
	cmd *cobra.Command,
	params *commandParams,
	register func(*framework.Registry) error,
) (config.Config, []*framework.TestUnit, error) {
	cfg, err := params.resolve(cmd)
	if err != nil {
		return config.Config{}, nil, err
	}
	registry := framework.NewRegistry()
	if err := register(registry); err != nil {
		return config.Config{}, nil, fmt.Errorf("test registration failed: %w", err)
	}
	filter, err := selectionFilter(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, framework.Select(registry.All(), filter), nil
}

func printList(out io.Writer, units []*framework.TestUnit) {
	for _, u := range units {
		if u.Disabled() {
			fmt.Fprintf(out, "%s (disabled)\n", u.ID())
		} else {
			fmt.Fprintln(out, u.ID())
		}
	}
}

func runTests(
	cmd *cobra.Command,
	params *commandParams,
	register func(*framework.Registry) error,
	stdout, stderr io.Writer,
) error {
	cfg, units, err := selectUnits(cmd, params, register)
	if err != nil {
		return err
	}
	if params.list {
		printList(stdout, units)
		return nil
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	if desc := describeFilters(cfg); desc != "" {
		fmt.Fprintln(stderr, desc)
	}
	fmt.Fprintf(stderr, "Running %d tests\n", len(units))

	executor := &framework.Executor{
		FailFast: cfg.FailFast,
		Workers:  cfg.Workers,
	}
	if cfg.StopOnFailure {
		executor.Policy = framework.StopOnFirstFailure
	}
	if cfg.DebugAll {
		executor.DebugLogger = framework.PrefixedLogger(log.New(stderr, "", log.LstdFlags), "[harness] ")
	}
	console := &ConsoleTestLogger{
		Out:                  stderr,
		DebugOutputOnFailure: cfg.Debug || cfg.DebugAll,
		DebugOutputOnSuccess: cfg.DebugAll,
	}
	var progress *ProgressTestLogger
	if params.progress {
		progress = NewProgressTestLogger(stderr, len(units))
		console.ProblemsOnly = true
		executor.TestLogger = framework.MultiTestLogger{progress, console}
	} else {
		executor.TestLogger = console
	}

	aggregator := framework.NewAggregator()
	runErr := executor.RunAll(cmd.Context(), units, aggregator)
	if progress != nil {
		progress.Finish()
	}
	report := aggregator.Finalize()
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	fmt.Fprintln(stderr)
	if err := renderReport(stdout, cfg.Format, report); err != nil {
		return err
	}
	if err := writeReportFiles(cfg, report); err != nil {
		return err
	}

	cancelled := errors.Is(runErr, context.Canceled)
	if cancelled {
		fmt.Fprintln(stderr, "Test run was cancelled")
	}
	if !report.OK() {
		fmt.Fprintf(stderr, "\nTo run only the tests that did not pass:\n  %s\n", rerunCommand(programName, report))
		return errTestsFailed
	}
	if cancelled {
		return errRunCancelled
	}
	return runErr
}

func renderReport(out io.Writer, format string, report framework.Report) error {
	if format == config.FormatTable {
		return framework.RenderTable(out, report)
	}
	return framework.RenderText(out, report)
}

func writeReportFiles(cfg config.Config, report framework.Report) error {
	if cfg.JUnitFile != "" {
		if err := writeReportFile(cfg.JUnitFile, report, framework.WriteJUnitXML); err != nil {
			return err
		}
	}
	if cfg.JSONFile != "" {
		if err := writeReportFile(cfg.JSONFile, report, framework.WriteJSON); err != nil {
			return err
		}
	}
	return nil
}

func writeReportFile(path string, report framework.Report, write func(io.Writer, framework.Report) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := write(f, report); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
