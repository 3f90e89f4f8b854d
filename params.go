package main

import (
	"fmt"
	"strings"

	"github.com/launchdarkly/unit-test-harness/config"
	"github.com/launchdarkly/unit-test-harness/framework"

	"github.com/alessio/shellescape"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type commandParams struct {
	configFile    string
	envFile       string
	filters       []string
	run           []string
	skip          []string
	tags          []string
	list          bool
	failFast      bool
	stopOnFailure bool
	skipDisabled  bool
	workers       int
	format        string
	junitFile     string
	jsonFile      string
	debug         bool
	debugAll      bool
	noColor       bool
	progress      bool
}

func (c *commandParams) addSelectionFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.configFile, "config", "", "YAML configuration file (default "+config.DefaultConfigFile+" if present)")
	fs.StringVar(&c.envFile, "env-file", config.DefaultEnvFile, "dotenv file with "+config.EnvPrefix+"* settings")
	fs.StringArrayVarP(&c.filters, "filter", "f", nil, "glob pattern(s) matched against suite.case to select tests")
	fs.StringArrayVar(&c.run, "run", nil, "regex pattern(s) to select tests to run")
	fs.StringArrayVar(&c.skip, "skip", nil, "regex pattern(s) to select tests not to run")
	fs.StringArrayVar(&c.tags, "tag", nil, "only select tests with one of these tags")
	fs.BoolVar(&c.skipDisabled, "exclude-disabled", false, "leave disabled tests out of the run instead of reporting them as skipped")
}

func (c *commandParams) addRunFlags(fs *pflag.FlagSet) {
	c.addSelectionFlags(fs)
	fs.BoolVar(&c.list, "list", false, "list the selected tests without running them")
	fs.BoolVar(&c.failFast, "fail-fast", false, "stop starting new tests after the first failure")
	fs.BoolVar(&c.stopOnFailure, "stop-on-failure", false, "end a test at its first failed assertion")
	fs.IntVarP(&c.workers, "workers", "w", config.DefaultWorkers, "number of tests to run at once")
	fs.StringVar(&c.format, "format", config.DefaultFormat, "report format: text or table")
	fs.StringVar(&c.junitFile, "junit", "", "also write a JUnit XML report to this file")
	fs.StringVar(&c.jsonFile, "json", "", "also write a JSON report to this file")
	fs.BoolVar(&c.debug, "debug", false, "show debug output for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "show debug output for all tests, and harness debug logging")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	fs.BoolVar(&c.progress, "progress", false, "show a progress bar instead of per-test output")
}

// resolve loads the configuration and applies any flags that were set explicitly on
// the command line.
func (c *commandParams) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(c.configFile, c.envFile)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}
	if changed("filter") {
		cfg.Filters = c.filters
	}
	if changed("run") {
		cfg.Run = c.run
	}
	if changed("skip") {
		cfg.Skip = c.skip
	}
	if changed("tag") {
		cfg.Tags = c.tags
	}
	if changed("exclude-disabled") {
		cfg.ExcludeDisabled = c.skipDisabled
	}
	if changed("fail-fast") {
		cfg.FailFast = c.failFast
	}
	if changed("stop-on-failure") {
		cfg.StopOnFailure = c.stopOnFailure
	}
	if changed("workers") {
		cfg.Workers = c.workers
	}
	if changed("format") {
		cfg.Format = c.format
	}
	if changed("junit") {
		cfg.JUnitFile = c.junitFile
	}
	if changed("json") {
		cfg.JSONFile = c.jsonFile
	}
	if changed("debug") {
		cfg.Debug = c.debug
	}
	if changed("debug-all") {
		cfg.DebugAll = c.debugAll
	}
	if changed("no-color") {
		cfg.NoColor = c.noColor
	}
	return cfg, cfg.Validate()
}

// selectionFilter builds the Filter described by the configuration.
func selectionFilter(cfg config.Config) (framework.Filter, error) {
	globs, err := framework.NewGlobList(cfg.Filters...)
	if err != nil {
		return nil, err
	}
	var regexes framework.RegexFilters
	for _, p := range cfg.Run {
		if err := regexes.MustMatch.Set(p); err != nil {
			return nil, err
		}
	}
	for _, p := range cfg.Skip {
		if err := regexes.MustNotMatch.Set(p); err != nil {
			return nil, err
		}
	}
	filters := []framework.Filter{globs.AsFilter, regexes.AsFilter, framework.TagFilter(cfg.Tags...)}
	if cfg.ExcludeDisabled {
		filters = append(filters, framework.Enabled)
	}
	return framework.All(filters...), nil
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// rerunCommand returns a command line that runs only the tests that did not pass.
func rerunCommand(program string, report framework.Report) string {
	var b commandBuilder
	b.add(program, "run")
	for _, o := range report.NotPassed() {
		b.add("--filter", framework.EscapeGlob(o.ID.String()))
	}
	return b.String()
}

func describeFilters(cfg config.Config) string {
	var lines []string
	if len(cfg.Filters) != 0 {
		lines = append(lines, fmt.Sprintf("  run only tests matching %s", strings.Join(quoteAll(cfg.Filters), " or ")))
	}
	if len(cfg.Run) != 0 {
		lines = append(lines, fmt.Sprintf("  skip any not matching %s", strings.Join(quoteAll(cfg.Run), " or ")))
	}
	if len(cfg.Skip) != 0 {
		lines = append(lines, fmt.Sprintf("  skip any matching %s", strings.Join(quoteAll(cfg.Skip), " or ")))
	}
	if len(cfg.Tags) != 0 {
		lines = append(lines, fmt.Sprintf("  run only tests tagged %s", strings.Join(cfg.Tags, ", ")))
	}
	if len(lines) == 0 {
		return ""
	}
	return "Some tests will be skipped based on the filter criteria for this test run:\n" +
		strings.Join(lines, "\n") + "\n"
}

func quoteAll(ss []string) []string {
	ret := make([]string, 0, len(ss))
	for _, s := range ss {
		ret = append(ret, `"`+s+`"`)
	}
	return ret
}
