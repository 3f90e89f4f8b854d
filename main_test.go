package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/launchdarkly/unit-test-harness/foosuite"
	"github.com/launchdarkly/unit-test-harness/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	helpers "github.com/launchdarkly/go-test-helpers/v2"
)

func runCommand(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := execute(context.Background(), append(args, "--no-color"), foosuite.Register, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunAll(t *testing.T) {
	code, out, errOut := runCommand(t, "run")
	assert.Equal(t, 1, code)
	for _, line := range []string{
		"PASS FooTest.test_success\n",
		"FAIL FooTest.test_failure\n",
		"ERROR FooTest.test_error\n",
		"SKIP FooTest.DISABLED_test_pending (not implemented yet)\n",
		"PASS MyTest.test_success\n",
		"FAIL MyTest.test_failure\n",
		"ERROR MyTest.test_error\n",
	} {
		assert.Contains(t, out, line)
	}
	assert.True(t, strings.HasSuffix(out, "2 passed, 2 failed, 2 errored, 1 skipped, 7 total\n"), out)
	assert.True(t, strings.HasPrefix(out, "PASS FooTest.test_success\nFAIL FooTest.test_failure\n"), out)
	assert.Contains(t, errOut, "Running 7 tests")
	assert.Contains(t, errOut, "unit-test-harness run --filter FooTest.test_failure --filter FooTest.test_error")
	assert.NotContains(t, errOut, errTestsFailed.Error())
}

func TestRunWithFilter(t *testing.T) {
	code, out, _ := runCommand(t, "run", "--filter", "FooTest.test_success")
	assert.Equal(t, 0, code)
	assert.Equal(t, "PASS FooTest.test_success\n1 passed, 0 failed, 0 errored, 0 skipped, 1 total\n", out)
}

func TestRunWithGlobFilters(t *testing.T) {
	code, out, _ := runCommand(t, "run", "-f", "*.test_success", "-f", "MyTest.test_fail*")
	assert.Equal(t, 1, code)
	assert.Equal(t, "PASS FooTest.test_success\nPASS MyTest.test_success\nFAIL MyTest.test_failure\n",
		out[:strings.Index(out, "    ")])
	assert.Contains(t, out, "2 passed, 1 failed, 0 errored, 0 skipped, 3 total\n")
}

func TestRunWithInvalidFilter(t *testing.T) {
	code, out, errOut := runCommand(t, "run", "--filter", "[")
	assert.Equal(t, 1, code)
	assert.Equal(t, "", out)
	assert.Contains(t, errOut, "Error: invalid pattern")
}

func TestRunFailFast(t *testing.T) {
	code, out, _ := runCommand(t, "run", "--fail-fast")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "FAIL FooTest.test_failure\n")
	assert.Contains(t, out, "SKIP FooTest.test_error (not run: fail-fast)\n")
	assert.Contains(t, out, "SKIP MyTest.test_error (not run: fail-fast)\n")
	assert.Contains(t, out, "1 passed, 1 failed, 0 errored, 5 skipped, 7 total\n")
}

func TestRunExcludeDisabled(t *testing.T) {
	_, out, _ := runCommand(t, "run", "--exclude-disabled", "--filter", "FooTest.*")
	assert.NotContains(t, out, "DISABLED_test_pending")
	assert.Contains(t, out, "1 passed, 1 failed, 1 errored, 0 skipped, 3 total\n")
}

func TestRunParallelKeepsOrder(t *testing.T) {
	_, sequential, _ := runCommand(t, "run")
	_, parallel, _ := runCommand(t, "run", "--workers", "4")
	strip := func(s string) []string {
		var ret []string
		for _, line := range strings.Split(s, "\n") {
			if line != "" && !strings.HasPrefix(line, " ") {
				ret = append(ret, line)
			}
		}
		return ret
	}
	assert.Equal(t, strip(sequential), strip(parallel))
}

func TestListOnly(t *testing.T) {
	expected := "FooTest.test_success\nFooTest.test_failure\nFooTest.test_error\n" +
		"FooTest.DISABLED_test_pending (disabled)\n"

	code, out, _ := runCommand(t, "run", "--list", "--filter", "FooTest.*")
	assert.Equal(t, 0, code)
	assert.Equal(t, expected, out)

	var listOut, listErr bytes.Buffer
	code = execute(context.Background(), []string{"list", "--filter", "FooTest.*"}, foosuite.Register, &listOut, &listErr)
	assert.Equal(t, 0, code)
	assert.Equal(t, expected, listOut.String())
}

func TestTableFormat(t *testing.T) {
	code, out, _ := runCommand(t, "run", "--format", "table")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "unexpected exception")
	assert.Contains(t, out, "2 passed, 2 failed, 2 errored, 1 skipped, 7 total")
}

func TestUnknownFormat(t *testing.T) {
	code, _, errOut := runCommand(t, "run", "--format", "html")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown report format")
}

func TestReportFiles(t *testing.T) {
	helpers.WithTempFile(func(junitFile string) {
		helpers.WithTempFile(func(jsonFile string) {
			code, _, _ := runCommand(t, "run", "--junit", junitFile, "--json", jsonFile)
			assert.Equal(t, 1, code)

			xmlData, err := os.ReadFile(junitFile)
			require.NoError(t, err)
			assert.Contains(t, string(xmlData), `<testcase name="test_failure" classname="FooTest" status="run"`)

			jsonData, err := os.ReadFile(jsonFile)
			require.NoError(t, err)
			v := ldvalue.Parse(jsonData)
			assert.Equal(t, 7, v.GetByKey("counts").GetByKey("total").IntValue())
			assert.Equal(t, 7, v.GetByKey("outcomes").Count())
		})
	})
}

func TestRegistrationErrorIsReported(t *testing.T) {
	var out, errOut bytes.Buffer
	register := func(r *framework.Registry) error {
		return errors.New("bad suite")
	}
	code := execute(context.Background(), []string{"run"}, register, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "test registration failed: bad suite")
}

func TestCancelledRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errOut bytes.Buffer
	code := execute(ctx, []string{"run", "--filter", "FooTest.test_success"}, foosuite.Register, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "SKIP FooTest.test_success (run cancelled)")
	assert.Contains(t, errOut.String(), "Test run was cancelled")
	assert.NotContains(t, errOut.String(), "Error:")
	assert.NotContains(t, errOut.String(), "context canceled")
}

func TestRerunCommand(t *testing.T) {
	report := framework.Report{Outcomes: []framework.Outcome{
		{ID: framework.TestID{Suite: "A", Case: "ok"}, Status: framework.StatusPassed},
		{ID: framework.TestID{Suite: "A", Case: "bad case"}, Status: framework.StatusFailed},
		{ID: framework.TestID{Suite: "B", Case: "x"}, Status: framework.StatusErrored},
		{ID: framework.TestID{Suite: "B", Case: "y"}, Status: framework.StatusSkipped},
	}}
	assert.Equal(t, "prog run --filter 'A.bad case' --filter B.x", rerunCommand("prog", report))

	report.Outcomes[2].ID.Case = "x*"
	assert.Equal(t, `prog run --filter 'A.bad case' --filter 'B.x\*'`, rerunCommand("prog", report))
}

func TestRerunHintSelectsOnlyFailedTests(t *testing.T) {
	register := func(r *framework.Registry) error {
		return r.Suite("S").
			Test("case1", func(t *framework.T) {}).
			Test("case[1]", func(t *framework.T) { assert.Fail(t, "broken") }).
			Err()
	}

	var out, errOut bytes.Buffer
	code := execute(context.Background(), []string{"run", "--no-color"}, register, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), `unit-test-harness run --filter 'S.case\[1\]'`)

	out.Reset()
	errOut.Reset()
	code = execute(context.Background(), []string{"run", "--no-color", "--filter", `S.case\[1\]`}, register, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(out.String(), "FAIL S.case[1]\n"), out.String())
	assert.Contains(t, out.String(), "0 passed, 1 failed, 0 errored, 0 skipped, 1 total\n")
}

func TestDescribeFilters(t *testing.T) {
	cfg, err := (&commandParams{}).resolve(newRootCommand(foosuite.Register, nil, nil))
	require.NoError(t, err)
	assert.Equal(t, "", describeFilters(cfg))

	cfg.Filters = []string{"Foo*"}
	cfg.Tags = []string{"fast"}
	assert.Equal(t, "Some tests will be skipped based on the filter criteria for this test run:\n"+
		"  run only tests matching \"Foo*\"\n  run only tests tagged fast\n", describeFilters(cfg))
}
