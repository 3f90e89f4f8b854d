package framework

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

const frameworkPackagePrefix = "github.com/launchdarkly/unit-test-harness/framework."

// sourceContextLines is how many lines before the failing one are kept in Failure.Context.
const sourceContextLines = 2

// Failure records one assertion that evaluated false.
type Failure struct {
	Message    string
	Expression string
	// Context holds the source lines just before Expression, oldest first.
	Context  []string
	Expected string
	Actual   string
	Location SourceLocation
}

// SourceLocation is the file and line where an assertion was made.
type SourceLocation struct {
	File string
	Line int
}

// IsKnown is false if the location could not be determined.
func (l SourceLocation) IsKnown() bool {
	return l.File != ""
}

func (l SourceLocation) String() string {
	if !l.IsKnown() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(l.File), l.Line)
}

// Fault describes a panic or setup/teardown error that was not an assertion failure.
type Fault struct {
	Kind    string
	Message string
	Stack   string
}

func (f Fault) Error() string {
	return fmt.Sprintf("%s (%s)", f.Message, f.Kind)
}

func faultFromPanic(r interface{}, stack []byte) *Fault {
	var message string
	switch v := r.(type) {
	case error:
		message = v.Error()
	case string:
		message = v
	default:
		message = fmt.Sprintf("%+v", v)
	}
	return &Fault{Kind: fmt.Sprintf("panic: %T", r), Message: message, Stack: string(stack)}
}

// testify's Equal-style messages put the two values on lines like "expected: 5" and
// "actual  : 6".
var (
	expectedLineRegex = regexp.MustCompile(`(?m)^\s*expected\s*:\s?(.*)$`)
	actualLineRegex   = regexp.MustCompile(`(?m)^\s*actual\s*:\s?(.*)$`)
)

func newFailure(message string, location SourceLocation) Failure {
	f := Failure{
		Message:  strings.TrimSpace(message),
		Location: location,
	}
	f.Context, f.Expression = readSourceLines(location, sourceContextLines)
	if m := expectedLineRegex.FindStringSubmatch(message); m != nil {
		f.Expected = strings.TrimSpace(m[1])
	}
	if m := actualLineRegex.FindStringSubmatch(message); m != nil {
		f.Actual = strings.TrimSpace(m[1])
	}
	return f
}

// findCallerLocation walks up the stack to the first frame that is neither in this
// package (other than its tests), in testify, nor in a function marked as a helper.
func findCallerLocation(skip int, helpers map[string]struct{}) SourceLocation {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+1, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !isInternalFrame(frame, helpers) {
			return SourceLocation{File: frame.File, Line: frame.Line}
		}
		if !more {
			return SourceLocation{}
		}
	}
}

func isInternalFrame(frame runtime.Frame, helpers map[string]struct{}) bool {
	if _, ok := helpers[frame.Function]; ok {
		return true
	}
	if strings.HasPrefix(frame.Function, "runtime.") ||
		strings.HasPrefix(frame.Function, "github.com/stretchr/testify/") {
		return true
	}
	return strings.HasPrefix(frame.Function, frameworkPackagePrefix) &&
		!strings.HasSuffix(frame.File, "_test.go")
}

// readSourceLines returns the line at location, trimmed, and up to before lines
// preceding it with their trailing whitespace removed.
func readSourceLines(location SourceLocation, before int) (context []string, line string) {
	if !location.IsKnown() || location.Line <= 0 {
		return nil, ""
	}
	f, err := os.Open(location.File)
	if err != nil {
		return nil, ""
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		if n == location.Line {
			return context, strings.TrimSpace(scanner.Text())
		}
		if n >= location.Line-before {
			context = append(context, strings.TrimRight(scanner.Text(), " \t\r"))
		}
	}
	return nil, ""
}

var testifyLabelRegex = regexp.MustCompile(`^\s*(Error Trace|Error|Test|Messages|Diff):\s*(.*)$`)

// Summary returns a short description of the failure. For messages produced by testify,
// this is the "Error" text plus any user-supplied "Messages", without the trace.
func (f Failure) Summary() string {
	var errorText, messages string
	for _, line := range strings.Split(f.Message, "\n") {
		m := testifyLabelRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		switch m[1] {
		case "Error":
			errorText = strings.TrimSpace(m[2])
		case "Messages":
			messages = strings.TrimSpace(m[2])
		}
	}
	switch {
	case errorText != "" && messages != "":
		return errorText + " " + messages
	case errorText != "":
		return errorText
	case messages != "":
		return messages
	}
	if nl := strings.Index(f.Message, "\n"); nl >= 0 {
		return strings.TrimSpace(f.Message[:nl])
	}
	return f.Message
}
