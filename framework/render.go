package framework

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const detailIndent = "    "

// RenderText writes the report in its stable text format: one "<STATUS> <suite>.<case>"
// line per outcome in recorded order, indented detail lines for failures and faults, and
// a final summary line.
func RenderText(w io.Writer, report Report) error {
	bw := bufio.NewWriter(w)
	for _, o := range report.Outcomes {
		writeOutcome(bw, o)
	}
	fmt.Fprintln(bw, report.Counts)
	return bw.Flush()
}

func writeOutcome(w io.Writer, o Outcome) {
	if o.Status == StatusSkipped && o.SkipReason != "" {
		fmt.Fprintf(w, "%s %s (%s)\n", o.Status, o.ID, o.SkipReason)
	} else {
		fmt.Fprintf(w, "%s %s\n", o.Status, o.ID)
	}
	for _, f := range o.Failures {
		writeFailure(w, f)
	}
	if o.Fault != nil {
		writeFault(w, "", *o.Fault)
	}
	if o.TeardownFault != nil {
		writeFault(w, "teardown: ", *o.TeardownFault)
	}
}

func writeFailure(w io.Writer, f Failure) {
	var header []string
	if f.Location.IsKnown() {
		header = append(header, f.Location.String())
	}
	if f.Expression != "" {
		header = append(header, f.Expression)
	}
	if len(header) != 0 {
		fmt.Fprintf(w, "%s%s\n", detailIndent, strings.Join(header, ": "))
	}
	fmt.Fprintf(w, "%s%s\n", detailIndent, f.Summary())
	if f.Expected != "" || f.Actual != "" {
		fmt.Fprintf(w, "%s  expected: %s\n", detailIndent, f.Expected)
		fmt.Fprintf(w, "%s  actual:   %s\n", detailIndent, f.Actual)
	}
}

func writeFault(w io.Writer, prefix string, f Fault) {
	lines := strings.Split(strings.TrimRight(f.Message, "\n"), "\n")
	fmt.Fprintf(w, "%s%s%s [%s]\n", detailIndent, prefix, lines[0], f.Kind)
	for _, line := range lines[1:] {
		fmt.Fprintf(w, "%s  %s\n", detailIndent, line)
	}
}
