package framework

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderTable writes the report as a table with one row per outcome, grouped by suite,
// followed by the totals.
func RenderTable(w io.Writer, report Report) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.Style().Format.Footer = text.FormatDefault
	t.SetTitle(fmt.Sprintf("Test Results (%s)", formatDuration(report.Duration)))
	t.AppendHeader(table.Row{"Suite", "Case", "Status", "Duration", "Detail"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Suite", AutoMerge: true},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Detail", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, o := range report.Outcomes {
		t.AppendRow(table.Row{
			o.ID.Suite,
			o.ID.Case,
			string(o.Status),
			formatDuration(o.Duration),
			outcomeDetail(o),
		})
	}

	t.AppendFooter(table.Row{"", "", "TOTAL", "", report.Counts.String()})
	t.Render()
	return nil
}

// outcomeDetail is a one-line description of why an outcome was not a pass.
func outcomeDetail(o Outcome) string {
	switch {
	case o.Fault != nil:
		return o.Fault.Message
	case len(o.Failures) == 1:
		return o.Failures[0].Summary()
	case len(o.Failures) > 1:
		return fmt.Sprintf("%s (and %d more)", o.Failures[0].Summary(), len(o.Failures)-1)
	case o.Status == StatusSkipped:
		return o.SkipReason
	case o.TeardownFault != nil:
		return "teardown: " + o.TeardownFault.Message
	}
	return ""
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.Round(time.Microsecond).String()
	}
	return d.Round(time.Millisecond).String()
}
