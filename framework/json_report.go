package framework

import (
	"io"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ReportJSON converts a report into a JSON value. Optional properties are omitted rather
// than set to null.
func ReportJSON(report Report) ldvalue.Value {
	outcomes := ldvalue.ArrayBuild()
	for _, o := range report.Outcomes {
		outcomes.Add(outcomeJSON(o))
	}
	return ldvalue.ObjectBuild().
		Set("runId", ldvalue.String(report.RunID)).
		Set("started", ldvalue.String(report.Started.UTC().Format("2006-01-02T15:04:05.000Z"))).
		Set("durationMs", ldvalue.Int(int(report.Duration.Milliseconds()))).
		Set("counts", ldvalue.ObjectBuild().
			Set("total", ldvalue.Int(report.Counts.Total)).
			Set("passed", ldvalue.Int(report.Counts.Passed)).
			Set("failed", ldvalue.Int(report.Counts.Failed)).
			Set("errored", ldvalue.Int(report.Counts.Errored)).
			Set("skipped", ldvalue.Int(report.Counts.Skipped)).
			Build()).
		Set("ok", ldvalue.Bool(report.OK())).
		Set("outcomes", outcomes.Build()).
		Build()
}

func outcomeJSON(o Outcome) ldvalue.Value {
	b := ldvalue.ObjectBuild().
		Set("suite", ldvalue.String(o.ID.Suite)).
		Set("case", ldvalue.String(o.ID.Case)).
		Set("status", ldvalue.String(string(o.Status))).
		Set("durationMs", ldvalue.Int(int(o.Duration.Milliseconds())))
	if len(o.Failures) != 0 {
		failures := ldvalue.ArrayBuild()
		for _, f := range o.Failures {
			failures.Add(failureJSON(f))
		}
		b.Set("failures", failures.Build())
	}
	if o.Fault != nil {
		b.Set("fault", faultJSON(*o.Fault))
	}
	if o.TeardownFault != nil {
		b.Set("teardownFault", faultJSON(*o.TeardownFault))
	}
	if o.SkipReason != "" {
		b.Set("skipReason", ldvalue.String(o.SkipReason))
	}
	if len(o.DebugOutput) != 0 {
		debug := ldvalue.ArrayBuild()
		for _, m := range o.DebugOutput.Messages() {
			debug.Add(ldvalue.String(m))
		}
		b.Set("debugOutput", debug.Build())
	}
	return b.Build()
}

func failureJSON(f Failure) ldvalue.Value {
	b := ldvalue.ObjectBuild().
		Set("message", ldvalue.String(f.Summary()))
	if f.Expression != "" {
		b.Set("expression", ldvalue.String(f.Expression))
	}
	if len(f.Context) != 0 {
		lines := ldvalue.ArrayBuild()
		for _, line := range f.Context {
			lines.Add(ldvalue.String(line))
		}
		b.Set("context", lines.Build())
	}
	if f.Expected != "" || f.Actual != "" {
		b.Set("expected", ldvalue.String(f.Expected))
		b.Set("actual", ldvalue.String(f.Actual))
	}
	if f.Location.IsKnown() {
		b.Set("file", ldvalue.String(f.Location.File))
		b.Set("line", ldvalue.Int(f.Location.Line))
	}
	return b.Build()
}

func faultJSON(f Fault) ldvalue.Value {
	return ldvalue.ObjectBuild().
		Set("kind", ldvalue.String(f.Kind)).
		Set("message", ldvalue.String(f.Message)).
		Build()
}

// WriteJSON writes the report as a single JSON document.
func WriteJSON(w io.Writer, report Report) error {
	_, err := io.WriteString(w, ReportJSON(report).JSONString()+"\n")
	return err
}
