package framework

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

// The element and attribute names follow the XML written by googletest's
// --gtest_output=xml, which most CI systems read as JUnit XML.

type junitTestSuites struct {
	XMLName   xml.Name         `xml:"testsuites"`
	Name      string           `xml:"name,attr"`
	ID        string           `xml:"id,attr,omitempty"`
	Tests     int              `xml:"tests,attr"`
	Failures  int              `xml:"failures,attr"`
	Errors    int              `xml:"errors,attr"`
	Disabled  int              `xml:"disabled,attr"`
	Time      string           `xml:"time,attr"`
	Timestamp string           `xml:"timestamp,attr,omitempty"`
	Suites    []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Errors   int             `xml:"errors,attr"`
	Disabled int             `xml:"disabled,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []junitTestCase `xml:"testcase"`

	duration time.Duration
}

type junitTestCase struct {
	Name      string         `xml:"name,attr"`
	ClassName string         `xml:"classname,attr"`
	Status    string         `xml:"status,attr"`
	Time      string         `xml:"time,attr"`
	Failures  []junitMessage `xml:"failure,omitempty"`
	Error     *junitMessage  `xml:"error,omitempty"`
	Skipped   *junitMessage  `xml:"skipped,omitempty"`
	SystemOut string         `xml:"system-out,omitempty"`
}

type junitMessage struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Text    string `xml:",chardata"`
}

// WriteJUnitXML writes the report in JUnit XML format, with one <testsuite> per suite in
// the order suites first appear in the report.
func WriteJUnitXML(w io.Writer, report Report) error {
	doc := junitTestSuites{
		Name:     "AllTests",
		ID:       report.RunID,
		Tests:    report.Counts.Total,
		Failures: report.Counts.Failed,
		Errors:   report.Counts.Errored,
		Disabled: report.Counts.Skipped,
		Time:     junitSeconds(report.Duration),
	}
	if !report.Started.IsZero() {
		doc.Timestamp = report.Started.UTC().Format("2006-01-02T15:04:05")
	}

	suiteIndex := make(map[string]int)
	for _, o := range report.Outcomes {
		i, ok := suiteIndex[o.ID.Suite]
		if !ok {
			i = len(doc.Suites)
			suiteIndex[o.ID.Suite] = i
			doc.Suites = append(doc.Suites, junitTestSuite{Name: o.ID.Suite})
		}
		s := &doc.Suites[i]
		s.Tests++
		s.duration += o.Duration
		switch o.Status {
		case StatusFailed:
			s.Failures++
		case StatusErrored:
			s.Errors++
		case StatusSkipped:
			s.Disabled++
		}
		s.Cases = append(s.Cases, junitCase(o))
	}
	for i := range doc.Suites {
		doc.Suites[i].Time = junitSeconds(doc.Suites[i].duration)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JUnit report: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func junitCase(o Outcome) junitTestCase {
	c := junitTestCase{
		Name:      o.ID.Case,
		ClassName: o.ID.Suite,
		Status:    "run",
		Time:      junitSeconds(o.Duration),
	}
	for _, f := range o.Failures {
		text := f.Message
		if f.Expression != "" {
			code := append(append([]string(nil), f.Context...), f.Expression)
			text = strings.Join(code, "\n") + "\n" + text
		}
		if f.Location.IsKnown() {
			text = f.Location.String() + "\n" + text
		}
		c.Failures = append(c.Failures, junitMessage{Message: f.Summary(), Text: text})
	}
	if o.Fault != nil {
		c.Error = &junitMessage{Message: o.Fault.Message, Type: o.Fault.Kind, Text: o.Fault.Stack}
	}
	if o.Status == StatusSkipped {
		c.Status = "notrun"
		c.Skipped = &junitMessage{Message: o.SkipReason}
	}
	var out []string
	if o.TeardownFault != nil {
		out = append(out, "teardown: "+o.TeardownFault.Message)
	}
	out = append(out, o.DebugOutput.Messages()...)
	c.SystemOut = strings.Join(out, "\n")
	return c
}

func junitSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
