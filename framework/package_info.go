// Package framework contains the test registration, execution and reporting core of the
// harness, independent of any particular set of tests.
//
// The general model is:
//
// 1. Test units are registered in a Registry under a suite name and a case name. A suite
// may define a Fixture, whose Setup and Teardown functions are called around every unit of
// that suite.
//
// 2. Select applies a Filter to the registered units, preserving registration order.
//
// 3. An Executor runs each selected unit. The unit's action receives a *T, which is
// similar to Go's *testing.T: failed assertions are recorded and the action keeps running,
// while a panic that is not an assertion ends the unit and is reported as an error. Units
// that are disabled are reported as skipped and never run.
//
// 4. Outcomes are streamed to an Aggregator as they are produced, and the finalized Report
// can be rendered as text, as a table, as JUnit XML, or as JSON.
package framework
