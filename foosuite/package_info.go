// Package foosuite contains the demonstration suites that the harness runs by default.
//
// They exercise each kind of outcome: a passing assertion, a failing assertion, an
// unexpected panic, and a disabled test. FooTest uses a fixture in the style of a
// googletest test fixture; MyTest is a plain suite in the style of a Boost.Test module.
package foosuite
