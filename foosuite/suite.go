package foosuite

import (
	"github.com/launchdarkly/unit-test-harness/framework"
)

// AllSuites are the names of the suites added by Register, in registration order.
var AllSuites = []string{FooTestSuite, MyTestSuite}

// Register adds all of the demonstration suites to the registry.
func Register(r *framework.Registry) error {
	if err := registerFooTest(r); err != nil {
		return err
	}
	return registerMyTest(r)
}
