package foosuite

import (
	"errors"

	"github.com/launchdarkly/unit-test-harness/framework"

	"github.com/stretchr/testify/assert"
)

const MyTestSuite = "MyTest"

func registerMyTest(r *framework.Registry) error {
	return r.Suite(MyTestSuite).
		Test("test_success", func(t *framework.T) {
			assert.True(t, 2*3 == 6, "2 * 3 == 6")
		}).
		Test("test_failure", func(t *framework.T) {
			assert.True(t, 2*3 == 5, "2 * 3 == 5")
		}).
		Test("test_error", func(t *framework.T) {
			panic(errors.New("unexpected exception"))
		}).
		Err()
}
