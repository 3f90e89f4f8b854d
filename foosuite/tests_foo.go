package foosuite

import (
	"errors"
	"fmt"

	"github.com/launchdarkly/unit-test-harness/framework"

	"github.com/stretchr/testify/assert"
)

const FooTestSuite = "FooTest"

// fooFixture is the per-test state of FooTest. A new one is created for every test.
type fooFixture struct {
	setUp    bool
	tornDown bool
}

func newFooFixture() (interface{}, error) {
	return &fooFixture{setUp: true}, nil
}

func tearDownFooFixture(state interface{}) error {
	f, ok := state.(*fooFixture)
	if !ok {
		return fmt.Errorf("unexpected fixture state %T", state)
	}
	if f.tornDown {
		return errors.New("fixture was torn down twice")
	}
	f.tornDown = true
	return nil
}

func requireFooFixture(t *framework.T) *fooFixture {
	if f, ok := t.Fixture().(*fooFixture); ok {
		return f
	}
	panic("FooTest fixture was not set up! This is a basic mistake in the suite registration logic.")
}

func registerFooTest(r *framework.Registry) error {
	if err := r.DefineSuite(FooTestSuite, framework.Fixture{
		Setup:    newFooFixture,
		Teardown: tearDownFooFixture,
	}); err != nil {
		return err
	}
	return r.Suite(FooTestSuite).
		Test("test_success", doFooSuccess).
		Test("test_failure", doFooFailure).
		Test("test_error", doFooError).
		Test("DISABLED_test_pending", doFooSuccess, framework.DisabledBecause("not implemented yet")).
		Err()
}

func doFooSuccess(t *framework.T) {
	f := requireFooFixture(t)
	t.Debug("fixture set up: %t", f.setUp)
	assert.Equal(t, 6, 2*3)
}

func doFooFailure(t *framework.T) {
	requireFooFixture(t)
	assert.Equal(t, 5, 2*3)
}

func doFooError(t *framework.T) {
	requireFooFixture(t)
	panic(errors.New("unexpected exception"))
}
