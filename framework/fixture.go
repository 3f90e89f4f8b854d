package framework

import (
	"fmt"
	"runtime/debug"
)

// Fixture supplies per-test state. Setup is called before each unit of a suite and its
// return value is available to the unit through T.Fixture. Teardown receives the same
// value after the unit completes. Either function may be nil.
type Fixture struct {
	Setup    func() (interface{}, error)
	Teardown func(state interface{}) error
}

// FixturePhase says which half of the fixture lifecycle an error came from.
type FixturePhase string

const (
	FixtureSetup    FixturePhase = "fixture setup"
	FixtureTeardown FixturePhase = "fixture teardown"
)

// FixtureError is returned by WithFixture when setup or teardown fails.
type FixtureError struct {
	Phase FixturePhase
	Err   error
	Stack string
}

func (e *FixtureError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Phase, e.Err)
}

func (e *FixtureError) Unwrap() error {
	return e.Err
}

func (e *FixtureError) fault() *Fault {
	return &Fault{Kind: string(e.Phase), Message: e.Err.Error(), Stack: e.Stack}
}

// WithFixture creates the fixture state, passes it to body, and tears it down.
//
// If setup fails, body is not called and a FixtureError for the setup phase is returned.
// Otherwise teardown always runs before WithFixture returns, including when body panics;
// in that case the panic is re-raised once teardown has finished. A teardown error or
// panic is returned as a FixtureError for the teardown phase and never propagated.
func WithFixture(fixture Fixture, body func(state interface{})) (err error) {
	state, err := callSetup(fixture)
	if err != nil {
		return err
	}
	defer func() {
		if terr := callTeardown(fixture, state); terr != nil {
			err = terr
		}
	}()
	body(state)
	return nil
}

func callSetup(fixture Fixture) (state interface{}, err error) {
	if fixture.Setup == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &FixtureError{Phase: FixtureSetup, Err: panicError(r), Stack: string(debug.Stack())}
		}
	}()
	state, err = fixture.Setup()
	if err != nil {
		return nil, &FixtureError{Phase: FixtureSetup, Err: err}
	}
	return state, nil
}

func callTeardown(fixture Fixture, state interface{}) (err error) {
	if fixture.Teardown == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &FixtureError{Phase: FixtureTeardown, Err: panicError(r), Stack: string(debug.Stack())}
		}
	}()
	if terr := fixture.Teardown(state); terr != nil {
		return &FixtureError{Phase: FixtureTeardown, Err: terr}
	}
	return nil
}

func panicError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%+v", r)
}
