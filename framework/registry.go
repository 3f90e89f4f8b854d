package framework

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateRegistration is matched by errors.Is for any DuplicateRegistrationError.
var ErrDuplicateRegistration = errors.New("duplicate test registration")

// DuplicateRegistrationError is returned when a test or suite is registered twice.
type DuplicateRegistrationError struct {
	ID TestID
}

func (e *DuplicateRegistrationError) Error() string {
	if e.ID.Case == "" {
		return fmt.Sprintf("suite %q is already defined", e.ID.Suite)
	}
	return fmt.Sprintf("test %s is already registered", e.ID)
}

func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}

// Action is the body of a test unit.
type Action func(t *T)

// TestUnit is one registered test case. It is immutable after registration.
type TestUnit struct {
	id             TestID
	action         Action
	fixture        Fixture
	disabled       bool
	disabledReason string
	tags           []string
}

func (u *TestUnit) ID() TestID { return u.id }

func (u *TestUnit) Disabled() bool { return u.disabled }

func (u *TestUnit) DisabledReason() string { return u.disabledReason }

func (u *TestUnit) Tags() []string {
	return append([]string(nil), u.tags...)
}

func (u *TestUnit) HasTag(tag string) bool {
	for _, t := range u.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// UnitOption modifies a test unit at registration time.
type UnitOption func(*TestUnit)

// Disabled marks a unit so that it is reported as skipped and never executed.
func Disabled() UnitOption {
	return func(u *TestUnit) { u.disabled = true }
}

// DisabledBecause is like Disabled, with a reason shown in the report.
func DisabledBecause(reason string) UnitOption {
	return func(u *TestUnit) {
		u.disabled = true
		u.disabledReason = reason
	}
}

// Tags attaches tags that can be used for selection.
func Tags(tags ...string) UnitOption {
	return func(u *TestUnit) { u.tags = append(u.tags, tags...) }
}

// Registry is a catalog of test units in registration order.
type Registry struct {
	units  []*TestUnit
	byID   map[TestID]*TestUnit
	suites map[string]Fixture
	lock   sync.Mutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[TestID]*TestUnit),
		suites: make(map[string]Fixture),
	}
}

// DefineSuite sets the fixture used by every unit of a suite. It must be called before
// any unit of that suite is registered, and fails otherwise.
func (r *Registry) DefineSuite(name string, fixture Fixture) error {
	if name == "" {
		return errors.New("suite name must not be empty")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, exists := r.suites[name]; exists {
		return &DuplicateRegistrationError{ID: TestID{Suite: name}}
	}
	for _, u := range r.units {
		if u.id.Suite == name {
			return fmt.Errorf("suite %q must be defined before its tests are registered (%s already is)", name, u.id)
		}
	}
	r.suites[name] = fixture
	return nil
}

// Register adds a test unit. It fails with a DuplicateRegistrationError if a unit with
// the same suite and case name already exists.
func (r *Registry) Register(suite, name string, action Action, options ...UnitOption) (*TestUnit, error) {
	if suite == "" || name == "" {
		return nil, fmt.Errorf("suite and case name must not be empty (got %q, %q)", suite, name)
	}
	if action == nil {
		return nil, fmt.Errorf("test %s.%s has no action", suite, name)
	}
	u := &TestUnit{
		id:     TestID{Suite: suite, Case: name},
		action: action,
	}
	for _, o := range options {
		o(u)
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if _, exists := r.byID[u.id]; exists {
		return nil, &DuplicateRegistrationError{ID: u.id}
	}
	u.fixture = r.suites[suite]
	r.byID[u.id] = u
	r.units = append(r.units, u)
	return u, nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(suite, name string, action Action, options ...UnitOption) *TestUnit {
	u, err := r.Register(suite, name, action, options...)
	if err != nil {
		panic(err)
	}
	return u
}

// All returns every registered unit in registration order.
func (r *Registry) All() []*TestUnit {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]*TestUnit(nil), r.units...)
}

// Lookup returns the unit with the given ID, if any.
func (r *Registry) Lookup(id TestID) (*TestUnit, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	u, ok := r.byID[id]
	return u, ok
}

// Suite returns a helper for registering several units of one suite.
func (r *Registry) Suite(name string) *SuiteRegistrar {
	return &SuiteRegistrar{registry: r, name: name}
}

// SuiteRegistrar registers units into one suite, keeping the first error it sees.
type SuiteRegistrar struct {
	registry *Registry
	name     string
	err      error
}

func (s *SuiteRegistrar) Test(name string, action Action, options ...UnitOption) *SuiteRegistrar {
	if s.err == nil {
		_, s.err = s.registry.Register(s.name, name, action, options...)
	}
	return s
}

// Err returns the first registration error, if any.
func (s *SuiteRegistrar) Err() error {
	return s.err
}
