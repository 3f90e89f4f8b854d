package framework

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not. A nil
// Filter selects everything.
type Filter func(*TestUnit) bool

// Select returns the units accepted by filter, in their original order.
func Select(units []*TestUnit, filter Filter) []*TestUnit {
	ret := make([]*TestUnit, 0, len(units))
	for _, u := range units {
		if filter == nil || filter(u) {
			ret = append(ret, u)
		}
	}
	return ret
}

// All accepts a unit only if every non-nil filter accepts it.
func All(filters ...Filter) Filter {
	return func(u *TestUnit) bool {
		for _, f := range filters {
			if f != nil && !f(u) {
				return false
			}
		}
		return true
	}
}

// Not inverts a filter.
func Not(f Filter) Filter {
	return func(u *TestUnit) bool { return f == nil || !f(u) }
}

// Enabled accepts only units that are not disabled. Without it, disabled units are
// selected and reported as skipped.
func Enabled(u *TestUnit) bool {
	return !u.disabled
}

// TagFilter accepts units that have any of the given tags. With no tags it accepts
// everything.
func TagFilter(tags ...string) Filter {
	return func(u *TestUnit) bool {
		if len(tags) == 0 {
			return true
		}
		for _, t := range tags {
			if u.HasTag(t) {
				return true
			}
		}
		return false
	}
}

// GlobList is a list of shell-style patterns matched against "suite.case".
type GlobList struct {
	patterns []string
}

// NewGlobList validates and collects patterns.
func NewGlobList(patterns ...string) (GlobList, error) {
	var g GlobList
	for _, p := range patterns {
		if err := g.Set(p); err != nil {
			return GlobList{}, err
		}
	}
	return g, nil
}

func (g GlobList) String() string {
	var ss []string
	for _, p := range g.patterns {
		ss = append(ss, `"`+p+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set adds a pattern.
func (g *GlobList) Set(value string) error {
	if _, err := path.Match(value, ""); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", value, err)
	}
	g.patterns = append(g.patterns, value)
	return nil
}

// EscapeGlob quotes the pattern metacharacters in s, so that a GlobList containing the
// result matches only s itself.
func EscapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (g GlobList) IsDefined() bool {
	return len(g.patterns) != 0
}

func (g GlobList) AnyMatch(s string) bool {
	for _, p := range g.patterns {
		if ok, _ := path.Match(p, s); ok {
			return true
		}
	}
	return false
}

// AsFilter accepts units matching any pattern, or every unit if there are no patterns.
func (g GlobList) AsFilter(u *TestUnit) bool {
	return !g.IsDefined() || g.AnyMatch(u.id.String())
}

type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

func (r RegexFilters) AsFilter(u *TestUnit) bool {
	name := u.id.String()
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(name)) &&
		!r.MustNotMatch.AnyMatch(name)
}

type RegexList struct {
	patterns []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
