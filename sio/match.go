package sio

import (
	"fmt"
	"regexp"

	"github.com/brimdata/summary"
	"github.com/shellyln/go-sql-like-expr/likeexpr"
)

// Matcher selects addresses whose text address matches a SQL LIKE
// pattern, where % matches any run of characters and _ matches one.
type Matcher struct {
	re *regexp.Regexp
}

func NewMatcher(pattern string) (*Matcher, error) {
	re, err := regexp.Compile("(?s)^(?:" + likeexpr.ToRegexp(pattern, '\\', false) + ")$")
	if err != nil {
		return nil, fmt.Errorf("address pattern %q: %w", pattern, err)
	}
	return &Matcher{re}, nil
}

func (m *Matcher) Match(a summary.Address) bool {
	return m.re.MatchString(a.TextAddress())
}

// Match returns the addresses of r matching pattern.  An empty pattern
// matches everything.
func Match(r Reader, pattern string) ([]summary.Address, error) {
	addrs := r.AllResultAddresses()
	if pattern == "" {
		return addrs, nil
	}
	m, err := NewMatcher(pattern)
	if err != nil {
		return nil, err
	}
	var out []summary.Address
	for _, a := range addrs {
		if m.Match(a) {
			out = append(out, a)
		}
	}
	return out, nil
}
