package miner

import (
	"fmt"
	"regexp"
	"strings"
)

// NoPoolSet is reported for a miner whose primary pool has no URL.
const NoPoolSet = "No pool set"

// ErrorRule maps raw miner error text to a readable message. An empty Make
// matches any make.
type ErrorRule struct {
	Make    string `toml:"make" yaml:"make" json:"make,omitempty"`
	Pattern string `toml:"regex" yaml:"regex" json:"regex"`
	Message string `toml:"message" yaml:"message" json:"message"`
}

type compiledRule struct {
	make    string
	re      *regexp.Regexp
	message string
}

// ErrorCatalog translates raw error strings reported by miners. Rules are
// tried in order and the first match wins.
type ErrorCatalog struct {
	rules []compiledRule
}

// DefaultErrorRules is the catch-all used when no catalog is configured.
var DefaultErrorRules = []ErrorRule{
	{Pattern: `^.*$`, Message: "Unknown error"},
}

// NewErrorCatalog compiles the rules. The default catch-all is always
// appended last so every error gets a message.
func NewErrorCatalog(rules []ErrorRule) (*ErrorCatalog, error) {
	c := &ErrorCatalog{}
	for i, r := range append(append([]ErrorRule{}, rules...), DefaultErrorRules...) {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d: %v", ErrInvalidRule, i, err)
		}
		c.rules = append(c.rules, compiledRule{
			make:    strings.ToLower(strings.TrimSpace(r.Make)),
			re:      re,
			message: r.Message,
		})
	}
	return c, nil
}

// Explain returns the message for a raw error reported by a miner of the
// given make.
func (c *ErrorCatalog) Explain(minerMake, raw string) string {
	minerMake = strings.ToLower(strings.TrimSpace(minerMake))
	for _, r := range c.rules {
		if r.make != "" && r.make != minerMake {
			continue
		}
		if r.re.MatchString(raw) {
			return r.message
		}
	}
	return raw
}

// Diagnose returns the readable error list for a miner. Duplicate messages
// are collapsed; order follows first occurrence. A nil catalog passes raw
// errors through unchanged.
func Diagnose(m Miner, catalog *ErrorCatalog) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(msg string) {
		if msg == "" || seen[msg] {
			return
		}
		seen[msg] = true
		out = append(out, msg)
	}

	if pools, ok := m.Pools.Get(); ok && len(pools) > 0 && strings.TrimSpace(pools[0].URL) == "" {
		add(NoPoolSet)
	}

	for _, raw := range m.Errors.OrElse(nil) {
		if catalog == nil {
			add(raw)
			continue
		}
		add(catalog.Explain(m.Make.OrElse(""), raw))
	}
	return out
}
