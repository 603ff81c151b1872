package migrate

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Rule assigns a resolution to every conflicting key matching Pattern.
// Patterns use glob syntax: "*", "?", "[a-z]" and "{a,b}".
type Rule struct {
	Pattern    string
	Resolution Resolution
}

// ParseRule parses "resolution=pattern", e.g. "overwrite=github*".
func ParseRule(s string) (Rule, error) {
	name, pattern, ok := strings.Cut(s, "=")
	if !ok {
		return Rule{}, fmt.Errorf("invalid rule %q: want resolution=pattern", s)
	}
	r, err := ParseResolution(name)
	if err != nil {
		return Rule{}, err
	}
	return NewRule(r, pattern)
}

// NewRule validates pattern and returns the rule.
func NewRule(r Resolution, pattern string) (Rule, error) {
	if !r.Valid() {
		return Rule{}, fmt.Errorf("invalid resolution %q: want overwrite, keep or skip", r)
	}
	if pattern == "" || !doublestar.ValidatePattern(pattern) {
		return Rule{}, fmt.Errorf("invalid pattern %q", pattern)
	}
	return Rule{Pattern: pattern, Resolution: r}, nil
}

// MatchResolutions builds a resolution map for conflicts from rules. The
// first matching rule wins. Conflicts no rule matches are left out, so
// Apply reports them as unresolved.
func MatchResolutions(conflicts []Conflict, rules []Rule) (map[string]Resolution, error) {
	out := make(map[string]Resolution)
	for _, c := range conflicts {
		for _, rule := range rules {
			ok, err := doublestar.Match(rule.Pattern, c.Key)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", rule.Pattern, err)
			}
			if ok {
				out[c.Key] = rule.Resolution
				break
			}
		}
	}
	return out, nil
}
