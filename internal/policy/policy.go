// Package policy restricts which actions a pipeline or server may execute.
//
// A policy holds glob patterns matched against action references such as
// "issues.create". Blocked patterns take precedence over allowed ones, and
// an empty allowed list permits everything that is not blocked, so a policy
// zero value allows all actions.
package policy

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Policy is an allow/block list of action reference patterns.
// Patterns use glob syntax: "issues.*" matches every issue action,
// "*" matches everything.
type Policy struct {
	Allowed []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	Blocked []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// Parse builds a policy from a mixed pattern list where entries prefixed
// with "!" are blocked and the rest are allowed. This is the form flags
// accept: --allow 'issues.*,!issues.lock,pulls.list'.
func Parse(patterns []string) *Policy {
	p := &Policy{}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if rest := strings.TrimPrefix(pattern, "!"); rest != pattern {
			p.Blocked = append(p.Blocked, rest)
		} else {
			p.Allowed = append(p.Allowed, pattern)
		}
	}
	return p
}

// Check returns nil when ref may execute under the policy. A nil policy
// allows everything.
func (p *Policy) Check(ref string) error {
	if p == nil {
		return nil
	}

	// Blocked wins regardless of the allowed list.
	for _, pattern := range p.Blocked {
		// Blocked patterns may carry the "!" prefix they had in a mixed list.
		if matchPattern(ref, strings.TrimPrefix(pattern, "!")) {
			return &Error{Ref: ref, Blocked: p.Blocked, Message: "action is blocked by policy"}
		}
	}

	if len(p.Allowed) == 0 {
		return nil
	}

	for _, pattern := range p.Allowed {
		if matchPattern(ref, pattern) {
			return nil
		}
	}

	return &Error{Ref: ref, Allowed: p.Allowed, Message: "action not in allowed patterns"}
}

// Allows reports whether ref may execute under the policy.
func (p *Policy) Allows(ref string) bool {
	return p.Check(ref) == nil
}

// Filter returns the refs the policy allows, preserving order.
func (p *Policy) Filter(refs []string) []string {
	if p == nil {
		return refs
	}
	allowed := make([]string, 0, len(refs))
	for _, ref := range refs {
		if p.Allows(ref) {
			allowed = append(allowed, ref)
		}
	}
	return allowed
}

// Validate rejects patterns with invalid glob syntax so a typo surfaces at
// load time rather than silently failing to match.
func (p *Policy) Validate() error {
	if p == nil {
		return nil
	}
	for _, pattern := range append(append([]string{}, p.Allowed...), p.Blocked...) {
		checked := strings.TrimPrefix(pattern, "!")
		if !doublestar.ValidatePattern(checked) {
			return &Error{Ref: pattern, Message: "invalid glob pattern"}
		}
	}
	return nil
}

// matchPattern matches ref against a glob pattern, falling back to exact
// comparison when the pattern does not parse.
func matchPattern(ref, pattern string) bool {
	if ref == pattern {
		return true
	}
	matched, err := doublestar.Match(pattern, ref)
	if err != nil {
		return false
	}
	return matched
}
