package policy

import (
	"errors"
	"fmt"
	"strings"
)

// Error reports an action reference denied by policy, carrying the patterns
// that were in effect so the caller can see why.
type Error struct {
	Ref     string
	Allowed []string
	Blocked []string
	Message string
}

func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("policy denied: %s", e.Ref)}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if len(e.Allowed) > 0 {
		parts = append(parts, fmt.Sprintf("allowed patterns: [%s]", strings.Join(e.Allowed, ", ")))
	}
	if len(e.Blocked) > 0 {
		parts = append(parts, fmt.Sprintf("blocked patterns: [%s]", strings.Join(e.Blocked, ", ")))
	}
	return strings.Join(parts, "; ")
}

// IsPolicyError reports whether err is a policy denial.
func IsPolicyError(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}
