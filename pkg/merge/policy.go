package merge

import (
	"strings"

	"github.com/agentstation/bibmerge/pkg/errors"
)

// Policy decides what a run does with a file that fails to parse.
type Policy string

const (
	// PolicyAbort stops the whole run at the first invalid file.
	PolicyAbort Policy = "abort"
	// PolicySkip logs the invalid file, leaves it out and continues.
	PolicySkip Policy = "skip"
)

// String returns the string representation of a policy.
func (p Policy) String() string {
	return string(p)
}

// IsValid reports whether p is a known policy.
func (p Policy) IsValid() bool {
	switch p {
	case PolicyAbort, PolicySkip:
		return true
	default:
		return false
	}
}

// Description returns a human-readable description.
func (p Policy) Description() string {
	switch p {
	case PolicyAbort:
		return "Abort the run on the first file that fails to parse"
	case PolicySkip:
		return "Skip files that fail to parse and merge the rest"
	default:
		return "unknown"
	}
}

// ParsePolicy converts s to a Policy. An empty string yields PolicyAbort.
func ParsePolicy(s string) (Policy, error) {
	if s == "" {
		return PolicyAbort, nil
	}
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", &errors.ValidationError{
			Field:   "policy",
			Value:   s,
			Message: "must be one of: abort, skip",
		}
	}
	return p, nil
}

// PolicyFor maps the skip-invalid switch to a policy.
func PolicyFor(skipInvalid bool) Policy {
	if skipInvalid {
		return PolicySkip
	}
	return PolicyAbort
}

// Skippable reports whether err may be stepped over under p. IO failures
// are never skippable.
func (p Policy) Skippable(err error) bool {
	return p == PolicySkip && errors.IsInvalidContent(err)
}
