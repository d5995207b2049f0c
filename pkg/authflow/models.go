package authflow

import (
	"github.com/veritaslabs/useraudit/pkg/identity"
)

// Outcome is the terminal state of one authentication attempt.
type Outcome string

const (
	// OutcomeAllow means credentials verified and no policy objected.
	OutcomeAllow Outcome = "allow"

	// OutcomeDeny means a stage terminally rejected the attempt.
	OutcomeDeny Outcome = "deny"

	// OutcomeInconclusive means no stage claimed the decision; the
	// caller should pass control to the next handler in its chain.
	OutcomeInconclusive Outcome = "inconclusive"
)

// Decision is the result of running the authentication flow.
type Decision struct {
	Outcome  Outcome
	Username string

	// Identity is set on Allow.
	Identity *identity.Identity

	// Stage and Reason identify which policy denied. Server-side only.
	Stage  string
	Reason string

	// DaysToPasswordExpiry is set on Allow when the password-will-expire
	// warning window has been entered.
	DaysToPasswordExpiry *int
}

// Allowed reports whether the attempt may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}

// Denied reports whether the attempt was terminally rejected.
func (d Decision) Denied() bool {
	return d.Outcome == OutcomeDeny
}
