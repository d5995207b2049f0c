package authflow

import (
	"errors"
	"fmt"
)

// Denial reasons. These are server-side strings for logs and privileged
// callers; end users always see GenericDenyMessage.
const (
	ReasonAccountInactive    = "account is not active"
	ReasonPasswordExpired    = "password has expired"
	ReasonAccountExpired     = "account has expired"
	ReasonTooManyFailures    = "too many failed attempts"
	ReasonInvalidCredentials = "invalid credentials"
)

// GenericDenyMessage is the only denial text surfaced to end users. The
// detailed reason stays in logs and the deactivation record.
const GenericDenyMessage = "authentication failed"

// DenyError is a terminal denial from one stage of the flow. It is a
// distinct, catchable condition: callers use errors.As or the Decision
// outcome, never string matching.
type DenyError struct {
	Stage  string
	Reason string
}

func (e *DenyError) Error() string {
	return fmt.Sprintf("login denied (%s): %s", e.Stage, e.Reason)
}

// AsDeny extracts a DenyError from an error chain.
func AsDeny(err error) (*DenyError, bool) {
	var deny *DenyError
	if errors.As(err, &deny) {
		return deny, true
	}
	return nil, false
}
