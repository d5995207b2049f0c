package deactivation

import "time"

// Reason is the persisted deactivation reason code.
type Reason string

const (
	ReasonAccountExpired       Reason = "AE"
	ReasonPasswordExpired      Reason = "PE"
	ReasonTooManyFailedLogins  Reason = "FL"
)

// Description returns the human-readable form of the reason. Unknown
// codes read as administrative: a deactivated identity whose reason row
// was lost is treated the same way.
func (r Reason) Description() string {
	switch r {
	case ReasonAccountExpired:
		return "Account expired"
	case ReasonPasswordExpired:
		return "Password expired"
	case ReasonTooManyFailedLogins:
		return "Too many failed login attempts"
	}
	return "Unknown/administrative"
}

// Record states why an identity was deactivated. At most one live record
// exists per username; a new record replaces any previous one.
type Record struct {
	Username  string
	Reason    Reason
	Timestamp time.Time
}
