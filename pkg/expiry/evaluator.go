package expiry

import (
	"time"
)

// Evaluator computes whether timestamps fall outside the configured
// retention windows. It is stateless given the current settings; the
// clock is injectable for tests.
type Evaluator struct {
	settings SettingsProvider
	now      func() time.Time
}

// NewEvaluator creates an Evaluator reading live settings from the
// provider.
func NewEvaluator(settings SettingsProvider) *Evaluator {
	return &Evaluator{
		settings: settings,
		now:      time.Now,
	}
}

// NewEvaluatorWithClock creates an Evaluator with a fixed clock (for testing)
func NewEvaluatorWithClock(settings SettingsProvider, now func() time.Time) *Evaluator {
	return &Evaluator{
		settings: settings,
		now:      now,
	}
}

// IsPasswordExpired reports whether a password changed at the given time
// is past its expiry window. A nil timestamp never expires: a fresh
// identity whose change date has not been populated yet is not punished.
func (e *Evaluator) IsPasswordExpired(changedAt *time.Time) bool {
	earliest, enabled := e.settings.Current().EarliestValidPasswordChange(e.now())
	if !enabled || changedAt == nil {
		return false
	}
	return changedAt.Before(earliest)
}

// IsAccountExpired reports whether an identity last active at the given
// time is past the account expiry window. A nil timestamp never expires.
func (e *Evaluator) IsAccountExpired(lastLoginAt *time.Time) bool {
	earliest, enabled := e.settings.Current().EarliestValidLogin(e.now())
	if !enabled || lastLoginAt == nil {
		return false
	}
	return lastLoginAt.Before(earliest)
}

// DaysUntilPasswordExpiry returns the remaining whole days before the
// password expires. False when password expiry is disabled, the
// timestamp is unknown, or the password is already expired.
func (e *Evaluator) DaysUntilPasswordExpiry(changedAt *time.Time) (int, bool) {
	s := e.settings.Current()
	if s.PasswordExpiryDays <= 0 || changedAt == nil {
		return 0, false
	}
	expiresAt := changedAt.AddDate(0, 0, s.PasswordExpiryDays)
	remaining := expiresAt.Sub(e.now())
	if remaining < 0 {
		return 0, false
	}
	return int(remaining.Hours() / 24), true
}

// WarningDue reports whether a password-will-expire warning should fire:
// warning days are configured, the password is not yet expired, and the
// remaining days are within the warning window. The returned days value
// is only meaningful when the warning is due.
func (e *Evaluator) WarningDue(changedAt *time.Time) (int, bool) {
	warningDays := e.settings.Current().PasswordExpiryWarningDays
	if warningDays <= 0 {
		return 0, false
	}
	days, ok := e.DaysUntilPasswordExpiry(changedAt)
	if !ok || days > warningDays {
		return 0, false
	}
	return days, true
}

// EarliestValidLogin exposes the account-expiry cutoff for the batch
// sweep. False when account expiry is disabled.
func (e *Evaluator) EarliestValidLogin() (time.Time, bool) {
	return e.settings.Current().EarliestValidLogin(e.now())
}
