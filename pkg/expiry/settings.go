package expiry

import "time"

// Settings is the expiry policy tuple. Values <= 0 disable the
// corresponding check entirely; expiry never happens rather than
// happening immediately.
type Settings struct {
	// PasswordExpiryDays is how long a password stays valid after it was
	// last changed.
	PasswordExpiryDays int

	// PasswordExpiryWarningDays is how long before password expiry a
	// warning should be emitted.
	PasswordExpiryWarningDays int

	// AccountExpiryDays disables accounts that have not logged in for
	// this long.
	AccountExpiryDays int

	// PasswordChangedAtPath optionally names where the password change
	// date lives on the user store's profile object, in dotted form
	// (e.g. "profile.password_change_date"). Compiled to a
	// TimestampSource at startup; empty means the store's own getter.
	PasswordChangedAtPath string
}

// SettingsProvider returns the current settings. Current is called on
// every evaluation so operators can change policy without a restart.
type SettingsProvider interface {
	Current() Settings
}

// StaticSettings is a SettingsProvider returning a fixed Settings value,
// used by tests and programmatic setups.
type StaticSettings struct {
	Settings Settings
}

func (s StaticSettings) Current() Settings {
	return s.Settings
}

// EarliestValidPasswordChange returns the oldest password change date
// that is still considered valid. False when password expiry is disabled.
func (s Settings) EarliestValidPasswordChange(now time.Time) (time.Time, bool) {
	if s.PasswordExpiryDays <= 0 {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, -s.PasswordExpiryDays), true
}

// EarliestValidLogin returns the oldest last-login date that is still
// considered valid. False when account expiry is disabled.
func (s Settings) EarliestValidLogin(now time.Time) (time.Time, bool) {
	if s.AccountExpiryDays <= 0 {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, -s.AccountExpiryDays), true
}
