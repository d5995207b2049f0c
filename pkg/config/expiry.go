package config

import (
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/veritaslabs/useraudit/pkg/expiry"
)

// ExpiryConfig holds the time-window policy knobs. Zero values disable
// the corresponding check.
type ExpiryConfig struct {
	PasswordExpiryDays        int    `env:"PASSWORD_EXPIRY_DAYS" env-default:"0"`
	PasswordExpiryWarningDays int    `env:"PASSWORD_EXPIRY_WARNING_DAYS" env-default:"0"`
	AccountExpiryDays         int    `env:"ACCOUNT_EXPIRY_DAYS" env-default:"0"`
	PasswordChangedAtPath     string `env:"PASSWORD_CHANGE_DATE_PATH" env-default:"password_changed_at"`
}

// ToSettings converts the config to expiry settings.
func (c ExpiryConfig) ToSettings() expiry.Settings {
	return expiry.Settings{
		PasswordExpiryDays:        c.PasswordExpiryDays,
		PasswordExpiryWarningDays: c.PasswordExpiryWarningDays,
		AccountExpiryDays:         c.AccountExpiryDays,
		PasswordChangedAtPath:     c.PasswordChangedAtPath,
	}
}

// EnvExpirySettings is an expiry.SettingsProvider that re-reads the
// environment on every call, so operators can change the windows on a
// running deployment without a restart.
type EnvExpirySettings struct{}

// Current reads the expiry settings from the environment. A malformed
// environment falls back to the defaults with a logged warning rather
// than blocking logins.
func (EnvExpirySettings) Current() expiry.Settings {
	var c ExpiryConfig
	if err := cleanenv.ReadEnv(&c); err != nil {
		slog.Warn("Failed reading expiry settings from environment", "err", err)
		return expiry.Settings{}
	}
	return c.ToSettings()
}
