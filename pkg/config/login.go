package config

import (
	"log/slog"

	"github.com/ilyakaznacheev/cleanenv"
)

// LoginConfig holds the failed-login policy knobs.
type LoginConfig struct {
	// FailureLimit is the number of consecutive failed attempts after
	// which an account is deactivated. Zero disables the limit.
	FailureLimit int `env:"LOGIN_FAILURE_LIMIT" env-default:"0"`
}

// EnvFailureLimit is an authflow.FailureLimitProvider that re-reads the
// environment on every call, matching the live-read behavior of the
// expiry settings.
type EnvFailureLimit struct{}

func (EnvFailureLimit) FailureLimit() int {
	var c LoginConfig
	if err := cleanenv.ReadEnv(&c); err != nil {
		slog.Warn("Failed reading login settings from environment", "err", err)
		return 0
	}
	return c.FailureLimit
}
