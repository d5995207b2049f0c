package config

import (
	"github.com/veritaslabs/useraudit/pkg/notification"
)

// EmailConfig holds SMTP settings for the email notifier.
type EmailConfig struct {
	Host     string `env:"SMTP_HOST" env-default:"localhost"`
	Port     int    `env:"SMTP_PORT" env-default:"1025"`
	TLS      bool   `env:"SMTP_TLS" env-default:"false"`
	Username string `env:"SMTP_USERNAME" env-default:""`
	Password string `env:"SMTP_PASSWORD" env-default:""`
	From     string `env:"SMTP_FROM" env-default:"noreply@example.com"`
	Enabled  bool   `env:"SMTP_ENABLED" env-default:"false"`
}

// ToSMTPConfig converts the config to the notifier's SMTP settings.
func (c EmailConfig) ToSMTPConfig() notification.SMTPConfig {
	return notification.SMTPConfig{
		Host:     c.Host,
		Port:     c.Port,
		TLS:      c.TLS,
		Username: c.Username,
		Password: c.Password,
		From:     c.From,
	}
}
