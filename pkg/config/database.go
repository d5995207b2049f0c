package config

import (
	"fmt"
)

// DatabaseConfig holds PostgreSQL database configuration
// This is shared between the server and the sweep command to avoid duplication
type DatabaseConfig struct {
	Host     string `env:"UA_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"UA_PG_PORT" env-default:"5432"`
	Database string `env:"UA_PG_DATABASE" env-default:"useraudit_db"`
	User     string `env:"UA_PG_USER" env-default:"useraudit"`
	Password string `env:"UA_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"UA_PG_SCHEMA" env-default:"public"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL
func (d DatabaseConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}
