// The sweep command deactivates accounts whose owners have not logged
// in within the configured account expiry window. It is meant to run
// periodically from cron.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/veritaslabs/useraudit/pkg/config"
	"github.com/veritaslabs/useraudit/pkg/deactivation"
	"github.com/veritaslabs/useraudit/pkg/expiry"
	"github.com/veritaslabs/useraudit/pkg/identity"
	"github.com/veritaslabs/useraudit/pkg/notification"
	"github.com/veritaslabs/useraudit/pkg/sweep"
)

type Config struct {
	DbConfig    config.DatabaseConfig
	EmailConfig config.EmailConfig
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	envFile := filepath.Join(cwd, ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return
	}
	if err := godotenv.Load(envFile); err != nil {
		slog.Error("Failed to load .env file", "file", envFile, "error", err)
	}
}

func main() {
	noEmail := flag.Bool("no-email", false, "deactivate accounts without sending notification emails")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	loadEnvFile()

	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	pool, err := pgxpool.New(context.Background(), cfg.DbConfig.ToDatabaseURL())
	if err != nil {
		slog.Error("Failed creating dbpool", "db", cfg.DbConfig.Database, "host", cfg.DbConfig.Host,
			"port", cfg.DbConfig.Port, "user", cfg.DbConfig.User)
		os.Exit(-1)
	}
	defer pool.Close()

	// Deactivation records live in Postgres. Identities come from the
	// in-memory store; a real deployment provides its own identity.Store
	// over the application's user database.
	store := identity.NewInMemoryStore()

	notificationManager := notification.NewManager()
	if cfg.EmailConfig.Enabled {
		emailNotifier, err := notification.NewEmailNotifier(cfg.EmailConfig.ToSMTPConfig())
		if err != nil {
			slog.Error("Failed to create email notifier", "error", err)
			os.Exit(-1)
		}
		notificationManager.RegisterNotifier(emailNotifier)
	}

	expirySettings := config.EnvExpirySettings{}
	opts := []sweep.Option{sweep.WithNotifier(notificationManager)}
	if *noEmail {
		opts = append(opts, sweep.WithoutNotices())
	}
	service := sweep.NewService(
		store,
		deactivation.NewRecorder(deactivation.NewPostgresRecordRepository(pool)),
		expiry.NewEvaluator(expirySettings),
		expirySettings,
		opts...,
	)

	count, err := service.DisableInactiveUsers(context.Background())
	if err != nil {
		slog.Error("Sweep failed", "deactivated", count, "error", err)
		os.Exit(-1)
	}
	slog.Info("Sweep finished", "deactivated", count)
}
