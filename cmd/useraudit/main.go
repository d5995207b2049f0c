package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/veritaslabs/useraudit/pkg/auditlog"
	"github.com/veritaslabs/useraudit/pkg/authflow"
	"github.com/veritaslabs/useraudit/pkg/authflow/api"
	"github.com/veritaslabs/useraudit/pkg/config"
	"github.com/veritaslabs/useraudit/pkg/deactivation"
	"github.com/veritaslabs/useraudit/pkg/expiry"
	"github.com/veritaslabs/useraudit/pkg/identity"
	"github.com/veritaslabs/useraudit/pkg/loginattempt"
	"github.com/veritaslabs/useraudit/pkg/notification"
)

type ServerConfig struct {
	Host          string `env:"UA_HOST" env-default:"localhost"`
	Port          uint16 `env:"UA_PORT" env-default:"4000"`
	MigrationsDir string `env:"UA_MIGRATIONS_DIR" env-default:"migrations"`
}

type Config struct {
	DbConfig     config.DatabaseConfig
	EmailConfig  config.EmailConfig
	ServerConfig ServerConfig
}

// loadEnvFile loads environment variables from .env file if it exists
// Only sets variables that are not already set in the environment
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("Failed to get current working directory", "error", err)
		return
	}
	envFile := filepath.Join(cwd, ".env")
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return
	}
	if err := godotenv.Load(envFile); err != nil {
		slog.Error("Failed to load .env file", "file", envFile, "error", err)
		return
	}
	slog.Info("Loaded environment from file", "file", envFile)
}

// runMigrations executes all goose migrations
func runMigrations(pool *pgxpool.Pool, dir string) error {
	// Goose needs a stdlib DB connection
	sqlDB := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer sqlDB.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(sqlDB, dir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load .env file if it exists (before reading environment variables)
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

	if err := runMigrations(pool, cfg.ServerConfig.MigrationsDir); err != nil {
		slog.Error("Failed running migrations", "error", err)
		os.Exit(-1)
	}

	// Policy state lives in Postgres. Identities come from the in-memory
	// store: in a real deployment the embedding application provides its
	// own identity.Store implementation over its user database.
	store := identity.NewInMemoryStore()
	if _, err := store.AddIdentity("admin", "admin@example.com", "password123"); err != nil {
		slog.Error("Failed seeding admin identity", "error", err)
		os.Exit(-1)
	}

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
	services := &authflow.ServiceDependencies{
		IdentityStore:     store,
		LoginLogger:       auditlog.NewLoginLogger(auditlog.NewPostgresLoginEventRepository(pool)),
		Attempts:          loginattempt.NewAttemptCounter(loginattempt.NewPostgresAttemptRepository(pool)),
		Deactivations:     deactivation.NewRecorder(deactivation.NewPostgresRecordRepository(pool)),
		Expiry:            expiry.NewEvaluator(expirySettings),
		PasswordChangedAt: expiry.CompilePasswordChangedAtPath(expirySettings.Current().PasswordChangedAtPath, store),
		Notifier:          notificationManager,
		FailureLimit:      config.EnvFailureLimit{},
	}
	authService := authflow.NewService(services)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Mount("/auth", api.Routes(api.NewHandler(authService)))

	addr := fmt.Sprintf("%s:%d", cfg.ServerConfig.Host, cfg.ServerConfig.Port)
	slog.Info("Starting useraudit service", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(-1)
	}
}
