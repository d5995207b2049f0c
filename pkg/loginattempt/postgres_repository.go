package loginattempt

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAttemptRepository implements AttemptRepository using PostgreSQL.
// Both writes are single upsert statements, so concurrent increments for
// the same username are serialized by the database's row lock instead of
// a read-then-write in application code.
type PostgresAttemptRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAttemptRepository creates a new PostgreSQL-based attempt repository
func NewPostgresAttemptRepository(pool *pgxpool.Pool) *PostgresAttemptRepository {
	return &PostgresAttemptRepository{pool: pool}
}

// Increment creates the counter at 1 or adds 1 to it
func (r *PostgresAttemptRepository) Increment(ctx context.Context, username string) error {
	query := `
		INSERT INTO login_attempt (username, count, timestamp)
		VALUES ($1, 1, now())
		ON CONFLICT (username)
		DO UPDATE SET count = login_attempt.count + 1, timestamp = now()
	`
	_, err := r.pool.Exec(ctx, query, username)
	return err
}

// Reset sets the counter to exactly 0 with a fresh timestamp
func (r *PostgresAttemptRepository) Reset(ctx context.Context, username string) error {
	query := `
		INSERT INTO login_attempt (username, count, timestamp)
		VALUES ($1, 0, now())
		ON CONFLICT (username)
		DO UPDATE SET count = 0, timestamp = now()
	`
	_, err := r.pool.Exec(ctx, query, username)
	return err
}

// Get returns the counter for the username
func (r *PostgresAttemptRepository) Get(ctx context.Context, username string) (Attempt, error) {
	query := `SELECT username, count, timestamp FROM login_attempt WHERE username = $1`

	var attempt Attempt
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&attempt.Username,
		&attempt.Count,
		&attempt.Timestamp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attempt{}, ErrAttemptNotFound
	}
	if err != nil {
		return Attempt{}, err
	}
	return attempt, nil
}
