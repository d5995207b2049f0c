package deactivation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecordRepository implements RecordRepository using PostgreSQL.
// Replace runs delete-then-insert in one transaction so at most one row
// per username is ever visible.
type PostgresRecordRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRecordRepository creates a new PostgreSQL-based record repository
func NewPostgresRecordRepository(pool *pgxpool.Pool) *PostgresRecordRepository {
	return &PostgresRecordRepository{pool: pool}
}

// Replace deletes any existing record for the username and inserts the new one
func (r *PostgresRecordRepository) Replace(ctx context.Context, record Record) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM user_deactivation WHERE username = $1`, record.Username)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO user_deactivation (username, reason, timestamp) VALUES ($1, $2, now())`,
		record.Username, string(record.Reason),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Delete removes the record for the username
func (r *PostgresRecordRepository) Delete(ctx context.Context, username string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_deactivation WHERE username = $1`, username)
	return err
}

// Get returns the live record for the username
func (r *PostgresRecordRepository) Get(ctx context.Context, username string) (Record, error) {
	query := `SELECT username, reason, timestamp FROM user_deactivation WHERE username = $1`

	var record Record
	var reason string
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&record.Username,
		&reason,
		&record.Timestamp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrRecordNotFound
	}
	if err != nil {
		return Record{}, err
	}

	record.Reason = Reason(reason)
	return record, nil
}
