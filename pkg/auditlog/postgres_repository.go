package auditlog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLoginEventRepository implements LoginEventRepository using PostgreSQL
type PostgresLoginEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLoginEventRepository creates a new PostgreSQL-based login event repository
func NewPostgresLoginEventRepository(pool *pgxpool.Pool) *PostgresLoginEventRepository {
	return &PostgresLoginEventRepository{pool: pool}
}

// CreateEvent appends one event
func (r *PostgresLoginEventRepository) CreateEvent(ctx context.Context, event LoginEvent) (LoginEvent, error) {
	query := `
		INSERT INTO login_event (username, ip_address, proxies, user_agent, kind)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, timestamp
	`

	username := sql.NullString{String: event.Username, Valid: event.UsernameValid}
	err := r.pool.QueryRow(ctx, query,
		username,
		event.IPAddress,
		event.Proxies,
		event.UserAgent,
		string(event.Kind),
	).Scan(&event.ID, &event.Timestamp)
	if err != nil {
		return LoginEvent{}, err
	}
	return event, nil
}

// CountByKind returns the number of events of the given kind
func (r *PostgresLoginEventRepository) CountByKind(ctx context.Context, kind Kind) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM login_event WHERE kind = $1`,
		string(kind),
	).Scan(&count)
	return count, err
}

// LatestByKind returns the newest event of the given kind
func (r *PostgresLoginEventRepository) LatestByKind(ctx context.Context, kind Kind) (LoginEvent, error) {
	query := `
		SELECT id, username, ip_address, proxies, user_agent, kind, timestamp
		FROM login_event
		WHERE kind = $1
		ORDER BY timestamp DESC
		LIMIT 1
	`

	var event LoginEvent
	var username sql.NullString
	var kindStr string
	err := r.pool.QueryRow(ctx, query, string(kind)).Scan(
		&event.ID,
		&username,
		&event.IPAddress,
		&event.Proxies,
		&event.UserAgent,
		&kindStr,
		&event.Timestamp,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return LoginEvent{}, ErrEventNotFound
	}
	if err != nil {
		return LoginEvent{}, err
	}

	event.Username = username.String
	event.UsernameValid = username.Valid
	event.Kind = Kind(kindStr)
	return event, nil
}
