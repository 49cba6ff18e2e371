package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/keymint/keymint/pkg/models"
)

const accessKeyColumns = "id, key, rate_limit, expires_at, created_at, updated_at"

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) CreateAccessKey(ctx context.Context, key *models.AccessKey) (*models.AccessKey, error) {
	var k models.AccessKey
	err := s.pool.QueryRow(ctx,
		`INSERT INTO access_keys (id, key, rate_limit, expires_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+accessKeyColumns,
		key.ID, key.Key, key.RateLimit, key.ExpiresAt, key.CreatedAt, key.UpdatedAt,
	).Scan(&k.ID, &k.Key, &k.RateLimit, &k.ExpiresAt, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("create access key: %w", err)
	}
	return &k, nil
}

func (s *PostgresStore) ListAccessKeys(ctx context.Context) ([]*models.AccessKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+accessKeyColumns+` FROM access_keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list access keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.AccessKey
	for rows.Next() {
		var k models.AccessKey
		if err := rows.Scan(&k.ID, &k.Key, &k.RateLimit, &k.ExpiresAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan access key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) GetAccessKey(ctx context.Context, id uuid.UUID) (*models.AccessKey, error) {
	var k models.AccessKey
	err := s.pool.QueryRow(ctx,
		`SELECT `+accessKeyColumns+` FROM access_keys WHERE id = $1`, id,
	).Scan(&k.ID, &k.Key, &k.RateLimit, &k.ExpiresAt, &k.CreatedAt, &k.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get access key: %w", err)
	}
	return &k, nil
}

func (s *PostgresStore) UpdateAccessKey(ctx context.Context, id uuid.UUID, rateLimit int, expiresAt time.Time) (*models.AccessKey, error) {
	var k models.AccessKey
	err := s.pool.QueryRow(ctx,
		`UPDATE access_keys SET rate_limit = $2, expires_at = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+accessKeyColumns,
		id, rateLimit, expiresAt,
	).Scan(&k.ID, &k.Key, &k.RateLimit, &k.ExpiresAt, &k.CreatedAt, &k.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update access key: %w", err)
	}
	return &k, nil
}

// DeleteAccessKey removes the row and returns its prior state.
func (s *PostgresStore) DeleteAccessKey(ctx context.Context, id uuid.UUID) (*models.AccessKey, error) {
	var k models.AccessKey
	err := s.pool.QueryRow(ctx,
		`DELETE FROM access_keys WHERE id = $1 RETURNING `+accessKeyColumns, id,
	).Scan(&k.ID, &k.Key, &k.RateLimit, &k.ExpiresAt, &k.CreatedAt, &k.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete access key: %w", err)
	}
	return &k, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
