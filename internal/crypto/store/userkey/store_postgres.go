package userkey

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"paychain/internal/crypto"
	"paychain/pkg/platform/sentinel"
)

// Postgres persists user keys. A partial unique index on (user_id) WHERE
// active enforces the one-active-key rule at the database level:
//
//	CREATE TABLE user_keys (
//	    uuid        UUID PRIMARY KEY,
//	    user_id     TEXT NOT NULL,
//	    public_key  TEXT NOT NULL,
//	    algorithm   TEXT NOT NULL,
//	    key_bits    INT  NOT NULL,
//	    active      BOOLEAN NOT NULL,
//	    created_at  TIMESTAMPTZ NOT NULL,
//	    updated_at  TIMESTAMPTZ NOT NULL
//	);
//	CREATE UNIQUE INDEX user_keys_one_active ON user_keys (user_id) WHERE active;
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

func (s *Postgres) Create(ctx context.Context, key *crypto.UserKey) error {
	query := `
		INSERT INTO user_keys (uuid, user_id, public_key, algorithm, key_bits, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		key.UUID, key.UserID, key.PublicKey, key.Algorithm, key.KeyBits, key.Active, key.CreatedAt, key.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("insert user key: %w", err)
	}
	return nil
}

func (s *Postgres) FindActiveByUser(ctx context.Context, userID string) (*crypto.UserKey, error) {
	query := `
		SELECT uuid, user_id, public_key, algorithm, key_bits, active, created_at, updated_at
		FROM user_keys
		WHERE user_id = $1 AND active
	`
	var key crypto.UserKey
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&key.UUID, &key.UserID, &key.PublicKey, &key.Algorithm, &key.KeyBits, &key.Active, &key.CreatedAt, &key.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user key: %w", err)
	}
	return &key, nil
}

func (s *Postgres) Deactivate(ctx context.Context, userID string) error {
	query := `
		UPDATE user_keys SET active = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND active
	`
	res, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("deactivate user key: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate user key: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
