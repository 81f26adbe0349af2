package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"paychain/internal/mandate/models"
	"paychain/pkg/platform/sentinel"
	txcontext "paychain/pkg/platform/tx"
)

// Postgres persists cart mandates. A partial unique index lets at most one
// live (non-cancelled) cart consume an intent:
//
//	CREATE TABLE cart_mandates (
//	    uuid            UUID PRIMARY KEY,
//	    cart_id         TEXT NOT NULL UNIQUE,
//	    intent_hash     TEXT NOT NULL,
//	    invoice_ref     TEXT NOT NULL,
//	    cart_hash       TEXT NOT NULL UNIQUE,
//	    contents_json   TEXT NOT NULL,
//	    agent_signature TEXT NOT NULL,
//	    total_amount    BIGINT NOT NULL,
//	    currency        TEXT NOT NULL,
//	    status          TEXT NOT NULL,
//	    created_at      TIMESTAMPTZ NOT NULL,
//	    updated_at      TIMESTAMPTZ NOT NULL
//	);
//	CREATE UNIQUE INDEX cart_mandates_live_intent
//	    ON cart_mandates (intent_hash) WHERE status <> 'CANCELLED';
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

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const cartColumns = `uuid, cart_id, intent_hash, invoice_ref, cart_hash, contents_json,
	agent_signature, total_amount, currency, status, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, mandate *models.CartMandate) error {
	query := `
		INSERT INTO cart_mandates (` + cartColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		mandate.UUID, mandate.CartID, mandate.IntentHash, mandate.InvoiceRef,
		mandate.CartHash, mandate.ContentsJSON, mandate.AgentSignature,
		int64(mandate.TotalAmount), mandate.Currency, string(mandate.Status),
		mandate.CreatedAt, mandate.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("insert cart mandate: %w", err)
	}
	return nil
}

func (s *Postgres) FindByCartID(ctx context.Context, cartID string) (*models.CartMandate, error) {
	query := `SELECT ` + cartColumns + ` FROM cart_mandates WHERE cart_id = $1`
	return s.scanOne(s.execer(ctx).QueryRowContext(ctx, query, cartID))
}

func (s *Postgres) FindByHash(ctx context.Context, cartHash string) (*models.CartMandate, error) {
	query := `SELECT ` + cartColumns + ` FROM cart_mandates WHERE cart_hash = $1`
	return s.scanOne(s.execer(ctx).QueryRowContext(ctx, query, cartHash))
}

func (s *Postgres) FindLiveByIntentHash(ctx context.Context, intentHash string) (*models.CartMandate, error) {
	query := `
		SELECT ` + cartColumns + `
		FROM cart_mandates
		WHERE intent_hash = $1 AND status <> 'CANCELLED'
	`
	return s.scanOne(s.execer(ctx).QueryRowContext(ctx, query, intentHash))
}

func (s *Postgres) FindLatestByInvoiceAndStatus(ctx context.Context, invoiceRef string, status models.CartStatus) (*models.CartMandate, error) {
	query := `
		SELECT ` + cartColumns + `
		FROM cart_mandates
		WHERE invoice_ref = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return s.scanOne(s.execer(ctx).QueryRowContext(ctx, query, invoiceRef, string(status)))
}

func (s *Postgres) UpdateStatus(ctx context.Context, cartID string, from, to models.CartStatus) error {
	query := `
		UPDATE cart_mandates SET status = $3, updated_at = NOW()
		WHERE cart_id = $1 AND status = $2
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, cartID, string(from), string(to))
	if err != nil {
		return fmt.Errorf("update cart status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cart status: %w", err)
	}
	if affected == 0 {
		if _, err := s.FindByCartID(ctx, cartID); errors.Is(err, sentinel.ErrNotFound) {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *Postgres) scanOne(row *sql.Row) (*models.CartMandate, error) {
	var (
		mandate models.CartMandate
		amount  int64
		status  string
	)
	err := row.Scan(
		&mandate.UUID, &mandate.CartID, &mandate.IntentHash, &mandate.InvoiceRef,
		&mandate.CartHash, &mandate.ContentsJSON, &mandate.AgentSignature,
		&amount, &mandate.Currency, &status, &mandate.CreatedAt, &mandate.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan cart mandate: %w", err)
	}
	mandate.TotalAmount = models.Amount(amount)
	mandate.Status = models.CartStatus(status)
	return &mandate, nil
}
