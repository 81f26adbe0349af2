package intent

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

// Postgres persists intent mandates. The intent hash is the primary
// linkage key and is unique:
//
//	CREATE TABLE intent_mandates (
//	    uuid                   UUID PRIMARY KEY,
//	    intent_hash            TEXT NOT NULL UNIQUE,
//	    user_id                TEXT NOT NULL,
//	    invoice_ref            TEXT NOT NULL,
//	    merchant_name          TEXT NOT NULL,
//	    amount                 BIGINT NOT NULL,
//	    currency               TEXT NOT NULL,
//	    description            TEXT,
//	    expiry                 TEXT,
//	    requires_refundability BOOLEAN NOT NULL,
//	    user_signature         TEXT NOT NULL,
//	    status                 TEXT NOT NULL,
//	    created_at             TIMESTAMPTZ NOT NULL,
//	    updated_at             TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX intent_mandates_invoice ON intent_mandates (invoice_ref, status, created_at);
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

const intentColumns = `uuid, intent_hash, user_id, invoice_ref, merchant_name, amount, currency,
	description, expiry, requires_refundability, user_signature, status, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, mandate *models.IntentMandate) error {
	query := `
		INSERT INTO intent_mandates (` + intentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		mandate.UUID, mandate.IntentHash, mandate.UserID, mandate.InvoiceRef,
		mandate.MerchantName, int64(mandate.Amount), mandate.Currency, mandate.Description,
		mandate.Expiry, mandate.RequiresRefundability, mandate.UserSignature,
		string(mandate.Status), mandate.CreatedAt, mandate.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("insert intent mandate: %w", err)
	}
	return nil
}

func (s *Postgres) FindByHash(ctx context.Context, intentHash string) (*models.IntentMandate, error) {
	query := `SELECT ` + intentColumns + ` FROM intent_mandates WHERE intent_hash = $1`
	return s.scanOne(s.execer(ctx).QueryRowContext(ctx, query, intentHash))
}

func (s *Postgres) FindLatestByInvoiceAndStatus(ctx context.Context, invoiceRef string, status models.IntentStatus) (*models.IntentMandate, error) {
	query := `
		SELECT ` + intentColumns + `
		FROM intent_mandates
		WHERE invoice_ref = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return s.scanOne(s.execer(ctx).QueryRowContext(ctx, query, invoiceRef, string(status)))
}

// UpdateStatus is a compare-and-swap on the status column. RowsAffected
// zero means either the row is gone or another transition got there first;
// a follow-up read distinguishes the two.
func (s *Postgres) UpdateStatus(ctx context.Context, intentHash string, from, to models.IntentStatus) error {
	query := `
		UPDATE intent_mandates SET status = $3, updated_at = NOW()
		WHERE intent_hash = $1 AND status = $2
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, intentHash, string(from), string(to))
	if err != nil {
		return fmt.Errorf("update intent status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update intent status: %w", err)
	}
	if affected == 0 {
		if _, err := s.FindByHash(ctx, intentHash); errors.Is(err, sentinel.ErrNotFound) {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *Postgres) scanOne(row *sql.Row) (*models.IntentMandate, error) {
	var (
		mandate models.IntentMandate
		amount  int64
		status  string
	)
	err := row.Scan(
		&mandate.UUID, &mandate.IntentHash, &mandate.UserID, &mandate.InvoiceRef,
		&mandate.MerchantName, &amount, &mandate.Currency, &mandate.Description,
		&mandate.Expiry, &mandate.RequiresRefundability, &mandate.UserSignature,
		&status, &mandate.CreatedAt, &mandate.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan intent mandate: %w", err)
	}
	mandate.Amount = models.Amount(amount)
	mandate.Status = models.IntentStatus(status)
	return &mandate, nil
}
