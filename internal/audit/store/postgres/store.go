package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"paychain/internal/audit"
	"paychain/internal/mandate/models"
	txcontext "paychain/pkg/platform/tx"
)

// Store persists ledger events in PostgreSQL.
//
//	CREATE TABLE audit_events (
//	    id                    UUID PRIMARY KEY,
//	    mandate_type          TEXT NOT NULL,
//	    mandate_id            TEXT NOT NULL,
//	    invoice_ref           TEXT,
//	    action                TEXT NOT NULL,
//	    actor                 TEXT NOT NULL,
//	    status                TEXT NOT NULL,
//	    details               TEXT,
//	    signature_fingerprint TEXT,
//	    amount                BIGINT,
//	    currency              TEXT,
//	    merchant_name         TEXT,
//	    timestamp             TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX audit_events_mandate ON audit_events (mandate_type, mandate_id);
//
// No UPDATE or DELETE statements exist against this table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execer joins the enclosing chain transaction when one is in context so a
// transition's mandate row and audit event commit or roll back together.
func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, mandate_type, mandate_id, invoice_ref, action, actor,
			status, details, signature_fingerprint, amount, currency,
			merchant_name, timestamp
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	var amount *int64
	if event.Amount != nil {
		v := int64(*event.Amount)
		amount = &v
	}
	_, err := s.execer(ctx).ExecContext(ctx, query,
		event.ID,
		string(event.MandateType),
		event.MandateID,
		event.InvoiceRef,
		string(event.Action),
		event.Actor,
		string(event.Status),
		event.Details,
		event.SignatureFingerprint,
		amount,
		event.Currency,
		event.MerchantName,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByMandate(ctx context.Context, mandateType audit.MandateType, mandateID string) ([]audit.Event, error) {
	query := selectColumns + `
		WHERE mandate_type = $1 AND mandate_id = $2
		ORDER BY timestamp ASC
	`
	rows, err := s.db.QueryContext(ctx, query, string(mandateType), mandateID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := selectColumns + `
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

const selectColumns = `
	SELECT id, mandate_type, mandate_id, invoice_ref, action, actor,
		   status, details, signature_fingerprint, amount, currency,
		   merchant_name, timestamp
	FROM audit_events
`

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			event      audit.Event
			kind       string
			action     string
			status     string
			invoiceRef sql.NullString
			details    sql.NullString
			fp         sql.NullString
			amount     sql.NullInt64
			currency   sql.NullString
			merchant   sql.NullString
		)
		err := rows.Scan(
			&event.ID, &kind, &event.MandateID, &invoiceRef, &action, &event.Actor,
			&status, &details, &fp, &amount, &currency, &merchant, &event.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.MandateType = audit.MandateType(kind)
		event.Action = audit.Action(action)
		event.Status = audit.Status(status)
		event.InvoiceRef = invoiceRef.String
		event.Details = details.String
		event.SignatureFingerprint = fp.String
		event.Currency = currency.String
		event.MerchantName = merchant.String
		if amount.Valid {
			v := models.Amount(amount.Int64)
			event.Amount = &v
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
