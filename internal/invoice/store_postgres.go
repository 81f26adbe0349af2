package invoice

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

// Postgres persists invoices:
//
//	CREATE TABLE invoices (
//	    uuid          UUID PRIMARY KEY,
//	    invoice_ref   TEXT NOT NULL UNIQUE,
//	    merchant_name TEXT NOT NULL,
//	    amount        BIGINT NOT NULL,
//	    currency      TEXT NOT NULL,
//	    description   TEXT,
//	    due_date      TIMESTAMPTZ,
//	    paid          BOOLEAN NOT NULL DEFAULT FALSE,
//	    created_at    TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX invoices_merchant_open ON invoices (merchant_name) WHERE NOT paid;
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const pqUniqueViolation = "23505"

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

const invoiceColumns = `uuid, invoice_ref, merchant_name, amount, currency, description, due_date, paid, created_at`

func (s *Postgres) Create(ctx context.Context, inv *Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		inv.UUID, inv.InvoiceRef, inv.MerchantName, int64(inv.Amount),
		inv.Currency, inv.Description, inv.DueDate, inv.Paid, inv.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (s *Postgres) FindByRef(ctx context.Context, invoiceRef string) (*Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_ref = $1`
	row := s.execer(ctx).QueryRowContext(ctx, query, invoiceRef)

	var (
		inv    Invoice
		amount int64
	)
	err := row.Scan(&inv.UUID, &inv.InvoiceRef, &inv.MerchantName, &amount,
		&inv.Currency, &inv.Description, &inv.DueDate, &inv.Paid, &inv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	inv.Amount = models.Amount(amount)
	return &inv, nil
}

func (s *Postgres) ListOpenByMerchant(ctx context.Context, merchantName string) ([]*Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE merchant_name = $1 AND NOT paid
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, merchantName)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	var out []*Invoice
	for rows.Next() {
		var (
			inv    Invoice
			amount int64
		)
		err := rows.Scan(&inv.UUID, &inv.InvoiceRef, &inv.MerchantName, &amount,
			&inv.Currency, &inv.Description, &inv.DueDate, &inv.Paid, &inv.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		inv.Amount = models.Amount(amount)
		out = append(out, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}
	return out, nil
}

func (s *Postgres) MarkPaid(ctx context.Context, invoiceRef string) error {
	query := `UPDATE invoices SET paid = TRUE WHERE invoice_ref = $1`
	res, err := s.execer(ctx).ExecContext(ctx, query, invoiceRef)
	if err != nil {
		return fmt.Errorf("mark invoice paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark invoice paid: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
