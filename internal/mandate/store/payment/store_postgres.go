package payment

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

// Postgres persists payment mandates and transaction receipts. A partial
// unique index lets at most one non-failed payment charge a cart:
//
//	CREATE TABLE payment_mandates (
//	    uuid               UUID PRIMARY KEY,
//	    payment_mandate_id TEXT NOT NULL UNIQUE,
//	    cart_id            TEXT NOT NULL,
//	    cart_hash          TEXT NOT NULL,
//	    invoice_ref        TEXT NOT NULL,
//	    merchant_name      TEXT NOT NULL,
//	    amount             BIGINT NOT NULL,
//	    currency           TEXT NOT NULL,
//	    payment_method     TEXT NOT NULL,
//	    contents_json      TEXT NOT NULL,
//	    agent_signature    TEXT NOT NULL,
//	    status             TEXT NOT NULL,
//	    gateway_order_id   TEXT,
//	    gateway_payment_id TEXT,
//	    created_at         TIMESTAMPTZ NOT NULL,
//	    updated_at         TIMESTAMPTZ NOT NULL
//	);
//	CREATE UNIQUE INDEX payment_mandates_live_cart
//	    ON payment_mandates (cart_id) WHERE status <> 'FAILED';
//
//	CREATE TABLE transactions (
//	    uuid           UUID PRIMARY KEY,
//	    invoice_ref    TEXT NOT NULL,
//	    transaction_id TEXT NOT NULL,
//	    amount         BIGINT NOT NULL,
//	    currency       TEXT NOT NULL,
//	    payment_method TEXT NOT NULL,
//	    status         TEXT NOT NULL,
//	    created_at     TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX transactions_invoice ON transactions (invoice_ref);
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

const paymentColumns = `uuid, payment_mandate_id, cart_id, cart_hash, invoice_ref, merchant_name,
	amount, currency, payment_method, contents_json, agent_signature, status,
	gateway_order_id, gateway_payment_id, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, mandate *models.PaymentMandate) error {
	query := `
		INSERT INTO payment_mandates (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		mandate.UUID, mandate.PaymentMandateID, mandate.CartID, mandate.CartHash,
		mandate.InvoiceRef, mandate.MerchantName, int64(mandate.Amount), mandate.Currency,
		string(mandate.PaymentMethod), mandate.ContentsJSON, mandate.AgentSignature,
		string(mandate.Status), nullable(mandate.GatewayOrderID), nullable(mandate.GatewayPaymentID),
		mandate.CreatedAt, mandate.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrDuplicate
		}
		return fmt.Errorf("insert payment mandate: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, paymentMandateID string) (*models.PaymentMandate, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_mandates WHERE payment_mandate_id = $1`
	return s.scanOne(s.execer(ctx).QueryRowContext(ctx, query, paymentMandateID))
}

func (s *Postgres) FindLiveByCartID(ctx context.Context, cartID string) (*models.PaymentMandate, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payment_mandates
		WHERE cart_id = $1 AND status <> 'FAILED'
	`
	return s.scanOne(s.execer(ctx).QueryRowContext(ctx, query, cartID))
}

func (s *Postgres) FindLatestByInvoiceAndStatus(ctx context.Context, invoiceRef string, status models.PaymentStatus) (*models.PaymentMandate, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payment_mandates
		WHERE invoice_ref = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return s.scanOne(s.execer(ctx).QueryRowContext(ctx, query, invoiceRef, string(status)))
}

func (s *Postgres) UpdateStatus(ctx context.Context, paymentMandateID string, from, to models.PaymentStatus) error {
	query := `
		UPDATE payment_mandates SET status = $3, updated_at = NOW()
		WHERE payment_mandate_id = $1 AND status = $2
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, paymentMandateID, string(from), string(to))
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if affected == 0 {
		if _, err := s.FindByID(ctx, paymentMandateID); errors.Is(err, sentinel.ErrNotFound) {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *Postgres) SetGatewayRefs(ctx context.Context, paymentMandateID, orderID, paymentID string) error {
	query := `
		UPDATE payment_mandates SET gateway_order_id = $2, gateway_payment_id = $3, updated_at = NOW()
		WHERE payment_mandate_id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, paymentMandateID, nullable(orderID), nullable(paymentID))
	if err != nil {
		return fmt.Errorf("set gateway refs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set gateway refs: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (uuid, invoice_ref, transaction_id, amount, currency, payment_method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		txn.UUID, txn.InvoiceRef, txn.TransactionID, int64(txn.Amount),
		txn.Currency, string(txn.PaymentMethod), txn.Status, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *Postgres) ListTransactionsByInvoice(ctx context.Context, invoiceRef string) ([]*models.Transaction, error) {
	query := `
		SELECT uuid, invoice_ref, transaction_id, amount, currency, payment_method, status, created_at
		FROM transactions
		WHERE invoice_ref = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, invoiceRef)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []*models.Transaction
	for rows.Next() {
		var (
			txn    models.Transaction
			amount int64
			method string
		)
		err := rows.Scan(&txn.UUID, &txn.InvoiceRef, &txn.TransactionID, &amount, &txn.Currency, &method, &txn.Status, &txn.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txn.Amount = models.Amount(amount)
		txn.PaymentMethod = models.PaymentMethod(method)
		out = append(out, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Postgres) scanOne(row *sql.Row) (*models.PaymentMandate, error) {
	var (
		mandate   models.PaymentMandate
		amount    int64
		method    string
		status    string
		orderID   sql.NullString
		paymentID sql.NullString
	)
	err := row.Scan(
		&mandate.UUID, &mandate.PaymentMandateID, &mandate.CartID, &mandate.CartHash,
		&mandate.InvoiceRef, &mandate.MerchantName, &amount, &mandate.Currency,
		&method, &mandate.ContentsJSON, &mandate.AgentSignature, &status,
		&orderID, &paymentID, &mandate.CreatedAt, &mandate.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan payment mandate: %w", err)
	}
	mandate.Amount = models.Amount(amount)
	mandate.PaymentMethod = models.PaymentMethod(method)
	mandate.Status = models.PaymentStatus(status)
	mandate.GatewayOrderID = orderID.String
	mandate.GatewayPaymentID = paymentID.String
	return &mandate, nil
}
