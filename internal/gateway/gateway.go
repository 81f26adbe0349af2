// Package gateway executes charges against the external payment gateway.
// Success is defined by the presence of a transaction id in the response;
// a well-formed response without one is still a failed charge.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	dErrors "paychain/pkg/domain-errors"
)

// ChargeRequest is what the gateway needs to move money.
type ChargeRequest struct {
	PaymentMandateID string `json:"paymentMandateId"`
	InvoiceRef       string `json:"invoiceRef"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	PaymentMethod    string `json:"paymentMethod"`
	MethodToken      string `json:"methodToken"`
}

// ChargeResult is the gateway's outcome. TransactionID empty means the
// charge did not complete regardless of Status.
type ChargeResult struct {
	TransactionID string `json:"transactionId"`
	OrderID       string `json:"orderId"`
	Status        string `json:"status"`
}

// Succeeded reports whether the gateway actually moved money.
func (r ChargeResult) Succeeded() bool {
	return r.TransactionID != ""
}

const defaultTimeout = 60 * time.Second

// Client charges payments over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout bounds how long a charge attempt may take.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient creates a gateway client for the processor at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Charge submits one charge. The result must still be checked with
// Succeeded; err is only non-nil when the attempt itself failed.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return ChargeResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "marshal charge request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charges", bytes.NewReader(body))
	if err != nil {
		return ChargeResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "build charge request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	// Retries by the orchestrator reuse the mandate id, so a gateway that
	// honors idempotency keys will not double-charge.
	httpReq.Header.Set("Idempotency-Key", req.PaymentMandateID)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return ChargeResult{}, dErrors.Wrap(err, dErrors.CodeGatewayTimeout, "gateway charge timed out")
		}
		return ChargeResult{}, dErrors.Wrap(err, dErrors.CodeGateway, "gateway charge request failed")
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ChargeResult{}, dErrors.Wrap(err, dErrors.CodeGateway, "read gateway response")
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return ChargeResult{}, dErrors.Newf(dErrors.CodeGateway, "gateway returned status %d", resp.StatusCode)
	}

	var result ChargeResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return ChargeResult{}, dErrors.Wrap(err, dErrors.CodeGateway, "decode gateway response")
	}
	return result, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
