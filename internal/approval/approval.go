// Package approval calls the AI collaborator that reviews a cart before a
// payment mandate may be created. The contract is a structured verdict;
// anything the client cannot parse as an explicit APPROVE is treated as a
// rejection.
package approval

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	dErrors "paychain/pkg/domain-errors"
)

// Verdict is the decision enum in the AI contract.
type Verdict string

const (
	VerdictApprove Verdict = "APPROVE"
	VerdictReject  Verdict = "REJECT"
)

// Decision is the structured response from the AI reviewer.
type Decision struct {
	Decision Verdict `json:"decision"`
	Reason   string  `json:"reason"`
}

// Approved reports whether the verdict is an explicit approval. Unknown
// verdicts fail closed.
func (d Decision) Approved() bool {
	return d.Decision == VerdictApprove
}

// Request is the cart summary sent for review.
type Request struct {
	CartID       string `json:"cartId"`
	IntentHash   string `json:"intentHash"`
	CartContents string `json:"cartContents"`
	MerchantName string `json:"merchantName"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

const defaultTimeout = 30 * time.Second

// Client reviews carts over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout bounds how long a review may take.
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

// NewClient creates an approval client for the reviewer at baseURL.
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

// Review submits a cart for approval. A REJECT verdict is returned as a
// Decision, not an error; errors mean the review itself could not complete.
func (c *Client) Review(ctx context.Context, req Request) (Decision, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "marshal approval request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/review", bytes.NewReader(body))
	if err != nil {
		return Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "build approval request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return Decision{}, dErrors.Wrap(err, dErrors.CodeApprovalTimeout, "approval review timed out")
		}
		return Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "approval review request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Decision{}, dErrors.Newf(dErrors.CodeInternal, "approval service returned status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "read approval response")
	}

	var decision Decision
	if err := json.Unmarshal(payload, &decision); err != nil {
		return Decision{}, dErrors.Wrap(err, dErrors.CodeInternal, "decode approval response")
	}

	// Anything that is not an explicit APPROVE or REJECT is a malformed
	// verdict and fails closed as a rejection.
	switch decision.Decision {
	case VerdictApprove, VerdictReject:
		return decision, nil
	default:
		c.logger.WarnContext(ctx, "approval returned unknown verdict, failing closed",
			"verdict", string(decision.Decision),
			"cart_id", req.CartID,
		)
		return Decision{
			Decision: VerdictReject,
			Reason:   fmt.Sprintf("unrecognized verdict %q", decision.Decision),
		}, nil
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
