package models

import (
	"time"

	dErrors "paychain/pkg/domain-errors"
)

// CartStatus is the lifecycle state of a cart mandate.
type CartStatus string

const (
	CartStatusCreated   CartStatus = "CREATED"
	CartStatusConfirmed CartStatus = "CONFIRMED"
	CartStatusCancelled CartStatus = "CANCELLED"
	CartStatusProcessed CartStatus = "PROCESSED"
)

// CanTransitionTo reports whether the status change is permitted.
// CANCELLED and PROCESSED are terminal.
func (s CartStatus) CanTransitionTo(next CartStatus) bool {
	switch s {
	case CartStatusCreated:
		return next == CartStatusConfirmed || next == CartStatusCancelled
	case CartStatusConfirmed:
		return next == CartStatusProcessed || next == CartStatusCancelled
	default:
		return false
	}
}

// ParseCartStatus constructs a CartStatus from external input.
func ParseCartStatus(s string) (CartStatus, error) {
	switch CartStatus(s) {
	case CartStatusCreated, CartStatusConfirmed, CartStatusCancelled, CartStatusProcessed:
		return CartStatus(s), nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unsupported cart status %q", s)
	}
}

// CartItem is one payable line inside a cart.
type CartItem struct {
	InvoiceRef  string `json:"invoiceRef"`
	Description string `json:"description"`
	Amount      Amount `json:"amount"`
}

// CartContents is the agent-signed declaration of exactly what will be
// purchased. Like IntentContents, the field declaration order is the
// canonical serialization order.
type CartContents struct {
	CartID     string     `json:"cartId"`
	IntentHash string     `json:"intentHash"`
	Items      []CartItem `json:"items"`
	Total      Amount     `json:"total"`
	Currency   string     `json:"currency"`
	Timestamp  string     `json:"timestamp"`
}

// Validate enforces structural invariants, including that the declared total
// equals the sum of the items.
func (c CartContents) Validate() error {
	if c.CartID == "" {
		return dErrors.New(dErrors.CodeValidation, "cart cartId is required")
	}
	if c.IntentHash == "" {
		return dErrors.New(dErrors.CodeValidation, "cart intentHash is required")
	}
	if len(c.Items) == 0 {
		return dErrors.New(dErrors.CodeValidation, "cart must contain at least one item")
	}
	var sum Amount
	for _, item := range c.Items {
		if item.Amount <= 0 {
			return dErrors.New(dErrors.CodeValidation, "cart item amount must be positive")
		}
		sum += item.Amount
	}
	if sum != c.Total {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cart total %d does not equal item sum %d", c.Total, sum)
	}
	return ValidateCurrency(c.Currency)
}

// CartMandate is the persisted, agent-signed cart. ContentsJSON holds the
// exact canonical bytes that were hashed and signed; re-verification at the
// payment stage runs against these stored bytes, not a re-serialization.
type CartMandate struct {
	UUID           string
	CartID         string
	IntentHash     string
	InvoiceRef     string
	CartHash       string
	ContentsJSON   string
	AgentSignature string
	TotalAmount    Amount
	Currency       string
	Status         CartStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
