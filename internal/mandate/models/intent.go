package models

import (
	"strings"
	"time"

	dErrors "paychain/pkg/domain-errors"
)

// IntentStatus is the lifecycle state of an intent mandate. The chain is
// forward-only: once a cart has consumed an intent it never transitions
// again, and CANCELLED is terminal.
type IntentStatus string

const (
	IntentStatusCreated   IntentStatus = "CREATED"
	IntentStatusCancelled IntentStatus = "CANCELLED"
)

// CanTransitionTo reports whether the status change is permitted.
func (s IntentStatus) CanTransitionTo(next IntentStatus) bool {
	return s == IntentStatusCreated && next == IntentStatusCancelled
}

// IntentContents is the exact payload the user signed. Field order is the
// canonical serialization order; reordering fields breaks every stored
// signature, so treat the declaration as part of the wire contract.
type IntentContents struct {
	UserID                string `json:"userId"`
	InvoiceRef            string `json:"invoiceRef"`
	MerchantName          string `json:"merchantName"`
	Amount                Amount `json:"amount"`
	Currency              string `json:"currency"`
	Description           string `json:"description"`
	Expiry                string `json:"expiry"`
	RequiresRefundability bool   `json:"requiresRefundability"`
}

// Validate enforces the structural invariants of a signed intent.
func (c IntentContents) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return dErrors.New(dErrors.CodeValidation, "intent userId is required")
	}
	if strings.TrimSpace(c.InvoiceRef) == "" {
		return dErrors.New(dErrors.CodeValidation, "intent invoiceRef is required")
	}
	if strings.TrimSpace(c.MerchantName) == "" {
		return dErrors.New(dErrors.CodeValidation, "intent merchantName is required")
	}
	if c.Amount <= 0 {
		return dErrors.New(dErrors.CodeValidation, "intent amount must be positive")
	}
	if err := ValidateCurrency(c.Currency); err != nil {
		return err
	}
	if c.Expiry != "" {
		if _, err := time.Parse(time.RFC3339, c.Expiry); err != nil {
			return dErrors.New(dErrors.CodeValidation, "intent expiry must be RFC3339")
		}
	}
	return nil
}

// Expired reports whether the intent's expiry has passed. A zero expiry
// never expires.
func (c IntentContents) Expired(now time.Time) bool {
	if c.Expiry == "" {
		return false
	}
	exp, err := time.Parse(time.RFC3339, c.Expiry)
	if err != nil {
		return false
	}
	return now.After(exp)
}

// IntentMandate is the persisted record of a user's authorization to pay.
// IntentHash is the SHA-256 of the canonical contents and the linkage key
// consumed by the cart stage.
type IntentMandate struct {
	UUID                  string
	IntentHash            string
	UserID                string
	InvoiceRef            string
	MerchantName          string
	Amount                Amount
	Currency              string
	Description           string
	Expiry                string
	RequiresRefundability bool
	UserSignature         string
	Status                IntentStatus
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewIntentMandate builds a persisted intent from verified contents.
func NewIntentMandate(uuid, intentHash, userSignature string, contents IntentContents, now time.Time) (*IntentMandate, error) {
	if intentHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "intent hash is required")
	}
	if userSignature == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user signature is required")
	}
	if err := contents.Validate(); err != nil {
		return nil, err
	}
	return &IntentMandate{
		UUID:                  uuid,
		IntentHash:            intentHash,
		UserID:                contents.UserID,
		InvoiceRef:            contents.InvoiceRef,
		MerchantName:          contents.MerchantName,
		Amount:                contents.Amount,
		Currency:              contents.Currency,
		Description:           contents.Description,
		Expiry:                contents.Expiry,
		RequiresRefundability: contents.RequiresRefundability,
		UserSignature:         userSignature,
		Status:                IntentStatusCreated,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}
