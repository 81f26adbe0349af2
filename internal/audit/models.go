// Package audit is the append-only ledger behind the mandate chain. Every
// verification outcome and state transition writes exactly one event,
// success or failure, forming the non-repudiation trail.
package audit

import (
	"time"

	"paychain/internal/mandate/models"
)

// MandateType identifies which chain stage an event belongs to.
type MandateType string

const (
	MandateIntent  MandateType = "INTENT"
	MandateCart    MandateType = "CART"
	MandatePayment MandateType = "PAYMENT"
)

// Action is what happened at that stage.
type Action string

const (
	ActionCreate   Action = "CREATE"
	ActionVerify   Action = "VERIFY"
	ActionSign     Action = "SIGN"
	ActionValidate Action = "VALIDATE"
	ActionPay      Action = "PAY"
	ActionFail     Action = "FAIL"
)

// Status is the outcome of the action.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// Actors recorded in the ledger.
const (
	ActorSystem = "system"
	ActorAgent  = "backend-agent"
	ActorAI     = "ai-agent"
)

// Event is one immutable ledger record. Events are never updated or
// deleted.
type Event struct {
	ID          string      `json:"id"`
	MandateType MandateType `json:"mandateType"`
	MandateID   string      `json:"mandateId"` // intent hash, cart id, or payment mandate id
	InvoiceRef  string      `json:"invoiceRef,omitempty"`
	Action      Action      `json:"action"`
	Actor       string      `json:"actor"` // user id, agent, or AI collaborator
	Status      Status      `json:"status"`
	Details     string      `json:"details,omitempty"`
	// SignatureFingerprint is a short prefix of the signature involved in
	// SIGN/VERIFY events. The full signature is never written to the
	// ledger.
	SignatureFingerprint string         `json:"signatureFingerprint,omitempty"`
	Amount               *models.Amount `json:"amount,omitempty"`
	Currency             string         `json:"currency,omitempty"`
	MerchantName         string         `json:"merchantName,omitempty"`
	Timestamp            time.Time      `json:"timestamp"`
}

// fingerprintLen is how much of a signature the ledger retains.
const fingerprintLen = 20

// Fingerprint truncates a signature for audit storage.
func Fingerprint(signature string) string {
	if len(signature) <= fingerprintLen {
		return signature
	}
	return signature[:fingerprintLen] + "..."
}
