package models

import (
	"time"

	dErrors "paychain/pkg/domain-errors"
)

// PaymentStatus is the lifecycle state of a payment mandate.
type PaymentStatus string

const (
	PaymentStatusCreated       PaymentStatus = "CREATED"
	PaymentStatusSentToGateway PaymentStatus = "SENT_TO_GATEWAY"
	PaymentStatusProcessed     PaymentStatus = "PROCESSED"
	PaymentStatusFailed        PaymentStatus = "FAILED"
)

// CanTransitionTo reports whether the status change is permitted.
// PROCESSED and FAILED are terminal.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusCreated:
		return next == PaymentStatusSentToGateway || next == PaymentStatusFailed
	case PaymentStatusSentToGateway:
		return next == PaymentStatusProcessed || next == PaymentStatusFailed
	default:
		return false
	}
}

// ParsePaymentStatus constructs a PaymentStatus from external input.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusCreated, PaymentStatusSentToGateway, PaymentStatusProcessed, PaymentStatusFailed:
		return PaymentStatus(s), nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unsupported payment status %q", s)
	}
}

// PaymentMethod is the closed set of supported instruments.
type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "CARD"
	PaymentMethodUPI  PaymentMethod = "UPI"
)

// ParsePaymentMethod constructs a PaymentMethod from external input.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodCard, PaymentMethodUPI:
		return PaymentMethod(s), nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unsupported payment method %q", s)
	}
}

// PaymentContents is the agent-signed authorization to charge. CartID and
// CartHash bind the payment to one specific signed cart.
type PaymentContents struct {
	PaymentMandateID string `json:"paymentMandateId"`
	CartID           string `json:"cartId"`
	CartHash         string `json:"cartHash"`
	MerchantName     string `json:"merchantName"`
	Amount           Amount `json:"amount"`
	Currency         string `json:"currency"`
	PaymentMethod    string `json:"paymentMethod"`
	Timestamp        string `json:"timestamp"`
}

// PaymentMandate is the persisted, agent-signed charge authorization plus
// the gateway execution outcome.
type PaymentMandate struct {
	UUID             string
	PaymentMandateID string
	CartID           string
	CartHash         string
	InvoiceRef       string
	MerchantName     string
	Amount           Amount
	Currency         string
	PaymentMethod    PaymentMethod
	ContentsJSON     string
	AgentSignature   string
	Status           PaymentStatus
	GatewayOrderID   string
	GatewayPaymentID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Transaction is the receipt written after a successful gateway charge.
type Transaction struct {
	UUID          string
	InvoiceRef    string
	TransactionID string
	Amount        Amount
	Currency      string
	PaymentMethod PaymentMethod
	Status        string
	CreatedAt     time.Time
}
