package handler

import (
	"time"

	"paychain/internal/mandate/models"
)

// IntentResponse is the wire form of an intent mandate.
type IntentResponse struct {
	UUID         string    `json:"uuid"`
	IntentHash   string    `json:"intentHash"`
	UserID       string    `json:"userId"`
	InvoiceRef   string    `json:"invoiceRef"`
	MerchantName string    `json:"merchantName"`
	Amount       int64     `json:"amount"`
	Currency     string    `json:"currency"`
	Description  string    `json:"description,omitempty"`
	Expiry       string    `json:"expiry,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

func intentResponse(m *models.IntentMandate) IntentResponse {
	return IntentResponse{
		UUID:         m.UUID,
		IntentHash:   m.IntentHash,
		UserID:       m.UserID,
		InvoiceRef:   m.InvoiceRef,
		MerchantName: m.MerchantName,
		Amount:       int64(m.Amount),
		Currency:     m.Currency,
		Description:  m.Description,
		Expiry:       m.Expiry,
		Status:       string(m.Status),
		CreatedAt:    m.CreatedAt,
	}
}

// CartResponse is the wire form of a cart mandate.
type CartResponse struct {
	UUID        string    `json:"uuid"`
	CartID      string    `json:"cartId"`
	IntentHash  string    `json:"intentHash"`
	InvoiceRef  string    `json:"invoiceRef"`
	CartHash    string    `json:"cartHash"`
	Contents    string    `json:"contents"`
	TotalAmount int64     `json:"totalAmount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func cartResponse(m *models.CartMandate) CartResponse {
	return CartResponse{
		UUID:        m.UUID,
		CartID:      m.CartID,
		IntentHash:  m.IntentHash,
		InvoiceRef:  m.InvoiceRef,
		CartHash:    m.CartHash,
		Contents:    m.ContentsJSON,
		TotalAmount: int64(m.TotalAmount),
		Currency:    m.Currency,
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt,
	}
}

// PaymentResponse is the wire form of a payment mandate.
type PaymentResponse struct {
	UUID             string    `json:"uuid"`
	PaymentMandateID string    `json:"paymentMandateId"`
	CartID           string    `json:"cartId"`
	CartHash         string    `json:"cartHash"`
	InvoiceRef       string    `json:"invoiceRef"`
	MerchantName     string    `json:"merchantName"`
	Amount           int64     `json:"amount"`
	Currency         string    `json:"currency"`
	PaymentMethod    string    `json:"paymentMethod"`
	Status           string    `json:"status"`
	GatewayOrderID   string    `json:"gatewayOrderId,omitempty"`
	GatewayPaymentID string    `json:"gatewayPaymentId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func paymentResponse(m *models.PaymentMandate) PaymentResponse {
	return PaymentResponse{
		UUID:             m.UUID,
		PaymentMandateID: m.PaymentMandateID,
		CartID:           m.CartID,
		CartHash:         m.CartHash,
		InvoiceRef:       m.InvoiceRef,
		MerchantName:     m.MerchantName,
		Amount:           int64(m.Amount),
		Currency:         m.Currency,
		PaymentMethod:    string(m.PaymentMethod),
		Status:           string(m.Status),
		GatewayOrderID:   m.GatewayOrderID,
		GatewayPaymentID: m.GatewayPaymentID,
		CreatedAt:        m.CreatedAt,
	}
}

// TransactionResponse is the wire form of a transaction receipt.
type TransactionResponse struct {
	UUID          string    `json:"uuid"`
	InvoiceRef    string    `json:"invoiceRef"`
	TransactionID string    `json:"transactionId"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func transactionResponse(m *models.Transaction) TransactionResponse {
	return TransactionResponse{
		UUID:          m.UUID,
		InvoiceRef:    m.InvoiceRef,
		TransactionID: m.TransactionID,
		Amount:        int64(m.Amount),
		Currency:      m.Currency,
		PaymentMethod: string(m.PaymentMethod),
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
	}
}
