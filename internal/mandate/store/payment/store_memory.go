package payment

import (
	"context"
	"sync"
	"time"

	"paychain/internal/mandate/models"
	"paychain/pkg/platform/sentinel"
)

// InMemory keeps payment mandates and transaction receipts in process
// memory. A cart backs at most one live payment; a FAILED payment frees it.
type InMemory struct {
	mu           sync.RWMutex
	byID         map[string]*models.PaymentMandate // payment mandate id
	ordered      []string                          // insertion order, newest last
	transactions []*models.Transaction
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[string]*models.PaymentMandate)}
}

func (s *InMemory) Create(_ context.Context, mandate *models.PaymentMandate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[mandate.PaymentMandateID]; exists {
		return sentinel.ErrDuplicate
	}
	for _, existing := range s.byID {
		if existing.CartID == mandate.CartID && existing.Status != models.PaymentStatusFailed {
			return sentinel.ErrDuplicate
		}
	}
	clone := *mandate
	s.byID[mandate.PaymentMandateID] = &clone
	s.ordered = append(s.ordered, mandate.PaymentMandateID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, paymentMandateID string) (*models.PaymentMandate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mandate, ok := s.byID[paymentMandateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *mandate
	return &clone, nil
}

// FindLiveByCartID returns the non-failed payment charging a cart, if one
// exists.
func (s *InMemory) FindLiveByCartID(_ context.Context, cartID string) (*models.PaymentMandate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, mandate := range s.byID {
		if mandate.CartID == cartID && mandate.Status != models.PaymentStatusFailed {
			clone := *mandate
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// FindLatestByInvoiceAndStatus returns the most recently created payment for
// an invoice in the given status.
func (s *InMemory) FindLatestByInvoiceAndStatus(_ context.Context, invoiceRef string, status models.PaymentStatus) (*models.PaymentMandate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.ordered) - 1; i >= 0; i-- {
		mandate := s.byID[s.ordered[i]]
		if mandate.InvoiceRef == invoiceRef && mandate.Status == status {
			clone := *mandate
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) UpdateStatus(_ context.Context, paymentMandateID string, from, to models.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mandate, ok := s.byID[paymentMandateID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if mandate.Status != from {
		return sentinel.ErrInvalidState
	}
	mandate.Status = to
	mandate.UpdatedAt = time.Now()
	return nil
}

// SetGatewayRefs records the gateway's identifiers on the mandate after a
// charge attempt.
func (s *InMemory) SetGatewayRefs(_ context.Context, paymentMandateID, orderID, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mandate, ok := s.byID[paymentMandateID]
	if !ok {
		return sentinel.ErrNotFound
	}
	mandate.GatewayOrderID = orderID
	mandate.GatewayPaymentID = paymentID
	mandate.UpdatedAt = time.Now()
	return nil
}

func (s *InMemory) CreateTransaction(_ context.Context, txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *txn
	s.transactions = append(s.transactions, &clone)
	return nil
}

func (s *InMemory) ListTransactionsByInvoice(_ context.Context, invoiceRef string) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Transaction
	for _, txn := range s.transactions {
		if txn.InvoiceRef == invoiceRef {
			clone := *txn
			out = append(out, &clone)
		}
	}
	return out, nil
}
