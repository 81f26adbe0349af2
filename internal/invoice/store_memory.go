package invoice

import (
	"context"
	"sync"

	"paychain/pkg/platform/sentinel"
)

// InMemory keeps invoices in process memory, keyed by invoice reference.
type InMemory struct {
	mu    sync.RWMutex
	byRef map[string]*Invoice
	order []string
}

func NewInMemory() *InMemory {
	return &InMemory{byRef: make(map[string]*Invoice)}
}

func (s *InMemory) Create(_ context.Context, inv *Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byRef[inv.InvoiceRef]; exists {
		return sentinel.ErrDuplicate
	}
	clone := *inv
	s.byRef[inv.InvoiceRef] = &clone
	s.order = append(s.order, inv.InvoiceRef)
	return nil
}

func (s *InMemory) FindByRef(_ context.Context, invoiceRef string) (*Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.byRef[invoiceRef]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *inv
	return &clone, nil
}

// ListOpenByMerchant returns the merchant's unpaid invoices in creation
// order.
func (s *InMemory) ListOpenByMerchant(_ context.Context, merchantName string) ([]*Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Invoice
	for _, ref := range s.order {
		inv := s.byRef[ref]
		if inv.MerchantName == merchantName && !inv.Paid {
			clone := *inv
			out = append(out, &clone)
		}
	}
	return out, nil
}

// MarkPaid flips an invoice to paid after a successful gateway charge.
func (s *InMemory) MarkPaid(_ context.Context, invoiceRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.byRef[invoiceRef]
	if !ok {
		return sentinel.ErrNotFound
	}
	inv.Paid = true
	return nil
}
