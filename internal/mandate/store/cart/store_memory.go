package cart

import (
	"context"
	"sync"
	"time"

	"paychain/internal/mandate/models"
	"paychain/pkg/platform/sentinel"
)

// InMemory keeps cart mandates in process memory. It mirrors the Postgres
// store's constraint that an intent hash backs at most one live cart;
// a cancelled cart frees the intent for a retry.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[string]*models.CartMandate
	byHash  map[string]string // cart hash -> cart id
	ordered []string          // insertion order of cart ids, newest last
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[string]*models.CartMandate),
		byHash: make(map[string]string),
	}
}

func (s *InMemory) Create(_ context.Context, mandate *models.CartMandate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[mandate.CartID]; exists {
		return sentinel.ErrDuplicate
	}
	for _, existing := range s.byID {
		if existing.IntentHash == mandate.IntentHash && existing.Status != models.CartStatusCancelled {
			return sentinel.ErrDuplicate
		}
	}
	clone := *mandate
	s.byID[mandate.CartID] = &clone
	s.byHash[mandate.CartHash] = mandate.CartID
	s.ordered = append(s.ordered, mandate.CartID)
	return nil
}

func (s *InMemory) FindByCartID(_ context.Context, cartID string) (*models.CartMandate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mandate, ok := s.byID[cartID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *mandate
	return &clone, nil
}

func (s *InMemory) FindByHash(_ context.Context, cartHash string) (*models.CartMandate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cartID, ok := s.byHash[cartHash]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *s.byID[cartID]
	return &clone, nil
}

// FindLiveByIntentHash returns the non-cancelled cart consuming an intent,
// if one exists.
func (s *InMemory) FindLiveByIntentHash(_ context.Context, intentHash string) (*models.CartMandate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, mandate := range s.byID {
		if mandate.IntentHash == intentHash && mandate.Status != models.CartStatusCancelled {
			clone := *mandate
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// FindLatestByInvoiceAndStatus returns the most recently created cart for
// an invoice in the given status.
func (s *InMemory) FindLatestByInvoiceAndStatus(_ context.Context, invoiceRef string, status models.CartStatus) (*models.CartMandate, error) {
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

// UpdateStatus transitions a cart from one status to another under a
// compare-and-swap guard.
func (s *InMemory) UpdateStatus(_ context.Context, cartID string, from, to models.CartStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mandate, ok := s.byID[cartID]
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
