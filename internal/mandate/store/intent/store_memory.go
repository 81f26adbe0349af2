package intent

import (
	"context"
	"sync"
	"time"

	"paychain/internal/mandate/models"
	"paychain/pkg/platform/sentinel"
)

// InMemory keeps intent mandates in process memory, keyed by intent hash.
// It mirrors the Postgres store's constraints: the hash is unique and
// status changes are compare-and-swap guarded.
type InMemory struct {
	mu      sync.RWMutex
	byHash  map[string]*models.IntentMandate
	ordered []string // insertion order, newest last
}

func NewInMemory() *InMemory {
	return &InMemory{byHash: make(map[string]*models.IntentMandate)}
}

func (s *InMemory) Create(_ context.Context, mandate *models.IntentMandate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byHash[mandate.IntentHash]; exists {
		return sentinel.ErrDuplicate
	}
	clone := *mandate
	s.byHash[mandate.IntentHash] = &clone
	s.ordered = append(s.ordered, mandate.IntentHash)
	return nil
}

func (s *InMemory) FindByHash(_ context.Context, intentHash string) (*models.IntentMandate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mandate, ok := s.byHash[intentHash]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *mandate
	return &clone, nil
}

// FindLatestByInvoiceAndStatus returns the most recently created intent for
// an invoice in the given status.
func (s *InMemory) FindLatestByInvoiceAndStatus(_ context.Context, invoiceRef string, status models.IntentStatus) (*models.IntentMandate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.ordered) - 1; i >= 0; i-- {
		mandate := s.byHash[s.ordered[i]]
		if mandate.InvoiceRef == invoiceRef && mandate.Status == status {
			clone := *mandate
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// UpdateStatus transitions an intent from one status to another. The
// current status must match from exactly; a mismatch means another
// transition won and the caller gets ErrInvalidState.
func (s *InMemory) UpdateStatus(_ context.Context, intentHash string, from, to models.IntentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mandate, ok := s.byHash[intentHash]
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
