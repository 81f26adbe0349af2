package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
// These represent factual states about persisted mandates and keys, not
// policy decisions:
// - ErrNotFound: record does not exist in store
// - ErrDuplicate: a uniqueness constraint (intent hash, cart id, payment
//   mandate id, active user key) rejected the write
// - ErrInvalidState: mandate status does not permit the requested transition
// - ErrUnavailable: backing store temporarily unreachable
//
// For policy rejections (bad signatures, mismatched intents), use
// pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("duplicate")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
