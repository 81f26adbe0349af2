package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Store persists ledger events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByMandate(ctx context.Context, mandateType MandateType, mandateID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Recorder appends events to the ledger. Audit is observability, not a
// correctness gate: Record never fails the calling transition. Append
// failures are logged, counted, and pushed to an operational error channel
// instead of being surfaced to the transaction.
type Recorder struct {
	store  Store
	logger *slog.Logger
	errs   chan<- error
	sink   chan<- Event // optional fan-out to the Kafka relay
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithLogger sets the logger used for append failures.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) { r.logger = logger }
}

// WithErrorChannel routes append failures to an operational channel. Sends
// never block; a full channel drops the error after logging it.
func WithErrorChannel(errs chan<- error) RecorderOption {
	return func(r *Recorder) { r.errs = errs }
}

// WithSink mirrors every recorded event onto a channel, feeding the relay
// that publishes the ledger to Kafka. Sends never block.
func WithSink(sink chan<- Event) RecorderOption {
	return func(r *Recorder) { r.sink = sink }
}

// NewRecorder creates a Recorder over the given store.
func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends one event, stamping ID and timestamp if unset.
func (r *Recorder) Record(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := r.store.Append(ctx, event); err != nil {
		r.logger.ErrorContext(ctx, "audit append failed",
			"mandate_type", event.MandateType,
			"mandate_id", event.MandateID,
			"action", event.Action,
			"error", err,
		)
		if r.errs != nil {
			select {
			case r.errs <- err:
			default:
			}
		}
		return
	}

	if r.sink != nil {
		select {
		case r.sink <- event:
		default:
			r.logger.WarnContext(ctx, "audit relay sink full, event not mirrored", "mandate_id", event.MandateID)
		}
	}
}

// ListByMandate returns the trail for one mandate.
func (r *Recorder) ListByMandate(ctx context.Context, mandateType MandateType, mandateID string) ([]Event, error) {
	return r.store.ListByMandate(ctx, mandateType, mandateID)
}

// ListRecent returns the most recent events across all mandates.
func (r *Recorder) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	return r.store.ListRecent(ctx, limit)
}
