//go:build integration

package relay_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"paychain/internal/audit"
	"paychain/internal/audit/relay"
	"paychain/pkg/testutil/containers"
)

func TestRelayPublishesLedgerEvents(t *testing.T) {
	rp := containers.NewRedpandaContainer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const topic = "mandate.audit.test"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sink := make(chan audit.Event, 16)
	r, err := relay.New(ctx, []string{rp.Broker}, sink,
		relay.WithTopic(topic),
		relay.WithLogger(logger),
	)
	require.NoError(t, err)

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = r.Run(ctx)
	}()

	want := audit.Event{
		ID:          uuid.NewString(),
		MandateType: audit.MandateIntent,
		MandateID:   "hash-1",
		InvoiceRef:  "INV-001",
		Action:      audit.ActionCreate,
		Actor:       audit.ActorSystem,
		Status:      audit.StatusSuccess,
		Timestamp:   time.Now().UTC(),
	}
	sink <- want

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, fetchCancel := context.WithTimeout(ctx, 30*time.Second)
	defer fetchCancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, want.MandateID, string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, audit.ActionCreate, got.Action)
	assert.Equal(t, "INV-001", got.InvoiceRef)

	cancel()
	select {
	case <-runDone:
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not stop after cancellation")
	}
	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()
	require.NoError(t, r.Close(closeCtx))
}
