//go:build integration

package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paychain/internal/mandate/models"
	"paychain/internal/mandate/store/payment"
	platformpg "paychain/internal/platform/postgres"
	"paychain/pkg/platform/sentinel"
	"paychain/pkg/testutil/containers"
)

func newPostgresFixture(t *testing.T) *payment.Postgres {
	t.Helper()
	pg := containers.NewPostgresContainer(t)
	require.NoError(t, platformpg.EnsureSchema(context.Background(), pg.DB))
	return payment.NewPostgres(pg.DB)
}

func newPayment(paymentMandateID, cartID string) *models.PaymentMandate {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.PaymentMandate{
		UUID:             uuid.NewString(),
		PaymentMandateID: paymentMandateID,
		CartID:           cartID,
		CartHash:         "cart-hash-1",
		InvoiceRef:       "INV-001",
		MerchantName:     "ACME Corp",
		Amount:           50000,
		Currency:         "INR",
		PaymentMethod:    models.PaymentMethodUPI,
		ContentsJSON:     `{"paymentMandateId":"` + paymentMandateID + `"}`,
		AgentSignature:   "agent-sig",
		Status:           models.PaymentStatusCreated,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestPostgresPaymentOneLivePerCart(t *testing.T) {
	store := newPostgresFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newPayment("pm-1", "cart-1")))

	err := store.Create(ctx, newPayment("pm-2", "cart-1"))
	assert.ErrorIs(t, err, sentinel.ErrDuplicate)
}

func TestPostgresPaymentFailedFreesCart(t *testing.T) {
	store := newPostgresFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newPayment("pm-1", "cart-1")))
	require.NoError(t, store.UpdateStatus(ctx, "pm-1", models.PaymentStatusCreated, models.PaymentStatusFailed))

	require.NoError(t, store.Create(ctx, newPayment("pm-2", "cart-1")))

	live, err := store.FindLiveByCartID(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, "pm-2", live.PaymentMandateID)
}

func TestPostgresPaymentGatewayRefs(t *testing.T) {
	store := newPostgresFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newPayment("pm-1", "cart-1")))
	require.NoError(t, store.SetGatewayRefs(ctx, "pm-1", "order_9", "pay_7"))

	found, err := store.FindByID(ctx, "pm-1")
	require.NoError(t, err)
	assert.Equal(t, "order_9", found.GatewayOrderID)
	assert.Equal(t, "pay_7", found.GatewayPaymentID)
}

func TestPostgresPaymentStatusChain(t *testing.T) {
	store := newPostgresFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newPayment("pm-1", "cart-1")))
	require.NoError(t, store.UpdateStatus(ctx, "pm-1", models.PaymentStatusCreated, models.PaymentStatusSentToGateway))
	require.NoError(t, store.UpdateStatus(ctx, "pm-1", models.PaymentStatusSentToGateway, models.PaymentStatusProcessed))

	err := store.UpdateStatus(ctx, "pm-1", models.PaymentStatusSentToGateway, models.PaymentStatusProcessed)
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)
}

func TestPostgresTransactionsByInvoice(t *testing.T) {
	store := newPostgresFixture(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, store.CreateTransaction(ctx, &models.Transaction{
		UUID:          uuid.NewString(),
		InvoiceRef:    "INV-001",
		TransactionID: "txn_1",
		Amount:        50000,
		Currency:      "INR",
		PaymentMethod: models.PaymentMethodUPI,
		Status:        "SUCCESS",
		CreatedAt:     now,
	}))

	txns, err := store.ListTransactionsByInvoice(ctx, "INV-001")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "txn_1", txns[0].TransactionID)

	none, err := store.ListTransactionsByInvoice(ctx, "INV-999")
	require.NoError(t, err)
	assert.Empty(t, none)
}
