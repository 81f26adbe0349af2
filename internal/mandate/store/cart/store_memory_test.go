package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paychain/internal/mandate/models"
	"paychain/pkg/platform/sentinel"
)

func seedCart(cartID, intentHash string) *models.CartMandate {
	now := time.Now()
	return &models.CartMandate{
		UUID:           "uuid-" + cartID,
		CartID:         cartID,
		IntentHash:     intentHash,
		InvoiceRef:     "INV-001",
		CartHash:       "carthash-" + cartID,
		ContentsJSON:   `{"cartId":"` + cartID + `"}`,
		AgentSignature: "sig-" + cartID,
		TotalAmount:    50000,
		Currency:       "INR",
		Status:         models.CartStatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestCreateRejectsSecondLiveCartForIntent(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, seedCart("cart-1", "hash-1")))
	err := store.Create(ctx, seedCart("cart-2", "hash-1"))
	assert.ErrorIs(t, err, sentinel.ErrDuplicate)
}

func TestCancelledCartFreesIntent(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, seedCart("cart-1", "hash-1")))
	require.NoError(t, store.UpdateStatus(ctx, "cart-1", models.CartStatusCreated, models.CartStatusCancelled))

	// A retry against the same intent is allowed once the first cart is
	// cancelled.
	require.NoError(t, store.Create(ctx, seedCart("cart-2", "hash-1")))

	live, err := store.FindLiveByIntentHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "cart-2", live.CartID)
}

func TestFindByHash(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, seedCart("cart-1", "hash-1")))

	found, err := store.FindByHash(ctx, "carthash-cart-1")
	require.NoError(t, err)
	assert.Equal(t, "cart-1", found.CartID)

	_, err = store.FindByHash(ctx, "carthash-missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestFindLatestByInvoiceAndStatus(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, seedCart("cart-1", "hash-1")))
	require.NoError(t, store.UpdateStatus(ctx, "cart-1", models.CartStatusCreated, models.CartStatusCancelled))
	require.NoError(t, store.Create(ctx, seedCart("cart-2", "hash-1")))

	// The newest cart in the requested status wins.
	latest, err := store.FindLatestByInvoiceAndStatus(ctx, "INV-001", models.CartStatusCreated)
	require.NoError(t, err)
	assert.Equal(t, "cart-2", latest.CartID)

	cancelled, err := store.FindLatestByInvoiceAndStatus(ctx, "INV-001", models.CartStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, "cart-1", cancelled.CartID)

	_, err = store.FindLatestByInvoiceAndStatus(ctx, "INV-001", models.CartStatusProcessed)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	_, err = store.FindLatestByInvoiceAndStatus(ctx, "INV-999", models.CartStatusCreated)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestUpdateStatusGuard(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, seedCart("cart-1", "hash-1")))

	require.NoError(t, store.UpdateStatus(ctx, "cart-1", models.CartStatusCreated, models.CartStatusConfirmed))
	require.NoError(t, store.UpdateStatus(ctx, "cart-1", models.CartStatusConfirmed, models.CartStatusProcessed))

	err := store.UpdateStatus(ctx, "cart-1", models.CartStatusConfirmed, models.CartStatusProcessed)
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)

	err = store.UpdateStatus(ctx, "cart-missing", models.CartStatusCreated, models.CartStatusConfirmed)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
