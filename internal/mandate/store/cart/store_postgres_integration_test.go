//go:build integration

package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paychain/internal/mandate/models"
	"paychain/internal/mandate/store/cart"
	platformpg "paychain/internal/platform/postgres"
	"paychain/pkg/platform/sentinel"
	"paychain/pkg/testutil/containers"
)

func newPostgresFixture(t *testing.T) *cart.Postgres {
	t.Helper()
	pg := containers.NewPostgresContainer(t)
	require.NoError(t, platformpg.EnsureSchema(context.Background(), pg.DB))
	return cart.NewPostgres(pg.DB)
}

func newCart(cartID, intentHash, cartHash string) *models.CartMandate {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.CartMandate{
		UUID:           uuid.NewString(),
		CartID:         cartID,
		IntentHash:     intentHash,
		InvoiceRef:     "INV-001",
		CartHash:       cartHash,
		ContentsJSON:   `{"cartId":"` + cartID + `"}`,
		AgentSignature: "agent-sig",
		TotalAmount:    50000,
		Currency:       "INR",
		Status:         models.CartStatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestPostgresCartOneLivePerIntent(t *testing.T) {
	store := newPostgresFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newCart("cart-1", "hash-1", "cart-hash-1")))

	err := store.Create(ctx, newCart("cart-2", "hash-1", "cart-hash-2"))
	assert.ErrorIs(t, err, sentinel.ErrDuplicate)
}

func TestPostgresCartCancelledFreesIntent(t *testing.T) {
	store := newPostgresFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newCart("cart-1", "hash-1", "cart-hash-1")))
	require.NoError(t, store.UpdateStatus(ctx, "cart-1", models.CartStatusCreated, models.CartStatusCancelled))

	// The partial index only covers live carts, so a retry inserts cleanly.
	require.NoError(t, store.Create(ctx, newCart("cart-2", "hash-1", "cart-hash-2")))

	live, err := store.FindLiveByIntentHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "cart-2", live.CartID)
}

func TestPostgresCartFindByHashAndID(t *testing.T) {
	store := newPostgresFixture(t)
	ctx := context.Background()

	created := newCart("cart-1", "hash-1", "cart-hash-1")
	require.NoError(t, store.Create(ctx, created))

	byID, err := store.FindByCartID(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, created.ContentsJSON, byID.ContentsJSON)

	byHash, err := store.FindByHash(ctx, "cart-hash-1")
	require.NoError(t, err)
	assert.Equal(t, created.UUID, byHash.UUID)

	_, err = store.FindLiveByIntentHash(ctx, "missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresCartFindLatestByInvoiceAndStatus(t *testing.T) {
	store := newPostgresFixture(t)
	ctx := context.Background()

	first := newCart("cart-1", "hash-1", "cart-hash-1")
	require.NoError(t, store.Create(ctx, first))
	require.NoError(t, store.UpdateStatus(ctx, "cart-1", models.CartStatusCreated, models.CartStatusCancelled))

	second := newCart("cart-2", "hash-1", "cart-hash-2")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, store.Create(ctx, second))

	latest, err := store.FindLatestByInvoiceAndStatus(ctx, "INV-001", models.CartStatusCreated)
	require.NoError(t, err)
	assert.Equal(t, "cart-2", latest.CartID)

	_, err = store.FindLatestByInvoiceAndStatus(ctx, "INV-001", models.CartStatusProcessed)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresCartUpdateStatusCAS(t *testing.T) {
	store := newPostgresFixture(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newCart("cart-1", "hash-1", "cart-hash-1")))
	require.NoError(t, store.UpdateStatus(ctx, "cart-1", models.CartStatusCreated, models.CartStatusConfirmed))

	err := store.UpdateStatus(ctx, "cart-1", models.CartStatusCreated, models.CartStatusConfirmed)
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)
}
