package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "paychain/pkg/domain-errors"
)

func validIntentContents() IntentContents {
	return IntentContents{
		UserID:       "user-1",
		InvoiceRef:   "INV-100",
		MerchantName: "Acme",
		Amount:       50000,
		Currency:     "INR",
		Description:  "pay the Acme invoice",
		Expiry:       time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	}
}

func TestIntentContentsValidate(t *testing.T) {
	t.Run("accepts valid contents", func(t *testing.T) {
		require.NoError(t, validIntentContents().Validate())
	})

	cases := []struct {
		name   string
		mutate func(*IntentContents)
	}{
		{"missing user", func(c *IntentContents) { c.UserID = "" }},
		{"missing invoice ref", func(c *IntentContents) { c.InvoiceRef = " " }},
		{"missing merchant", func(c *IntentContents) { c.MerchantName = "" }},
		{"zero amount", func(c *IntentContents) { c.Amount = 0 }},
		{"negative amount", func(c *IntentContents) { c.Amount = -1 }},
		{"unknown currency", func(c *IntentContents) { c.Currency = "XYZ" }},
		{"malformed expiry", func(c *IntentContents) { c.Expiry = "tomorrow" }},
	}
	for _, tc := range cases {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			c := validIntentContents()
			tc.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestIntentExpiry(t *testing.T) {
	now := time.Now()

	c := validIntentContents()
	c.Expiry = now.Add(-time.Minute).Format(time.RFC3339)
	assert.True(t, c.Expired(now))

	c.Expiry = now.Add(time.Minute).Format(time.RFC3339)
	assert.False(t, c.Expired(now))

	c.Expiry = ""
	assert.False(t, c.Expired(now), "zero expiry never expires")
}

func TestIntentStatusTransitions(t *testing.T) {
	assert.True(t, IntentStatusCreated.CanTransitionTo(IntentStatusCancelled))
	assert.False(t, IntentStatusCancelled.CanTransitionTo(IntentStatusCreated))
	assert.False(t, IntentStatusCancelled.CanTransitionTo(IntentStatusCancelled))
}

func TestCartStatusTransitions(t *testing.T) {
	allowed := map[CartStatus][]CartStatus{
		CartStatusCreated:   {CartStatusConfirmed, CartStatusCancelled},
		CartStatusConfirmed: {CartStatusProcessed, CartStatusCancelled},
	}
	all := []CartStatus{CartStatusCreated, CartStatusConfirmed, CartStatusCancelled, CartStatusProcessed}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, ok := range allowed[from] {
				if ok == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	for _, terminal := range []PaymentStatus{PaymentStatusProcessed, PaymentStatusFailed} {
		for _, next := range []PaymentStatus{PaymentStatusCreated, PaymentStatusSentToGateway, PaymentStatusProcessed, PaymentStatusFailed} {
			assert.False(t, terminal.CanTransitionTo(next), "%s must be terminal", terminal)
		}
	}
	assert.True(t, PaymentStatusCreated.CanTransitionTo(PaymentStatusSentToGateway))
	assert.True(t, PaymentStatusSentToGateway.CanTransitionTo(PaymentStatusProcessed))
	assert.True(t, PaymentStatusSentToGateway.CanTransitionTo(PaymentStatusFailed))
}

func TestCartContentsValidate(t *testing.T) {
	contents := CartContents{
		CartID:     "cart-1",
		IntentHash: "h1",
		Items: []CartItem{
			{InvoiceRef: "INV-100", Description: "Acme invoice", Amount: 30000},
			{InvoiceRef: "INV-101", Description: "Acme invoice", Amount: 20000},
		},
		Total:     50000,
		Currency:  "INR",
		Timestamp: time.Now().Format(time.RFC3339),
	}
	require.NoError(t, contents.Validate())

	t.Run("rejects total that disagrees with items", func(t *testing.T) {
		bad := contents
		bad.Total = 49999
		err := bad.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		bad := contents
		bad.Items = nil
		bad.Total = 0
		require.Error(t, bad.Validate())
	})
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod("CARD")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodCard, m)

	_, err = ParsePaymentMethod("BARTER")
	require.Error(t, err)
}

func TestAmountDisplay(t *testing.T) {
	assert.Equal(t, "500.00 INR", Amount(50000).Display("INR"))
	assert.Equal(t, "0.05 USD", Amount(5).Display("USD"))
}
