package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "paychain/pkg/domain-errors"
)

func chargeServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestChargeSuccess(t *testing.T) {
	client := chargeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/charges", r.URL.Path)
		assert.Equal(t, "pm-1", r.Header.Get("Idempotency-Key"))
		w.Write([]byte(`{"transactionId":"pay_abc","orderId":"order_xyz","status":"captured"}`))
	})

	result, err := client.Charge(context.Background(), ChargeRequest{PaymentMandateID: "pm-1"})
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Equal(t, "pay_abc", result.TransactionID)
	assert.Equal(t, "order_xyz", result.OrderID)
}

func TestChargeWithoutTransactionIDIsNotSuccess(t *testing.T) {
	client := chargeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orderId":"order_xyz","status":"created"}`))
	})

	result, err := client.Charge(context.Background(), ChargeRequest{PaymentMandateID: "pm-1"})
	require.NoError(t, err)
	assert.False(t, result.Succeeded())
}

func TestChargeGatewayError(t *testing.T) {
	client := chargeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Charge(context.Background(), ChargeRequest{PaymentMandateID: "pm-1"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeGateway))
}

func TestChargeTimeout(t *testing.T) {
	client := chargeServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	WithTimeout(20 * time.Millisecond)(client)

	_, err := client.Charge(context.Background(), ChargeRequest{PaymentMandateID: "pm-1"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeGatewayTimeout))
}
