package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"paychain/internal/audit"
	"paychain/internal/mandate/handler/mocks"
	"paychain/internal/mandate/models"
	"paychain/internal/platform/middleware"
	dErrors "paychain/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks

// staticValidator accepts any bearer token and returns fixed claims.
type staticValidator struct {
	userID  string
	agentID string
}

func (v staticValidator) ValidateToken(string) (*middleware.JWTClaims, error) {
	return &middleware.JWTClaims{UserID: v.userID, AgentID: v.agentID}, nil
}

func newTestRouter(t *testing.T, userID string) (chi.Router, *mocks.MockService, *mocks.MockAuditReader) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	mockLedger := mocks.NewMockAuditReader(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(mockService, mockLedger, logger, staticValidator{userID: userID, agentID: "shopper-agent"}).Register(r)
	return r, mockService, mockLedger
}

func doJSON(t *testing.T, r chi.Router, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer token")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleAdmitIntent(t *testing.T) {
	r, mockService, _ := newTestRouter(t, "user-1")

	contents := models.IntentContents{
		UserID:       "user-1",
		InvoiceRef:   "INV-001",
		MerchantName: "ACME Corp",
		Amount:       50000,
		Currency:     "INR",
	}
	now := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	mockService.EXPECT().
		AdmitIntent(gomock.Any(), "INV-001", contents, "sig").
		Return(&models.IntentMandate{
			UUID:         "uuid-1",
			IntentHash:   "hash-1",
			UserID:       "user-1",
			InvoiceRef:   "INV-001",
			MerchantName: "ACME Corp",
			Amount:       50000,
			Currency:     "INR",
			Status:       models.IntentStatusCreated,
			CreatedAt:    now,
		}, nil)

	w := doJSON(t, r, http.MethodPost, "/mandates/intents", AdmitIntentRequest{
		InvoiceRef:    "INV-001",
		Contents:      contents,
		UserSignature: "sig",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp IntentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hash-1", resp.IntentHash)
	assert.Equal(t, "CREATED", resp.Status)
	assert.Equal(t, int64(50000), resp.Amount)
}

func TestHandleAdmitIntentForeignUser(t *testing.T) {
	r, _, _ := newTestRouter(t, "user-2")

	w := doJSON(t, r, http.MethodPost, "/mandates/intents", AdmitIntentRequest{
		InvoiceRef: "INV-001",
		Contents: models.IntentContents{
			UserID:       "user-1",
			InvoiceRef:   "INV-001",
			MerchantName: "ACME Corp",
			Amount:       50000,
			Currency:     "INR",
		},
		UserSignature: "sig",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(dErrors.CodeForbidden), resp["error"])
}

func TestHandleAdmitIntentRequiresAuth(t *testing.T) {
	r, _, _ := newTestRouter(t, "user-1")

	req := httptest.NewRequest(http.MethodPost, "/mandates/intents", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleFindOpenIntent(t *testing.T) {
	r, mockService, _ := newTestRouter(t, "user-1")

	mockService.EXPECT().
		FindOpenIntent(gomock.Any(), "INV-001").
		Return(&models.IntentMandate{
			IntentHash: "hash-1",
			InvoiceRef: "INV-001",
			Status:     models.IntentStatusCreated,
		}, nil)

	w := doJSON(t, r, http.MethodGet, "/mandates/intents?invoiceRef=INV-001", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IntentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hash-1", resp.IntentHash)

	w = doJSON(t, r, http.MethodGet, "/mandates/intents", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleFindLatestCart(t *testing.T) {
	r, mockService, _ := newTestRouter(t, "user-1")

	mockService.EXPECT().
		FindLatestCart(gomock.Any(), "INV-001", models.CartStatusCreated).
		Return(&models.CartMandate{
			CartID:     "cart-1",
			InvoiceRef: "INV-001",
			Status:     models.CartStatusCreated,
		}, nil)

	w := doJSON(t, r, http.MethodGet, "/mandates/carts?invoiceRef=INV-001", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cart-1", resp.CartID)

	mockService.EXPECT().
		FindLatestCart(gomock.Any(), "INV-001", models.CartStatusConfirmed).
		Return(&models.CartMandate{
			CartID:     "cart-1",
			InvoiceRef: "INV-001",
			Status:     models.CartStatusConfirmed,
		}, nil)

	w = doJSON(t, r, http.MethodGet, "/mandates/carts?invoiceRef=INV-001&status=CONFIRMED", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/mandates/carts", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/mandates/carts?invoiceRef=INV-001&status=SHIPPED", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleFindLatestPayment(t *testing.T) {
	r, mockService, _ := newTestRouter(t, "user-1")

	mockService.EXPECT().
		FindLatestPayment(gomock.Any(), "INV-001", models.PaymentStatusFailed).
		Return(&models.PaymentMandate{
			PaymentMandateID: "pm-1",
			InvoiceRef:       "INV-001",
			PaymentMethod:    models.PaymentMethodUPI,
			Status:           models.PaymentStatusFailed,
		}, nil)

	w := doJSON(t, r, http.MethodGet, "/mandates/payments?invoiceRef=INV-001&status=FAILED", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp PaymentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pm-1", resp.PaymentMandateID)

	w = doJSON(t, r, http.MethodGet, "/mandates/payments", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDeriveCart(t *testing.T) {
	r, mockService, _ := newTestRouter(t, "user-1")

	mockService.EXPECT().
		DeriveCart(gomock.Any(), "hash-1").
		Return(&models.CartMandate{
			UUID:        "uuid-2",
			CartID:      "cart-1",
			IntentHash:  "hash-1",
			InvoiceRef:  "INV-001",
			CartHash:    "cart-hash-1",
			TotalAmount: 50000,
			Currency:    "INR",
			Status:      models.CartStatusCreated,
		}, nil)

	w := doJSON(t, r, http.MethodPost, "/mandates/intents/hash-1/cart", map[string]any{})

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cart-1", resp.CartID)
	assert.Equal(t, "hash-1", resp.IntentHash)
}

func TestHandleDeriveCartNotFound(t *testing.T) {
	r, mockService, _ := newTestRouter(t, "user-1")

	mockService.EXPECT().
		DeriveCart(gomock.Any(), "missing").
		Return(nil, dErrors.New(dErrors.CodeNotFound, "intent mandate not found"))

	w := doJSON(t, r, http.MethodPost, "/mandates/intents/missing/cart", map[string]any{})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleConfirmCart(t *testing.T) {
	r, mockService, _ := newTestRouter(t, "user-1")

	mockService.EXPECT().ConfirmCart(gomock.Any(), "cart-1").Return(nil)

	w := doJSON(t, r, http.MethodPost, "/mandates/carts/cart-1/confirm", map[string]any{})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandleDerivePayment(t *testing.T) {
	r, mockService, _ := newTestRouter(t, "user-1")

	mockService.EXPECT().
		DerivePayment(gomock.Any(), "cart-1", models.PaymentMethodUPI).
		Return(&models.PaymentMandate{
			UUID:             "uuid-3",
			PaymentMandateID: "pm-1",
			CartID:           "cart-1",
			CartHash:         "cart-hash-1",
			Amount:           50000,
			Currency:         "INR",
			PaymentMethod:    models.PaymentMethodUPI,
			Status:           models.PaymentStatusCreated,
		}, nil)

	w := doJSON(t, r, http.MethodPost, "/mandates/carts/cart-1/payment", DerivePaymentRequest{PaymentMethod: "UPI"})

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp PaymentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pm-1", resp.PaymentMandateID)
	assert.Equal(t, "UPI", resp.PaymentMethod)
}

func TestHandleDerivePaymentBadMethod(t *testing.T) {
	r, _, _ := newTestRouter(t, "user-1")

	w := doJSON(t, r, http.MethodPost, "/mandates/carts/cart-1/payment", DerivePaymentRequest{PaymentMethod: "WIRE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDerivePaymentApprovalDenied(t *testing.T) {
	r, mockService, _ := newTestRouter(t, "user-1")

	mockService.EXPECT().
		DerivePayment(gomock.Any(), "cart-1", models.PaymentMethodCard).
		Return(nil, dErrors.New(dErrors.CodeApprovalDenied, "payment rejected: amount exceeds mandate"))

	w := doJSON(t, r, http.MethodPost, "/mandates/carts/cart-1/payment", DerivePaymentRequest{PaymentMethod: "CARD"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(dErrors.CodeApprovalDenied), resp["error"])
}

func TestHandleExecutePayment(t *testing.T) {
	r, mockService, _ := newTestRouter(t, "user-1")

	mockService.EXPECT().
		ExecutePayment(gomock.Any(), "pm-1", "tok_visa").
		Return(&models.Transaction{
			UUID:          "uuid-4",
			InvoiceRef:    "INV-001",
			TransactionID: "txn_123",
			Amount:        50000,
			Currency:      "INR",
			PaymentMethod: models.PaymentMethodCard,
			Status:        "SUCCESS",
		}, nil)

	w := doJSON(t, r, http.MethodPost, "/mandates/payments/pm-1/execute", ExecutePaymentRequest{MethodToken: "tok_visa"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp TransactionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "txn_123", resp.TransactionID)
}

func TestHandleExecutePaymentGatewayFailure(t *testing.T) {
	r, mockService, _ := newTestRouter(t, "user-1")

	mockService.EXPECT().
		ExecutePayment(gomock.Any(), "pm-1", "tok_visa").
		Return(nil, dErrors.New(dErrors.CodeGateway, "gateway declined the charge"))

	w := doJSON(t, r, http.MethodPost, "/mandates/payments/pm-1/execute", ExecutePaymentRequest{MethodToken: "tok_visa"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandleAuditTrail(t *testing.T) {
	r, _, mockLedger := newTestRouter(t, "user-1")

	mockLedger.EXPECT().
		ListByMandate(gomock.Any(), audit.MandateIntent, "hash-1").
		Return([]audit.Event{{MandateType: audit.MandateIntent, MandateID: "hash-1", Action: audit.ActionCreate, Status: audit.StatusSuccess}}, nil)

	w := doJSON(t, r, http.MethodGet, "/audit/INTENT/hash-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Events []audit.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "hash-1", resp.Events[0].MandateID)
}

func TestHandleAuditTrailBadType(t *testing.T) {
	r, _, _ := newTestRouter(t, "user-1")

	w := doJSON(t, r, http.MethodGet, "/audit/RECEIPT/hash-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAuditRecentLimitBounds(t *testing.T) {
	r, _, mockLedger := newTestRouter(t, "user-1")

	w := doJSON(t, r, http.MethodGet, "/audit/recent?limit=5000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mockLedger.EXPECT().ListRecent(gomock.Any(), 50).Return([]audit.Event{}, nil)
	w = doJSON(t, r, http.MethodGet, "/audit/recent", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleListTransactionsRequiresInvoiceRef(t *testing.T) {
	r, _, _ := newTestRouter(t, "user-1")

	w := doJSON(t, r, http.MethodGet, "/transactions", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAdmitIntentDirect(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(mockService, mocks.NewMockAuditReader(ctrl), logger, nil)

	req := httptest.NewRequest(http.MethodPost, "/mandates/intents", bytes.NewReader([]byte(`{not json`)))
	ctx := context.WithValue(req.Context(), middleware.ContextKeyUserID, "user-1")
	w := httptest.NewRecorder()
	h.handleAdmitIntent(w, req.WithContext(ctx))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
