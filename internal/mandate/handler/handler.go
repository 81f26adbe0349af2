// Package handler exposes the mandate chain over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"paychain/internal/audit"
	"paychain/internal/mandate/models"
	"paychain/internal/platform/middleware"
	"paychain/internal/transport/http/shared"
	dErrors "paychain/pkg/domain-errors"
)

// Service defines the chain operations the handler needs.
type Service interface {
	AdmitIntent(ctx context.Context, invoiceRef string, contents models.IntentContents, userSignature string) (*models.IntentMandate, error)
	CancelIntent(ctx context.Context, intentHash string) error
	DeriveCart(ctx context.Context, intentHash string) (*models.CartMandate, error)
	ConfirmCart(ctx context.Context, cartID string) error
	CancelCart(ctx context.Context, cartID string) error
	DerivePayment(ctx context.Context, cartID string, method models.PaymentMethod) (*models.PaymentMandate, error)
	ExecutePayment(ctx context.Context, paymentMandateID, methodToken string) (*models.Transaction, error)
	GetIntent(ctx context.Context, intentHash string) (*models.IntentMandate, error)
	FindOpenIntent(ctx context.Context, invoiceRef string) (*models.IntentMandate, error)
	GetCart(ctx context.Context, cartID string) (*models.CartMandate, error)
	FindLatestCart(ctx context.Context, invoiceRef string, status models.CartStatus) (*models.CartMandate, error)
	GetPayment(ctx context.Context, paymentMandateID string) (*models.PaymentMandate, error)
	FindLatestPayment(ctx context.Context, invoiceRef string, status models.PaymentStatus) (*models.PaymentMandate, error)
	ListTransactions(ctx context.Context, invoiceRef string) ([]*models.Transaction, error)
}

// AuditReader serves ledger queries.
type AuditReader interface {
	ListByMandate(ctx context.Context, mandateType audit.MandateType, mandateID string) ([]audit.Event, error)
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

// Handler handles mandate chain endpoints.
type Handler struct {
	logger       *slog.Logger
	chain        Service
	ledger       AuditReader
	jwtValidator middleware.JWTValidator
}

// New creates a mandate Handler.
func New(chain Service, ledger AuditReader, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		chain:        chain,
		ledger:       ledger,
		jwtValidator: jwtValidator,
	}
}

// Register registers the mandate routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	mandateRouter := chi.NewRouter()
	mandateRouter.Use(middleware.Recovery(h.logger))
	mandateRouter.Use(middleware.RequestID)
	mandateRouter.Use(middleware.Logger(h.logger))
	mandateRouter.Use(middleware.Timeout(120 * time.Second))
	mandateRouter.Use(middleware.ContentTypeJSON)
	mandateRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

	mandateRouter.Post("/mandates/intents", h.handleAdmitIntent)
	mandateRouter.Get("/mandates/intents", h.handleFindOpenIntent)
	mandateRouter.Get("/mandates/intents/{intentHash}", h.handleGetIntent)
	mandateRouter.Post("/mandates/intents/{intentHash}/cancel", h.handleCancelIntent)
	mandateRouter.Post("/mandates/intents/{intentHash}/cart", h.handleDeriveCart)
	mandateRouter.Get("/mandates/carts", h.handleFindLatestCart)
	mandateRouter.Get("/mandates/carts/{cartID}", h.handleGetCart)
	mandateRouter.Post("/mandates/carts/{cartID}/confirm", h.handleConfirmCart)
	mandateRouter.Post("/mandates/carts/{cartID}/cancel", h.handleCancelCart)
	mandateRouter.Post("/mandates/carts/{cartID}/payment", h.handleDerivePayment)
	mandateRouter.Get("/mandates/payments", h.handleFindLatestPayment)
	mandateRouter.Get("/mandates/payments/{paymentMandateID}", h.handleGetPayment)
	mandateRouter.Post("/mandates/payments/{paymentMandateID}/execute", h.handleExecutePayment)
	mandateRouter.Get("/audit/{mandateType}/{mandateID}", h.handleAuditTrail)
	mandateRouter.Get("/audit/recent", h.handleAuditRecent)
	mandateRouter.Get("/transactions", h.handleListTransactions)

	r.Mount("/", mandateRouter)
}

// AdmitIntentRequest is the intent admission payload.
type AdmitIntentRequest struct {
	InvoiceRef    string                `json:"invoiceRef"`
	Contents      models.IntentContents `json:"contents"`
	UserSignature string                `json:"userSignature"`
}

func (h *Handler) handleAdmitIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AdmitIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	// The authenticated user admits intents for themselves only.
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}
	if req.Contents.UserID != userID {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "intent userId does not match authenticated user"))
		return
	}

	mandate, err := h.chain.AdmitIntent(ctx, req.InvoiceRef, req.Contents, req.UserSignature)
	if err != nil {
		h.logError(ctx, "admit intent failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, intentResponse(mandate))
}

func (h *Handler) handleFindOpenIntent(w http.ResponseWriter, r *http.Request) {
	invoiceRef := r.URL.Query().Get("invoiceRef")
	if invoiceRef == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invoiceRef query parameter is required"))
		return
	}

	mandate, err := h.chain.FindOpenIntent(r.Context(), invoiceRef)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, intentResponse(mandate))
}

func (h *Handler) handleGetIntent(w http.ResponseWriter, r *http.Request) {
	mandate, err := h.chain.GetIntent(r.Context(), chi.URLParam(r, "intentHash"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, intentResponse(mandate))
}

func (h *Handler) handleCancelIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.chain.CancelIntent(ctx, chi.URLParam(r, "intentHash")); err != nil {
		h.logError(ctx, "cancel intent failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeriveCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	mandate, err := h.chain.DeriveCart(ctx, chi.URLParam(r, "intentHash"))
	if err != nil {
		h.logError(ctx, "derive cart failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, cartResponse(mandate))
}

// handleFindLatestCart resumes a confirmation flow by invoice: the default
// status is CREATED, the cart still waiting on the user's confirmation.
func (h *Handler) handleFindLatestCart(w http.ResponseWriter, r *http.Request) {
	invoiceRef := r.URL.Query().Get("invoiceRef")
	if invoiceRef == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invoiceRef query parameter is required"))
		return
	}
	status := models.CartStatusCreated
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := models.ParseCartStatus(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		status = parsed
	}

	mandate, err := h.chain.FindLatestCart(r.Context(), invoiceRef, status)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, cartResponse(mandate))
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	mandate, err := h.chain.GetCart(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, cartResponse(mandate))
}

func (h *Handler) handleConfirmCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.chain.ConfirmCart(ctx, chi.URLParam(r, "cartID")); err != nil {
		h.logError(ctx, "confirm cart failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCancelCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.chain.CancelCart(ctx, chi.URLParam(r, "cartID")); err != nil {
		h.logError(ctx, "cancel cart failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DerivePaymentRequest selects the instrument for the payment mandate.
type DerivePaymentRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

func (h *Handler) handleDerivePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DerivePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	method, err := models.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	mandate, err := h.chain.DerivePayment(ctx, chi.URLParam(r, "cartID"), method)
	if err != nil {
		h.logError(ctx, "derive payment failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, paymentResponse(mandate))
}

func (h *Handler) handleFindLatestPayment(w http.ResponseWriter, r *http.Request) {
	invoiceRef := r.URL.Query().Get("invoiceRef")
	if invoiceRef == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invoiceRef query parameter is required"))
		return
	}
	status := models.PaymentStatusCreated
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := models.ParsePaymentStatus(raw)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		status = parsed
	}

	mandate, err := h.chain.FindLatestPayment(r.Context(), invoiceRef, status)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, paymentResponse(mandate))
}

func (h *Handler) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	mandate, err := h.chain.GetPayment(r.Context(), chi.URLParam(r, "paymentMandateID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, paymentResponse(mandate))
}

// ExecutePaymentRequest carries the tokenized instrument credential.
type ExecutePaymentRequest struct {
	MethodToken string `json:"methodToken"`
}

func (h *Handler) handleExecutePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ExecutePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	txn, err := h.chain.ExecutePayment(ctx, chi.URLParam(r, "paymentMandateID"), req.MethodToken)
	if err != nil {
		h.logError(ctx, "execute payment failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, transactionResponse(txn))
}

func (h *Handler) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	mandateType := audit.MandateType(chi.URLParam(r, "mandateType"))
	switch mandateType {
	case audit.MandateIntent, audit.MandateCart, audit.MandatePayment:
	default:
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "mandate type must be INTENT, CART or PAYMENT"))
		return
	}

	events, err := h.ledger.ListByMandate(r.Context(), mandateType, chi.URLParam(r, "mandateID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "audit lookup failed"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) handleAuditRecent(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 1000 {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be between 1 and 1000"))
			return
		}
		limit = parsed
	}

	events, err := h.ledger.ListRecent(r.Context(), limit)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "audit lookup failed"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	invoiceRef := r.URL.Query().Get("invoiceRef")
	if invoiceRef == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invoiceRef query parameter is required"))
		return
	}

	txns, err := h.chain.ListTransactions(r.Context(), invoiceRef)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, transactionResponse(txn))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	attrs := []any{
		"request_id", middleware.GetRequestID(ctx),
		"agent_id", middleware.GetAgentID(ctx),
		"error", err.Error(),
	}
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg, attrs...)
		return
	}
	h.logger.WarnContext(ctx, msg, attrs...)
}
