// Package handler exposes user key registration and agent key discovery
// over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"paychain/internal/crypto"
	"paychain/internal/platform/middleware"
	"paychain/internal/transport/http/shared"
	dErrors "paychain/pkg/domain-errors"
)

// KeyService defines the key operations the handler needs.
type KeyService interface {
	RegisterUserKey(ctx context.Context, userID, publicKey string) (*crypto.UserKey, error)
	DeactivateUserKey(ctx context.Context, userID string) error
	AgentPublicKey() string
	RotateAgentKey(ctx context.Context) error
}

// Handler handles key endpoints.
type Handler struct {
	logger       *slog.Logger
	keys         KeyService
	jwtValidator middleware.JWTValidator
}

// New creates a key Handler.
func New(keys KeyService, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		keys:         keys,
		jwtValidator: jwtValidator,
	}
}

// Register registers the key routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	keyRouter := chi.NewRouter()
	keyRouter.Use(middleware.Recovery(h.logger))
	keyRouter.Use(middleware.RequestID)
	keyRouter.Use(middleware.Logger(h.logger))
	keyRouter.Use(middleware.Timeout(30 * time.Second))
	keyRouter.Use(middleware.ContentTypeJSON)

	// Agent key discovery is unauthenticated so clients can verify
	// mandate signatures without a session.
	keyRouter.Get("/agent", h.handleAgentPublicKey)

	keyRouter.Group(func(auth chi.Router) {
		auth.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		auth.Post("/", h.handleRegisterKey)
		auth.Delete("/", h.handleDeactivateKey)
		auth.Post("/agent/rotate", h.handleRotateAgentKey)
	})

	r.Mount("/keys", keyRouter)
}

// RegisterKeyRequest carries a Base64 SPKI RSA public key.
type RegisterKeyRequest struct {
	PublicKey string `json:"publicKey"`
}

// RegisterKeyResponse echoes the accepted key's identity.
type RegisterKeyResponse struct {
	UUID      string `json:"uuid"`
	UserID    string `json:"userId"`
	Algorithm string `json:"algorithm"`
	KeyBits   int    `json:"keyBits"`
}

func (h *Handler) handleRegisterKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.GetUserID(ctx)
	if userID == "" {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req RegisterKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	key, err := h.keys.RegisterUserKey(ctx, userID, req.PublicKey)
	if err != nil {
		h.logger.WarnContext(ctx, "key registration failed",
			"request_id", middleware.GetRequestID(ctx),
			"user_id", userID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, RegisterKeyResponse{
		UUID:      key.UUID,
		UserID:    key.UserID,
		Algorithm: key.Algorithm,
		KeyBits:   key.KeyBits,
	})
}

func (h *Handler) handleDeactivateKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.GetUserID(ctx)
	if userID == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	if err := h.keys.DeactivateUserKey(ctx, userID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AgentKeyResponse is the exported agent verification key.
type AgentKeyResponse struct {
	PublicKey string `json:"publicKey"`
	Algorithm string `json:"algorithm"`
}

func (h *Handler) handleRotateAgentKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.keys.RotateAgentKey(ctx); err != nil {
		h.logger.ErrorContext(ctx, "agent key rotation failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "agent key rotated", "rotated_by", middleware.GetUserID(ctx))
	shared.WriteJSON(w, http.StatusOK, AgentKeyResponse{
		PublicKey: h.keys.AgentPublicKey(),
		Algorithm: "RSA-SHA256",
	})
}

func (h *Handler) handleAgentPublicKey(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, AgentKeyResponse{
		PublicKey: h.keys.AgentPublicKey(),
		Algorithm: "RSA-SHA256",
	})
}
