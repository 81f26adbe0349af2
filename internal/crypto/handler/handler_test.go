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

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paychain/internal/crypto"
	"paychain/internal/platform/middleware"
	dErrors "paychain/pkg/domain-errors"
)

type stubKeyService struct {
	registerFn   func(ctx context.Context, userID, publicKey string) (*crypto.UserKey, error)
	deactivateFn func(ctx context.Context, userID string) error
	rotateFn     func(ctx context.Context) error
	agentKey     string
}

func (s stubKeyService) RegisterUserKey(ctx context.Context, userID, publicKey string) (*crypto.UserKey, error) {
	return s.registerFn(ctx, userID, publicKey)
}

func (s stubKeyService) DeactivateUserKey(ctx context.Context, userID string) error {
	return s.deactivateFn(ctx, userID)
}

func (s stubKeyService) AgentPublicKey() string { return s.agentKey }

func (s stubKeyService) RotateAgentKey(ctx context.Context) error {
	return s.rotateFn(ctx)
}

type stubValidator struct{ userID string }

func (v stubValidator) ValidateToken(string) (*middleware.JWTClaims, error) {
	return &middleware.JWTClaims{UserID: v.userID}, nil
}

func newTestRouter(svc KeyService, userID string) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(svc, logger, stubValidator{userID: userID}).Register(r)
	return r
}

func TestHandleRegisterKey(t *testing.T) {
	var gotUser, gotKey string
	svc := stubKeyService{
		registerFn: func(_ context.Context, userID, publicKey string) (*crypto.UserKey, error) {
			gotUser, gotKey = userID, publicKey
			return &crypto.UserKey{UUID: "key-uuid", UserID: userID, Algorithm: "RSA", KeyBits: 2048}, nil
		},
	}
	r := newTestRouter(svc, "user-1")

	body, err := json.Marshal(RegisterKeyRequest{PublicKey: "base64-spki"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/keys", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user-1", gotUser)
	assert.Equal(t, "base64-spki", gotKey)
	var resp RegisterKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "key-uuid", resp.UUID)
	assert.Equal(t, 2048, resp.KeyBits)
}

func TestHandleRegisterKeyWeakKey(t *testing.T) {
	svc := stubKeyService{
		registerFn: func(context.Context, string, string) (*crypto.UserKey, error) {
			return nil, dErrors.New(dErrors.CodeWeakKey, "RSA modulus is 1024 bits, minimum is 2048")
		},
	}
	r := newTestRouter(svc, "user-1")

	body, _ := json.Marshal(RegisterKeyRequest{PublicKey: "weak"})
	req := httptest.NewRequest(http.MethodPost, "/keys", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(dErrors.CodeWeakKey), resp["error"])
}

func TestHandleRegisterKeyRequiresAuth(t *testing.T) {
	r := newTestRouter(stubKeyService{}, "user-1")

	req := httptest.NewRequest(http.MethodPost, "/keys", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleDeactivateKey(t *testing.T) {
	var deactivated string
	svc := stubKeyService{
		deactivateFn: func(_ context.Context, userID string) error {
			deactivated = userID
			return nil
		},
	}
	r := newTestRouter(svc, "user-7")

	req := httptest.NewRequest(http.MethodDelete, "/keys", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "user-7", deactivated)
}

func TestHandleRotateAgentKey(t *testing.T) {
	rotated := false
	svc := stubKeyService{
		rotateFn: func(context.Context) error {
			rotated = true
			return nil
		},
		agentKey: "rotated-spki",
	}
	r := newTestRouter(svc, "admin-1")

	req := httptest.NewRequest(http.MethodPost, "/keys/agent/rotate", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, rotated)
	var resp AgentKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rotated-spki", resp.PublicKey)
}

func TestHandleAgentPublicKeyUnauthenticated(t *testing.T) {
	r := newTestRouter(stubKeyService{agentKey: "agent-spki"}, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/keys/agent", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp AgentKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "agent-spki", resp.PublicKey)
	assert.Equal(t, "RSA-SHA256", resp.Algorithm)
}
