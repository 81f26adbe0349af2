package crypto

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	dErrors "paychain/pkg/domain-errors"
	"paychain/pkg/platform/sentinel"
)

// UserKeyStore persists registered user public keys. Implementations must
// reject a second active key for the same user with sentinel.ErrDuplicate.
type UserKeyStore interface {
	Create(ctx context.Context, key *UserKey) error
	FindActiveByUser(ctx context.Context, userID string) (*UserKey, error)
	Deactivate(ctx context.Context, userID string) error
}

// KeyCache caches decoded user keys by userID so signature verification does
// not hit the store on every mandate. Entries are invalidated on rotation.
type KeyCache interface {
	Get(ctx context.Context, userID string) (string, bool)
	Set(ctx context.Context, userID string, encoded string)
	Delete(ctx context.Context, userID string)
}

// Service is the cryptographic core: agent key custody, the user key
// registry, RSA-SHA256 signing and verification, and SHA-256 hashing.
// Signing and verification are pure CPU and safe to call concurrently.
type Service struct {
	agent    *rsa.PrivateKey
	keystore *Keystore
	keys     UserKeyStore
	cache    KeyCache
	logger   *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger for verification outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithCache sets the user key cache.
func WithCache(cache KeyCache) Option {
	return func(s *Service) { s.cache = cache }
}

// New loads the agent keypair from the keystore and wires the user key
// registry.
func New(keystore *Keystore, keys UserKeyStore, opts ...Option) (*Service, error) {
	agent, err := keystore.Load()
	if err != nil {
		return nil, err
	}
	s := &Service{
		agent:    agent,
		keystore: keystore,
		keys:     keys,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RegisterUserKey validates and stores a public key for userID. Fails with
// CodeUnsupportedAlgorithm or CodeWeakKey on a bad key, and with
// CodeDuplicateActiveKey when the user already has an active key; the caller
// must deactivate first.
func (s *Service) RegisterUserKey(ctx context.Context, userID, publicKey string) (*UserKey, error) {
	pub, err := ParseUserPublicKey(publicKey)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	key := &UserKey{
		UUID:      uuid.NewString(),
		UserID:    userID,
		PublicKey: publicKey,
		Algorithm: "RSA",
		KeyBits:   pub.N.BitLen(),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.keys.Create(ctx, key); err != nil {
		if errors.Is(err, sentinel.ErrDuplicate) {
			return nil, dErrors.New(dErrors.CodeDuplicateActiveKey, "user already has an active key; deactivate it first")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "store user key")
	}
	if s.cache != nil {
		s.cache.Set(ctx, userID, publicKey)
	}
	s.logger.InfoContext(ctx, "user key registered", "user_id", userID, "key_bits", key.KeyBits)
	return key, nil
}

// DeactivateUserKey retires the user's active key. The record is kept for
// verifying historical signatures.
func (s *Service) DeactivateUserKey(ctx context.Context, userID string) error {
	if err := s.keys.Deactivate(ctx, userID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "no active key for user")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "deactivate user key")
	}
	if s.cache != nil {
		s.cache.Delete(ctx, userID)
	}
	s.logger.InfoContext(ctx, "user key deactivated", "user_id", userID)
	return nil
}

// SignAgent signs contents with the agent private key and returns the
// Base64 RSA-SHA256 signature.
func (s *Service) SignAgent(contents []byte) (string, error) {
	digest := sha256.Sum256(contents)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.agent, crypto.SHA256, digest[:])
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "sign with agent key")
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyAgent checks an agent signature over contents. A bad signature is a
// boolean false, never an error.
func (s *Service) VerifyAgent(contents []byte, signature string) bool {
	return verifyRSA(&s.agent.PublicKey, contents, signature)
}

// VerifyUser checks the user's signature over contents against the user's
// active registered key. Returns false for a bad or unverifiable signature
// and for an unregistered user; returns an error only when the key lookup
// itself fails.
func (s *Service) VerifyUser(ctx context.Context, contents []byte, signature, userID string) (bool, error) {
	pub, err := s.userPublicKey(ctx, userID)
	if err != nil {
		return false, err
	}
	if pub == nil {
		s.logger.WarnContext(ctx, "no active public key for user", "user_id", userID)
		return false, nil
	}
	ok := verifyRSA(pub, contents, signature)
	s.logger.InfoContext(ctx, "user signature verified", "user_id", userID, "valid", ok)
	return ok, nil
}

// AgentPublicKey returns the agent's public key as Base64 SPKI for sharing
// with counterpart agents.
func (s *Service) AgentPublicKey() string {
	der, err := x509.MarshalPKIXPublicKey(&s.agent.PublicKey)
	if err != nil {
		// MarshalPKIXPublicKey cannot fail for an *rsa.PublicKey.
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(der)
}

// RotateAgentKey replaces the agent keypair. Existing agent signatures stop
// verifying, so carts and payments in flight must be re-derived.
func (s *Service) RotateAgentKey(ctx context.Context) error {
	key, err := s.keystore.Rotate()
	if err != nil {
		return err
	}
	s.agent = key
	s.logger.WarnContext(ctx, "agent keypair rotated; previously issued agent signatures no longer verify")
	return nil
}

func (s *Service) userPublicKey(ctx context.Context, userID string) (*rsa.PublicKey, error) {
	if s.cache != nil {
		if encoded, ok := s.cache.Get(ctx, userID); ok {
			if pub, err := ParseUserPublicKey(encoded); err == nil {
				return pub, nil
			}
			// A corrupt cache entry falls through to the store.
			s.cache.Delete(ctx, userID)
		}
	}

	key, err := s.keys.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load user key")
	}
	pub, err := ParseUserPublicKey(key.PublicKey)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "stored user key is unparseable")
	}
	if s.cache != nil {
		s.cache.Set(ctx, userID, key.PublicKey)
	}
	return pub, nil
}

func verifyRSA(pub *rsa.PublicKey, contents []byte, signature string) bool {
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(contents)
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig) == nil
}
