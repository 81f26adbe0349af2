package crypto_test

import (
	"context"
	stdcrypto "crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paychain/internal/crypto"
	"paychain/internal/crypto/keycache"
	"paychain/internal/crypto/store/userkey"
	dErrors "paychain/pkg/domain-errors"
)

func newService(t *testing.T) *crypto.Service {
	t.Helper()
	svc, err := crypto.New(crypto.NewKeystore(""), userkey.NewInMemory(), crypto.WithCache(keycache.NewMemory()))
	require.NoError(t, err)
	return svc
}

func encodePublic(t *testing.T, pub *rsa.PublicKey) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(der)
}

func userSign(t *testing.T, key *rsa.PrivateKey, contents []byte) string {
	t.Helper()
	digest := sha256.Sum256(contents)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, stdcrypto.SHA256, digest[:])
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(sig)
}

type mandateFixture struct {
	Merchant string `json:"merchant"`
	Amount   int64  `json:"amount"`
	Ref      string `json:"ref"`
}

func TestHashDeterminism(t *testing.T) {
	contents := mandateFixture{Merchant: "Acme", Amount: 50000, Ref: "INV-100"}

	first, err := crypto.HashContents(contents)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := crypto.HashContents(contents)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// Hash must match an independently computed SHA-256 over the canonical
	// bytes, proving canonicalization is plain deterministic JSON.
	raw, err := crypto.Canonicalize(contents)
	require.NoError(t, err)
	sum := sha256.Sum256(raw)
	assert.Equal(t, base64.StdEncoding.EncodeToString(sum[:]), first)

	changed := contents
	changed.Amount++
	other, err := crypto.HashContents(changed)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestAgentSignatureRoundTrip(t *testing.T) {
	svc := newService(t)
	contents := []byte(`{"cartId":"cart-1","total":50000}`)

	sig, err := svc.SignAgent(contents)
	require.NoError(t, err)
	assert.True(t, svc.VerifyAgent(contents, sig))

	t.Run("single-bit mutation of contents fails", func(t *testing.T) {
		mutated := append([]byte(nil), contents...)
		mutated[0] ^= 0x01
		assert.False(t, svc.VerifyAgent(mutated, sig))
	})

	t.Run("single-bit mutation of signature fails", func(t *testing.T) {
		raw, err := base64.StdEncoding.DecodeString(sig)
		require.NoError(t, err)
		raw[0] ^= 0x01
		assert.False(t, svc.VerifyAgent(contents, base64.StdEncoding.EncodeToString(raw)))
	})

	t.Run("garbage signature is false, not an error", func(t *testing.T) {
		assert.False(t, svc.VerifyAgent(contents, "not-base64!!!"))
	})
}

func TestUserKeyRegistration(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	userKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	encoded := encodePublic(t, &userKey.PublicKey)

	registered, err := svc.RegisterUserKey(ctx, "user-1", encoded)
	require.NoError(t, err)
	assert.Equal(t, "RSA", registered.Algorithm)
	assert.Equal(t, 2048, registered.KeyBits)
	assert.True(t, registered.Active)

	t.Run("rejects a second active key", func(t *testing.T) {
		_, err := svc.RegisterUserKey(ctx, "user-1", encoded)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDuplicateActiveKey))
	})

	t.Run("rotation after deactivation succeeds", func(t *testing.T) {
		require.NoError(t, svc.DeactivateUserKey(ctx, "user-1"))
		fresh, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		_, err = svc.RegisterUserKey(ctx, "user-1", encodePublic(t, &fresh.PublicKey))
		require.NoError(t, err)
	})

	t.Run("rejects weak keys", func(t *testing.T) {
		weak, err := rsa.GenerateKey(rand.Reader, 1024)
		require.NoError(t, err)
		_, err = svc.RegisterUserKey(ctx, "user-2", encodePublic(t, &weak.PublicKey))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeWeakKey))
	})

	t.Run("rejects non-RSA keys", func(t *testing.T) {
		_, err := svc.RegisterUserKey(ctx, "user-3", base64.StdEncoding.EncodeToString([]byte("junk")))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestVerifyUser(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	userKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	_, err = svc.RegisterUserKey(ctx, "user-1", encodePublic(t, &userKey.PublicKey))
	require.NoError(t, err)

	contents := []byte(`{"invoiceRef":"INV-100","amount":50000}`)
	sig := userSign(t, userKey, contents)

	ok, err := svc.VerifyUser(ctx, contents, sig, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("wrong user's key fails verification", func(t *testing.T) {
		other, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		_, err = svc.RegisterUserKey(ctx, "user-2", encodePublic(t, &other.PublicKey))
		require.NoError(t, err)

		ok, err := svc.VerifyUser(ctx, contents, sig, "user-2")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unregistered user is false, not an error", func(t *testing.T) {
		ok, err := svc.VerifyUser(ctx, contents, sig, "nobody")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestKeystorePersistence(t *testing.T) {
	path := t.TempDir() + "/agent.pem"

	first, err := crypto.NewKeystore(path).Load()
	require.NoError(t, err)
	second, err := crypto.NewKeystore(path).Load()
	require.NoError(t, err)

	assert.Equal(t, first.N, second.N, "the persisted keypair must survive a reload")

	rotated, err := crypto.NewKeystore(path).Rotate()
	require.NoError(t, err)
	assert.NotEqual(t, first.N, rotated.N)
}
