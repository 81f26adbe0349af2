package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	dErrors "paychain/pkg/domain-errors"
)

// AgentKeyBits is the modulus size of the agent signing key.
const AgentKeyBits = 2048

// Keystore loads and persists the agent keypair. Persisting the key outside
// process memory keeps previously issued agent signatures verifiable across
// restarts; a restart with a fresh keypair would orphan every stored cart
// and payment signature.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore rooted at path. An empty path produces an
// ephemeral keystore that generates a fresh keypair on every load, matching
// the in-memory-only behavior suitable for tests.
func NewKeystore(path string) *Keystore {
	return &Keystore{path: path}
}

// Load returns the persisted agent keypair, generating and persisting one on
// first use.
func (k *Keystore) Load() (*rsa.PrivateKey, error) {
	if k.path == "" {
		key, err := rsa.GenerateKey(rand.Reader, AgentKeyBits)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "generate agent keypair")
		}
		return key, nil
	}

	raw, err := os.ReadFile(k.path)
	switch {
	case err == nil:
		return parseAgentKey(raw)
	case errors.Is(err, fs.ErrNotExist):
		return k.generate()
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "read agent key file")
	}
}

// Rotate generates a fresh keypair and overwrites the persisted one. The
// caller is responsible for auditing the rotation; signatures issued under
// the old key stop verifying.
func (k *Keystore) Rotate() (*rsa.PrivateKey, error) {
	if k.path == "" {
		return k.Load()
	}
	if err := os.Remove(k.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "remove agent key file")
	}
	return k.generate()
}

func (k *Keystore) generate() (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, AgentKeyBits)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "generate agent keypair")
	}
	block := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: mustMarshalPKCS8(key),
	}
	if err := os.MkdirAll(filepath.Dir(k.path), 0o700); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create agent key dir")
	}
	if err := os.WriteFile(k.path, pem.EncodeToMemory(block), 0o600); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist agent key")
	}
	return key, nil
}

func parseAgentKey(raw []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "agent key file is not PEM")
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "parse agent key")
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInternal, "agent key is not RSA")
	}
	return key, nil
}

func mustMarshalPKCS8(key *rsa.PrivateKey) []byte {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		// MarshalPKCS8PrivateKey cannot fail for an *rsa.PrivateKey.
		panic(err)
	}
	return der
}
