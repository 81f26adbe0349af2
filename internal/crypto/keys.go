package crypto

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"time"

	dErrors "paychain/pkg/domain-errors"
)

// MinUserKeyBits is the weakest RSA modulus accepted for user keys.
const MinUserKeyBits = 2048

// UserKey is a registered public key for a user. Keys are never deleted;
// rotation deactivates the old key and registers a new one.
type UserKey struct {
	UUID      string
	UserID    string
	PublicKey string // Base64 X.509 SubjectPublicKeyInfo
	Algorithm string
	KeyBits   int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParseUserPublicKey decodes and validates a Base64 SPKI public key,
// enforcing the RSA-only, >=2048-bit registration policy.
func ParseUserPublicKey(encoded string) (*rsa.PublicKey, error) {
	der, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "public key is not valid base64")
	}
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "public key is not valid SPKI")
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnsupportedAlgorithm, "only RSA public keys are supported")
	}
	if bits := pub.N.BitLen(); bits < MinUserKeyBits {
		return nil, dErrors.Newf(dErrors.CodeWeakKey, "RSA modulus is %d bits, minimum is %d", bits, MinUserKeyBits)
	}
	return pub, nil
}
