package crypto

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	dErrors "paychain/pkg/domain-errors"
)

// Canonicalize produces the deterministic byte serialization of mandate
// contents. Both hashing and signing run over these bytes, so the output
// must be stable across processes and releases.
//
// Determinism holds because mandate contents are tagged structs of scalars
// and slices: encoding/json emits struct fields in declaration order and the
// contents types carry no maps and no floats. Changing a contents struct's
// field order or tags invalidates every stored hash and signature.
func Canonicalize(contents any) ([]byte, error) {
	raw, err := json.Marshal(contents)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "canonicalize mandate contents")
	}
	return raw, nil
}

// HashBytes returns the Base64-encoded SHA-256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// HashContents canonicalizes contents and hashes the result. The returned
// hash doubles as the forward-linkage key between mandate stages.
func HashContents(contents any) (string, error) {
	raw, err := Canonicalize(contents)
	if err != nil {
		return "", err
	}
	return HashBytes(raw), nil
}
