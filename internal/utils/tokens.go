package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// MinSecretBytes is the shortest HS256 signing key we hand out.
const MinSecretBytes = 32

// NewSigningSecret returns a random JWT signing key in unpadded base64url,
// ready to paste into auth.jwt_secret or JWT_SECRET. Requests shorter than
// MinSecretBytes are raised to it.
func NewSigningSecret(nBytes int) (string, error) {
	if nBytes < MinSecretBytes {
		nBytes = MinSecretBytes
	}
	key := make([]byte, nBytes)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(key), nil
}
