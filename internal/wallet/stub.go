package wallet

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var ErrNoPhone = errors.New("phone number is required")

// Stub derives a stable placeholder address from the phone number. No key
// material exists behind it.
type Stub struct {
	Salt string
}

func (s Stub) WalletAddress(_ context.Context, phoneNumber string) (string, error) {
	if phoneNumber == "" {
		return "", ErrNoPhone
	}
	sum := sha256.Sum256([]byte(s.Salt + phoneNumber))
	return "0x" + hex.EncodeToString(sum[:20]), nil
}
