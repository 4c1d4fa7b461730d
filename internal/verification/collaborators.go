package verification

import (
	"context"
	"time"

	"cryptoupi/internal/models"
)

// SignedIdentity is what a provider returns for an accepted code.
type SignedIdentity struct {
	PhoneNumber string    `json:"phone_number"`
	Token       string    `json:"token"`
	IssuedAt    time.Time `json:"issued_at"`
}

// ConfirmationHandle binds a dispatched code to its single validation call.
type ConfirmationHandle interface {
	Validate(ctx context.Context, code string) (*SignedIdentity, error)
}

type ChallengeProvider interface {
	BeginChallenge(ctx context.Context, phoneNumber, antiAutomationToken string) (ConfirmationHandle, error)
}

// TokenSource hands out the anti-automation token guarding challenge issuance.
type TokenSource interface {
	Token(ctx context.Context, proof string) (string, error)
}

type Provisioner interface {
	EnsureUser(ctx context.Context, in models.EnsureUserInput) (*models.UserRecord, error)
}

// WalletSource supplies the wallet address for a verified phone number.
type WalletSource interface {
	WalletAddress(ctx context.Context, phoneNumber string) (string, error)
}

// Profile carries optional account fields collected by the login form.
// The wallet address is not among them: it always comes from the WalletSource.
type Profile struct {
	DisplayName *string
	Email       *string
}
