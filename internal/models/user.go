package models

import "time"

type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
)

func (s KYCStatus) Valid() bool {
	switch s {
	case KYCPending, KYCVerified, KYCRejected:
		return true
	}
	return false
}

// UserRecord is the account document keyed by wallet address.
// WalletAddress, PhoneHash and CreatedAt are written once on creation.
type UserRecord struct {
	WalletAddress    string    `json:"wallet_address"`
	PhoneHash        string    `json:"phone_hash"`
	DisplayName      *string   `json:"display_name"`
	Email            *string   `json:"email"`
	CreatedAt        time.Time `json:"created_at"`
	LastActive       time.Time `json:"last_active"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	KYCStatus        KYCStatus `json:"kyc_status"`
	ProfilePicURL    *string   `json:"profile_pic_url"`
}

// UserPatch lists the mutable fields of a UserRecord. Nil means "leave as is".
type UserPatch struct {
	DisplayName      *string    `json:"display_name"`
	Email            *string    `json:"email"`
	TwoFactorEnabled *bool      `json:"two_factor_enabled"`
	KYCStatus        *KYCStatus `json:"kyc_status"`
	ProfilePicURL    *string    `json:"profile_pic_url"`
}

func (p UserPatch) Empty() bool {
	return p.DisplayName == nil && p.Email == nil && p.TwoFactorEnabled == nil &&
		p.KYCStatus == nil && p.ProfilePicURL == nil
}

type EnsureUserInput struct {
	PhoneNumber   string
	WalletAddress string
	DisplayName   *string
	Email         *string
}
