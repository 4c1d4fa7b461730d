package models

import "time"

// ChallengeRecord is the audit row written for every issued SMS challenge.
// Neither the raw code nor the raw phone number is stored.
type ChallengeRecord struct {
	HandleID    string     `json:"handle_id"`
	PhoneHash   string     `json:"phone_hash"`
	SentAt      time.Time  `json:"sent_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	Confirmed   bool       `json:"confirmed"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
}
