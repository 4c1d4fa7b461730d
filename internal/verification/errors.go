package verification

import (
	"errors"
	"fmt"
)

// MsgInvalidCode is shown for every failed code check. A wrong code and an
// expired handle are indistinguishable.
const MsgInvalidCode = "invalid code"

var (
	ErrPhoneRequired      = errors.New("phone number is required")
	ErrCodeRequired       = errors.New("code is required")
	ErrCodeNotNumeric     = errors.New("code must contain digits only")
	ErrCodeLength         = fmt.Errorf("code must be %d digits", CodeLength)
	ErrSessionBusy        = errors.New("session busy, wait for the current request")
	ErrAlreadyRequested   = errors.New("code already requested, reset to resend")
	ErrNoPendingCode      = errors.New("no code is awaiting verification")
	ErrNotVerified        = errors.New("session is not verified")
	ErrAlreadyProvisioned = errors.New("account already provisioned")
	ErrIllegalTransition  = errors.New("illegal state transition")
)

// ValidationError means the input was rejected locally; the provider was never contacted.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// ProviderError means challenge issuance or code validation failed.
// Message is what the user sees.
type ProviderError struct {
	Op      string
	Message string
	Err     error
}

func (e *ProviderError) Error() string { return e.Message }
func (e *ProviderError) Unwrap() error { return e.Err }

// ProvisioningError means the phone is verified but the account write failed.
type ProvisioningError struct {
	Err error
}

func (e *ProvisioningError) Error() string { return "account provisioning failed: " + e.Err.Error() }
func (e *ProvisioningError) Unwrap() error { return e.Err }

func invalid(err error) error { return &ValidationError{Err: err} }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsProvider(err error) bool {
	var p *ProviderError
	return errors.As(err, &p)
}

func IsProvisioning(err error) bool {
	var p *ProvisioningError
	return errors.As(err, &p)
}
