package verification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"cryptoupi/internal/models"
)

// ErrSessionReset is returned by a call whose session was reset (or
// discarded) while the provider was still working. Its result is dropped.
var ErrSessionReset = errors.New("session was reset during the request")

var errNoWalletSource = errors.New("no wallet source configured")

type Deps struct {
	Provider     ChallengeProvider
	Tokens       TokenSource
	Provisioner  Provisioner
	Wallets      WalletSource
	Logger       *zap.Logger
	OnTransition func(from, to State)
}

// Session is one login attempt: request a code, submit it, provision the
// account. The mutex guards fields only and is never held across a
// provider or directory call; overlapping calls are refused by state.
type Session struct {
	id   string
	deps Deps
	log  *zap.Logger

	mu           sync.Mutex
	epoch        uint64
	state        State
	phoneNumber  string
	handle       ConfirmationHandle
	lastError    error
	identity     *SignedIdentity
	account      *models.UserRecord
	profile      Profile
	provisioning bool
	updatedAt    time.Time
}

func NewSession(id string, deps Deps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		id:        id,
		deps:      deps,
		log:       logger.With(zap.String("session_id", id)),
		state:     Idle,
		updatedAt: time.Now(),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// SetProfile attaches optional account fields used at provisioning time.
func (s *Session) SetProfile(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
}

// RequestCode asks the provider to send a code to phoneNumber. proof is the
// client's response to the human-verification widget.
func (s *Session) RequestCode(ctx context.Context, phoneNumber, proof string) error {
	phone := SanitizePhone(phoneNumber)
	if phone == "" {
		return invalid(ErrPhoneRequired)
	}

	s.mu.Lock()
	switch {
	case s.state.busy():
		s.mu.Unlock()
		return invalid(ErrSessionBusy)
	case s.state != Idle && s.state != Failed:
		s.mu.Unlock()
		return invalid(ErrAlreadyRequested)
	}
	if err := s.setState(Sending); err != nil {
		s.mu.Unlock()
		return err
	}
	s.phoneNumber = phone
	s.lastError = nil
	epoch := s.epoch
	s.mu.Unlock()

	handle, err := s.beginChallenge(ctx, phone, proof)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.log.Info("challenge result dropped, session was reset")
		return ErrSessionReset
	}
	if err != nil {
		perr := &ProviderError{Op: "request_code", Message: err.Error(), Err: err}
		s.fail(perr)
		return perr
	}
	if handle == nil {
		perr := &ProviderError{Op: "request_code", Message: "provider returned no confirmation handle"}
		s.fail(perr)
		return perr
	}
	s.handle = handle
	return s.setState(AwaitingCode)
}

func (s *Session) beginChallenge(ctx context.Context, phone, proof string) (ConfirmationHandle, error) {
	var token string
	if s.deps.Tokens != nil {
		t, err := s.deps.Tokens.Token(ctx, proof)
		if err != nil {
			return nil, err
		}
		token = t
	}
	return s.deps.Provider.BeginChallenge(ctx, phone, token)
}

// SubmitCode checks code against the outstanding handle. On success the
// account is provisioned and returned. A rejected code fails the attempt
// and the handle is gone: the next try starts with RequestCode.
func (s *Session) SubmitCode(ctx context.Context, code string) (*models.UserRecord, error) {
	s.mu.Lock()
	if s.state.busy() || s.provisioning {
		s.mu.Unlock()
		return nil, invalid(ErrSessionBusy)
	}
	if s.state != AwaitingCode {
		s.mu.Unlock()
		return nil, invalid(ErrNoPendingCode)
	}
	normalized, err := NormalizeCode(code)
	if err != nil {
		s.mu.Unlock()
		return nil, invalid(err)
	}
	if err := s.setState(Verifying); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	handle := s.handle
	epoch := s.epoch
	s.mu.Unlock()

	identity, err := handle.Validate(ctx, normalized)

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.log.Info("code check result dropped, session was reset")
		return nil, ErrSessionReset
	}
	if err != nil || identity == nil {
		perr := &ProviderError{Op: "submit_code", Message: MsgInvalidCode, Err: err}
		s.fail(perr)
		s.mu.Unlock()
		return nil, perr
	}
	s.identity = identity
	if identity.PhoneNumber != "" {
		s.phoneNumber = identity.PhoneNumber
	}
	if err := s.setState(Verified); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.provisioning = true
	s.mu.Unlock()

	return s.provision(ctx, epoch)
}

// RetryProvisioning re-runs the directory handoff for a verified session
// whose first attempt failed. Verification is never rolled back.
func (s *Session) RetryProvisioning(ctx context.Context) (*models.UserRecord, error) {
	s.mu.Lock()
	if s.state != Verified {
		s.mu.Unlock()
		return nil, invalid(ErrNotVerified)
	}
	if s.account != nil {
		rec := s.account
		s.mu.Unlock()
		return rec, nil
	}
	if s.provisioning {
		s.mu.Unlock()
		return nil, invalid(ErrSessionBusy)
	}
	s.provisioning = true
	epoch := s.epoch
	s.mu.Unlock()

	return s.provision(ctx, epoch)
}

func (s *Session) provision(ctx context.Context, epoch uint64) (*models.UserRecord, error) {
	s.mu.Lock()
	phone := s.phoneNumber
	profile := s.profile
	s.mu.Unlock()

	var (
		wallet string
		err    error
	)
	if s.deps.Wallets == nil {
		err = errNoWalletSource
	} else {
		wallet, err = s.deps.Wallets.WalletAddress(ctx, phone)
	}

	var rec *models.UserRecord
	if err == nil {
		rec, err = s.deps.Provisioner.EnsureUser(ctx, models.EnsureUserInput{
			PhoneNumber:   phone,
			WalletAddress: wallet,
			DisplayName:   profile.DisplayName,
			Email:         profile.Email,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil, ErrSessionReset
	}
	s.provisioning = false
	if err != nil {
		perr := &ProvisioningError{Err: err}
		s.lastError = perr
		s.log.Error("provisioning failed", zap.Error(err))
		return nil, perr
	}
	s.account = rec
	s.lastError = nil
	s.updatedAt = time.Now()
	return rec, nil
}

// Reset returns the session to Idle from any state, dropping the handle,
// the error and any result. Calls still in flight are abandoned.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	_ = s.setState(Idle)
	s.phoneNumber = ""
	s.handle = nil
	s.lastError = nil
	s.identity = nil
	s.account = nil
	s.provisioning = false
}

// fail must be called with mu held.
func (s *Session) fail(err error) {
	s.handle = nil
	s.lastError = err
	if e := s.setState(Failed); e != nil {
		s.log.Error("fail transition rejected", zap.Error(e))
	}
	s.log.Info("attempt failed", zap.Error(err))
}

// setState must be called with mu held.
func (s *Session) setState(to State) error {
	from := s.state
	if !canTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	s.state = to
	s.updatedAt = time.Now()
	if from != to {
		s.log.Debug("state changed", zap.Stringer("from", from), zap.Stringer("to", to))
	}
	if s.deps.OnTransition != nil {
		s.deps.OnTransition(from, to)
	}
	return nil
}

type Snapshot struct {
	ID                   string             `json:"session_id"`
	PhoneNumber          string             `json:"phone_number,omitempty"`
	State                string             `json:"state"`
	HasHandle            bool               `json:"has_handle"`
	AwaitingProvisioning bool               `json:"awaiting_provisioning"`
	LastError            string             `json:"last_error,omitempty"`
	Identity             *SignedIdentity    `json:"identity,omitempty"`
	Account              *models.UserRecord `json:"account,omitempty"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:                   s.id,
		PhoneNumber:          s.phoneNumber,
		State:                s.state.String(),
		HasHandle:            s.handle != nil,
		AwaitingProvisioning: s.state == Verified && s.account == nil && !s.provisioning,
		Identity:             s.identity,
		Account:              s.account,
		UpdatedAt:            s.updatedAt,
	}
	if s.lastError != nil {
		snap.LastError = s.lastError.Error()
	}
	return snap
}
