package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cryptoupi/internal/models"
	"cryptoupi/internal/repositories"
	"cryptoupi/internal/utils"
)

var (
	ErrWalletRequired   = errors.New("wallet address is required")
	ErrAccountNotFound  = errors.New("account not found")
	ErrInvalidKYCStatus = errors.New("kyc_status must be one of pending, verified, rejected")
	ErrNothingToUpdate  = errors.New("no fields to update")
	errPhoneNotSupplied = errors.New("phone number is required")
	errRecordVanished   = errors.New("record disappeared during update")

	// ErrWalletOwnedByOtherPhone is returned when the record under a wallet
	// was created by a different phone number.
	ErrWalletOwnedByOtherPhone = errors.New("wallet address belongs to another phone number")
)

// ProvisioningService creates or refreshes the account of a verified phone
// number. It also backs the admin account endpoints.
type ProvisioningService struct {
	repo     repositories.UserRecordRepository
	email    EmailService
	notifier AccountNotifier
	logger   *zap.Logger
}

func NewProvisioningService(repo repositories.UserRecordRepository, email EmailService, notifier AccountNotifier, logger *zap.Logger) *ProvisioningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProvisioningService{repo: repo, email: email, notifier: notifier, logger: logger}
}

// EnsureUser creates the record on first sign-in and otherwise updates the
// supplied fields and last_active. Identity fields are never rewritten.
func (s *ProvisioningService) EnsureUser(ctx context.Context, in models.EnsureUserInput) (*models.UserRecord, error) {
	wallet := strings.TrimSpace(in.WalletAddress)
	if wallet == "" {
		return nil, ErrWalletRequired
	}
	if in.PhoneNumber == "" {
		return nil, errPhoneNotSupplied
	}

	phoneHash := utils.HashPhone(in.PhoneNumber)

	existing, err := s.repo.Read(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		rec, err := s.create(ctx, wallet, phoneHash, in)
		if !errors.Is(err, repositories.ErrAlreadyExists) {
			return rec, err
		}
		// lost a race with a concurrent first sign-in
		s.logger.Info("record created concurrently, updating instead", zap.String("wallet", wallet))
		if existing, err = s.repo.Read(ctx, wallet); err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, errRecordVanished
		}
	}
	if existing.PhoneHash != phoneHash {
		s.logger.Warn("wallet is bound to another phone", zap.String("wallet", wallet))
		return nil, ErrWalletOwnedByOtherPhone
	}

	rec, err := s.repo.Update(ctx, wallet, models.UserPatch{
		DisplayName: nonEmpty(in.DisplayName),
		Email:       nonEmpty(in.Email),
	})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errRecordVanished
	}
	return rec, nil
}

func (s *ProvisioningService) create(ctx context.Context, wallet, phoneHash string, in models.EnsureUserInput) (*models.UserRecord, error) {
	rec, err := s.repo.Create(ctx, &models.UserRecord{
		WalletAddress:    wallet,
		PhoneHash:        phoneHash,
		DisplayName:      nonEmpty(in.DisplayName),
		Email:            nonEmpty(in.Email),
		TwoFactorEnabled: false,
		KYCStatus:        models.KYCPending,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("account created", zap.String("wallet", wallet))

	// best effort, provisioning already succeeded
	if s.email != nil && rec.Email != nil {
		name := ""
		if rec.DisplayName != nil {
			name = *rec.DisplayName
		}
		if err := s.email.SendWelcomeEmail(*rec.Email, name); err != nil {
			s.logger.Warn("welcome email failed", zap.String("wallet", wallet), zap.Error(err))
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyAccountCreated(ctx, rec); err != nil {
			s.logger.Warn("account notification failed", zap.String("wallet", wallet), zap.Error(err))
		}
	}
	return rec, nil
}

func (s *ProvisioningService) GetAccount(ctx context.Context, wallet string) (*models.UserRecord, error) {
	rec, err := s.repo.Read(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrAccountNotFound
	}
	return rec, nil
}

// PatchAccount applies an admin edit. last_active is refreshed as on any write.
func (s *ProvisioningService) PatchAccount(ctx context.Context, wallet string, patch models.UserPatch) (*models.UserRecord, error) {
	if patch.Empty() {
		return nil, ErrNothingToUpdate
	}
	if patch.KYCStatus != nil && !patch.KYCStatus.Valid() {
		return nil, ErrInvalidKYCStatus
	}
	rec, err := s.repo.Update(ctx, wallet, patch)
	if err != nil {
		return nil, fmt.Errorf("patch account: %w", err)
	}
	if rec == nil {
		return nil, ErrAccountNotFound
	}
	return rec, nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
