package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptoupi/internal/models"
	"cryptoupi/internal/repositories"
	"cryptoupi/internal/utils"
)

// memUserRepo stands in for Postgres; its clock plays the role of NOW().
type memUserRepo struct {
	mu      sync.Mutex
	clock   time.Time
	records map[string]models.UserRecord
	creates int
	updates int

	createErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		clock:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		records: map[string]models.UserRecord{},
	}
}

func (r *memUserRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Minute)
	return r.clock
}

func (r *memUserRepo) Create(_ context.Context, rec *models.UserRecord) (*models.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, ok := r.records[rec.WalletAddress]; ok {
		return nil, repositories.ErrAlreadyExists
	}
	r.creates++
	c := *rec
	now := r.tick()
	c.CreatedAt, c.LastActive = now, now
	r.records[c.WalletAddress] = c
	return &c, nil
}

func (r *memUserRepo) Read(_ context.Context, wallet string) (*models.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.records[wallet]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memUserRepo) Update(_ context.Context, wallet string, p models.UserPatch) (*models.UserRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.records[wallet]
	if !ok {
		return nil, nil
	}
	r.updates++
	if p.DisplayName != nil {
		c.DisplayName = p.DisplayName
	}
	if p.Email != nil {
		c.Email = p.Email
	}
	if p.TwoFactorEnabled != nil {
		c.TwoFactorEnabled = *p.TwoFactorEnabled
	}
	if p.KYCStatus != nil {
		c.KYCStatus = *p.KYCStatus
	}
	if p.ProfilePicURL != nil {
		c.ProfilePicURL = p.ProfilePicURL
	}
	c.LastActive = r.tick()
	r.records[wallet] = c
	return &c, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendWelcomeEmail(email, _ string) error {
	m.sent = append(m.sent, email)
	return m.err
}

type fakeNotifier struct {
	wallets []string
	err     error
}

func (n *fakeNotifier) NotifyAccountCreated(_ context.Context, rec *models.UserRecord) error {
	n.wallets = append(n.wallets, rec.WalletAddress)
	return n.err
}

func strp(s string) *string { return &s }

func TestEnsureUserCreatesThenUpdates(t *testing.T) {
	repo := newMemUserRepo()
	mail := &fakeMailer{}
	notify := &fakeNotifier{}
	svc := NewProvisioningService(repo, mail, notify, nil)
	ctx := context.Background()

	first, err := svc.EnsureUser(ctx, models.EnsureUserInput{
		PhoneNumber:   "+15551234567",
		WalletAddress: "0xabc",
		Email:         strp("ann@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "8a59780bb8cd2ba022bfa5ba2ea3b6e07af17a7d8b30c1f9b3390e36f69019e4", first.PhoneHash)
	assert.Equal(t, models.KYCPending, first.KYCStatus)
	assert.False(t, first.TwoFactorEnabled)
	assert.Equal(t, first.CreatedAt, first.LastActive)
	assert.Equal(t, []string{"ann@example.com"}, mail.sent)
	assert.Equal(t, []string{"0xabc"}, notify.wallets)

	second, err := svc.EnsureUser(ctx, models.EnsureUserInput{
		PhoneNumber:   "+15551234567",
		WalletAddress: "0xabc",
		DisplayName:   strp("Ann"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 1, repo.updates)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, first.PhoneHash, second.PhoneHash)
	assert.True(t, second.LastActive.After(first.LastActive))
	require.NotNil(t, second.DisplayName)
	assert.Equal(t, "Ann", *second.DisplayName)
	require.NotNil(t, second.Email)
	assert.Equal(t, "ann@example.com", *second.Email)
	assert.Len(t, mail.sent, 1)
}

func TestEnsureUserSideEffectsAreBestEffort(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewProvisioningService(repo,
		&fakeMailer{err: errors.New("smtp down")},
		&fakeNotifier{err: errors.New("telegram down")},
		nil)

	rec, err := svc.EnsureUser(context.Background(), models.EnsureUserInput{
		PhoneNumber:   "+15551234567",
		WalletAddress: "0xabc",
		Email:         strp("ann@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "0xabc", rec.WalletAddress)
}

func TestEnsureUserRequiresWallet(t *testing.T) {
	svc := NewProvisioningService(newMemUserRepo(), nil, nil, nil)
	_, err := svc.EnsureUser(context.Background(), models.EnsureUserInput{PhoneNumber: "+1555"})
	assert.ErrorIs(t, err, ErrWalletRequired)
}

func TestEnsureUserPropagatesStoreFailure(t *testing.T) {
	repo := newMemUserRepo()
	repo.createErr = errors.New("connection refused")
	svc := NewProvisioningService(repo, nil, nil, nil)

	_, err := svc.EnsureUser(context.Background(), models.EnsureUserInput{
		PhoneNumber:   "+15551234567",
		WalletAddress: "0xabc",
	})
	assert.EqualError(t, err, "connection refused")
}

// racingRepo reports "absent" on the first read although the row exists.
type racingRepo struct {
	*memUserRepo
	reads int
}

func (r *racingRepo) Read(ctx context.Context, wallet string) (*models.UserRecord, error) {
	r.reads++
	if r.reads == 1 {
		return nil, nil
	}
	return r.memUserRepo.Read(ctx, wallet)
}

func TestEnsureUserFallsBackToUpdateOnDuplicate(t *testing.T) {
	mem := newMemUserRepo()
	_, err := mem.Create(context.Background(), &models.UserRecord{WalletAddress: "0xabc", PhoneHash: utils.HashPhone("+15551234567"), KYCStatus: models.KYCPending})
	require.NoError(t, err)

	notify := &fakeNotifier{}
	svc := NewProvisioningService(&racingRepo{memUserRepo: mem}, nil, notify, nil)
	rec, err := svc.EnsureUser(context.Background(), models.EnsureUserInput{
		PhoneNumber:   "+15551234567",
		WalletAddress: "0xabc",
		DisplayName:   strp("Ann"),
	})
	require.NoError(t, err)
	assert.Equal(t, utils.HashPhone("+15551234567"), rec.PhoneHash)
	assert.Equal(t, 1, mem.updates)
	assert.Empty(t, notify.wallets)
}

func TestEnsureUserRefusesWalletOfAnotherPhone(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewProvisioningService(repo, nil, nil, nil)
	ctx := context.Background()

	owner, err := svc.EnsureUser(ctx, models.EnsureUserInput{
		PhoneNumber:   "+15550000001",
		WalletAddress: "0xowned",
		Email:         strp("owner@example.com"),
	})
	require.NoError(t, err)

	rec, err := svc.EnsureUser(ctx, models.EnsureUserInput{
		PhoneNumber:   "+15559999999",
		WalletAddress: "0xowned",
		Email:         strp("other@example.com"),
		DisplayName:   strp("Other"),
	})
	assert.ErrorIs(t, err, ErrWalletOwnedByOtherPhone)
	assert.Nil(t, rec)
	assert.Equal(t, 0, repo.updates)

	stored, err := repo.Read(ctx, "0xowned")
	require.NoError(t, err)
	assert.Equal(t, owner.PhoneHash, stored.PhoneHash)
	require.NotNil(t, stored.Email)
	assert.Equal(t, "owner@example.com", *stored.Email)
	assert.Nil(t, stored.DisplayName)
}

func TestEnsureUserChecksOwnerAfterDuplicate(t *testing.T) {
	mem := newMemUserRepo()
	_, err := mem.Create(context.Background(), &models.UserRecord{WalletAddress: "0xabc", PhoneHash: utils.HashPhone("+15550000001"), KYCStatus: models.KYCPending})
	require.NoError(t, err)

	svc := NewProvisioningService(&racingRepo{memUserRepo: mem}, nil, nil, nil)
	_, err = svc.EnsureUser(context.Background(), models.EnsureUserInput{
		PhoneNumber:   "+15559999999",
		WalletAddress: "0xabc",
		DisplayName:   strp("Other"),
	})
	assert.ErrorIs(t, err, ErrWalletOwnedByOtherPhone)
	assert.Equal(t, 0, mem.updates)
}

func TestPatchAccount(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewProvisioningService(repo, nil, nil, nil)
	ctx := context.Background()
	_, err := svc.EnsureUser(ctx, models.EnsureUserInput{PhoneNumber: "+15551234567", WalletAddress: "0xabc"})
	require.NoError(t, err)

	bad := models.KYCStatus("approved")
	_, err = svc.PatchAccount(ctx, "0xabc", models.UserPatch{KYCStatus: &bad})
	assert.ErrorIs(t, err, ErrInvalidKYCStatus)

	_, err = svc.PatchAccount(ctx, "0xabc", models.UserPatch{})
	assert.ErrorIs(t, err, ErrNothingToUpdate)

	ok := models.KYCVerified
	on := true
	rec, err := svc.PatchAccount(ctx, "0xabc", models.UserPatch{KYCStatus: &ok, TwoFactorEnabled: &on})
	require.NoError(t, err)
	assert.Equal(t, models.KYCVerified, rec.KYCStatus)
	assert.True(t, rec.TwoFactorEnabled)

	_, err = svc.PatchAccount(ctx, "0xnone", models.UserPatch{KYCStatus: &ok})
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = svc.GetAccount(ctx, "0xnone")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
