package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"cryptoupi/internal/models"
)

// ErrAlreadyExists is returned by Create when the wallet address is taken.
var ErrAlreadyExists = errors.New("record already exists")

const uniqueViolation = "23505"

// UserRecordRepository stores accounts keyed by wallet address. Timestamps
// come from the database clock.
type UserRecordRepository interface {
	Create(ctx context.Context, rec *models.UserRecord) (*models.UserRecord, error)
	Read(ctx context.Context, walletAddress string) (*models.UserRecord, error)
	Update(ctx context.Context, walletAddress string, patch models.UserPatch) (*models.UserRecord, error)
}

type userRecordRepository struct {
	DB *sql.DB
}

func NewUserRecordRepository(db *sql.DB) UserRecordRepository {
	return &userRecordRepository{DB: db}
}

const userRecordColumns = `
	wallet_address, phone_hash, display_name, email, created_at, last_active,
	two_factor_enabled, kyc_status, profile_pic_url`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRecord(row rowScanner) (*models.UserRecord, error) {
	var (
		u                             models.UserRecord
		displayName, email, avatarURL sql.NullString
		kyc                           string
	)
	if err := row.Scan(
		&u.WalletAddress, &u.PhoneHash, &displayName, &email, &u.CreatedAt, &u.LastActive,
		&u.TwoFactorEnabled, &kyc, &avatarURL,
	); err != nil {
		return nil, err
	}
	u.DisplayName = nullableString(displayName)
	u.Email = nullableString(email)
	u.ProfilePicURL = nullableString(avatarURL)
	u.KYCStatus = models.KYCStatus(kyc)
	return &u, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func (r *userRecordRepository) Create(ctx context.Context, rec *models.UserRecord) (*models.UserRecord, error) {
	q := `
		INSERT INTO user_records (
			wallet_address, phone_hash, display_name, email,
			created_at, last_active, two_factor_enabled, kyc_status, profile_pic_url
		)
		VALUES ($1, $2, $3, $4, NOW(), NOW(), $5, $6, $7)
		RETURNING` + userRecordColumns

	created, err := scanUserRecord(r.DB.QueryRowContext(ctx, q,
		rec.WalletAddress,
		rec.PhoneHash,
		rec.DisplayName,
		rec.Email,
		rec.TwoFactorEnabled,
		string(rec.KYCStatus),
		rec.ProfilePicURL,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user record: %w", err)
	}
	return created, nil
}

func (r *userRecordRepository) Read(ctx context.Context, walletAddress string) (*models.UserRecord, error) {
	q := `SELECT` + userRecordColumns + `
		FROM user_records
		WHERE wallet_address = $1`

	u, err := scanUserRecord(r.DB.QueryRowContext(ctx, q, walletAddress))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("read user record: %w", err)
	}
	return u, nil
}

// Update writes the supplied fields and always refreshes last_active.
// Returns nil, nil when no record has that wallet address.
func (r *userRecordRepository) Update(ctx context.Context, walletAddress string, patch models.UserPatch) (*models.UserRecord, error) {
	sets := []string{"last_active = NOW()"}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.DisplayName != nil {
		add("display_name", *patch.DisplayName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.TwoFactorEnabled != nil {
		add("two_factor_enabled", *patch.TwoFactorEnabled)
	}
	if patch.KYCStatus != nil {
		add("kyc_status", string(*patch.KYCStatus))
	}
	if patch.ProfilePicURL != nil {
		add("profile_pic_url", *patch.ProfilePicURL)
	}

	args = append(args, walletAddress)
	q := fmt.Sprintf(`
		UPDATE user_records
		SET %s
		WHERE wallet_address = $%d
		RETURNING%s`, strings.Join(sets, ", "), len(args), userRecordColumns)

	u, err := scanUserRecord(r.DB.QueryRowContext(ctx, q, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("update user record: %w", err)
	}
	return u, nil
}
