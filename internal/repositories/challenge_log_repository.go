package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cryptoupi/internal/models"
)

// ChallengeLogRepository keeps one audit row per issued SMS challenge.
type ChallengeLogRepository struct {
	DB *sql.DB
}

func NewChallengeLogRepository(db *sql.DB) *ChallengeLogRepository {
	return &ChallengeLogRepository{DB: db}
}

func (r *ChallengeLogRepository) Create(ctx context.Context, handleID, phoneHash string, sentAt, expiresAt time.Time) error {
	const q = `
		INSERT INTO challenge_log (handle_id, phone_hash, sent_at, expires_at, confirmed)
		VALUES ($1, $2, $3, $4, FALSE)
	`
	if _, err := r.DB.ExecContext(ctx, q, handleID, phoneHash, sentAt, expiresAt); err != nil {
		return fmt.Errorf("challenge_log create: %w", err)
	}
	return nil
}

func (r *ChallengeLogRepository) MarkConfirmed(ctx context.Context, handleID string) error {
	const q = `UPDATE challenge_log SET confirmed = TRUE, confirmed_at = NOW() WHERE handle_id = $1`
	if _, err := r.DB.ExecContext(ctx, q, handleID); err != nil {
		return fmt.Errorf("challenge_log confirm: %w", err)
	}
	return nil
}

// CountRecentSends counts challenges issued to phoneHash since the given time.
func (r *ChallengeLogRepository) CountRecentSends(ctx context.Context, phoneHash string, since time.Time) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM challenge_log
		WHERE phone_hash = $1 AND sent_at >= $2
	`
	var c int
	if err := r.DB.QueryRowContext(ctx, q, phoneHash, since).Scan(&c); err != nil {
		return 0, fmt.Errorf("challenge_log count recent: %w", err)
	}
	return c, nil
}

func (r *ChallengeLogRepository) GetByHandle(ctx context.Context, handleID string) (*models.ChallengeRecord, error) {
	const q = `
		SELECT handle_id, phone_hash, sent_at, expires_at, confirmed, confirmed_at
		FROM challenge_log
		WHERE handle_id = $1
	`
	var (
		c           models.ChallengeRecord
		confirmedAt sql.NullTime
	)
	if err := r.DB.QueryRowContext(ctx, q, handleID).Scan(
		&c.HandleID, &c.PhoneHash, &c.SentAt, &c.ExpiresAt, &c.Confirmed, &confirmedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("challenge_log get: %w", err)
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		c.ConfirmedAt = &t
	}
	return &c, nil
}
