package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cryptoupi/internal/authz"
	"cryptoupi/internal/cache"
	"cryptoupi/internal/utils"
	"cryptoupi/internal/verification"
)

var (
	ErrTokenRequired   = errors.New("human verification token is required")
	ErrInvalidPhone    = errors.New("phone number must be in international format, e.g. +15551234567")
	ErrDailyLimit      = errors.New("daily code limit reached for this number")
	ErrCodeExpired     = errors.New("code expired or already used")
	ErrCodeInvalid     = errors.New("code invalid")
	errSMSNotDelivered = errors.New("could not deliver the code, try again")
)

const (
	challengeNamespace     = "otp_challenge"
	defaultChallengeTTL    = 5 * time.Minute
	defaultIdentityTTL     = 24 * time.Hour
	defaultMessageTemplate = "Your cryptoupi code: %s"
)

var e164 = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

type SMSSender interface {
	SendSMS(ctx context.Context, to, text string) (*utils.SendSMSResponse, error)
}

// RequestLimiter refuses a request for subject with a user-facing error.
type RequestLimiter interface {
	CanRequest(ctx context.Context, subject string) error
}

type ChallengeAudit interface {
	Create(ctx context.Context, handleID, phoneHash string, sentAt, expiresAt time.Time) error
	MarkConfirmed(ctx context.Context, handleID string) error
	CountRecentSends(ctx context.Context, phoneHash string, since time.Time) (int, error)
}

type SMSChallengeOptions struct {
	CodeTTL         time.Duration
	IdentityTTL     time.Duration
	MaxPerDay       int // 0 disables the audit-based cap
	MessageTemplate string
}

// SMSChallengeProvider issues one-time codes over SMS. Only the bcrypt hash
// of a code is kept, in Redis under the handle id, and it is consumed by
// the first validation attempt whatever its outcome.
type SMSChallengeProvider struct {
	sender  SMSSender
	codes   *cache.Cache
	limiter RequestLimiter
	audit   ChallengeAudit
	issuer  *authz.Issuer
	opts    SMSChallengeOptions
	logger  *zap.Logger

	newCode func() (string, error)
	now     func() time.Time
}

func NewSMSChallengeProvider(
	sender SMSSender,
	codes *cache.Cache,
	limiter RequestLimiter,
	audit ChallengeAudit,
	issuer *authz.Issuer,
	opts SMSChallengeOptions,
	logger *zap.Logger,
) *SMSChallengeProvider {
	if opts.CodeTTL <= 0 {
		opts.CodeTTL = defaultChallengeTTL
	}
	if opts.IdentityTTL <= 0 {
		opts.IdentityTTL = defaultIdentityTTL
	}
	if opts.MessageTemplate == "" {
		opts.MessageTemplate = defaultMessageTemplate
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMSChallengeProvider{
		sender:  sender,
		codes:   codes,
		limiter: limiter,
		audit:   audit,
		issuer:  issuer,
		opts:    opts,
		logger:  logger,
		newCode: randomCode,
		now:     time.Now,
	}
}

type storedChallenge struct {
	Phone    string `json:"phone"`
	CodeHash string `json:"code_hash"`
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(1e6)))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", verification.CodeLength, n.Int64()), nil
}

func (p *SMSChallengeProvider) BeginChallenge(ctx context.Context, phone, token string) (verification.ConfirmationHandle, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}
	if !e164.MatchString(phone) {
		return nil, ErrInvalidPhone
	}
	phoneHash := utils.HashPhone(phone)

	if p.limiter != nil {
		if err := p.limiter.CanRequest(ctx, phoneHash); err != nil {
			return nil, err
		}
	}
	if p.audit != nil && p.opts.MaxPerDay > 0 {
		cnt, err := p.audit.CountRecentSends(ctx, phoneHash, p.now().Add(-24*time.Hour))
		if err != nil {
			p.logger.Warn("challenge audit count failed", zap.Error(err))
		} else if cnt >= p.opts.MaxPerDay {
			return nil, ErrDailyLimit
		}
	}

	code, err := p.newCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	codeHash, err := utils.HashCode(code)
	if err != nil {
		return nil, fmt.Errorf("bcrypt generate: %w", err)
	}
	payload, err := json.Marshal(storedChallenge{Phone: phone, CodeHash: codeHash})
	if err != nil {
		return nil, err
	}

	handleID := uuid.NewString()
	if err := p.codes.Set(ctx, challengeNamespace, handleID, payload, p.opts.CodeTTL); err != nil {
		return nil, fmt.Errorf("store challenge: %w", err)
	}

	resp, err := p.sender.SendSMS(ctx, phone, fmt.Sprintf(p.opts.MessageTemplate, code))
	if err != nil {
		_ = p.codes.Delete(context.WithoutCancel(ctx), challengeNamespace, handleID)
		p.logger.Warn("sms delivery failed", zap.String("handle_id", handleID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", errSMSNotDelivered, err)
	}

	sentAt := p.now()
	if p.audit != nil {
		if err := p.audit.Create(ctx, handleID, phoneHash, sentAt, sentAt.Add(p.opts.CodeTTL)); err != nil {
			p.logger.Warn("challenge audit write failed", zap.String("handle_id", handleID), zap.Error(err))
		}
	}

	fields := []zap.Field{zap.String("handle_id", handleID), zap.String("phone_hash", phoneHash)}
	if resp != nil && resp.Data.MessageID != "" {
		fields = append(fields, zap.String("message_id", resp.Data.MessageID))
	}
	p.logger.Info("challenge issued", fields...)

	return &smsHandle{provider: p, id: handleID}, nil
}

type smsHandle struct {
	provider *SMSChallengeProvider
	id       string
}

func (h *smsHandle) ID() string { return h.id }

// Validate consumes the challenge. A second call always fails.
func (h *smsHandle) Validate(ctx context.Context, code string) (*verification.SignedIdentity, error) {
	p := h.provider

	raw, err := p.codes.GetDel(ctx, challengeNamespace, h.id)
	if errors.Is(err, cache.Nil) {
		return nil, ErrCodeExpired
	}
	if err != nil {
		return nil, fmt.Errorf("load challenge: %w", err)
	}

	var stored storedChallenge
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	if !utils.CheckCode(stored.CodeHash, code) {
		p.logger.Info("code rejected", zap.String("handle_id", h.id))
		return nil, ErrCodeInvalid
	}

	if p.audit != nil {
		if err := p.audit.MarkConfirmed(ctx, h.id); err != nil {
			p.logger.Warn("challenge audit confirm failed", zap.String("handle_id", h.id), zap.Error(err))
		}
	}

	token, issuedAt, err := p.issuer.IssueIdentity(stored.Phone, h.id, p.opts.IdentityTTL)
	if err != nil {
		return nil, err
	}
	p.logger.Info("code confirmed", zap.String("handle_id", h.id))
	return &verification.SignedIdentity{
		PhoneNumber: stored.Phone,
		Token:       token,
		IssuedAt:    issuedAt,
	}, nil
}
