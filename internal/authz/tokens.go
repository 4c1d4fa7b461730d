package authz

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrUnknownRole  = errors.New("unknown role")
)

const (
	KindIdentity = "phone_identity"
	KindAdmin    = "admin"
)

type Claims struct {
	Kind     string `json:"kind"`
	Role     string `json:"role,omitempty"`
	Phone    string `json:"phone,omitempty"`
	HandleID string `json:"handle_id,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and parses the HS256 tokens of the service: the identity
// handed out after a confirmed code and the admin panel bearer tokens.
type Issuer struct {
	key    []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
}

func NewIssuer(secret, issuer string) *Issuer {
	return &Issuer{
		key:    []byte(secret),
		issuer: issuer,
		leeway: 2 * time.Minute,
		now:    time.Now,
	}
}

func (i *Issuer) IssueIdentity(phone, handleID string, ttl time.Duration) (string, time.Time, error) {
	now := i.now()
	claims := &Claims{
		Kind:     KindIdentity,
		Phone:    phone,
		HandleID: handleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   phone,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := i.sign(claims)
	return signed, now, err
}

func (i *Issuer) IssueAdmin(subject, role string, ttl time.Duration) (string, error) {
	if !IsKnownRole(role) {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	now := i.now()
	return i.sign(&Claims{
		Kind: KindAdmin,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
}

func (i *Issuer) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates signature and expiry and returns the claims.
func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// HMAC only
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.key, nil
	},
		jwt.WithLeeway(i.leeway),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
