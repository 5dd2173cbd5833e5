// Package token mints and validates the HS256 JWTs used for sessions and
// password resets.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	Purpose domain.TokenPurpose `json:"purpose"`
	Expiry  *Expiry             `json:"exp,omitempty"`
	jwt.RegisteredClaims
}

// GetExpirationTime reports Expiry to the jwt validator in place of the
// whole-second RegisteredClaims.ExpiresAt.
func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.Expiry == nil {
		return nil, nil
	}
	return &jwt.NumericDate{Time: c.Expiry.Time}, nil
}

// Expiry is the exp claim encoded as seconds with a nine digit fraction, so
// a token expires exactly ttl after issue rather than on a whole second.
type Expiry struct {
	time.Time
}

func (e Expiry) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%d.%09d", e.Unix(), e.Nanosecond())), nil
}

func (e *Expiry) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("exp: %w", err)
	}
	whole, frac, _ := strings.Cut(n.String(), ".")
	secs, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return fmt.Errorf("exp: %w", err)
	}
	var nanos int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		nanos, err = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return fmt.Errorf("exp: %w", err)
		}
	}
	e.Time = time.Unix(secs, nanos)
	return nil
}

type Service struct {
	key    []byte
	issuer string
	now    func() time.Time
}

func NewService(key []byte, issuer string) *Service {
	return &Service{key: key, issuer: issuer, now: time.Now}
}

// WithClock returns a copy of s that reads the current time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	return &Service{key: s.key, issuer: s.issuer, now: now}
}

// Issue signs a token for subject that is valid for ttl from now.
func (s *Service) Issue(subject string, purpose domain.TokenPurpose, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Purpose: purpose,
		Expiry:  &Expiry{Time: now.Add(ttl)},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Issuer:   s.issuer,
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, issuer, expiry and purpose. It returns
// domain.ErrTokenExpired for an otherwise well-formed token past its expiry
// and domain.ErrInvalidToken for everything else.
func (s *Service) Parse(raw string, purpose domain.TokenPurpose) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired.WithCause(err)
		}
		return nil, domain.ErrInvalidToken.WithCause(err)
	}
	if !t.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, domain.ErrInvalidToken.WithMessage("token was issued for a different purpose")
	}
	if claims.Subject == "" {
		return nil, domain.ErrInvalidToken.WithMessage("token has no subject")
	}
	return claims, nil
}

// Validate returns the subject of a valid token minted for purpose.
func (s *Service) Validate(raw string, purpose domain.TokenPurpose) (string, error) {
	claims, err := s.Parse(raw, purpose)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
