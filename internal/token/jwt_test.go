package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
	"github.com/ErlanBelekov/learning-management-system/internal/token"
	"github.com/golang-jwt/jwt/v5"
)

const (
	testKey    = "token-test-secret-at-least-32-chars!!"
	testIssuer = "lms-test"
)

var issuedAt = time.Unix(1_700_000_000, 0)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newService(now time.Time) *token.Service {
	return token.NewService([]byte(testKey), testIssuer).WithClock(fixedClock(now))
}

func TestIssue_ValidImmediately(t *testing.T) {
	raw, err := newService(issuedAt).Issue("42", domain.PurposePasswordReset, 15*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sub, err := newService(issuedAt).Validate(raw, domain.PurposePasswordReset)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if sub != "42" {
		t.Errorf("subject = %q, want 42", sub)
	}
}

func TestValidate_ExpiryBoundary(t *testing.T) {
	const ttl = 15 * time.Minute
	const eps = time.Millisecond

	tests := []struct {
		name     string
		issuedAt time.Time
	}{
		{"whole second", issuedAt},
		{"fractional second", time.Unix(1_700_000_000, int64(900*time.Millisecond))},
		{"nanosecond offset", time.Unix(1_700_000_000, 123_456_789)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := newService(tt.issuedAt).Issue("42", domain.PurposePasswordReset, ttl)
			if err != nil {
				t.Fatalf("issue: %v", err)
			}
			expiresAt := tt.issuedAt.Add(ttl)

			for _, at := range []time.Time{expiresAt.Add(-100 * time.Millisecond), expiresAt.Add(-eps), expiresAt.Add(-time.Nanosecond)} {
				if _, err := newService(at).Validate(raw, domain.PurposePasswordReset); err != nil {
					t.Errorf("%v before exp: unexpected error %v", expiresAt.Sub(at), err)
				}
			}

			for _, at := range []time.Time{expiresAt, expiresAt.Add(eps)} {
				_, err := newService(at).Validate(raw, domain.PurposePasswordReset)
				if !errors.Is(err, domain.ErrTokenExpired) {
					t.Errorf("%v past exp: want ErrTokenExpired, got %v", at.Sub(expiresAt), err)
				}
			}
		})
	}
}

func TestIssue_ExpiryKeepsSubSecondPrecision(t *testing.T) {
	at := time.Unix(1_700_000_000, 900_000_001)
	raw, err := newService(at).Issue("42", domain.PurposeSession, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := newService(at).Parse(raw, domain.PurposeSession)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if want := at.Add(time.Hour); !claims.Expiry.Equal(want) {
		t.Errorf("exp = %v, want %v", claims.Expiry.Time, want)
	}
}

func TestExpiry_UnmarshalWholeSeconds(t *testing.T) {
	var e token.Expiry
	if err := e.UnmarshalJSON([]byte("1700000900")); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !e.Equal(time.Unix(1_700_000_900, 0)) {
		t.Errorf("exp = %v", e.Time)
	}

	if err := e.UnmarshalJSON([]byte(`"soon"`)); err == nil {
		t.Error("want error for non-numeric exp")
	}
}

func TestValidate_WrongPurpose(t *testing.T) {
	raw, _ := newService(issuedAt).Issue("ann", domain.PurposeSession, time.Hour)

	_, err := newService(issuedAt).Validate(raw, domain.PurposePasswordReset)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("want ErrInvalidToken, got %v", err)
	}
}

func TestValidate_WrongKey(t *testing.T) {
	other := token.NewService([]byte("a-different-secret-that-is-32-chars"), testIssuer).WithClock(fixedClock(issuedAt))
	raw, _ := other.Issue("42", domain.PurposePasswordReset, time.Hour)

	_, err := newService(issuedAt).Validate(raw, domain.PurposePasswordReset)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("want ErrInvalidToken, got %v", err)
	}
}

func TestValidate_WrongIssuer(t *testing.T) {
	other := token.NewService([]byte(testKey), "someone-else").WithClock(fixedClock(issuedAt))
	raw, _ := other.Issue("42", domain.PurposePasswordReset, time.Hour)

	_, err := newService(issuedAt).Validate(raw, domain.PurposePasswordReset)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("want ErrInvalidToken, got %v", err)
	}
}

func TestValidate_RejectsMissingExpiry(t *testing.T) {
	claims := token.Claims{
		Purpose:          domain.PurposePasswordReset,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42", Issuer: testIssuer},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = newService(issuedAt).Validate(raw, domain.PurposePasswordReset)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("want ErrInvalidToken, got %v", err)
	}
}

func TestValidate_Garbage(t *testing.T) {
	_, err := newService(issuedAt).Validate("not.a.jwt", domain.PurposeSession)
	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("want ErrInvalidToken, got %v", err)
	}
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	s := newService(issuedAt)
	a, _ := s.Issue("42", domain.PurposeSession, time.Hour)
	b, _ := s.Issue("42", domain.PurposeSession, time.Hour)
	if a == b {
		t.Error("two tokens issued in the same second are identical")
	}
}
