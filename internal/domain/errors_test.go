package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
)

func TestError_IsMatchesKindThroughWrapping(t *testing.T) {
	cause := errors.New("smtp: connection refused")
	err := fmt.Errorf("request reset: %w", domain.ErrNotificationFailure.WithCause(cause))

	if !errors.Is(err, domain.ErrNotificationFailure) {
		t.Errorf("errors.Is(err, ErrNotificationFailure) = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause lost from chain")
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("matched unrelated kind")
	}
}

func TestKindOf(t *testing.T) {
	if got := domain.KindOf(domain.ErrTokenExpired); got != domain.KindTokenExpired {
		t.Errorf("KindOf = %q, want %q", got, domain.KindTokenExpired)
	}
	if got := domain.KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
}

func TestError_MessageIncludesCause(t *testing.T) {
	err := domain.ErrInvalidCandidateFile.WithMessage("row 3: bad hired_date").WithCause(errors.New("parse"))
	want := "row 3: bad hired_date: parse"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNewPrincipal_EnabledFollowsVerifiedFlag(t *testing.T) {
	p := domain.NewPrincipal(&domain.User{LoginName: "ann", PasswordHash: "h", Verified: domain.VerifiedYes})
	if !p.Enabled || p.Username != "ann" || p.PasswordHash != "h" {
		t.Errorf("unexpected principal %+v", p)
	}
	if len(p.Authorities) != 0 {
		t.Errorf("authorities = %v, want empty", p.Authorities)
	}

	p = domain.NewPrincipal(&domain.User{LoginName: "bob", Verified: domain.VerifiedNo})
	if p.Enabled {
		t.Error("unverified user must produce a disabled principal")
	}
}
