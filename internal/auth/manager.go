// Package auth verifies login-name/password pairs before a session token
// is minted.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
)

type userFinder interface {
	FindByLoginName(ctx context.Context, loginName string) (*domain.User, error)
}

type passwordVerifier interface {
	Verify(plain, hash string) bool
}

type Manager struct {
	users  userFinder
	hasher passwordVerifier
}

func NewManager(users userFinder, hasher passwordVerifier) *Manager {
	return &Manager{users: users, hasher: hasher}
}

// Authenticate returns the principal for loginName when password matches.
// An unknown login name and a wrong password both yield
// domain.ErrInvalidCredentials; the returned error keeps the cause.
// A matching password on an unverified account yields
// domain.ErrAccountDisabled.
func (m *Manager) Authenticate(ctx context.Context, loginName, password string) (*domain.Principal, error) {
	user, err := m.users.FindByLoginName(ctx, loginName)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials.WithCause(err)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	principal := domain.NewPrincipal(user)
	if !m.hasher.Verify(password, principal.PasswordHash) {
		return nil, domain.ErrInvalidCredentials.WithCause(domain.ErrInvalidPassword)
	}
	if !principal.Enabled {
		return nil, domain.ErrAccountDisabled
	}
	return principal, nil
}
