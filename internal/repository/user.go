package repository

import (
	"context"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
)

// UserRepository returns domain.ErrUserNotFound for missing rows and
// domain.ErrDuplicateIdentity when a login name or email is taken.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByLoginName(ctx context.Context, loginName string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	Save(ctx context.Context, u *domain.User) (*domain.User, error)
}
