package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, login_name, first_name, last_name, email, mobile_number,
		       password_hash, verified, created_at, created_by, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (
			login_name, first_name, last_name, email, mobile_number,
			password_hash, verified, created_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		u.LoginName,
		u.FirstName,
		u.LastName,
		u.Email,
		u.MobileNumber,
		u.PasswordHash,
		u.Verified,
		u.CreatedAt,
		u.CreatedBy,
	)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// Save writes the mutable columns of u. Identity and audit columns are
// never rewritten.
func (r *UserRepository) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, mobile_number = $4,
		    password_hash = $5, verified = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		u.ID,
		u.FirstName,
		u.LastName,
		u.MobileNumber,
		u.PasswordHash,
		u.Verified,
	)
	return scanUser(row)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByLoginName(ctx context.Context, loginName string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE login_name = $1`, loginName)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, query, arg))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.LoginName, &u.FirstName, &u.LastName, &u.Email, &u.MobileNumber,
		&u.PasswordHash, &u.Verified, &u.CreatedAt, &u.CreatedBy, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
