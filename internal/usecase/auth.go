package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
	"github.com/ErlanBelekov/learning-management-system/internal/metrics"
	"github.com/ErlanBelekov/learning-management-system/internal/repository"
)

const (
	defaultSessionTTL = 5 * time.Hour
	defaultResetTTL   = 15 * time.Minute
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

type TokenService interface {
	Issue(subject string, purpose domain.TokenPurpose, ttl time.Duration) (string, error)
	// Validate returns the subject, domain.ErrTokenExpired or domain.ErrInvalidToken.
	Validate(raw string, purpose domain.TokenPurpose) (string, error)
}

type ResetNotifier interface {
	SendResetEmail(ctx context.Context, user *domain.User, token string) error
}

type Authenticator interface {
	Authenticate(ctx context.Context, loginName, password string) (*domain.Principal, error)
}

// AuthDeps groups the collaborators of AuthUsecase. It is built once at
// process start.
type AuthDeps struct {
	Users         repository.UserRepository
	Hasher        PasswordHasher
	Tokens        TokenService
	Notifier      ResetNotifier
	Authenticator Authenticator
	Logger        *slog.Logger

	SessionTTL time.Duration
	ResetTTL   time.Duration
	Now        func() time.Time
}

type AuthUsecase struct {
	users         repository.UserRepository
	hasher        PasswordHasher
	tokens        TokenService
	notifier      ResetNotifier
	authenticator Authenticator
	logger        *slog.Logger
	sessionTTL    time.Duration
	resetTTL      time.Duration
	now           func() time.Time
}

func NewAuthUsecase(deps AuthDeps) *AuthUsecase {
	u := &AuthUsecase{
		users:         deps.Users,
		hasher:        deps.Hasher,
		tokens:        deps.Tokens,
		notifier:      deps.Notifier,
		authenticator: deps.Authenticator,
		logger:        deps.Logger,
		sessionTTL:    deps.SessionTTL,
		resetTTL:      deps.ResetTTL,
		now:           deps.Now,
	}
	if u.logger == nil {
		u.logger = slog.Default()
	}
	u.logger = u.logger.With("component", "auth_usecase")
	if u.sessionTTL <= 0 {
		u.sessionTTL = defaultSessionTTL
	}
	if u.resetTTL <= 0 {
		u.resetTTL = defaultResetTTL
	}
	if u.now == nil {
		u.now = time.Now
	}
	return u
}

type RegisterInput struct {
	LoginName    string
	FirstName    string
	LastName     string
	Email        string
	MobileNumber string
	Password     string
}

// newUser maps a registration request onto a new, not yet persisted user.
// The account is marked verified immediately; there is no email
// verification step.
func newUser(in RegisterInput, passwordHash string, now time.Time) *domain.User {
	return &domain.User{
		LoginName:    in.LoginName,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		MobileNumber: in.MobileNumber,
		PasswordHash: passwordHash,
		Verified:     domain.VerifiedYes,
		CreatedAt:    now,
		CreatedBy:    in.LoginName,
	}
}

// Register hashes the password and persists a new user. A taken login name
// or email yields domain.ErrDuplicateIdentity.
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (user *domain.User, err error) {
	defer func() { metrics.ObserveAuth("register", err) }()

	if len(in.Password) > domain.MaxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}
	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := u.users.Create(ctx, newUser(in, hash, u.now()))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	u.logger.InfoContext(ctx, "user registered", "user_id", created.ID, "login_name", created.LoginName)
	return created, nil
}

// Login checks email and password and returns the user's id. No token is
// issued.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (id int64, err error) {
	defer func() { metrics.ObserveAuth("login", err) }()

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("find user by email: %w", err)
	}

	if !u.hasher.Verify(password, user.PasswordHash) {
		return 0, domain.ErrInvalidPassword
	}
	return user.ID, nil
}

// LoadPrincipal returns the principal for loginName.
func (u *AuthUsecase) LoadPrincipal(ctx context.Context, loginName string) (*domain.Principal, error) {
	user, err := u.users.FindByLoginName(ctx, loginName)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by login name: %w", err)
	}
	return domain.NewPrincipal(user), nil
}

// IssueToken authenticates loginName/password and returns a signed session
// token whose subject is the principal's username.
func (u *AuthUsecase) IssueToken(ctx context.Context, loginName, password string) (signed string, err error) {
	defer func() { metrics.ObserveAuth("issue_token", err) }()

	if _, err = u.authenticator.Authenticate(ctx, loginName, password); err != nil {
		if errors.Is(err, domain.ErrAccountDisabled) || errors.Is(err, domain.ErrInvalidCredentials) {
			u.logger.WarnContext(ctx, "authentication failed", "login_name", loginName, "error", err)
			return "", err
		}
		return "", fmt.Errorf("authenticate: %w", err)
	}

	principal, err := u.LoadPrincipal(ctx, loginName)
	if err != nil {
		return "", err
	}

	signed, err = u.tokens.Issue(principal.Username, domain.PurposeSession, u.sessionTTL)
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}
	return signed, nil
}

// RequestPasswordReset mints a password-reset token for the user with
// email, emails it, and also returns it to the caller.
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, email string) (signed string, err error) {
	defer func() { metrics.ObserveAuth("request_password_reset", err) }()

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", err
		}
		return "", fmt.Errorf("find user by email: %w", err)
	}

	signed, err = u.tokens.Issue(strconv.FormatInt(user.ID, 10), domain.PurposePasswordReset, u.resetTTL)
	if err != nil {
		return "", fmt.Errorf("issue reset token: %w", err)
	}

	if err = u.notifier.SendResetEmail(ctx, user, signed); err != nil {
		return "", domain.ErrNotificationFailure.WithCause(err)
	}

	u.logger.InfoContext(ctx, "password reset requested", "user_id", user.ID)
	return signed, nil
}

// ResetPassword replaces the password of the user named by a valid
// password-reset token. The token is not consumed and stays usable until
// it expires.
func (u *AuthUsecase) ResetPassword(ctx context.Context, newPassword, token string) (user *domain.User, err error) {
	defer func() { metrics.ObserveAuth("reset_password", err) }()

	subject, err := u.tokens.Validate(token, domain.PurposePasswordReset)
	if err != nil {
		return nil, err
	}
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidToken.WithMessage("token subject is not a user id").WithCause(err)
	}

	user, err = u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	if len(newPassword) > domain.MaxPasswordBytes {
		return nil, domain.ErrPasswordTooLong
	}
	hash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	updated := *user
	updated.PasswordHash = hash
	saved, err := u.users.Save(ctx, &updated)
	if err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	u.logger.InfoContext(ctx, "password reset", "user_id", saved.ID)
	return saved, nil
}
