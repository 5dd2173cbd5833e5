package middleware_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ErlanBelekov/learning-management-system/internal/domain"
	"github.com/ErlanBelekov/learning-management-system/internal/token"
	"github.com/ErlanBelekov/learning-management-system/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

const (
	testKey    = "middleware-test-secret-32-chars!!"
	testIssuer = "lms-test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTokens() *token.Service {
	return token.NewService([]byte(testKey), testIssuer)
}

// newEngine builds a minimal gin engine with the Auth middleware protecting GET /protected.
// The handler writes the login name from context so we can assert it was set.
func newEngine() *gin.Engine {
	r := gin.New()
	r.GET("/protected", middleware.Auth(newTokens()), func(c *gin.Context) {
		c.String(http.StatusOK, "%s", c.GetString(middleware.LoginNameKey))
	})
	return r
}

func issue(t *testing.T, s *token.Service, sub string, purpose domain.TokenPurpose, ttl time.Duration) string {
	t.Helper()
	tok, err := s.Issue(sub, purpose, ttl)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

func get(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	if w := get(newEngine(), ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_NonBearerScheme_Returns401(t *testing.T) {
	if w := get(newEngine(), "Basic dXNlcjpwYXNz"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_InvalidToken_Returns401(t *testing.T) {
	if w := get(newEngine(), "Bearer not.a.jwt"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ExpiredToken_Returns401(t *testing.T) {
	past := newTokens().WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	tok := issue(t, past, "ann", domain.PurposeSession, time.Hour)

	if w := get(newEngine(), "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_WrongSigningKey_Returns401(t *testing.T) {
	other := token.NewService([]byte("different-key-that-is-32-chars!!"), testIssuer)
	tok := issue(t, other, "ann", domain.PurposeSession, time.Hour)

	if w := get(newEngine(), "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ResetToken_Returns401(t *testing.T) {
	tok := issue(t, newTokens(), "42", domain.PurposePasswordReset, time.Hour)

	if w := get(newEngine(), "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ValidToken_PassesAndSetsLoginName(t *testing.T) {
	tok := issue(t, newTokens(), "ann", domain.PurposeSession, time.Hour)

	w := get(newEngine(), "Bearer "+tok)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "ann" {
		t.Errorf("body = %q, want ann", got)
	}
}

// ---- CurrentUser ----

type fakeUserFinder struct {
	find func(ctx context.Context, loginName string) (*domain.User, error)
}

func (f *fakeUserFinder) FindByLoginName(ctx context.Context, loginName string) (*domain.User, error) {
	return f.find(ctx, loginName)
}

func newCurrentUserEngine(users middleware.UserFinder) *gin.Engine {
	r := gin.New()
	logger := slog.New(slog.DiscardHandler)
	r.GET("/protected", middleware.Auth(newTokens()), middleware.CurrentUser(users, logger), func(c *gin.Context) {
		u, ok := middleware.CurrentUserFrom(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, "%d", u.ID)
	})
	return r
}

func TestCurrentUser_LoadsUser(t *testing.T) {
	users := &fakeUserFinder{
		find: func(_ context.Context, name string) (*domain.User, error) {
			if name != "ann" {
				t.Errorf("looked up %q, want ann", name)
			}
			return &domain.User{ID: 7, LoginName: name}, nil
		},
	}
	tok := issue(t, newTokens(), "ann", domain.PurposeSession, time.Hour)

	w := get(newCurrentUserEngine(users), "Bearer "+tok)
	if w.Code != http.StatusOK || w.Body.String() != "7" {
		t.Errorf("got %d %q, want 200 \"7\"", w.Code, w.Body.String())
	}
}

func TestCurrentUser_DeletedUser_Returns401(t *testing.T) {
	users := &fakeUserFinder{
		find: func(context.Context, string) (*domain.User, error) { return nil, domain.ErrUserNotFound },
	}
	tok := issue(t, newTokens(), "ann", domain.PurposeSession, time.Hour)

	if w := get(newCurrentUserEngine(users), "Bearer "+tok); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestCurrentUser_StoreError_Returns500(t *testing.T) {
	users := &fakeUserFinder{
		find: func(context.Context, string) (*domain.User, error) { return nil, errors.New("db down") },
	}
	tok := issue(t, newTokens(), "ann", domain.PurposeSession, time.Hour)

	if w := get(newCurrentUserEngine(users), "Bearer "+tok); w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
