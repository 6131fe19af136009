package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicfix/report-service/internal/domain"
	"github.com/civicfix/report-service/internal/repository"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

type failingRevoker struct {
	err error
}

func (f failingRevoker) IsRevoked(context.Context, string) (bool, error) {
	return false, f.err
}

// protectedApp builds a one-route app behind the auth middleware and returns
// a valid bearer token for a stored user along with its jti.
func protectedApp(t *testing.T, revoker TokenRevoker) (*fiber.App, string, string) {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	user := &domain.User{
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: "x",
		Role:         domain.RoleCitizen,
	}
	require.NoError(t, users.Create(context.Background(), user))

	tm := NewTokenManager("test-secret", 15)
	token, _, err := tm.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	claims, err := tm.ParseToken(token)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	mw := NewMiddleware(tm, users, revoker)
	app.Get("/protected", mw.Handle, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, token, claims.ID
}

func protectedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestMiddlewareAllowsValidToken(t *testing.T) {
	app, token, _ := protectedApp(t, repository.NewTokenStore(nil))

	resp, err := app.Test(protectedRequest(token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	app, _, _ := protectedApp(t, repository.NewTokenStore(nil))

	resp, err := app.Test(protectedRequest(""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareRejectsRevokedToken(t *testing.T) {
	store := repository.NewTokenStore(nil)
	app, token, jti := protectedApp(t, store)

	require.NoError(t, store.Revoke(context.Background(), jti, time.Minute))

	resp, err := app.Test(protectedRequest(token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareFailsClosedWhenDenylistUnavailable(t *testing.T) {
	app, token, _ := protectedApp(t, failingRevoker{err: errors.New("connection refused")})

	resp, err := app.Test(protectedRequest(token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "an uncheckable token must not authenticate")
}
