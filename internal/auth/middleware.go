package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/civicfix/report-service/internal/domain"
	"github.com/civicfix/report-service/internal/repository"
	apperrors "github.com/civicfix/report-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Actor carries the role as
// stored at request time; the token's role claim is never trusted for
// authorization, so promotions and demotions apply on the very next request.
type Principal struct {
	Actor domain.Actor
	User  *domain.User
	Token string
}

// TokenRevoker reports whether a token id has been revoked (logout).
type TokenRevoker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	tokens  *TokenManager
	users   repository.UserRepository
	revoker TokenRevoker
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users repository.UserRepository, revoker TokenRevoker) *Middleware {
	return &Middleware{tokens: tokens, users: users, revoker: revoker}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if m.revoker != nil {
		revoked, err := m.revoker.IsRevoked(c.Context(), claims.ID)
		if err != nil {
			// A token that cannot be checked against the denylist is not
			// accepted.
			return apperrors.NewUnauthorized("unable to verify token")
		}
		if revoked {
			return apperrors.NewUnauthorized("token revoked")
		}
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{
		Actor: domain.Actor{ID: user.ID, Role: user.Role},
		User:  user,
		Token: claims.ID,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
