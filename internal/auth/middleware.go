package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/task-tracker/internal/domain"
	"github.com/spec-kit/task-tracker/internal/repository"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

const ownerKey = "auth_owner"

// AuthMiddleware validates bearer tokens and loads the owning user before any
// handler logic runs.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, logger: logger}
}

// Handle enforces authentication for protected routes. Every failure mode
// (missing header, malformed token, expired token, bad signature, deleted
// account) produces the same unauthorized response.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return m.reject(c, ErrTokenMissing)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return m.reject(c, ErrTokenMalformed)
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return m.reject(c, err)
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return m.reject(c, errors.New("user no longer exists"))
		}
		return apperrors.MapError(err)
	}

	c.Locals(ownerKey, user)
	return c.Next()
}

func (m *AuthMiddleware) reject(c *fiber.Ctx, cause error) error {
	if m.logger != nil {
		m.logger.Debug("authentication rejected",
			zap.String("path", c.Path()),
			zap.Error(cause))
	}
	return apperrors.NewUnauthorized("unauthorized")
}

// OwnerFromContext retrieves the authenticated user set by Handle.
func OwnerFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(ownerKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
