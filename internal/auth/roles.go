package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/learning-portal/internal/domain"
	"github.com/spec-kit/learning-portal/internal/observability"
	apperrors "github.com/spec-kit/learning-portal/pkg/util"
)

// Authorize checks user against the allowed roles. An empty role list admits
// any authenticated user.
func Authorize(user *domain.User, allowed ...domain.UserRole) error {
	if user == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}
	if len(allowed) == 0 || user.HasRole(allowed...) {
		return nil
	}
	return apperrors.NewForbidden("insufficient role")
}

// RequireRole resolves the identity like Required(mode), then demands one of
// allowed. A role mismatch is always 403, never a redirect.
func (g *Guard) RequireRole(mode Mode, allowed ...domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := g.authenticate(c)
		if err != nil {
			return g.reject(c, mode, err)
		}
		if err := Authorize(user, allowed...); err != nil {
			observability.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
			g.logger.Info("role check failed",
				zap.String("user_id", user.ID),
				zap.String("role", string(user.Role)),
				zap.String("path", c.Path()),
			)
			return err
		}
		return c.Next()
	}
}
