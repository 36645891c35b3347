package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/learning-portal/internal/domain"
	"github.com/spec-kit/learning-portal/internal/observability"
	apperrors "github.com/spec-kit/learning-portal/pkg/util"
)

const userKey = "auth_user"

// Mode selects how a guard rejects unauthenticated requests.
type Mode int

const (
	// ModeAPI answers 401 with a JSON error body.
	ModeAPI Mode = iota
	// ModePage redirects the browser to the login page.
	ModePage
)

// LoginPath is where ModePage guards send anonymous visitors.
const LoginPath = "/login"

// Guard attaches resolved identities to Fiber routes.
type Guard struct {
	resolver  *Resolver
	transport Transport
	logger    *zap.Logger
}

// NewGuard constructs the guard.
func NewGuard(resolver *Resolver, transport Transport, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{resolver: resolver, transport: transport, logger: logger}
}

// Transport returns the token transport the guard reads from.
func (g *Guard) Transport() Transport {
	return g.transport
}

// Required rejects requests without a valid identity.
func (g *Guard) Required(mode Mode) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := g.authenticate(c); err != nil {
			return g.reject(c, mode, err)
		}
		return c.Next()
	}
}

// Optional attaches the identity when there is one and lets anonymous requests through.
func (g *Guard) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := UserFromContext(c); !ok {
			if user := g.resolver.ResolveOptional(c.UserContext(), g.transport.Extract(c)); user != nil {
				c.Locals(userKey, user)
			}
		}
		return c.Next()
	}
}

// authenticate returns the identity already attached to c or resolves it.
func (g *Guard) authenticate(c *fiber.Ctx) (*domain.User, error) {
	if user, ok := UserFromContext(c); ok {
		return user, nil
	}
	user, err := g.resolver.Resolve(c.UserContext(), g.transport.Extract(c))
	if err != nil {
		return nil, err
	}
	c.Locals(userKey, user)
	return user, nil
}

func (g *Guard) reject(c *fiber.Ctx, mode Mode, err error) error {
	reason := FailureReason(err)
	observability.AuthFailuresTotal.WithLabelValues(reason).Inc()
	g.logger.Debug("request not authenticated",
		zap.String("path", c.Path()),
		zap.String("reason", reason),
	)
	if mode == ModePage {
		return c.Redirect(LoginPath, fiber.StatusFound)
	}
	return apperrors.NewUnauthenticated("authentication required")
}

// UserFromContext retrieves the authenticated user. ok is false for anonymous requests.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(userKey).(*domain.User)
	return user, ok && user != nil
}
