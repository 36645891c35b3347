package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/learning-portal/internal/config"
)

// Transport is the single channel that carries session tokens, used both when
// a token is handed out and when it is read back.
type Transport struct {
	kind       string
	cookieName string
	secure     bool
}

// NewTransport builds the transport selected by cfg.TokenTransport.
func NewTransport(cfg config.AuthConfig) Transport {
	kind := cfg.TokenTransport
	if kind != config.TransportHeader {
		kind = config.TransportCookie
	}
	name := cfg.CookieName
	if name == "" {
		name = "access_token"
	}
	return Transport{kind: kind, cookieName: name, secure: cfg.CookieSecure}
}

// Kind returns "cookie" or "header".
func (t Transport) Kind() string {
	return t.kind
}

// Extract returns the raw token carried by the request, or "" if there is none.
func (t Transport) Extract(c *fiber.Ctx) string {
	if t.kind == config.TransportHeader {
		return bearerToken(c.Get(fiber.HeaderAuthorization))
	}
	value := strings.TrimSpace(c.Cookies(t.cookieName))
	if token := bearerToken(value); token != "" {
		return token
	}
	return value
}

// Attach hands the token to the client. Header transport leaves that to the
// response body.
func (t Transport) Attach(c *fiber.Ctx, token string, expiresAt time.Time) {
	if t.kind != config.TransportCookie {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     t.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   t.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Clear removes the client's copy of the token.
func (t Transport) Clear(c *fiber.Ctx) {
	if t.kind != config.TransportCookie {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     t.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   t.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
