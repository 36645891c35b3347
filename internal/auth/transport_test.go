package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/learning-portal/internal/config"
)

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		"  Bearer abc ": "abc",
		"Basic abc":    "",
		"Bearer":       "",
		"":             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, bearerToken(in), in)
	}
}

func TestNewTransport_Defaults(t *testing.T) {
	tr := NewTransport(config.AuthConfig{TokenTransport: "unknown"})
	assert.Equal(t, config.TransportCookie, tr.Kind())
	assert.Equal(t, "access_token", tr.cookieName)
}

func TestTransport_CookieAttachAndClear(t *testing.T) {
	tr := NewTransport(config.AuthConfig{TokenTransport: config.TransportCookie, CookieName: "access_token"})

	app := fiber.New()
	app.Get("/login", func(c *fiber.Ctx) error {
		tr.Attach(c, "tok", time.Now().Add(time.Minute))
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		tr.Clear(c)
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/read", func(c *fiber.Ctx) error {
		return c.SendString(tr.Extract(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/login", nil))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "access_token", cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	resp, err = app.Test(httptest.NewRequest("GET", "/logout", nil))
	require.NoError(t, err)
	cookies = resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)

	req := httptest.NewRequest("GET", "/read", nil)
	req.Header.Set("Cookie", "access_token=tok")
	resp, err = app.Test(req)
	require.NoError(t, err)
	body := make([]byte, 3)
	_, _ = resp.Body.Read(body)
	assert.Equal(t, "tok", string(body))
}

func TestTransport_HeaderAttachIsNoop(t *testing.T) {
	tr := NewTransport(config.AuthConfig{TokenTransport: config.TransportHeader})

	app := fiber.New()
	app.Get("/login", func(c *fiber.Ctx) error {
		tr.Attach(c, "tok", time.Now().Add(time.Minute))
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/login", nil))
	require.NoError(t, err)
	assert.Empty(t, resp.Cookies())
}
