package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/learning-portal/internal/api/dto"
	"github.com/spec-kit/learning-portal/internal/auth"
	"github.com/spec-kit/learning-portal/internal/service"
	apperrors "github.com/spec-kit/learning-portal/pkg/util"
)

// AuthHandler exposes login, registration and session endpoints.
type AuthHandler struct {
	auth      *service.AuthService
	transport auth.Transport
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, transport auth.Transport) *AuthHandler {
	return &AuthHandler{auth: authService, transport: transport}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewInvalidCredentials()
	}

	user, session, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	h.transport.Attach(c, session.Token, session.ExpiresAt)

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.NewAuthResponse(session),
		},
	})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, session, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	h.transport.Attach(c, session.Token, session.ExpiresAt)

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.NewAuthResponse(session),
		},
	})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so this only
// discards the client's copy; a copied token stays valid until it expires.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.transport.Clear(c)
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
