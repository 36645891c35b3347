package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/learning-portal/internal/api/dto"
	"github.com/spec-kit/learning-portal/internal/auth"
	"github.com/spec-kit/learning-portal/internal/domain"
	"github.com/spec-kit/learning-portal/internal/service"
)

const (
	homePath   = "/dashboard"
	pageLayout = "layouts/base"
)

// PagesHandler renders the browser-facing pages.
type PagesHandler struct {
	appName     string
	departments *service.DepartmentService
	users       *service.UserService
}

// NewPagesHandler constructs handler.
func NewPagesHandler(appName string, departments *service.DepartmentService, users *service.UserService) *PagesHandler {
	return &PagesHandler{appName: appName, departments: departments, users: users}
}

// Index sends visitors to the dashboard or the login form.
func (h *PagesHandler) Index(c *fiber.Ctx) error {
	if _, ok := auth.UserFromContext(c); ok {
		return c.Redirect(homePath, fiber.StatusFound)
	}
	return c.Redirect(auth.LoginPath, fiber.StatusFound)
}

// Login renders the login form for guests.
func (h *PagesHandler) Login(c *fiber.Ctx) error {
	return h.guestPage(c, "login", "Đăng nhập")
}

// Register renders the registration form for guests.
func (h *PagesHandler) Register(c *fiber.Ctx) error {
	return h.guestPage(c, "register", "Đăng ký")
}

// Dashboard renders GET /dashboard.
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	return h.memberPage(c, "dashboard", "Tổng quan")
}

// Materials renders GET /materials.
func (h *PagesHandler) Materials(c *fiber.Ctx) error {
	return h.memberPage(c, "materials", "Học liệu")
}

// Detail renders GET /detail.
func (h *PagesHandler) Detail(c *fiber.Ctx) error {
	return h.memberPage(c, "detail", "Chi tiết")
}

// Statistics renders GET /statistics.
func (h *PagesHandler) Statistics(c *fiber.Ctx) error {
	return h.memberPage(c, "statistics", "Thống kê")
}

// AdminUsers renders GET /admin/users.
func (h *PagesHandler) AdminUsers(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	users, err := h.users.List(c.UserContext(), actor, service.UserListFilters{})
	if err != nil {
		return err
	}
	return c.Render("admin_users", fiber.Map{
		"AppName": h.appName,
		"Title":   "Quản lý người dùng",
		"User":    dto.NewUserResponse(actor),
		"IsAdmin": true,
		"Users":   dto.NewUserListResponse(users),
	}, pageLayout)
}

func (h *PagesHandler) guestPage(c *fiber.Ctx, view, title string) error {
	if _, ok := auth.UserFromContext(c); ok {
		return c.Redirect(homePath, fiber.StatusFound)
	}
	return c.Render(view, fiber.Map{
		"AppName": h.appName,
		"Title":   title,
	}, pageLayout)
}

func (h *PagesHandler) memberPage(c *fiber.Ctx, view, title string) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	departments, err := h.departments.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render(view, fiber.Map{
		"AppName":     h.appName,
		"Title":       title,
		"User":        dto.NewUserResponse(user),
		"IsAdmin":     user.HasRole(domain.RoleAdmin),
		"Departments": dto.NewDepartmentListResponse(departments),
	}, pageLayout)
}
