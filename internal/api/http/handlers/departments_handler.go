package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/learning-portal/internal/api/dto"
	"github.com/spec-kit/learning-portal/internal/service"
)

// DepartmentsHandler exposes the department catalogue and dashboard counters.
type DepartmentsHandler struct {
	departments *service.DepartmentService
	dashboard   *service.DashboardService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departments *service.DepartmentService, dashboard *service.DashboardService) *DepartmentsHandler {
	return &DepartmentsHandler{departments: departments, dashboard: dashboard}
}

// List handles GET /api/departments.
func (h *DepartmentsHandler) List(c *fiber.Ctx) error {
	departments, err := h.departments.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDepartmentListResponse(departments)})
}

// Stats handles GET /api/dashboard/stats.
func (h *DepartmentsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDashboardStatsResponse(stats)})
}
