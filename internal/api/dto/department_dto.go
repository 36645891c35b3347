package dto

import (
	"time"

	"github.com/spec-kit/learning-portal/internal/domain"
)

// DepartmentResponse is the public view of a department.
type DepartmentResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewDepartmentListResponse maps departments.
func NewDepartmentListResponse(departments []domain.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		out = append(out, DepartmentResponse{ID: d.ID, Code: d.Code, Name: d.Name})
	}
	return out
}

// DashboardStatsResponse is the payload of GET /api/dashboard/stats.
type DashboardStatsResponse struct {
	TotalUsers  int            `json:"total_users"`
	ActiveUsers int            `json:"active_users"`
	UsersByRole map[string]int `json:"users_by_role"`
	Departments int            `json:"departments"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// NewDashboardStatsResponse maps dashboard counters.
func NewDashboardStatsResponse(s *domain.DashboardStats) DashboardStatsResponse {
	byRole := make(map[string]int, len(s.UsersByRole))
	for role, n := range s.UsersByRole {
		byRole[string(role)] = n
	}
	return DashboardStatsResponse{
		TotalUsers:  s.TotalUsers,
		ActiveUsers: s.ActiveUsers,
		UsersByRole: byRole,
		Departments: s.Departments,
		GeneratedAt: s.GeneratedAt,
	}
}
