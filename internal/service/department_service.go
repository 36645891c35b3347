package service

import (
	"context"
	"time"

	"github.com/spec-kit/learning-portal/internal/domain"
	"github.com/spec-kit/learning-portal/internal/repository"
	apperrors "github.com/spec-kit/learning-portal/pkg/util"
)

// DepartmentService exposes the read-only department catalogue.
type DepartmentService struct {
	departments repository.DepartmentRepository
}

// NewDepartmentService constructs the service.
func NewDepartmentService(departments repository.DepartmentRepository) *DepartmentService {
	return &DepartmentService{departments: departments}
}

// List returns every department ordered by code.
func (s *DepartmentService) List(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return departments, nil
}

// DashboardService computes the counters shown on the dashboard.
type DashboardService struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
}

// NewDashboardService constructs the service.
func NewDashboardService(users repository.UserRepository, departments repository.DepartmentRepository) *DashboardService {
	return &DashboardService{users: users, departments: departments}
}

// Stats aggregates user and department counts.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	byRole, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	activeUsers, err := s.users.CountActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	departments, err := s.departments.Count(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	total := 0
	for _, n := range byRole {
		total += n
	}
	for _, role := range []domain.UserRole{domain.RoleAdmin, domain.RoleUser} {
		if _, ok := byRole[role]; !ok {
			byRole[role] = 0
		}
	}

	return &domain.DashboardStats{
		TotalUsers:  total,
		UsersByRole: byRole,
		ActiveUsers: activeUsers,
		Departments: departments,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
