package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/learning-portal/internal/auth"
	"github.com/spec-kit/learning-portal/internal/config"
	"github.com/spec-kit/learning-portal/internal/domain"
	"github.com/spec-kit/learning-portal/internal/events"
	"github.com/spec-kit/learning-portal/internal/repository"
)

// DefaultDepartments is the catalogue seeded into an empty department table.
var DefaultDepartments = []domain.Department{
	{Code: "K1", Name: "Khoa Triết học Mác - Lênin"},
	{Code: "K2", Name: "Khoa Lịch sử Đảng Cộng sản Việt Nam"},
	{Code: "K3", Name: "Khoa Công tác Đảng, Công tác Chính trị"},
	{Code: "K4", Name: "Khoa Chiến thuật"},
	{Code: "K5", Name: "Khoa Văn hóa - Ngoại ngữ"},
	{Code: "K6", Name: "Khoa Kinh tế chính trị Mác - Lênin"},
	{Code: "K7", Name: "Khoa Chủ nghĩa xã hội khoa học"},
	{Code: "K8", Name: "Khoa Tâm lý học quân sự"},
	{Code: "K9", Name: "Khoa Bắn súng"},
	{Code: "K10", Name: "Khoa Quân sự chung"},
	{Code: "K11", Name: "Khoa Giáo dục thể chất"},
	{Code: "K12", Name: "Khoa Sư phạm quân sự"},
	{Code: "K13", Name: "Khoa Tư tưởng Hồ Chí Minh"},
	{Code: "K14", Name: "Khoa Nhà nước & Pháp luật"},
}

// BootstrapResult reports what a Run changed.
type BootstrapResult struct {
	DepartmentsCreated int
	AdminCreated       bool
}

// Bootstrapper seeds reference data and the first administrator at startup.
type Bootstrapper struct {
	mu          sync.Mutex
	cfg         config.BootstrapConfig
	users       repository.UserRepository
	departments repository.DepartmentRepository
	hasher      *auth.Hasher
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// BootstrapDependencies encapsulates the collaborators of Bootstrapper.
type BootstrapDependencies struct {
	UserRepo       repository.UserRepository
	DepartmentRepo repository.DepartmentRepository
	Hasher         *auth.Hasher
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewBootstrapper constructs the seeder.
func NewBootstrapper(cfg config.BootstrapConfig, deps BootstrapDependencies) *Bootstrapper {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bootstrapper{
		cfg:         cfg,
		users:       deps.UserRepo,
		departments: deps.DepartmentRepo,
		hasher:      deps.Hasher,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// Run seeds departments when the table is empty and creates the administrator
// when no user exists yet. It is safe to call repeatedly and concurrently.
func (b *Bootstrapper) Run(ctx context.Context) (BootstrapResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var result BootstrapResult

	created, err := b.seedDepartments(ctx)
	if err != nil {
		return result, fmt.Errorf("seed departments: %w", err)
	}
	result.DepartmentsCreated = created

	if !b.cfg.Enabled {
		return result, nil
	}
	adminCreated, err := b.ensureAdmin(ctx)
	if err != nil {
		return result, fmt.Errorf("bootstrap admin: %w", err)
	}
	result.AdminCreated = adminCreated
	return result, nil
}

func (b *Bootstrapper) seedDepartments(ctx context.Context) (int, error) {
	count, err := b.departments.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, seed := range DefaultDepartments {
		dept := seed
		if err := b.departments.Create(ctx, &dept); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return created, err
		}
		created++
	}
	b.logger.Info("departments seeded", zap.Int("count", created))
	return created, nil
}

func (b *Bootstrapper) ensureAdmin(ctx context.Context) (bool, error) {
	count, err := b.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := b.hasher.Hash(ctx, b.cfg.AdminPassword)
	if err != nil {
		return false, err
	}
	admin := &domain.User{
		Username:     b.cfg.AdminUsername,
		Email:        normalizeEmail(b.cfg.AdminEmail),
		FullName:     strings.TrimSpace(b.cfg.AdminFullName),
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := b.users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// another instance won the first-boot race
			b.logger.Info("bootstrap admin already exists", zap.String("username", admin.Username))
			return false, nil
		}
		return false, err
	}

	b.logger.Warn("bootstrap admin created with the configured default password; change it",
		zap.String("username", admin.Username))
	publishEvent(ctx, b.dispatcher, b.logger, events.New(events.EventBootstrapAdminCreated, admin.ID, events.Actor{}, nil))
	return true, nil
}
