package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/learning-portal/internal/domain"
)

// MemoryUserRepository is an in-process UserRepository used when no database is
// configured and in tests. It enforces the same uniqueness rules as the schema.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewMemoryUserRepository creates an empty store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*domain.User)}
}

func (m *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conflicts(user, "") {
		return ErrDuplicate
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	m.users[stored.ID] = &stored
	return nil
}

func (m *MemoryUserRepository) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	if m.conflicts(user, user.ID) {
		return ErrDuplicate
	}

	user.Username = existing.Username
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()

	stored := *user
	m.users[stored.ID] = &stored
	return nil
}

func (m *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *user
	return &result, nil
}

func (m *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Username == username })
}

func (m *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *MemoryUserRepository) List(_ context.Context, filter UserFilter) ([]domain.User, error) {
	m.mu.RLock()
	result := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && u.IsActive != *filter.Active {
			continue
		}
		result = append(result, *u)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Username < result[j].Username
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []domain.User{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *MemoryUserRepository) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

func (m *MemoryUserRepository) CountActive(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, u := range m.users {
		if u.IsActive {
			count++
		}
	}
	return count, nil
}

func (m *MemoryUserRepository) CountByRole(_ context.Context) (map[domain.UserRole]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[domain.UserRole]int)
	for _, u := range m.users {
		counts[u.Role]++
	}
	return counts, nil
}

func (m *MemoryUserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			result := *u
			return &result, nil
		}
	}
	return nil, ErrNotFound
}

// conflicts must be called with the lock held.
func (m *MemoryUserRepository) conflicts(user *domain.User, selfID string) bool {
	for id, u := range m.users {
		if id == selfID {
			continue
		}
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return true
		}
	}
	return false
}

// MemoryDepartmentRepository is the in-process DepartmentRepository.
type MemoryDepartmentRepository struct {
	mu     sync.RWMutex
	byCode map[string]*domain.Department
}

// NewMemoryDepartmentRepository creates an empty store.
func NewMemoryDepartmentRepository() *MemoryDepartmentRepository {
	return &MemoryDepartmentRepository{byCode: make(map[string]*domain.Department)}
}

func (m *MemoryDepartmentRepository) Create(_ context.Context, dept *domain.Department) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byCode[dept.Code]; exists {
		return ErrDuplicate
	}
	dept.ID = uuid.NewString()
	dept.CreatedAt = time.Now().UTC()

	stored := *dept
	m.byCode[stored.Code] = &stored
	return nil
}

func (m *MemoryDepartmentRepository) GetByCode(_ context.Context, code string) (*domain.Department, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dept, ok := m.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	result := *dept
	return &result, nil
}

func (m *MemoryDepartmentRepository) List(_ context.Context) ([]domain.Department, error) {
	m.mu.RLock()
	result := make([]domain.Department, 0, len(m.byCode))
	for _, d := range m.byCode {
		result = append(result, *d)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if len(result[i].Code) != len(result[j].Code) {
			return len(result[i].Code) < len(result[j].Code)
		}
		return result[i].Code < result[j].Code
	})
	return result, nil
}

func (m *MemoryDepartmentRepository) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byCode), nil
}
