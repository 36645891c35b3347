package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/learning-portal/internal/domain"
)

const departmentsCacheKey = "portal:departments:v1"

// cachedDepartmentRepository keeps the department list in Redis. Departments are
// static reference data, so the list is cached until TTL or the next Create.
type cachedDepartmentRepository struct {
	DepartmentRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

type cachedDepartment struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCachedDepartmentRepository decorates inner with a Redis read-through cache.
// Redis failures are logged and the call falls through to inner.
func NewCachedDepartmentRepository(inner DepartmentRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) DepartmentRepository {
	if client == nil {
		return inner
	}
	return &cachedDepartmentRepository{DepartmentRepository: inner, client: client, ttl: ttl, logger: logger}
}

func (r *cachedDepartmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	if err := r.DepartmentRepository.Create(ctx, dept); err != nil {
		return err
	}
	if err := r.client.Del(ctx, departmentsCacheKey).Err(); err != nil {
		r.logger.Warn("department cache invalidation failed", zap.Error(err))
	}
	return nil
}

func (r *cachedDepartmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	raw, err := r.client.Get(ctx, departmentsCacheKey).Bytes()
	switch {
	case err == nil:
		var cached []cachedDepartment
		if err := json.Unmarshal(raw, &cached); err == nil {
			return fromCache(cached), nil
		}
		r.logger.Warn("discarding unreadable department cache entry")
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("department cache read failed", zap.Error(err))
	}

	depts, err := r.DepartmentRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(toCache(depts))
	if err != nil {
		return depts, nil
	}
	if err := r.client.Set(ctx, departmentsCacheKey, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("department cache write failed", zap.Error(err))
	}
	return depts, nil
}

func toCache(depts []domain.Department) []cachedDepartment {
	out := make([]cachedDepartment, 0, len(depts))
	for _, d := range depts {
		out = append(out, cachedDepartment{ID: d.ID, Code: d.Code, Name: d.Name, CreatedAt: d.CreatedAt})
	}
	return out
}

func fromCache(cached []cachedDepartment) []domain.Department {
	out := make([]domain.Department, 0, len(cached))
	for _, d := range cached {
		out = append(out, domain.Department{ID: d.ID, Code: d.Code, Name: d.Name, CreatedAt: d.CreatedAt})
	}
	return out
}
