package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/learning-portal/internal/domain"
)

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	// Create inserts dept. It returns ErrDuplicate when the code is taken.
	Create(ctx context.Context, dept *domain.Department) error
	GetByCode(ctx context.Context, code string) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
	Count(ctx context.Context) (int, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (code, name)
        VALUES ($1, $2)
        ON CONFLICT (code) DO NOTHING
        RETURNING id, created_at`
	err := mapError(r.pool.QueryRow(ctx, query, dept.Code, dept.Name).Scan(&dept.ID, &dept.CreatedAt))
	if err == ErrNotFound {
		return ErrDuplicate
	}
	return err
}

func (r *departmentRepository) GetByCode(ctx context.Context, code string) (*domain.Department, error) {
	const query = `SELECT id, code, name, created_at FROM departments WHERE code=$1`
	var dept domain.Department
	if err := r.pool.QueryRow(ctx, query, code).Scan(&dept.ID, &dept.Code, &dept.Name, &dept.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	const query = `
        SELECT id, code, name, created_at
        FROM departments ORDER BY length(code), code`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Code, &dept.Name, &dept.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

func (r *departmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
