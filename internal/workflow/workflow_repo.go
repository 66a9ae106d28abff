package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

//go:generate mockgen -source=workflow_repo.go -destination=mock/workflow_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, w *Workflow) error
	FindByMonth(ctx context.Context, month string) (*Workflow, error)
	Update(ctx context.Context, w *Workflow) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, w *Workflow) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *repository) FindByMonth(ctx context.Context, month string) (*Workflow, error) {
	var w Workflow
	err := r.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_number ASC")
		}).
		First(&w, "payroll_month = ?", month).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repository) Update(ctx context.Context, w *Workflow) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(w).Error
}

// IsUniqueViolation reports the Postgres duplicate-key error, which
// here means a workflow for the month already exists.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}
