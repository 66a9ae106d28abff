package employee

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	// ListActiveWithGrade returns every employee eligible for payroll
	// generation, with grade and department populated.
	ListActiveWithGrade(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)

	// ApprovedOvertimeForMonth returns nil without error when the
	// employee has no approved overtime in the month.
	ApprovedOvertimeForMonth(ctx context.Context, employeeID, month string) (*OvertimeRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActiveWithGrade(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Preload("Grade").
		Preload("Department").
		Where("employment_status = ?", EmploymentStatusActive).
		Where("is_active = ?", true).
		Order("employee_number ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		Preload("Grade").
		Preload("Department").
		First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) ApprovedOvertimeForMonth(ctx context.Context, employeeID, month string) (*OvertimeRecord, error) {
	var record OvertimeRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND month = ? AND status = ?", employeeID, month, OvertimeStatusApproved).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
