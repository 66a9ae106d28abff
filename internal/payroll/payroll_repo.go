package payroll

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	payrollerrors "github.com/Sethnnections/smartpay-hrms-sub000/internal/payroll/errors"
)

// MonthlySummary aggregates one month's records for reporting. The
// sums are plain SQL aggregates over the computed columns.
type MonthlySummary struct {
	Month           string  `json:"month"`
	RecordCount     int64   `json:"record_count"`
	TotalGross      float64 `json:"total_gross"`
	TotalDeductions float64 `json:"total_deductions"`
	TotalNet        float64 `json:"total_net"`
	PaidCount       int64   `json:"paid_count"`
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, p *Payroll) error
	FindByID(ctx context.Context, id string) (*Payroll, error)
	FindByEmployeeAndMonth(ctx context.Context, employeeID, month string) (*Payroll, error)
	ExistsForMonth(ctx context.Context, employeeID, month string) (bool, error)
	FindAllByMonth(ctx context.Context, month string) ([]Payroll, error)
	Update(ctx context.Context, p *Payroll) error
	Deactivate(ctx context.Context, id string) error
	Summary(ctx context.Context, month string) (MonthlySummary, error)

	// ApprovePaymentsForMonth forces payment status to approved on
	// every unpaid record of the month. Called when the month workflow
	// completes.
	ApprovePaymentsForMonth(ctx context.Context, month string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Payroll) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).First(&p, "id = ? AND is_active = ?", id, true).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByEmployeeAndMonth(ctx context.Context, employeeID, month string) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		First(&p, "employee_id = ? AND payroll_month = ?", employeeID, month).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ExistsForMonth(ctx context.Context, employeeID, month string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("employee_id = ? AND payroll_month = ?", employeeID, month).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindAllByMonth(ctx context.Context, month string) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.db.WithContext(ctx).
		Where("payroll_month = ? AND is_active = ?", month, true).
		Order("created_at ASC").
		Find(&payrolls).Error
	return payrolls, err
}

// Update writes the full record guarded by its version column. The
// loser of a concurrent write race gets ErrVersionConflict instead of
// silently overwriting the other writer's recomputed fields.
func (r *repository) Update(ctx context.Context, p *Payroll) error {
	current := p.Version
	p.Version = current + 1

	res := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("id = ? AND version = ?", p.ID, current).
		Select("*").
		Omit("id", "created_at").
		Updates(p)
	if res.Error != nil {
		p.Version = current
		return res.Error
	}
	if res.RowsAffected == 0 {
		p.Version = current
		return payrollerrors.ErrVersionConflict
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *repository) Summary(ctx context.Context, month string) (MonthlySummary, error) {
	summary := MonthlySummary{Month: month}

	row := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Select(
			"COUNT(*)",
			"COALESCE(SUM(gross_pay), 0)",
			"COALESCE(SUM(deduction_total), 0)",
			"COALESCE(SUM(net_pay), 0)",
			"COUNT(*) FILTER (WHERE payment_status = 'paid')",
		).
		Where("payroll_month = ? AND is_active = ?", month, true).
		Row()

	err := row.Scan(
		&summary.RecordCount,
		&summary.TotalGross,
		&summary.TotalDeductions,
		&summary.TotalNet,
		&summary.PaidCount,
	)
	return summary, err
}

func (r *repository) ApprovePaymentsForMonth(ctx context.Context, month string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("payroll_month = ? AND is_active = ?", month, true).
		Where("payment_status <> ?", PaymentStatusPaid).
		Update("payment_status", PaymentStatusApproved)
	return res.RowsAffected, res.Error
}

// IsUniqueViolation reports whether err is the Postgres duplicate-key
// error. The batch generator treats it as "record already exists" so
// concurrent runs stay idempotent at the unique index, not just at the
// read-then-write check.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}
