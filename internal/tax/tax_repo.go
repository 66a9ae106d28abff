package tax

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=tax_repo.go -destination=mock/tax_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, bracket *TaxBracket) error
	FindAll(ctx context.Context, country, currency string) ([]TaxBracket, error)
	FindByID(ctx context.Context, id string) (*TaxBracket, error)
	Update(ctx context.Context, bracket *TaxBracket) error
	Deactivate(ctx context.Context, id string) error

	// ActiveBrackets returns the brackets in effect at the given
	// instant, sorted ascending by min_amount. The resolver relies on
	// that ordering.
	ActiveBrackets(ctx context.Context, country, currency string, at time.Time) ([]TaxBracket, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, bracket *TaxBracket) error {
	return r.db.WithContext(ctx).Create(bracket).Error
}

func (r *repository) FindAll(ctx context.Context, country, currency string) ([]TaxBracket, error) {
	var brackets []TaxBracket
	q := r.db.WithContext(ctx).Model(&TaxBracket{})
	if country != "" {
		q = q.Where("country = ?", country)
	}
	if currency != "" {
		q = q.Where("currency = ?", currency)
	}
	err := q.Order("min_amount ASC").Find(&brackets).Error
	return brackets, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*TaxBracket, error) {
	var bracket TaxBracket
	err := r.db.WithContext(ctx).First(&bracket, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &bracket, nil
}

func (r *repository) Update(ctx context.Context, bracket *TaxBracket) error {
	return r.db.WithContext(ctx).Save(bracket).Error
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&TaxBracket{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *repository) ActiveBrackets(ctx context.Context, country, currency string, at time.Time) ([]TaxBracket, error) {
	var brackets []TaxBracket
	err := r.db.WithContext(ctx).
		Where("country = ? AND currency = ?", country, currency).
		Where("is_active = ?", true).
		Where("effective_from <= ?", at).
		Where("effective_to IS NULL OR effective_to >= ?", at).
		Order("min_amount ASC").
		Find(&brackets).Error
	return brackets, err
}
