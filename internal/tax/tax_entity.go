package tax

import (
	"time"

	"github.com/google/uuid"
)

// TaxBracket is one configured marginal band for a (country, currency)
// pair. MaxAmount nil means the band is open-ended. Brackets are
// soft-deleted by flipping IsActive and time-bounded by the effective
// window, so historic payroll runs stay explainable.
type TaxBracket struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BracketName   string     `gorm:"type:varchar(120);not null" json:"bracket_name"`
	MinAmount     float64    `gorm:"type:numeric(18,2);not null;default:0" json:"min_amount"`
	MaxAmount     *float64   `gorm:"type:numeric(18,2)" json:"max_amount"`
	TaxRate       float64    `gorm:"type:numeric(5,2);not null" json:"tax_rate"`
	Country       string     `gorm:"type:varchar(2);not null;index:idx_bracket_scope" json:"country"`
	Currency      string     `gorm:"type:varchar(3);not null;index:idx_bracket_scope" json:"currency"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	EffectiveFrom time.Time  `gorm:"type:date;not null" json:"effective_from"`
	EffectiveTo   *time.Time `gorm:"type:date" json:"effective_to"`
	CreatedBy     *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (TaxBracket) TableName() string {
	return "tax_brackets"
}
