package tax

type CreateBracketRequest struct {
	BracketName   string   `json:"bracket_name" binding:"required"`
	MinAmount     float64  `json:"min_amount" binding:"min=0"`
	MaxAmount     *float64 `json:"max_amount"`
	TaxRate       float64  `json:"tax_rate" binding:"min=0,max=100"`
	Country       string   `json:"country" binding:"required,len=2"`
	Currency      string   `json:"currency" binding:"required,len=3"`
	EffectiveFrom string   `json:"effective_from" binding:"required"`
	EffectiveTo   *string  `json:"effective_to"`
}

type UpdateBracketRequest struct {
	BracketName   string   `json:"bracket_name" binding:"required"`
	MinAmount     float64  `json:"min_amount" binding:"min=0"`
	MaxAmount     *float64 `json:"max_amount"`
	TaxRate       float64  `json:"tax_rate" binding:"min=0,max=100"`
	IsActive      bool     `json:"is_active"`
	EffectiveFrom string   `json:"effective_from" binding:"required"`
	EffectiveTo   *string  `json:"effective_to"`
}

type BracketResponse struct {
	ID            string   `json:"id"`
	BracketName   string   `json:"bracket_name"`
	MinAmount     float64  `json:"min_amount"`
	MaxAmount     *float64 `json:"max_amount"`
	TaxRate       float64  `json:"tax_rate"`
	Country       string   `json:"country"`
	Currency      string   `json:"currency"`
	IsActive      bool     `json:"is_active"`
	EffectiveFrom string   `json:"effective_from"`
	EffectiveTo   *string  `json:"effective_to,omitempty"`
}

type CalculateRequest struct {
	GrossAmount float64 `json:"gross_amount" binding:"min=0"`
	Country     string  `json:"country"`
	Currency    string  `json:"currency"`
}
