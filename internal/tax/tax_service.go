package tax

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	taxerrors "github.com/Sethnnections/smartpay-hrms-sub000/internal/tax/errors"
)

//go:generate mockgen -source=tax_service.go -destination=mock/tax_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateBracketRequest) (BracketResponse, error)
	GetAll(ctx context.Context, country, currency string) ([]BracketResponse, error)
	Update(ctx context.Context, id string, req UpdateBracketRequest) (BracketResponse, error)
	Deactivate(ctx context.Context, id string) error
	Calculate(ctx context.Context, req CalculateRequest) Result
}

type service struct {
	repo     Repository
	resolver Resolver
	rdb      *redis.Client
}

func NewService(repo Repository, resolver Resolver, rdb *redis.Client) Service {
	return &service{repo: repo, resolver: resolver, rdb: rdb}
}

// invalidateBracketCache drops the resolver's read-through entry so a
// bracket edit takes effect on the next record save, not after TTL.
func (s *service) invalidateBracketCache(ctx context.Context, country, currency string) {
	if s.rdb == nil {
		return
	}
	s.rdb.Del(ctx, BracketCacheKey(country, currency, time.Now()))
}

func (s *service) Create(ctx context.Context, actorID string, req CreateBracketRequest) (BracketResponse, error) {
	if req.MaxAmount != nil && *req.MaxAmount <= req.MinAmount {
		return BracketResponse{}, taxerrors.ErrInvalidRange
	}
	if req.TaxRate < 0 || req.TaxRate > 100 {
		return BracketResponse{}, taxerrors.ErrInvalidRate
	}

	effectiveFrom, effectiveTo, err := parseEffectiveWindow(req.EffectiveFrom, req.EffectiveTo)
	if err != nil {
		return BracketResponse{}, err
	}

	bracket := &TaxBracket{
		ID:            uuid.New(),
		BracketName:   req.BracketName,
		MinAmount:     req.MinAmount,
		MaxAmount:     req.MaxAmount,
		TaxRate:       req.TaxRate,
		Country:       req.Country,
		Currency:      req.Currency,
		IsActive:      true,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   effectiveTo,
	}
	if actorUUID, err := uuid.Parse(actorID); err == nil {
		bracket.CreatedBy = &actorUUID
	}

	if err := s.repo.Create(ctx, bracket); err != nil {
		return BracketResponse{}, err
	}

	s.invalidateBracketCache(ctx, bracket.Country, bracket.Currency)

	return mapBracketResponse(*bracket), nil
}

func (s *service) GetAll(ctx context.Context, country, currency string) ([]BracketResponse, error) {
	brackets, err := s.repo.FindAll(ctx, country, currency)
	if err != nil {
		return nil, err
	}

	resp := make([]BracketResponse, len(brackets))
	for i, b := range brackets {
		resp[i] = mapBracketResponse(b)
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateBracketRequest) (BracketResponse, error) {
	if req.MaxAmount != nil && *req.MaxAmount <= req.MinAmount {
		return BracketResponse{}, taxerrors.ErrInvalidRange
	}
	if req.TaxRate < 0 || req.TaxRate > 100 {
		return BracketResponse{}, taxerrors.ErrInvalidRate
	}

	bracket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return BracketResponse{}, taxerrors.ErrBracketNotFound
	}

	effectiveFrom, effectiveTo, err := parseEffectiveWindow(req.EffectiveFrom, req.EffectiveTo)
	if err != nil {
		return BracketResponse{}, err
	}

	bracket.BracketName = req.BracketName
	bracket.MinAmount = req.MinAmount
	bracket.MaxAmount = req.MaxAmount
	bracket.TaxRate = req.TaxRate
	bracket.IsActive = req.IsActive
	bracket.EffectiveFrom = effectiveFrom
	bracket.EffectiveTo = effectiveTo

	if err := s.repo.Update(ctx, bracket); err != nil {
		return BracketResponse{}, err
	}

	s.invalidateBracketCache(ctx, bracket.Country, bracket.Currency)

	return mapBracketResponse(*bracket), nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	bracket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return taxerrors.ErrBracketNotFound
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.invalidateBracketCache(ctx, bracket.Country, bracket.Currency)
	return nil
}

func (s *service) Calculate(ctx context.Context, req CalculateRequest) Result {
	country := req.Country
	if country == "" {
		country = DefaultCountry
	}
	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return s.resolver.Resolve(ctx, req.GrossAmount, country, currency)
}

func parseEffectiveWindow(from string, to *string) (time.Time, *time.Time, error) {
	effectiveFrom, err := time.Parse("2006-01-02", from)
	if err != nil {
		return time.Time{}, nil, taxerrors.ErrInvalidDateFormat
	}

	var effectiveTo *time.Time
	if to != nil && *to != "" {
		t, err := time.Parse("2006-01-02", *to)
		if err != nil {
			return time.Time{}, nil, taxerrors.ErrInvalidDateFormat
		}
		effectiveTo = &t
	}

	return effectiveFrom, effectiveTo, nil
}

func mapBracketResponse(b TaxBracket) BracketResponse {
	resp := BracketResponse{
		ID:            b.ID.String(),
		BracketName:   b.BracketName,
		MinAmount:     b.MinAmount,
		MaxAmount:     b.MaxAmount,
		TaxRate:       b.TaxRate,
		Country:       b.Country,
		Currency:      b.Currency,
		IsActive:      b.IsActive,
		EffectiveFrom: b.EffectiveFrom.Format("2006-01-02"),
	}
	if b.EffectiveTo != nil {
		v := b.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}
	return resp
}
