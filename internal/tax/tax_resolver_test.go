package tax_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/tax"
)

type fakeTaxRepository struct {
	activeBracketsFn func(ctx context.Context, country, currency string, at time.Time) ([]tax.TaxBracket, error)

	created  *tax.TaxBracket
	existing *tax.TaxBracket
}

func (f *fakeTaxRepository) Create(ctx context.Context, bracket *tax.TaxBracket) error {
	f.created = bracket
	return nil
}

func (f *fakeTaxRepository) FindAll(ctx context.Context, country, currency string) ([]tax.TaxBracket, error) {
	return nil, nil
}

func (f *fakeTaxRepository) FindByID(ctx context.Context, id string) (*tax.TaxBracket, error) {
	if f.existing == nil {
		return nil, errors.New("record not found")
	}
	return f.existing, nil
}

func (f *fakeTaxRepository) Update(ctx context.Context, bracket *tax.TaxBracket) error { return nil }

func (f *fakeTaxRepository) Deactivate(ctx context.Context, id string) error { return nil }

func (f *fakeTaxRepository) ActiveBrackets(ctx context.Context, country, currency string, at time.Time) ([]tax.TaxBracket, error) {
	if f.activeBracketsFn != nil {
		return f.activeBracketsFn(ctx, country, currency, at)
	}
	return nil, nil
}

func emptyRepo() *fakeTaxRepository {
	return &fakeTaxRepository{}
}

func ptr(v float64) *float64 { return &v }

func TestResolveFallbackMatchesKnownFigure(t *testing.T) {
	resolver := tax.NewResolver(emptyRepo())

	// 500,000 MWK: first 150,000 untaxed, remaining 350,000 at 25%.
	res := resolver.Resolve(context.Background(), 500_000, tax.DefaultCountry, tax.DefaultCurrency)

	assert.Equal(t, 87_500.0, res.Amount)
	assert.Equal(t, 17.5, res.Rate)
}

func TestResolveFallbackSpansThreeBands(t *testing.T) {
	resolver := tax.NewResolver(emptyRepo())

	// 1,000,000: 0 + 350,000*0.25 + 500,000*0.30
	res := resolver.Resolve(context.Background(), 1_000_000, tax.DefaultCountry, tax.DefaultCurrency)

	assert.Equal(t, 87_500.0+150_000.0, res.Amount)
}

func TestResolveFallbackTopBandOpenEnded(t *testing.T) {
	resolver := tax.NewResolver(emptyRepo())

	// 3,000,000: 87,500 + 2,050,000*0.30 + 450,000*0.35
	res := resolver.Resolve(context.Background(), 3_000_000, tax.DefaultCountry, tax.DefaultCurrency)

	assert.Equal(t, 87_500.0+615_000.0+157_500.0, res.Amount)
}

func TestResolveInvalidGrossYieldsZero(t *testing.T) {
	resolver := tax.NewResolver(emptyRepo())

	for _, gross := range []float64{0, -1, -500_000, math.NaN()} {
		res := resolver.Resolve(context.Background(), gross, tax.DefaultCountry, tax.DefaultCurrency)
		assert.Equal(t, tax.Result{}, res)
	}
}

func TestResolveLookupErrorFallsBack(t *testing.T) {
	repo := &fakeTaxRepository{
		activeBracketsFn: func(ctx context.Context, country, currency string, at time.Time) ([]tax.TaxBracket, error) {
			return nil, errors.New("datastore down")
		},
	}
	resolver := tax.NewResolver(repo)

	res := resolver.Resolve(context.Background(), 500_000, tax.DefaultCountry, tax.DefaultCurrency)

	assert.Equal(t, 87_500.0, res.Amount)
}

func TestResolveUsesConfiguredBrackets(t *testing.T) {
	repo := &fakeTaxRepository{
		activeBracketsFn: func(ctx context.Context, country, currency string, at time.Time) ([]tax.TaxBracket, error) {
			return []tax.TaxBracket{
				{MinAmount: 0, MaxAmount: ptr(100_000), TaxRate: 0},
				{MinAmount: 100_000, MaxAmount: ptr(300_000), TaxRate: 10},
				{MinAmount: 300_000, MaxAmount: nil, TaxRate: 20},
			}, nil
		},
	}
	resolver := tax.NewResolver(repo)

	// 400,000: 0 + 200,000*0.10 + 100,000*0.20 = 40,000
	res := resolver.Resolve(context.Background(), 400_000, tax.DefaultCountry, tax.DefaultCurrency)

	assert.Equal(t, 40_000.0, res.Amount)
	assert.Equal(t, 10.0, res.Rate)
}

func TestResolveMonotonicInGross(t *testing.T) {
	resolver := tax.NewResolver(emptyRepo())

	prev := 0.0
	for gross := 50_000.0; gross <= 5_000_000; gross += 50_000 {
		res := resolver.Resolve(context.Background(), gross, tax.DefaultCountry, tax.DefaultCurrency)
		assert.GreaterOrEqual(t, res.Amount, prev, "tax must not decrease as gross grows (gross=%v)", gross)
		prev = res.Amount
	}
}

func TestResolveEffectiveRateNonDecreasing(t *testing.T) {
	resolver := tax.NewResolver(emptyRepo())

	prev := 0.0
	for gross := 100_000.0; gross <= 4_000_000; gross += 100_000 {
		res := resolver.Resolve(context.Background(), gross, tax.DefaultCountry, tax.DefaultCurrency)
		assert.GreaterOrEqual(t, res.Rate, prev, "effective rate must not decrease (gross=%v)", gross)
		prev = res.Rate
	}
}

func TestResolveNoIncomeTaxedTwice(t *testing.T) {
	resolver := tax.NewResolver(emptyRepo())

	// Splitting an income at a bracket boundary must give the same
	// total as taxing it whole.
	whole := resolver.Resolve(context.Background(), 650_000, tax.DefaultCountry, tax.DefaultCurrency)

	manual := 350_000*0.25 + 150_000*0.30
	assert.Equal(t, manual, whole.Amount)
}
