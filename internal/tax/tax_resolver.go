package tax

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Sethnnections/smartpay-hrms-sub000/internal/shared/contextutil"
)

const (
	DefaultCountry  = "MW"
	DefaultCurrency = "MWK"
)

const BracketCacheKeyPrefix = "tax:brackets:"

// BracketCacheKey carries the effective date so a bracket window
// rolling over at midnight cannot serve yesterday's set from cache.
func BracketCacheKey(country, currency string, at time.Time) string {
	return BracketCacheKeyPrefix + country + ":" + currency + ":" + at.Format("2006-01-02")
}

// Result is the resolved tax for one gross amount. Rate is the
// effective rate as a percentage of gross, not any single bracket's
// marginal rate.
type Result struct {
	Amount float64 `json:"amount"`
	Rate   float64 `json:"rate"`
}

//go:generate mockgen -source=tax_resolver.go -destination=mock/tax_resolver_mock.go -package=mock
type Resolver interface {
	// Resolve never returns an error: a failed or empty bracket lookup
	// falls back to the built-in table, and invalid gross amounts
	// resolve to zero. Payroll generation must not stall on tax
	// configuration problems.
	Resolve(ctx context.Context, grossAmount float64, country, currency string) Result
}

type resolver struct {
	repo Repository
	rdb  *redis.Client
	sf   *singleflight.Group
	now  func() time.Time
}

func NewResolver(repo Repository) Resolver {
	return NewResolverWithCache(repo, nil)
}

// NewResolverWithCache reads brackets through Redis. Brackets are
// master data and the resolver runs on every record save, so a cache
// miss is collapsed to a single lookup under load.
func NewResolverWithCache(repo Repository, rdb *redis.Client) Resolver {
	return &resolver{
		repo: repo,
		rdb:  rdb,
		sf:   &singleflight.Group{},
		now:  time.Now,
	}
}

// band is one marginal slice of the walk. A zero width means
// open-ended.
type band struct {
	min   float64
	width float64
	rate  float64
}

// fallbackBands mirrors the MRA-style table payroll was launched with.
// It is applied whenever no active configuration exists and must stay
// numerically identical in semantics to the dynamic path.
var fallbackBands = []band{
	{min: 0, width: 150_000, rate: 0},
	{min: 150_000, width: 350_000, rate: 25},
	{min: 500_000, width: 2_050_000, rate: 30},
	{min: 2_550_000, width: 0, rate: 35},
}

func (r *resolver) Resolve(ctx context.Context, grossAmount float64, country, currency string) Result {
	if math.IsNaN(grossAmount) || grossAmount <= 0 {
		return Result{}
	}

	bands := r.activeBands(ctx, country, currency)
	amount := marginalTax(grossAmount, bands)

	return Result{
		Amount: round2(amount),
		Rate:   round2(amount / grossAmount * 100),
	}
}

func (r *resolver) activeBands(ctx context.Context, country, currency string) []band {
	brackets, err := r.lookupBrackets(ctx, country, currency)
	if err != nil {
		contextutil.GetLogger(ctx, zap.L()).Warn("tax bracket lookup failed, using fallback table",
			zap.String("country", country),
			zap.String("currency", currency),
			zap.Error(err),
		)
		return fallbackBands
	}
	if len(brackets) == 0 {
		return fallbackBands
	}

	bands := make([]band, 0, len(brackets))
	for _, b := range brackets {
		width := 0.0
		if b.MaxAmount != nil {
			width = *b.MaxAmount - b.MinAmount
		}
		bands = append(bands, band{min: b.MinAmount, width: width, rate: b.TaxRate})
	}
	return bands
}

func (r *resolver) lookupBrackets(ctx context.Context, country, currency string) ([]TaxBracket, error) {
	at := r.now()
	if r.rdb == nil {
		return r.repo.ActiveBrackets(ctx, country, currency, at)
	}

	cacheKey := BracketCacheKey(country, currency, at)
	if cached, err := r.rdb.Get(ctx, cacheKey).Result(); err == nil {
		var brackets []TaxBracket
		if json.Unmarshal([]byte(cached), &brackets) == nil {
			return brackets, nil
		}
	}

	v, err, _ := r.sf.Do(cacheKey, func() (interface{}, error) {
		brackets, err := r.repo.ActiveBrackets(ctx, country, currency, at)
		if err != nil {
			return nil, err
		}
		if jsonData, err := json.Marshal(brackets); err == nil {
			r.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
		}
		return brackets, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]TaxBracket), nil
}

// marginalTax walks the bands lowest first. Each band absorbs up to
// its width of the remaining income and taxes that slice at its own
// rate, so no part of the income is taxed twice or skipped.
func marginalTax(gross float64, bands []band) float64 {
	remaining := gross
	total := 0.0

	for _, b := range bands {
		if remaining <= 0 {
			break
		}

		slice := remaining
		if b.width > 0 && b.width < slice {
			slice = b.width
		}

		total += slice * b.rate / 100
		remaining -= slice
	}

	return total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
