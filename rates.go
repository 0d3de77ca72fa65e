package investments

import (
	"log"

	"github.com/qk4l/investments/date"
	"github.com/shopspring/decimal"
)

// Quotation tells how a source quotes its published rates against its base
// currency, which fixes the direction of the conversion arithmetic.
type Quotation int

const (
	// QuoteInBase means one unit of the foreign currency costs 'rate' units
	// of the base currency: converting to base multiplies by the rate.
	QuoteInBase Quotation = iota
	// QuoteInForeign means one unit of the base currency costs 'rate' units
	// of the foreign currency: converting to base divides by the rate.
	QuoteInForeign
)

// RateSource produces raw, possibly sparse, (date, rate) observations for
// one currency over a window. Implementations do no calendar normalization:
// reindexing and forward-filling are centralized in the Resolver so that
// every source shares one fill behavior.
type RateSource interface {
	// Name identifies the source in logs and errors.
	Name() string

	// BaseCurrency is the currency the published rates are quoted against.
	BaseCurrency() string

	// Quotation tells the direction of the published rates.
	Quotation() Quotation

	// CacheKey returns the persisted-cache key for a currency's series. The
	// requested date is part of the key for sources that publish per-year
	// feeds (and is ignored by sources that publish one full series).
	CacheKey(currency string, on date.Date) string

	// Fetch retrieves raw observations for the currency, covering the
	// requested date up to 'until'. It returns a *RateError for an
	// unsupported currency and a *FetchError for network or parsing
	// failures.
	Fetch(currency string, on, until date.Date) ([]Observation, error)
}

// Resolver serves point exchange-rate lookups and currency conversion
// against one fixed base currency, loading each currency's full daily
// series lazily: persisted cache first, then the source, reindexed and
// forward-filled, then kept in memory for the resolver's lifetime.
//
// Create one Resolver per report run; it holds no global state.
type Resolver struct {
	source RateSource
	cache  *Cache
	series map[string]*RateSeries
}

// NewResolver returns a resolver backed by the given source. A nil cache is
// replaced by a memory-less cache that always misses.
func NewResolver(source RateSource, cache *Cache) *Resolver {
	if cache == nil {
		cache = NewCache("", 0)
	}
	return &Resolver{
		source: source,
		cache:  cache,
		series: make(map[string]*RateSeries),
	}
}

// BaseCurrency returns the currency every amount is converted into.
func (r *Resolver) BaseCurrency() string { return r.source.BaseCurrency() }

// GetRate returns the conversion rate for the currency on the given day.
// The base currency's own rate is always exactly 1.
func (r *Resolver) GetRate(currency string, on date.Date) (decimal.Decimal, error) {
	if currency == r.source.BaseCurrency() {
		return decimal.NewFromInt(1), nil
	}

	series, err := r.load(currency, on)
	if err != nil {
		return decimal.Decimal{}, err
	}
	rate, ok := series.At(on)
	if !ok {
		return decimal.Decimal{}, &RateError{Currency: currency, Date: on, First: series.First()}
	}
	return rate, nil
}

// ConvertToBase converts the amount into the base currency using the rate of
// the given day. Which day is legally relevant (trade date for fees,
// settlement date for prices) is the caller's responsibility.
func (r *Resolver) ConvertToBase(m Money, on date.Date) (Money, error) {
	base := r.source.BaseCurrency()
	if m.Currency() == base || m.Currency() == "" {
		return M(m.Amount(), base), nil
	}
	rate, err := r.GetRate(m.Currency(), on)
	if err != nil {
		return Money{}, err
	}
	if r.source.Quotation() == QuoteInForeign {
		return m.DivRate(rate, base), nil
	}
	return m.MulRate(rate, base), nil
}

// load returns the daily series covering 'on' for the currency, fetching and
// caching it if needed.
func (r *Resolver) load(currency string, on date.Date) (*RateSeries, error) {
	key := r.source.CacheKey(currency, on)
	if s, ok := r.series[key]; ok && !on.After(s.Last()) {
		return s, nil
	}

	if s, ok := r.cache.Get(key); ok {
		log.Printf("%s: %s rates for %s served from cache", r.source.Name(), currency, key)
		r.series[key] = s
		return s, nil
	}

	today := date.Today()
	// fetch through tomorrow to tolerate timezone skew at the source.
	observations, err := r.source.Fetch(currency, on, today.Add(1))
	if err != nil {
		return nil, err
	}
	if len(observations) == 0 {
		return nil, &RateError{Currency: currency, Date: on}
	}
	s, err := newRateSeries(observations, today)
	if err != nil {
		return nil, &FetchError{Source: r.source.Name(), Currency: currency, Err: err}
	}

	if err := r.cache.Put(key, s); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	r.series[key] = s
	return s, nil
}
