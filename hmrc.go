package investments

import (
	"fmt"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/qk4l/investments/date"
	"github.com/shopspring/decimal"
)

// hmrcURL is the endpoint of the HMRC monthly exchange rates feed.
const hmrcURL = "https://hmrc.matchilling.com/rate"

// HMRCSource fetches the UK tax authority's monthly exchange rates: one
// JSON request per covered month of the requested year, each publishing a
// single rate that holds for a stated [start, end] date range. The rates
// are quoted in foreign currency per pound sterling.
type HMRCSource struct {
	baseURL string
	client  *http.Client
}

// NewHMRCSource returns a source for the HMRC monthly feed.
func NewHMRCSource() *HMRCSource {
	return &HMRCSource{baseURL: hmrcURL, client: newClient()}
}

func (s *HMRCSource) Name() string         { return "hmrc" }
func (s *HMRCSource) BaseCurrency() string { return "GBP" }
func (s *HMRCSource) Quotation() Quotation { return QuoteInForeign }

// CacheKey scopes the cached series to the requested year: the feed is
// published per month, so a year is the natural fetch unit.
func (s *HMRCSource) CacheKey(currency string, on date.Date) string {
	return fmt.Sprintf("hmrc_rates_%d_%s.cache", on.Year(), currency)
}

// Fetch retrieves the monthly rates of the requested date's year and expands
// each month's constant rate into one observation per calendar day of its
// stated range, ready for the common reindex pipeline.
func (s *HMRCSource) Fetch(currency string, on, until date.Date) ([]Observation, error) {
	lastMonth := time.December
	if on.Year() == until.Year() {
		lastMonth = until.Month()
	}

	var observations []Observation
	for month := time.January; month <= lastMonth; month++ {
		monthly, err := s.fetchMonth(currency, on.Year(), month)
		if err != nil {
			return nil, err
		}
		observations = append(observations, monthly...)
	}
	return observations, nil
}

func (s *HMRCSource) fetchMonth(currency string, year int, month time.Month) ([]Observation, error) {
	addr := fmt.Sprintf("%s/%d/%02d.json", s.baseURL, year, month)

	var payload any
	if err := jwget(s.client, addr, &payload); err != nil {
		return nil, &FetchError{Source: s.Name(), Currency: currency, Err: err}
	}

	start, err := s.lookupDate(payload, "$.period.start")
	if err != nil {
		return nil, &FetchError{Source: s.Name(), Currency: currency, Err: err}
	}
	end, err := s.lookupDate(payload, "$.period.end")
	if err != nil {
		return nil, &FetchError{Source: s.Name(), Currency: currency, Err: err}
	}

	value, err := jsonpath.Get(fmt.Sprintf("$.rates.%s", currency), payload)
	if err != nil {
		// the feed has no data for this currency at all
		return nil, &RateError{Currency: currency, Date: date.New(year, month, 1)}
	}
	rate, ok := value.(float64)
	if !ok {
		return nil, &FetchError{Source: s.Name(), Currency: currency,
			Err: fmt.Errorf("rate for %s in %d-%02d is not a number: %v", currency, year, month, value)}
	}

	var observations []Observation
	for on := range (date.Range{From: start, To: end}).Days() {
		observations = append(observations, Observation{Date: on, Rate: decimal.NewFromFloat(rate)})
	}
	return observations, nil
}

// lookupDate extracts a date-valued field from the month payload.
func (s *HMRCSource) lookupDate(payload any, path string) (date.Date, error) {
	value, err := jsonpath.Get(path, payload)
	if err != nil {
		return date.Date{}, fmt.Errorf("missing %q in month payload: %w", path, err)
	}
	str, ok := value.(string)
	if !ok {
		return date.Date{}, fmt.Errorf("%q in month payload is not a string: %v", path, value)
	}
	on, err := date.Parse(str)
	if err != nil {
		return date.Date{}, fmt.Errorf("invalid %q in month payload: %w", path, err)
	}
	return on, nil
}
