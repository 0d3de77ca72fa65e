package investments

import (
	"fmt"
	"sort"

	"github.com/qk4l/investments/date"
	"github.com/shopspring/decimal"
)

// Observation is a single raw (date, rate) data point published by a rate
// source. Observations may be sparse: sources skip weekends and holidays.
type Observation struct {
	Date date.Date
	Rate decimal.Decimal
}

// RateSeries is a gap-free daily series of exchange rates: one value per
// calendar day, from the first observed date up to a fixed last day, with
// unobserved days carrying the last known value forward.
//
// The contiguity lets a point lookup be a plain day-offset computation.
type RateSeries struct {
	first date.Date
	rates []decimal.Decimal
}

// newRateSeries reindexes sparse observations into a gap-free daily series
// running from the earliest observation through 'until', forward-filling
// every day without an observation with the last known value.
//
// The forward-fill policy is a business rule: replacing it with
// interpolation or zero-fill changes reported tax figures.
func newRateSeries(observations []Observation, until date.Date) (*RateSeries, error) {
	if len(observations) == 0 {
		return nil, fmt.Errorf("cannot build a rate series from zero observations")
	}

	sorted := make([]Observation, len(observations))
	copy(sorted, observations)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	first := sorted[0].Date
	if until.Before(first) {
		until = first
	}

	s := &RateSeries{
		first: first,
		rates: make([]decimal.Decimal, until.Sub(first)+1),
	}
	i := 0
	last := sorted[0].Rate
	for on := range (date.Range{From: first, To: until}).Days() {
		// several observations may share a day; the last one wins.
		for i < len(sorted) && !sorted[i].Date.After(on) {
			last = sorted[i].Rate
			i++
		}
		s.rates[on.Sub(first)] = last
	}
	return s, nil
}

// First returns the earliest date covered by the series.
func (s *RateSeries) First() date.Date { return s.first }

// Last returns the latest date covered by the series.
func (s *RateSeries) Last() date.Date { return s.first.Add(len(s.rates) - 1) }

// At returns the rate on the given day, and whether the day is covered.
func (s *RateSeries) At(on date.Date) (decimal.Decimal, bool) {
	i := on.Sub(s.first)
	if i < 0 || i >= len(s.rates) {
		return decimal.Decimal{}, false
	}
	return s.rates[i], true
}
