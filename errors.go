package investments

import (
	"fmt"
	"time"

	"github.com/qk4l/investments/date"
)

// OrderError reports a trade stream that is not sorted chronologically for
// one security. It indicates a defect in the upstream data, not a
// recoverable runtime condition: the matcher aborts rather than silently
// mismatching lots.
type OrderError struct {
	Security Security
	Prev     time.Time // execution time of the last accepted trade
	Next     time.Time // execution time of the offending trade
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("trades out of order for %s: %s after %s",
		e.Security, e.Next.Format(time.RFC3339), e.Prev.Format(time.RFC3339))
}

// SignError reports an attempt to open a lot whose sign conflicts with
// unresolved opposite-sign quantity for the same security. Opposite-sign
// quantity must fully match before a same-sign excess becomes a new lot, so
// this is a matcher-invariant violation.
type SignError struct {
	Security Security
	Front    int64 // remaining quantity of the oldest open lot
	Quantity int64 // quantity of the lot being opened
}

func (e *SignError) Error() string {
	return fmt.Sprintf("lot sign conflict for %s: opening %d against front lot %d",
		e.Security, e.Quantity, e.Front)
}

// RateError reports that no exchange rate is available for a currency on a
// date: the date precedes the earliest known observation, or the configured
// source has no data for the currency at all. It is never silently
// defaulted; the caller decides whether to skip or abort.
type RateError struct {
	Currency string
	Date     date.Date
	First    date.Date // earliest available observation, zero if none
}

func (e *RateError) Error() string {
	if e.First.IsZero() {
		return fmt.Sprintf("no exchange rate available for %s on %s", e.Currency, e.Date)
	}
	return fmt.Sprintf("no exchange rate available for %s on %s: observations start on %s",
		e.Currency, e.Date, e.First)
}

// FetchError reports a network or parsing failure while retrieving raw rate
// observations. It is not retried automatically.
type FetchError struct {
	Source   string
	Currency string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: cannot fetch rates for %s: %v", e.Source, e.Currency, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
