package investments

import (
	"fmt"
	"time"

	"github.com/qk4l/investments/date"
)

// Trade is a single executed fill, as handed over by the statement parser.
//
// Trades are immutable once created: the matcher never modifies them.
type Trade struct {
	Security Security

	// TradeTime is the execution timestamp; fees are valued in the base
	// currency at this date.
	TradeTime time.Time

	// SettleDate is the legal settlement date; the price leg is valued in
	// the base currency at this date.
	SettleDate date.Date

	// Quantity is positive for a buy (opening) and negative for a sell
	// (closing), in units already multiplied by the contract multiplier.
	Quantity int64

	// Price is the positive price of one unit.
	Price Money

	// Fee is the total commission for the fill.
	Fee Money

	// FeePerUnit is Fee divided by the absolute quantity, derived at
	// construction.
	FeePerUnit Money
}

// NewTrade builds a validated Trade and derives its fee-per-unit.
func NewTrade(sec Security, tradeTime time.Time, settle date.Date, quantity int64, price, fee Money) (Trade, error) {
	if quantity == 0 {
		return Trade{}, fmt.Errorf("trade %s at %s: quantity cannot be zero", sec, tradeTime.Format(time.RFC3339))
	}
	if !price.IsPositive() {
		return Trade{}, fmt.Errorf("trade %s at %s: price %s must be positive", sec, tradeTime.Format(time.RFC3339), price.Amount())
	}
	if fee.Currency() != "" && price.Currency() != fee.Currency() {
		return Trade{}, fmt.Errorf("trade %s at %s: fee currency %s differs from price currency %s",
			sec, tradeTime.Format(time.RFC3339), fee.Currency(), price.Currency())
	}
	return Trade{
		Security:   sec,
		TradeTime:  tradeTime,
		SettleDate: settle,
		Quantity:   quantity,
		Price:      price,
		Fee:        fee,
		FeePerUnit: fee.Div(abs(quantity)),
	}, nil
}

func (t Trade) String() string {
	return fmt.Sprintf("Trade %s (%d) for %s at %s", t.Security, t.Quantity, t.Price, t.TradeTime.Format(time.RFC3339))
}

// ClosingRecord is one leg of a realized-gain event.
//
// A single incoming closing trade produces one record per consumed open lot
// (carrying the lot's own date, price and fee-per-unit) plus a final summary
// record carrying the incoming trade's date, price and fee for the consumed
// quantity. All records of one event share the same Group.
type ClosingRecord struct {
	// Group is the sequential identifier shared by all records of one
	// realized-gain event. Groups are numbered from 1 in emission order.
	Group int

	Security   Security
	TradeTime  time.Time
	SettleDate date.Date

	// Quantity is the signed quantity of this fragment: it carries the sign
	// of the leg it was taken from, so the fragments of a group and the
	// summary record sum to zero.
	Quantity int64

	Price      Money
	Fee        Money
	FeePerUnit Money
}

// OpenLot is the remaining unmatched quantity of one opening trade.
// Lots of one security are held in strict time order, oldest first.
type OpenLot struct {
	Security   Security
	TradeTime  time.Time
	SettleDate date.Date

	// Quantity is the remaining signed quantity: positive for a long lot,
	// negative for a short one.
	Quantity int64

	Price      Money
	FeePerUnit Money
}

// PortfolioElement is a net open position left after matching.
type PortfolioElement struct {
	Security Security
	Quantity int64

	// AveragePrice is the volume-weighted average price of the remaining
	// open lots.
	AveragePrice Money
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int64) int64 {
	if v < 0 {
		return -1
	}
	return 1
}
