package investments

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// TradeMatcher consumes a chronologically ordered stream of trades and
// matches closing trades against prior opening trades on a strict
// first-in-first-out basis, per security identity.
//
// The matcher is the only mutator of its open lots; it is not safe for
// concurrent use, and it performs no internal sorting: the caller must
// present trades already ordered by execution time per security.
// Given the same ordered stream, its output is identical on repeated runs.
type TradeMatcher struct {
	lots  map[SecurityID][]OpenLot
	order []SecurityID // first-seen order, keeps Portfolio() deterministic
	last  map[SecurityID]time.Time

	closed   []ClosingRecord
	group    int
	realized map[string]Money // realized profit per trade currency
}

// NewTradeMatcher returns an empty matcher.
func NewTradeMatcher() *TradeMatcher {
	return &TradeMatcher{
		lots:     make(map[SecurityID][]OpenLot),
		last:     make(map[SecurityID]time.Time),
		group:    1,
		realized: make(map[string]Money),
	}
}

// MatchTrades processes a whole trade stream and returns the matcher holding
// the closing records and the final open positions.
func MatchTrades(trades []Trade) (*TradeMatcher, error) {
	m := NewTradeMatcher()
	for _, t := range trades {
		if _, err := m.Process(t); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Process matches one trade against the open lots of its security and
// returns the closing records it produced, if any.
//
// If the trade's quantity has the same sign as the oldest open lot (or no
// lot is open), the whole quantity opens a new lot and no record is emitted.
// Otherwise the quantity consumes open lots oldest-first; each consumed lot
// emits one record carrying the lot's date, price and fee-per-unit, and a
// final summary record carries the trade's own consumed quantity at its own
// price and fee. All records of the event share one group number. Any
// quantity left after matching opens a new lot.
func (m *TradeMatcher) Process(t Trade) ([]ClosingRecord, error) {
	id := t.Security.ID()

	if prev, seen := m.last[id]; !seen {
		m.order = append(m.order, id)
	} else if t.TradeTime.Before(prev) {
		return nil, &OrderError{Security: t.Security, Prev: prev, Next: t.TradeTime}
	}
	m.last[id] = t.TradeTime

	remaining := t.Quantity
	var records []ClosingRecord
	for remaining != 0 {
		lot, q := m.match(id, remaining)
		if q == 0 {
			break
		}
		records = append(records, ClosingRecord{
			Group:      m.group,
			Security:   lot.Security,
			TradeTime:  lot.TradeTime,
			SettleDate: lot.SettleDate,
			Quantity:   q,
			Price:      lot.Price,
			Fee:        lot.FeePerUnit.Mul(abs(q)),
			FeePerUnit: lot.FeePerUnit,
		})

		// net cost of the two legs: the realized gain is its negation.
		cost := CostBasis(q, lot.Price, lot.FeePerUnit).Add(CostBasis(-q, t.Price, t.FeePerUnit))
		c := t.Price.Currency()
		m.realized[c] = m.realized[c].Sub(cost)

		// q carries the lot's sign, opposite to remaining.
		remaining += q
	}

	if len(records) > 0 {
		consumed := t.Quantity - remaining
		records = append(records, ClosingRecord{
			Group:      m.group,
			Security:   t.Security,
			TradeTime:  t.TradeTime,
			SettleDate: t.SettleDate,
			Quantity:   consumed,
			Price:      t.Price,
			Fee:        t.FeePerUnit.Mul(abs(consumed)),
			FeePerUnit: t.FeePerUnit,
		})
		m.group++
	}

	if remaining != 0 {
		if err := m.put(t, remaining); err != nil {
			return nil, err
		}
	}

	m.closed = append(m.closed, records...)
	return records, nil
}

// match consumes up to |quantity| units from the oldest open lot of the
// security, provided its sign is opposite. It returns the lot as it was
// before shrinking and the signed quantity taken from it (the lot's sign),
// or a zero quantity when no opposite-sign lot is available.
func (m *TradeMatcher) match(id SecurityID, quantity int64) (OpenLot, int64) {
	queue := m.lots[id]
	if len(queue) == 0 {
		return OpenLot{}, 0
	}
	front := queue[0]
	if sign(front.Quantity) == sign(quantity) {
		// only a buy matches a sell and vice versa
		return OpenLot{}, 0
	}

	q := sign(front.Quantity) * min(abs(quantity), abs(front.Quantity))
	if q == front.Quantity {
		m.lots[id] = queue[1:]
	} else {
		queue[0].Quantity -= q
	}
	return front, q
}

// put opens a new lot for the unmatched remainder of a trade. Opening a lot
// whose sign conflicts with the oldest open lot means opposite-sign quantity
// was left unmatched, which the matching loop must never allow.
func (m *TradeMatcher) put(t Trade, quantity int64) error {
	id := t.Security.ID()
	if queue := m.lots[id]; len(queue) > 0 && sign(queue[0].Quantity) != sign(quantity) {
		return &SignError{Security: t.Security, Front: queue[0].Quantity, Quantity: quantity}
	}
	m.lots[id] = append(m.lots[id], OpenLot{
		Security:   t.Security,
		TradeTime:  t.TradeTime,
		SettleDate: t.SettleDate,
		Quantity:   quantity,
		Price:      t.Price,
		FeePerUnit: t.FeePerUnit,
	})
	return nil
}

// ClosingRecords returns every record emitted so far, in emission order.
func (m *TradeMatcher) ClosingRecords() []ClosingRecord { return m.closed }

// Portfolio returns the net open position of every security still holding
// unmatched quantity, with the volume-weighted average price of its
// remaining lots, in first-seen security order.
func (m *TradeMatcher) Portfolio() []PortfolioElement {
	var portfolio []PortfolioElement
	for _, id := range m.order {
		queue := m.lots[id]
		if len(queue) == 0 {
			continue
		}
		var quantity int64
		var total Money
		for _, lot := range queue {
			quantity += lot.Quantity
			total = total.Add(lot.Price.Mul(lot.Quantity))
		}
		portfolio = append(portfolio, PortfolioElement{
			Security:     queue[0].Security,
			Quantity:     quantity,
			AveragePrice: total.Div(quantity),
		})
	}
	return portfolio
}

// OpenLots returns the remaining open lots of a security, oldest first.
func (m *TradeMatcher) OpenLots(id SecurityID) []OpenLot { return m.lots[id] }

// Realized returns the accumulated realized profit, one Money per trade
// currency, sorted by currency code. Amounts are in the closing trades' own
// currency; conversion to the base currency is the report layer's concern.
func (m *TradeMatcher) Realized() []Money {
	currencies := lo.Keys(m.realized)
	sort.Strings(currencies)
	return lo.Map(currencies, func(c string, _ int) Money { return m.realized[c] })
}
