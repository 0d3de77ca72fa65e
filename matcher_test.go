package investments

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/qk4l/investments/date"
)

// testSecurity returns a stock fixture whose identity is derived from the symbol.
func testSecurity(symbol string) Security {
	return Security{
		Symbol:     symbol,
		Kind:       Stock,
		ISIN:       "US000" + symbol,
		Multiplier: 1,
		ContractID: "c-" + symbol,
	}
}

// testTrade builds a trade on 2024-01-<day> with a two-day settlement lag.
func testTrade(t *testing.T, sec Security, day int, quantity int64, price, fee float64) Trade {
	t.Helper()
	trade, err := NewTrade(sec,
		time.Date(2024, time.January, day, 10, 0, 0, 0, time.UTC),
		date.New(2024, time.January, day+2),
		quantity,
		M(price, "USD"),
		M(fee, "USD"),
	)
	if err != nil {
		t.Fatalf("NewTrade() failed: %v", err)
	}
	return trade
}

func TestTradeMatcher_FIFO(t *testing.T) {
	aapl := testSecurity("AAPL")
	m := NewTradeMatcher()

	for _, trade := range []Trade{
		testTrade(t, aapl, 1, 10, 1, 0),
		testTrade(t, aapl, 2, 5, 2, 0),
	} {
		records, err := m.Process(trade)
		if err != nil {
			t.Fatalf("Process(%v) failed: %v", trade, err)
		}
		if len(records) != 0 {
			t.Fatalf("Process(%v) emitted %d records, want 0", trade, len(records))
		}
	}

	records, err := m.Process(testTrade(t, aapl, 3, -12, 3, 0))
	if err != nil {
		t.Fatalf("Process(sell) failed: %v", err)
	}

	want := []struct {
		quantity int64
		price    float64
		day      int
	}{
		{10, 1, 1}, // oldest lot fully consumed
		{2, 2, 2},  // second lot partially consumed
		{-12, 3, 3}, // the closing trade's own summary leg
	}
	if len(records) != len(want) {
		t.Fatalf("Process(sell) emitted %d records, want %d", len(records), len(want))
	}
	for i, w := range want {
		r := records[i]
		if r.Group != 1 {
			t.Errorf("records[%d].Group = %d, want 1", i, r.Group)
		}
		if r.Quantity != w.quantity {
			t.Errorf("records[%d].Quantity = %d, want %d", i, r.Quantity, w.quantity)
		}
		if !r.Price.Equal(M(w.price, "USD")) {
			t.Errorf("records[%d].Price = %s, want %v", i, r.Price.Amount(), w.price)
		}
		if r.TradeTime.Day() != w.day {
			t.Errorf("records[%d] trade day = %d, want %d", i, r.TradeTime.Day(), w.day)
		}
	}

	lots := m.OpenLots(aapl.ID())
	if len(lots) != 1 {
		t.Fatalf("got %d open lots, want 1", len(lots))
	}
	if lots[0].Quantity != 3 || !lots[0].Price.Equal(M(2, "USD")) {
		t.Errorf("remaining lot = %d @ %s, want 3 @ 2", lots[0].Quantity, lots[0].Price.Amount())
	}

	realized := m.Realized()
	if len(realized) != 1 || !realized[0].Equal(M(22, "USD")) {
		t.Errorf("Realized() = %v, want [22 USD]", realized)
	}
}

func TestTradeMatcher_ShortCover(t *testing.T) {
	tsla := testSecurity("TSLA")
	m := NewTradeMatcher()

	if _, err := m.Process(testTrade(t, tsla, 1, -10, 3, 0)); err != nil {
		t.Fatalf("Process(short) failed: %v", err)
	}
	records, err := m.Process(testTrade(t, tsla, 2, 15, 1, 0))
	if err != nil {
		t.Fatalf("Process(cover) failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Quantity != -10 {
		t.Errorf("fragment quantity = %d, want -10", records[0].Quantity)
	}
	if records[1].Quantity != 10 {
		t.Errorf("summary quantity = %d, want 10", records[1].Quantity)
	}

	lots := m.OpenLots(tsla.ID())
	if len(lots) != 1 || lots[0].Quantity != 5 {
		t.Fatalf("remaining lots = %v, want one lot of 5", lots)
	}

	realized := m.Realized()
	if len(realized) != 1 || !realized[0].Equal(M(20, "USD")) {
		t.Errorf("Realized() = %v, want [20 USD]", realized)
	}
}

func TestTradeMatcher_PartialFillAcrossSeveralCloses(t *testing.T) {
	msft := testSecurity("MSFT")
	m := NewTradeMatcher()

	if _, err := m.Process(testTrade(t, msft, 1, 10, 5, 0)); err != nil {
		t.Fatal(err)
	}

	// two partial closes consume the single lot in order.
	records, err := m.Process(testTrade(t, msft, 2, -4, 6, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Quantity != 4 || records[0].Group != 1 {
		t.Fatalf("first close records = %v", records)
	}

	records, err = m.Process(testTrade(t, msft, 3, -6, 7, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Quantity != 6 || records[0].Group != 2 {
		t.Fatalf("second close records = %v", records)
	}

	if lots := m.OpenLots(msft.ID()); len(lots) != 0 {
		t.Errorf("open lots = %v, want none", lots)
	}
	// (6-5)*4 + (7-5)*6
	if realized := m.Realized(); len(realized) != 1 || !realized[0].Equal(M(16, "USD")) {
		t.Errorf("Realized() = %v, want [16 USD]", realized)
	}
}

func TestTradeMatcher_InstrumentsAreIndependent(t *testing.T) {
	aapl, msft := testSecurity("AAPL"), testSecurity("MSFT")
	m := NewTradeMatcher()

	if _, err := m.Process(testTrade(t, aapl, 1, 10, 1, 0)); err != nil {
		t.Fatal(err)
	}
	// selling MSFT must not consume the AAPL lot.
	records, err := m.Process(testTrade(t, msft, 2, -5, 2, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("cross-instrument match: %v", records)
	}
	if lots := m.OpenLots(aapl.ID()); len(lots) != 1 || lots[0].Quantity != 10 {
		t.Errorf("AAPL lots = %v, want untouched lot of 10", lots)
	}
	if lots := m.OpenLots(msft.ID()); len(lots) != 1 || lots[0].Quantity != -5 {
		t.Errorf("MSFT lots = %v, want short lot of -5", lots)
	}
}

func TestTradeMatcher_OrderViolation(t *testing.T) {
	aapl := testSecurity("AAPL")
	m := NewTradeMatcher()

	if _, err := m.Process(testTrade(t, aapl, 5, 10, 1, 0)); err != nil {
		t.Fatal(err)
	}
	_, err := m.Process(testTrade(t, aapl, 3, -5, 2, 0))
	var orderErr *OrderError
	if !errors.As(err, &orderErr) {
		t.Fatalf("Process(out of order) error = %v, want *OrderError", err)
	}

	// equal timestamps are fine: same-instant fills keep statement order.
	if _, err := m.Process(testTrade(t, aapl, 5, -5, 2, 0)); err != nil {
		t.Errorf("Process(same instant) failed: %v", err)
	}
}

func TestTradeMatcher_SignConflict(t *testing.T) {
	aapl := testSecurity("AAPL")
	m := NewTradeMatcher()

	if _, err := m.Process(testTrade(t, aapl, 1, 10, 1, 0)); err != nil {
		t.Fatal(err)
	}
	// opening a short lot over an unresolved long lot violates the matcher
	// invariant; Process can never reach this state, so drive put directly.
	err := m.put(testTrade(t, aapl, 2, -5, 2, 0), -5)
	var signErr *SignError
	if !errors.As(err, &signErr) {
		t.Fatalf("put(conflicting sign) error = %v, want *SignError", err)
	}
	if signErr.Front != 10 || signErr.Quantity != -5 {
		t.Errorf("SignError = %+v, want Front 10 Quantity -5", signErr)
	}
}

// randomTrades builds a reproducible pseudo-random trade stream.
func randomTrades(seed int64, n int) []Trade {
	rng := rand.New(rand.NewSource(seed))
	securities := []Security{testSecurity("AAPL"), testSecurity("MSFT"), testSecurity("TSLA")}
	trades := make([]Trade, 0, n)
	for i := 0; i < n; i++ {
		quantity := int64(rng.Intn(10) - 5)
		if quantity == 0 {
			quantity = 1
		}
		sec := securities[rng.Intn(len(securities))]
		price := M(1+rng.Intn(100), "USD")
		fee := M(float64(rng.Intn(10))/10, "USD")
		trades = append(trades, Trade{
			Security:   sec,
			TradeTime:  time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
			SettleDate: date.New(2024, time.January, 1+i/24),
			Quantity:   quantity,
			Price:      price,
			Fee:        fee,
			FeePerUnit: fee.Div(abs(quantity)),
		})
	}
	return trades
}

func TestTradeMatcher_Conservation(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1337} {
		trades := randomTrades(seed, 300)
		m := NewTradeMatcher()

		var streamed int64
		for _, trade := range trades {
			records, err := m.Process(trade)
			if err != nil {
				t.Fatalf("seed %d: Process() failed: %v", seed, err)
			}
			// every realized-gain event is zero-sum: the lot fragments and
			// the trade's own summary leg cancel exactly.
			var sum int64
			for _, r := range records {
				sum += r.Quantity
			}
			if sum != 0 {
				t.Fatalf("seed %d: group of %v sums to %d, want 0", seed, trade, sum)
			}
			streamed += trade.Quantity
		}

		// what was not realized must still be open.
		var open int64
		for _, p := range m.Portfolio() {
			open += p.Quantity
		}
		if open != streamed {
			t.Errorf("seed %d: open quantity %d, want %d (sum of stream)", seed, open, streamed)
		}
	}
}

func TestTradeMatcher_FIFOOrderWithinQueue(t *testing.T) {
	for _, seed := range []int64{3, 99} {
		m, err := MatchTrades(randomTrades(seed, 300))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for _, p := range m.Portfolio() {
			lots := m.OpenLots(p.Security.ID())
			for i := 1; i < len(lots); i++ {
				if lots[i].TradeTime.Before(lots[i-1].TradeTime) {
					t.Errorf("seed %d: lots of %s out of order at %d", seed, p.Security, i)
				}
				if sign(lots[i].Quantity) != sign(lots[i-1].Quantity) {
					t.Errorf("seed %d: mixed-sign lots for %s", seed, p.Security)
				}
			}
		}
	}
}

func TestTradeMatcher_Deterministic(t *testing.T) {
	run := func() []byte {
		m, err := MatchTrades(randomTrades(42, 300))
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := ExportClosingRecords(&buf, m.ClosingRecords()); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}
	if !bytes.Equal(run(), run()) {
		t.Error("two runs over the same stream produced different output")
	}
}
