package investments

import (
	"strings"
	"testing"
	"time"

	"github.com/qk4l/investments/date"
	"github.com/shopspring/decimal"
)

const tradesJSONL = `{"symbol":"VOO","kind":"stock","isin":"US9229083632","traded":"2024-03-05T14:30:00Z","settled":"2024-03-07","quantity":-3,"price":"471.10","fee":"1.05","currency":"USD"}

{"symbol":"VOO","kind":"stock","isin":"US9229083632","traded":"2024-01-10T15:00:00Z","settled":"2024-01-12","quantity":5,"price":"432.50","fee":"1.20","currency":"USD"}
{"symbol":"ESM4","kind":"futures","contract":"551601533","multiplier":50,"traded":"2024-02-01T10:00:00Z","settled":"2024-02-01","quantity":1,"price":"4950.25","fee":"2.10","currency":"USD"}
`

func TestImportTrades(t *testing.T) {
	trades, err := ImportTrades(strings.NewReader(tradesJSONL))
	if err != nil {
		t.Fatalf("ImportTrades() failed: %v", err)
	}
	if len(trades) != 3 {
		t.Fatalf("got %d trades, want 3", len(trades))
	}

	// returned in execution order regardless of file order.
	if trades[0].Security.Symbol != "VOO" || trades[0].Quantity != 5 {
		t.Errorf("trades[0] = %s qty %d, want the january VOO buy", trades[0].Security.Symbol, trades[0].Quantity)
	}
	if trades[1].Security.Symbol != "ESM4" {
		t.Errorf("trades[1].Security.Symbol = %q, want ESM4", trades[1].Security.Symbol)
	}
	if trades[2].Quantity != -3 {
		t.Errorf("trades[2].Quantity = %d, want -3", trades[2].Quantity)
	}

	buy := trades[0]
	if buy.Security.Kind != Stock {
		t.Errorf("kind = %v, want Stock", buy.Security.Kind)
	}
	if buy.Security.Multiplier != 1 {
		t.Errorf("multiplier defaults to %d, want 1", buy.Security.Multiplier)
	}
	if buy.TradeTime != time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC) {
		t.Errorf("TradeTime = %s", buy.TradeTime)
	}
	if buy.SettleDate != date.New(2024, 1, 12) {
		t.Errorf("SettleDate = %s", buy.SettleDate)
	}
	if !buy.Price.Amount().Equal(decimal.RequireFromString("432.50")) {
		t.Errorf("Price = %s, want 432.50", buy.Price)
	}
	if !buy.FeePerUnit.Amount().Equal(decimal.RequireFromString("0.24")) {
		t.Errorf("FeePerUnit = %s, want 0.24", buy.FeePerUnit)
	}

	future := trades[1]
	if future.Security.Kind != Futures || future.Security.Multiplier != 50 {
		t.Errorf("future parsed as %v x%d", future.Security.Kind, future.Security.Multiplier)
	}
	if future.Security.ContractID != "551601533" {
		t.Errorf("ContractID = %q", future.Security.ContractID)
	}
}

func TestImportTrades_Errors(t *testing.T) {
	cases := []struct {
		name string
		line string
	}{
		{"bad json", `{"symbol":"VOO","kind":`},
		{"unknown kind", `{"symbol":"VOO","kind":"swap","traded":"2024-01-10T15:00:00Z","settled":"2024-01-12","quantity":5,"price":"1","fee":"0","currency":"USD"}`},
		{"bad price", `{"symbol":"VOO","kind":"stock","traded":"2024-01-10T15:00:00Z","settled":"2024-01-12","quantity":5,"price":"abc","fee":"0","currency":"USD"}`},
		{"zero quantity", `{"symbol":"VOO","kind":"stock","traded":"2024-01-10T15:00:00Z","settled":"2024-01-12","quantity":0,"price":"1","fee":"0","currency":"USD"}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := ImportTrades(strings.NewReader(c.line + "\n")); err == nil {
				t.Error("ImportTrades() accepted a malformed line")
			}
		})
	}
}

func TestExportClosingRecords(t *testing.T) {
	trades, err := ImportTrades(strings.NewReader(tradesJSONL))
	if err != nil {
		t.Fatalf("ImportTrades() failed: %v", err)
	}
	m, err := MatchTrades(trades)
	if err != nil {
		t.Fatalf("MatchTrades() failed: %v", err)
	}

	var out strings.Builder
	if err := ExportClosingRecords(&out, m.ClosingRecords()); err != nil {
		t.Fatalf("ExportClosingRecords() failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[0] != "group,symbol,kind,traded,settled,quantity,price,fee,currency" {
		t.Errorf("header = %q", lines[0])
	}
	// the VOO sale closes part of the lot: one fragment plus one summary row.
	if len(lines) != 3 {
		t.Fatalf("got %d rows %q, want header plus 2", len(lines)-1, lines)
	}
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, "1,VOO,stock,") {
			t.Errorf("row %q does not belong to group 1", line)
		}
	}
}
