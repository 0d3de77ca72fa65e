package investments

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/qk4l/investments/date"
)

// this file contains the canonical trade handoff format: the statement
// parser (the ingestion collaborator) produces it, this package consumes it.
// It is a JSONL file, one trade per line, human readable and easy to diff.

// jtrade is the object read from the file using the json parser.
type jtrade struct {
	Symbol      string      `json:"symbol"`
	Kind        string      `json:"kind"`
	ISIN        string      `json:"isin,omitempty"`
	Multiplier  int64       `json:"multiplier,omitempty"`
	ContractID  string      `json:"contract,omitempty"`
	Exchange    string      `json:"exchange,omitempty"`
	Description string      `json:"description,omitempty"`
	Traded      time.Time   `json:"traded"`
	Settled     date.Date   `json:"settled"`
	Quantity    int64       `json:"quantity"`
	Price       json.Number `json:"price"`
	Fee         json.Number `json:"fee"`
	Currency    string      `json:"currency"`
}

// ImportTrades reads trades from 'r' in the canonical JSONL handoff format,
// one JSON object per line, and returns them stably sorted by execution
// time. Deduplication and symbol-to-instrument resolution are the
// producer's responsibility, not this reader's.
func ImportTrades(r io.Reader) ([]Trade, error) {
	var trades []Trade

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}

		var jt jtrade
		if err := json.Unmarshal(raw, &jt); err != nil {
			return nil, fmt.Errorf("format error on line %d: %q: %w", line, string(raw), err)
		}

		kind, err := ParseSecurityKind(jt.Kind)
		if err != nil {
			return nil, fmt.Errorf("format error on line %d: %w", line, err)
		}
		price, err := ParseMoney(jt.Price.String(), jt.Currency)
		if err != nil {
			return nil, fmt.Errorf("format error on line %d: invalid price %q: %w", line, jt.Price, err)
		}
		fee, err := ParseMoney(jt.Fee.String(), jt.Currency)
		if err != nil {
			return nil, fmt.Errorf("format error on line %d: invalid fee %q: %w", line, jt.Fee, err)
		}
		if jt.Multiplier == 0 {
			jt.Multiplier = 1
		}

		sec := Security{
			Symbol:      jt.Symbol,
			Kind:        kind,
			ISIN:        jt.ISIN,
			Multiplier:  jt.Multiplier,
			ContractID:  jt.ContractID,
			Exchange:    jt.Exchange,
			Description: jt.Description,
		}
		trade, err := NewTrade(sec, jt.Traded, jt.Settled, jt.Quantity, price, fee)
		if err != nil {
			return nil, fmt.Errorf("invalid trade on line %d: %w", line, err)
		}
		trades = append(trades, trade)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// the matcher requires chronological order per security; a stable sort
	// preserves the statement order of same-instant fills.
	sort.SliceStable(trades, func(i, j int) bool { return trades[i].TradeTime.Before(trades[j].TradeTime) })
	return trades, nil
}

// ExportClosingRecords writes closing records to 'w' as CSV, one row per
// record, grouped rows sharing their group number.
func ExportClosingRecords(w io.Writer, records []ClosingRecord) error {
	cw := csv.NewWriter(w)
	header := []string{"group", "symbol", "kind", "traded", "settled", "quantity", "price", "fee", "currency"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.Group),
			r.Security.Symbol,
			r.Security.Kind.String(),
			r.TradeTime.Format(time.RFC3339),
			r.SettleDate.String(),
			strconv.FormatInt(r.Quantity, 10),
			r.Price.Amount().String(),
			r.Fee.Amount().String(),
			r.Price.Currency(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
