package investments

import "testing"

func TestSecurityID_IgnoresDisplayFields(t *testing.T) {
	a := Security{
		Symbol:      "AAPL",
		Kind:        Stock,
		ISIN:        "US0378331005",
		Multiplier:  1,
		ContractID:  "265598",
		Exchange:    "NASDAQ",
		Description: "APPLE INC",
	}
	// same instrument listed under a different symbol and venue label.
	b := a
	b.Symbol = "AAPL.OLD"
	b.Exchange = "ISLAND"
	b.Description = ""

	if a.ID() != b.ID() {
		t.Errorf("identity differs on display-only fields: %+v vs %+v", a.ID(), b.ID())
	}

	c := a
	c.Multiplier = 100
	if a.ID() == c.ID() {
		t.Error("identity must include the contract multiplier")
	}
	d := a
	d.ContractID = "999"
	if a.ID() == d.ID() {
		t.Error("identity must include the broker contract id")
	}
}

func TestSecurityKind_Ordering(t *testing.T) {
	ranked := []SecurityKind{Stock, Option, Futures, Bond, Forex, Rdr, Index, Gdr}
	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].Compare(ranked[i]) >= 0 {
			t.Errorf("%s should rank before %s", ranked[i-1], ranked[i])
		}
	}
	if Stock.Compare(Stock) != 0 {
		t.Error("a kind must compare equal to itself")
	}
}

func TestParseSecurityKind(t *testing.T) {
	for _, kind := range []SecurityKind{Stock, Option, Futures, Bond, Forex, Rdr, Index, Gdr} {
		parsed, err := ParseSecurityKind(kind.String())
		if err != nil {
			t.Errorf("ParseSecurityKind(%q) failed: %v", kind, err)
		}
		if parsed != kind {
			t.Errorf("ParseSecurityKind(%q) = %v, want %v", kind, parsed, kind)
		}
	}
	if _, err := ParseSecurityKind("warrant"); err == nil {
		t.Error("ParseSecurityKind(unknown) expected an error")
	}
}
