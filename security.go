package investments

import "fmt"

// SecurityKind is the closed set of instrument kinds handled by the matcher.
//
// The declared values are the ordinal ranking used when sorting securities of
// different kinds; they are part of the type's contract and must not be
// renumbered.
type SecurityKind int

const (
	Stock   SecurityKind = 1
	Option  SecurityKind = 2
	Futures SecurityKind = 3
	Bond    SecurityKind = 4
	Forex   SecurityKind = 5
	Rdr     SecurityKind = 6
	Index   SecurityKind = 7
	Gdr     SecurityKind = 8
)

func (k SecurityKind) String() string {
	switch k {
	case Stock:
		return "stock"
	case Option:
		return "option"
	case Futures:
		return "futures"
	case Bond:
		return "bond"
	case Forex:
		return "forex"
	case Rdr:
		return "rdr"
	case Index:
		return "index"
	case Gdr:
		return "gdr"
	default:
		return "unknown"
	}
}

// Compare orders kinds by their declared ranking. It returns a negative
// number, zero, or a positive number as k sorts before, equal to, or after o.
func (k SecurityKind) Compare(o SecurityKind) int { return int(k) - int(o) }

// ParseSecurityKind parses a string into a SecurityKind.
func ParseSecurityKind(s string) (SecurityKind, error) {
	switch s {
	case "stock":
		return Stock, nil
	case "option":
		return Option, nil
	case "futures":
		return Futures, nil
	case "bond":
		return Bond, nil
	case "forex":
		return Forex, nil
	case "rdr":
		return Rdr, nil
	case "index":
		return Index, nil
	case "gdr":
		return Gdr, nil
	default:
		return 0, fmt.Errorf("unknown security kind: %q", s)
	}
}

// Security is the full description of a tradable instrument.
//
// Only the fields captured by [Security.ID] define the instrument's identity.
// Symbol, Exchange and Description are display attributes: the same
// instrument may appear under different symbols across reporting periods,
// and two different instruments may reuse one symbol.
type Security struct {
	Symbol      string
	Kind        SecurityKind
	ISIN        string // security identifier, possibly empty
	Multiplier  int64  // contract multiplier, 1 for stocks
	ContractID  string // broker-internal contract identifier
	Exchange    string
	Description string
}

// SecurityID is the narrow identity of a security: the comparable key used
// for lot matching. Equality is defined over exactly these fields.
type SecurityID struct {
	Kind       SecurityKind
	ISIN       string
	Multiplier int64
	ContractID string
}

// ID returns the identity key of the security.
func (s Security) ID() SecurityID {
	return SecurityID{Kind: s.Kind, ISIN: s.ISIN, Multiplier: s.Multiplier, ContractID: s.ContractID}
}

func (s Security) String() string {
	if s.ISIN != "" {
		return fmt.Sprintf("%s %s (%s) %s", s.Symbol, s.ISIN, s.Kind, s.Exchange)
	}
	return fmt.Sprintf("%s (%s) %s", s.Symbol, s.Kind, s.Exchange)
}
