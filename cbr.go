package investments

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/qk4l/investments/date"
	"github.com/shopspring/decimal"
)

// cbrURL is the endpoint of the Bank of Russia dynamic rates feed.
const cbrURL = "http://www.cbr.ru/scripts/XML_dynamic.asp"

// cbrCodes maps ISO 4217 currency codes to the bank's internal series ids.
var cbrCodes = map[string]string{
	"AUD": "R01010",
	"GBP": "R01035",
	"HKD": "R01200",
	"CAD": "R01350",
	"CNY": "R01375",
	"USD": "R01235",
	"EUR": "R01239",
	"CHF": "R01775",
	"JPY": "R01820",
	"KZT": "R01335",
	"TRY": "R01700J",
}

// CBRSource fetches historical exchange rates against the Russian rouble
// from the Bank of Russia feed: one XML request per currency covering a
// configured start year through the requested end of the window. Rates are
// quoted in roubles per unit of foreign currency.
type CBRSource struct {
	yearFrom int
	baseURL  string
	client   *http.Client
}

// NewCBRSource returns a source fetching observations from the given year on.
func NewCBRSource(yearFrom int) *CBRSource {
	return &CBRSource{yearFrom: yearFrom, baseURL: cbrURL, client: newClient()}
}

func (s *CBRSource) Name() string         { return "cbr" }
func (s *CBRSource) BaseCurrency() string { return "RUB" }
func (s *CBRSource) Quotation() Quotation { return QuoteInBase }

// CacheKey ignores the requested date: one request covers the whole series.
func (s *CBRSource) CacheKey(currency string, _ date.Date) string {
	return fmt.Sprintf("cbrates_%s_since%d.cache", currency, s.yearFrom)
}

// cbrRecord is one <Record> of the feed. The decimal separator of <Value>
// is a comma; normalizing it is this source's responsibility.
type cbrRecord struct {
	Date  string `xml:"Date,attr"`
	ID    string `xml:"Id,attr"`
	Value string `xml:"Value"`
}

type cbrResponse struct {
	Records []cbrRecord `xml:"Record"`
}

// Fetch retrieves the full (date, rate) history of the currency, from the
// configured start year through 'until'.
func (s *CBRSource) Fetch(currency string, _, until date.Date) ([]Observation, error) {
	code, ok := cbrCodes[currency]
	if !ok {
		return nil, &RateError{Currency: currency}
	}

	addr := fmt.Sprintf("%s?date_req1=01/01/%d&date_req2=%s&VAL_NM_RQ=%s",
		s.baseURL, s.yearFrom, until.Format("02/01/2006"), code)
	body, err := wget(s.client, addr)
	if err != nil {
		return nil, &FetchError{Source: s.Name(), Currency: currency, Err: err}
	}

	decoder := xml.NewDecoder(bytes.NewReader(body))
	// the feed declares windows-1251; every field we read is plain ASCII,
	// so the bytes can pass through undecoded.
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }

	var response cbrResponse
	if err := decoder.Decode(&response); err != nil {
		return nil, &FetchError{Source: s.Name(), Currency: currency, Err: err}
	}

	observations := make([]Observation, 0, len(response.Records))
	for _, record := range response.Records {
		if record.ID != code {
			return nil, &FetchError{Source: s.Name(), Currency: currency,
				Err: fmt.Errorf("unexpected series id %q in record, want %q", record.ID, code)}
		}
		on, err := time.Parse("02.01.2006", record.Date)
		if err != nil {
			return nil, &FetchError{Source: s.Name(), Currency: currency,
				Err: fmt.Errorf("invalid record date %q: %w", record.Date, err)}
		}
		rate, err := decimal.NewFromString(strings.ReplaceAll(record.Value, ",", "."))
		if err != nil {
			return nil, &FetchError{Source: s.Name(), Currency: currency,
				Err: fmt.Errorf("invalid rate %q on %s: %w", record.Value, record.Date, err)}
		}
		observations = append(observations, Observation{Date: date.FromTime(on), Rate: rate})
	}
	return observations, nil
}
