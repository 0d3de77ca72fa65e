package investments

import (
	"sort"

	"github.com/qk4l/investments/date"
	"github.com/samber/lo"
)

// RealizedGain is one realized-gain event expressed in the base currency:
// a group of closing records reduced to fee-inclusive cost, proceeds and
// gain figures for the tax report.
type RealizedGain struct {
	Group    int
	Security Security

	// OpenDate is the settlement date of the oldest consumed lot; CloseDate
	// is the settlement date of the closing trade.
	OpenDate  date.Date
	CloseDate date.Date

	// Quantity is the absolute quantity closed by the event.
	Quantity int64

	// Proceeds is the disposal value net of the closing fees; Cost is the
	// acquisition value including the opening fees. Both are in the base
	// currency: the price leg of every record is converted at its
	// settlement date, the fee leg at its trade date.
	Proceeds Money
	Cost     Money
	Gain     Money
}

// TaxYear aggregates the realized-gain events whose closing trade settled
// in one calendar year.
type TaxYear struct {
	Year     int
	Proceeds Money
	Cost     Money
	Gain     Money
}

// TaxReport is the realized capital gains report for one base currency.
type TaxReport struct {
	BaseCurrency string
	Gains        []RealizedGain
	Years        []TaxYear
	Total        Money
}

// BuildTaxReport converts every closing-record group into base-currency
// cost, proceeds and gain figures. Rate resolution failures abort the whole
// report: omitting affected trades would silently misstate the tax figures.
func BuildTaxReport(records []ClosingRecord, resolver *Resolver) (*TaxReport, error) {
	base := resolver.BaseCurrency()
	report := &TaxReport{BaseCurrency: base}

	groups := lo.GroupBy(records, func(r ClosingRecord) int { return r.Group })
	numbers := lo.Keys(groups)
	sort.Ints(numbers)

	years := make(map[int]*TaxYear)
	for _, n := range numbers {
		group := groups[n]

		gain := RealizedGain{
			Group:    n,
			Security: group[0].Security,
			OpenDate: group[0].SettleDate,
		}
		for _, r := range group {
			// signed cash flow of the leg: positive is money out.
			price, err := resolver.ConvertToBase(r.Price.Mul(r.Quantity), r.SettleDate)
			if err != nil {
				return nil, err
			}
			fee, err := resolver.ConvertToBase(r.Fee, date.FromTime(r.TradeTime))
			if err != nil {
				return nil, err
			}
			flow := price.Add(fee)
			if flow.IsNegative() {
				gain.Proceeds = gain.Proceeds.Add(flow.Neg())
			} else {
				gain.Cost = gain.Cost.Add(flow)
			}
		}

		// the last record of a group is the closing trade's own summary leg.
		summary := group[len(group)-1]
		gain.CloseDate = summary.SettleDate
		gain.Quantity = abs(summary.Quantity)
		gain.Gain = gain.Proceeds.Sub(gain.Cost)
		report.Gains = append(report.Gains, gain)

		y := years[gain.CloseDate.Year()]
		if y == nil {
			y = &TaxYear{Year: gain.CloseDate.Year()}
			years[gain.CloseDate.Year()] = y
		}
		y.Proceeds = y.Proceeds.Add(gain.Proceeds)
		y.Cost = y.Cost.Add(gain.Cost)
		y.Gain = y.Gain.Add(gain.Gain)

		report.Total = report.Total.Add(gain.Gain)
	}

	for _, y := range years {
		report.Years = append(report.Years, *y)
	}
	sort.Slice(report.Years, func(i, j int) bool { return report.Years[i].Year < report.Years[j].Year })

	if report.Total.Currency() == "" {
		report.Total = M(0, base)
	}
	return report, nil
}
