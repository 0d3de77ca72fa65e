// Package renderer renders matching and tax-report results as markdown.
package renderer

import (
	"fmt"
	"strings"
	"time"

	"github.com/qk4l/investments"
)

// TaxReportMarkdown renders the realized gains report: one table of
// realized-gain events and one table of per-year totals in the base
// currency.
func TaxReportMarkdown(report *investments.TaxReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Realized Capital Gains (%s)\n\n", report.BaseCurrency)

	fmt.Fprint(&b, "## Closed Trades\n\n")
	fmt.Fprintln(&b, "| # | Security | Opened | Closed | Qty | Proceeds | Cost | Gain |")
	fmt.Fprintln(&b, "|---:|:---|:---|:---|---:|---:|---:|---:|")
	for _, g := range report.Gains {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %d | %s | %s | %s |\n",
			g.Group,
			g.Security.Symbol,
			g.OpenDate,
			g.CloseDate,
			g.Quantity,
			g.Proceeds,
			g.Cost,
			g.Gain.SignedString(),
		)
	}
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Per Year\n\n")
	fmt.Fprintln(&b, "| Year | Proceeds | Cost | Gain |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, y := range report.Years {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", y.Year, y.Proceeds, y.Cost, y.Gain.SignedString())
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** |\n", report.Total.SignedString())

	return b.String()
}

// PortfolioMarkdown renders the open positions left after matching.
func PortfolioMarkdown(portfolio []investments.PortfolioElement) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Open Positions\n\n")
	if len(portfolio) == 0 {
		fmt.Fprintln(&b, "No open positions.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Security | Kind | Qty | Avg Price |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|")
	for _, p := range portfolio {
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", p.Security.Symbol, p.Security.Kind, p.Quantity, p.AveragePrice)
	}
	return b.String()
}

// ClosingRecordsMarkdown renders the raw closing records, one row per leg,
// grouped rows sharing a group number.
func ClosingRecordsMarkdown(records []investments.ClosingRecord) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Closing Records\n\n")
	fmt.Fprintln(&b, "| Group | Security | Traded | Settled | Qty | Price | Fee |")
	fmt.Fprintln(&b, "|---:|:---|:---|:---|---:|---:|---:|")
	for _, r := range records {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %d | %s | %s |\n",
			r.Group,
			r.Security.Symbol,
			r.TradeTime.Format(time.DateOnly),
			r.SettleDate,
			r.Quantity,
			r.Price,
			r.Fee,
		)
	}
	return b.String()
}
