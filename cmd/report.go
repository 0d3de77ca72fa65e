package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/qk4l/investments"
	"github.com/qk4l/investments/renderer"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	csvFile string
	records bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "realized capital gains report in the base currency" }
func (*reportCmd) Usage() string {
	return `itr report [-csv <file>] [-records]

  Matches the trade stream, converts every closed trade to the base
  currency (price at settlement date, fees at trade date) and displays
  realized gains per closed trade and per year.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csvFile, "csv", "", "Also export the raw closing records to this CSV file")
	f.BoolVar(&c.records, "records", false, "Display the raw closing records instead of the gains summary")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	trades, err := LoadTrades()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	matcher, err := investments.MatchTrades(trades)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error matching trades: %v\n", err)
		return subcommands.ExitFailure
	}

	records := matcher.ClosingRecords()
	if c.csvFile != "" {
		out, err := os.Create(c.csvFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.csvFile, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		if err := investments.ExportClosingRecords(out, records); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.csvFile, err)
			return subcommands.ExitFailure
		}
	}

	if c.records {
		printMarkdown(renderer.ClosingRecordsMarkdown(records))
		return subcommands.ExitSuccess
	}

	resolver, err := NewResolver()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	report, err := investments.BuildTaxReport(records, resolver)
	if err != nil {
		// a missing rate aborts the whole report: partial tax figures are
		// worse than no figures.
		fmt.Fprintf(os.Stderr, "Error building report: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.TaxReportMarkdown(report))
	return subcommands.ExitSuccess
}
