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

type portfolioCmd struct{}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "open positions left after matching" }
func (*portfolioCmd) Usage() string {
	return `itr portfolio

  Matches the trade stream and displays the net open position of every
  security still holding unmatched quantity.
`
}

func (*portfolioCmd) SetFlags(*flag.FlagSet) {}

func (*portfolioCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	printMarkdown(renderer.PortfolioMarkdown(matcher.Portfolio()))
	return subcommands.ExitSuccess
}
