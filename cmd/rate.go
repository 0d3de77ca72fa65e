package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/qk4l/investments/date"
)

// rateCmd holds the flags for the 'rate' subcommand.
type rateCmd struct {
	on string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "exchange rate of a currency on a date" }
func (*rateCmd) Usage() string {
	return `itr rate [-d <date>] <currency>

  Displays the conversion rate of a currency to the source's base currency
  on the given date, forward-filled from the last published observation.

Usage Examples:
# Rate of the US dollar today.
$ itr rate USD

# Rate of the euro on a past date.
$ itr rate -d 2024-03-15 EUR
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.on, "d", date.Today().String(), "Date of the rate")
}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one currency code")
		return subcommands.ExitUsageError
	}
	currency := f.Arg(0)

	on, err := date.Parse(c.on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	resolver, err := NewResolver()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	rate, err := resolver.GetRate(currency, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("1 %s = %s %s on %s\n", currency, rate, resolver.BaseCurrency(), on)
	return subcommands.ExitSuccess
}
