// Command itr computes realized capital gains from a trade stream for tax
// reporting.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/qk4l/investments/cmd"
)

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion handles shell completion requests and exits if one is pending.
func completion() {
	sharedFlags := map[string]complete.Predictor{
		"trades":    predict.Files("*.jsonl"),
		"source":    predict.Set{"cbr", "hmrc"},
		"year-from": predict.Nothing,
		"cache-dir": predict.Dirs("*"),
		"cache-ttl": predict.Nothing,
	}
	c := &complete.Command{
		Flags: sharedFlags,
		Sub: map[string]*complete.Command{
			"report": {Flags: map[string]complete.Predictor{
				"csv":     predict.Files("*.csv"),
				"records": predict.Nothing,
			}},
			"portfolio": {},
			"rate": {Flags: map[string]complete.Predictor{
				"d": predict.Nothing,
			}},
		},
	}
	c.Complete("itr")
}
