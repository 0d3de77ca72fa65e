// Package cmd implements the CLI application to compute realized capital
// gains from a trade stream.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/subcommands"
	"github.com/qk4l/investments"
)

// Register the subcommands.
// A main package calls Register() and then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reports")
	c.Register(&portfolioCmd{}, "reports")
	c.Register(&rateCmd{}, "rates")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

const cacheDirEnv = "INVESTMENTS_CACHE_DIR"

var tradesFile = flag.String("trades", "trades.jsonl", "Path to the trades file (JSONL format)")
var sourceName = flag.String("source", "cbr", "Exchange rate source: cbr (base RUB) or hmrc (base GBP)")
var yearFrom = flag.Int("year-from", 2000, "First year of rate history to request from the cbr source")
var cacheDir = flag.String("cache-dir", "", "Directory for cached rate series.\n If missing it will read the environment variable \""+cacheDirEnv+"\", then fall back to the user cache dir. Use \"none\" to disable.")
var cacheTTL = flag.Duration("cache-ttl", 24*time.Hour, "Time-to-live of cached rate series")

// LoadTrades reads the trade stream from the configured trades file.
func LoadTrades() ([]investments.Trade, error) {
	f, err := os.Open(*tradesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return investments.ImportTrades(f)
}

// NewResolver builds the exchange rate resolver from the configured source
// and cache settings.
func NewResolver() (*investments.Resolver, error) {
	var source investments.RateSource
	switch *sourceName {
	case "cbr":
		source = investments.NewCBRSource(*yearFrom)
	case "hmrc":
		source = investments.NewHMRCSource()
	default:
		return nil, fmt.Errorf("unknown rate source %q (want cbr or hmrc)", *sourceName)
	}
	cache := investments.NewCache(resolveCacheDir(), *cacheTTL)
	return investments.NewResolver(source, cache), nil
}

func resolveCacheDir() string {
	dir := *cacheDir
	if dir == "" {
		dir = os.Getenv(cacheDirEnv)
	}
	if dir == "" {
		if base, err := os.UserCacheDir(); err == nil {
			dir = filepath.Join(base, "investments")
		}
	}
	if dir == "none" {
		return ""
	}
	return dir
}
