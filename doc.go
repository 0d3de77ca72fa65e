// Package investments computes realized capital gains and losses from a
// chronological stream of buy/sell trades, for tax reporting.
//
// The core functionalities include:
//   - Tax-Lot Matching: closing trades are matched against prior opening
//     trades on a strict first-in-first-out basis, with partial fills,
//     producing grouped closing records and the remaining open positions.
//   - Cost Basis: fee-inclusive cost and proceeds arithmetic on exact
//     decimal money values.
//   - Exchange Rates: a date-indexed, multi-currency rate resolution layer
//     that fetches historical rates from a pluggable source (a central-bank
//     feed or a tax-authority feed), forward-fills calendar gaps, and caches
//     the resulting daily series on disk.
//   - Tax Report: closing records expressed in the configured base currency,
//     valuing the price leg at the settlement date and the fee leg at the
//     trade date, aggregated per calendar year.
//
// This package serves as the foundational logic for the `itr` command-line
// tool. Parsing of broker statements into trade records is a separate
// concern: trades enter this package already resolved and ordered, through
// the canonical JSONL import format.
package investments
