package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/moneymanager/renderer"
	"github.com/google/subcommands"
)

type chartCmd struct {
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "draw the balance over time as a PNG image" }
func (*chartCmd) Usage() string {
	return `mm chart [-o <file.png>]

Draws the end of day balance for every day with a debit or a credit.
At least two days are needed.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "balance.png", "Output file")
}

func (c *chartCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		records, err := s.ledger.Statement(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading the statement: %v\n", err)
			return subcommands.ExitFailure
		}
		png, err := renderer.BalanceChart(renderer.BalanceSeries(records), s.cfg.Account.Currency)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error drawing the chart: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(c.output, png, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "Chart written to %s\n", c.output)
		return subcommands.ExitSuccess
	})
}
