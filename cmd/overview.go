package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/moneymanager/renderer"
	"github.com/google/subcommands"
)

type overviewCmd struct{}

func (*overviewCmd) Name() string     { return "overview" }
func (*overviewCmd) Synopsis() string { return "display the account totals and balance" }
func (*overviewCmd) Usage() string {
	return `mm overview

Displays the debit and credit totals, the net total and the balance.
An account is initialized on first use.
`
}
func (*overviewCmd) SetFlags(*flag.FlagSet) {}

func (*overviewCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		summary, err := s.ledger.Overview(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading the overview: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.OverviewMarkdown(summary, s.cfg.Account.Currency))
		return subcommands.ExitSuccess
	})
}
