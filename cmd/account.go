package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/renderer"
	"github.com/google/subcommands"
	toml "github.com/pelletier/go-toml/v2"
)

type resetCmd struct {
	name string
	yes  bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "erase every transaction and start over" }
func (*resetCmd) Usage() string {
	return `mm reset [-name <account>] [-yes]

Erases the debit, credit, transfer and statement logs and sets every total
to zero. With -name, the account is renamed.

This cannot be undone: unless -yes is given, you are asked to confirm.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "New account name, keeps the current one if empty")
	f.BoolVar(&c.yes, "yes", false, "Do not ask for confirmation")
}

// confirm asks the user to type yes.
func confirm(question string) bool {
	fmt.Fprintf(stdout, "%s [yes/no] ", question)
	answer, _ := bufio.NewReader(stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "yes" || answer == "y"
}

func (c *resetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		if !c.yes && !confirm(fmt.Sprintf("Erase every transaction of %q?", s.ledger.Account())) {
			fmt.Fprintln(stdout, "Reset cancelled.")
			return subcommands.ExitSuccess
		}
		summary, err := s.ledger.Reset(ctx, c.name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resetting the account: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.OverviewMarkdown(summary, s.cfg.Account.Currency))
		return subcommands.ExitSuccess
	})
}

type reconcileCmd struct{}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "repair the account after an interrupted write" }
func (*reconcileCmd) Usage() string {
	return `mm reconcile

Restores the statement entries missing from the debit, credit and transfer
logs, then recomputes the totals from the logs.

The account is reconciled every time it is opened, this command reports
what was repaired.
`
}
func (*reconcileCmd) SetFlags(*flag.FlagSet) {}

func (*reconcileCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runSession(ctx, true, func(s *session) subcommands.ExitStatus {
		rec, err := s.ledger.Reconcile(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reconciling the account: %v\n", err)
			return subcommands.ExitFailure
		}
		if !rec.Repaired() {
			fmt.Fprintln(stdout, "Account is consistent, nothing to repair.")
		} else {
			for _, repair := range rec.Repairs {
				fmt.Fprintf(stdout, "Repaired: %s\n", repair)
			}
			fmt.Fprintf(stdout, "Restored %d statement entries, summary repaired: %t\n", len(rec.RestoredStatements), rec.SummaryRepaired)
		}
		printMarkdown(renderer.OverviewMarkdown(rec.After, s.cfg.Account.Currency))
		return subcommands.ExitSuccess
	})
}

type categoriesCmd struct{}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list the transaction categories" }
func (*categoriesCmd) Usage() string {
	return `mm categories

Lists the categories offered for transactions. They are configured with
account.categories or MM_CATEGORIES.
`
}
func (*categoriesCmd) SetFlags(*flag.FlagSet) {}

func (*categoriesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading the configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	categories := cfg.Account.Categories
	if len(categories) == 0 {
		categories = moneymanager.DefaultCategories()
	}
	for _, c := range categories {
		fmt.Fprintln(stdout, c)
	}
	return subcommands.ExitSuccess
}

type configCmd struct{}

func (*configCmd) Name() string     { return "config" }
func (*configCmd) Synopsis() string { return "print the effective configuration" }
func (*configCmd) Usage() string {
	return `mm config

Prints the configuration in TOML, after files and MM_* variables are applied.
The password of storage.dsn is masked.
`
}
func (*configCmd) SetFlags(*flag.FlagSet) {}

func (*configCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading the configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	printed := *cfg
	printed.Storage.DSN = cfg.Storage.RedactedDSN()
	data, err := toml.Marshal(printed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding the configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	stdout.Write(data)
	return subcommands.ExitSuccess
}
