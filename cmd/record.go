package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/etnz/moneymanager/renderer"
	"github.com/google/subcommands"
)

// recordCmd records a debit, a credit or a transfer.
type recordCmd struct {
	kind     moneymanager.Kind
	on       string
	day      string
	month    string
	year     string
	category string
	note     string
}

func (c *recordCmd) Name() string { return strings.ToLower(c.kind.String()) }
func (c *recordCmd) Synopsis() string {
	switch c.kind {
	case moneymanager.Debit:
		return "record money spent"
	case moneymanager.Credit:
		return "record money received"
	default:
		return "record a transfer, the balance is unchanged"
	}
}
func (c *recordCmd) Usage() string {
	return fmt.Sprintf(`mm %s [-d <date>|-day <d> -month <m> -year <y>] [-c <category>] [-n <note>] <amount>

Records a %s of <amount> in the account.

The amount is a positive decimal number, commas are accepted as thousands
separators ("1,000.50"). The date defaults to today.

`, c.Name(), c.Name())
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.on, "d", "", "Date of the transaction (YYYY-MM-DD), today if empty")
	f.StringVar(&c.day, "day", "", "Day of the month, used with -month and -year")
	f.StringVar(&c.month, "month", "", "Month, by name (\"February\", \"feb\") or number")
	f.StringVar(&c.year, "year", "", "Year, defaults to the current year")
	f.StringVar(&c.category, "c", "", "Category of the transaction")
	f.StringVar(&c.note, "n", "", "Optional note")
}

// date returns the transaction date selected by the flags.
func (c *recordCmd) date() (date.Date, error) {
	if c.on != "" && (c.day != "" || c.month != "") {
		return date.Date{}, errors.New("-d cannot be combined with -day or -month")
	}
	if c.on != "" {
		return date.Parse(c.on)
	}
	if c.day == "" && c.month == "" && c.year == "" {
		return date.Today(), nil
	}
	year := c.year
	if year == "" {
		year = strconv.Itoa(date.Today().Year())
	}
	return date.ParseParts(c.day, c.month, year)
}

func (c *recordCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one <amount> argument is required")
		return subcommands.ExitUsageError
	}
	amount, err := moneymanager.ParseAmount(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := moneymanager.ValidateNote(c.note); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	on, err := c.date()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		var summary moneymanager.Summary
		switch c.kind {
		case moneymanager.Debit:
			summary, err = s.ledger.RecordDebit(ctx, amount, on, c.category, c.note)
		case moneymanager.Credit:
			summary, err = s.ledger.RecordCredit(ctx, amount, on, c.category, c.note)
		default:
			if err = s.ledger.RecordTransfer(ctx, amount, on, c.category, c.note); err == nil {
				summary, err = s.ledger.Overview(ctx)
			}
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error recording the %s: %v\n", c.kind, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "%s of %s recorded on %s\n\n", c.kind, moneymanager.FormatMoney(amount, s.cfg.Account.Currency), on)
		printMarkdown(renderer.OverviewMarkdown(summary, s.cfg.Account.Currency))
		return subcommands.ExitSuccess
	})
}
