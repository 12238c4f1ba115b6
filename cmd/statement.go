package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/moneymanager"
	"github.com/etnz/moneymanager/date"
	"github.com/etnz/moneymanager/renderer"
	"github.com/google/subcommands"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type statementCmd struct {
	kind  string
	from  string
	to    string
	html  bool
	json  bool
	query string
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "list every recorded transaction" }
func (*statementCmd) Usage() string {
	return `mm statement [-kind <kind>] [-from <date>] [-to <date>] [-html|-json|-q <jsonpath>]

Lists the recorded transactions in the order they were recorded, with the
running balance.

With -kind, lists only the debit, credit or transfer log.
With -json, prints the transactions as a JSON array.
With -q, prints the result of a JSONPath query on that array, for instance:

  mm statement -q '$[?(@.category=="Food")].amount'

`
}

func (c *statementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "", "Only list this kind of transaction: debit, credit or transfer")
	f.StringVar(&c.from, "from", "", "Only list transactions on or after this date (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", "", "Only list transactions on or before this date (YYYY-MM-DD)")
	f.BoolVar(&c.html, "html", false, "Print the statement as HTML")
	f.BoolVar(&c.json, "json", false, "Print the statement as JSON")
	f.StringVar(&c.query, "q", "", "JSONPath query to run on the JSON statement")
}

// period returns the range selected by -from and -to.
func (c *statementCmd) period() (date.Range, error) {
	var r date.Range
	var err error
	if c.from != "" {
		if r.From, err = date.Parse(c.from); err != nil {
			return r, err
		}
	}
	if c.to != "" {
		if r.To, err = date.Parse(c.to); err != nil {
			return r, err
		}
	}
	return r, nil
}

func (c *statementCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "Error: statement takes no arguments")
		return subcommands.ExitUsageError
	}
	period, err := c.period()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	var kind moneymanager.Kind
	if c.kind != "" {
		if kind, err = moneymanager.ParseKind(c.kind); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	return withSession(ctx, func(s *session) subcommands.ExitStatus {
		var records []moneymanager.Record
		if kind == "" {
			records, err = s.ledger.Statement(ctx)
		} else {
			records, err = s.ledger.Records(ctx, kind)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading the statement: %v\n", err)
			return subcommands.ExitFailure
		}
		records = filter(records, period)

		switch {
		case c.query != "":
			err = query(stdout, records, c.query)
		case c.json:
			err = printJSON(stdout, records)
		case c.html:
			err = toHTML(stdout, renderer.StatementMarkdown(records, s.cfg.Account.Currency))
		default:
			printMarkdown(renderer.StatementMarkdown(records, s.cfg.Account.Currency))
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	})
}

// filter keeps the records in r, keeping their order.
func filter(records []moneymanager.Record, r date.Range) []moneymanager.Record {
	if r.IsZero() {
		return records
	}
	kept := make([]moneymanager.Record, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.Date) {
			kept = append(kept, rec)
		}
	}
	return kept
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// query evaluates a JSONPath expression on the JSON form of records.
func query(w io.Writer, records []moneymanager.Record, path string) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	result, err := jsonpath.Get(path, doc)
	if err != nil {
		return fmt.Errorf("invalid query %q: %w", path, err)
	}
	return printJSON(w, result)
}

// toHTML converts markdown with tables into HTML.
func toHTML(w io.Writer, md string) error {
	var buf bytes.Buffer
	if err := goldmark.New(goldmark.WithExtensions(extension.GFM)).Convert([]byte(md), &buf); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
