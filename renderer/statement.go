package renderer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/etnz/moneymanager"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// StatementMarkdown renders the statement log as a table with a running
// balance, in recording order.
func StatementMarkdown(records []moneymanager.Record, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Statement")

	if len(records) == 0 {
		doc.PlainText("No transaction recorded.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Date", "Kind", "Category", "Amount", "Balance", "Note"},
	}
	balance := decimal.Zero
	debits, credits, transfers := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range records {
		balance = balance.Add(r.Signed())
		switch r.Kind {
		case moneymanager.Debit:
			debits = debits.Add(r.Amount)
		case moneymanager.Credit:
			credits = credits.Add(r.Amount)
		case moneymanager.Transfer:
			transfers = transfers.Add(r.Amount)
		}
		table.Rows = append(table.Rows, []string{
			r.Date.String(),
			r.Kind.String(),
			r.Category,
			signed(r, currency),
			money(balance, currency),
			r.Note,
		})
	}
	doc.Table(table)

	doc.H2("Totals")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Kind", "Total"},
		Rows: [][]string{
			{"Income", money(credits, currency)},
			{"Expenses", money(debits, currency)},
			{"Transfers", money(transfers, currency)},
			{md.Bold("Balance"), md.Bold(money(balance, currency))},
		},
	})
	doc.Build()

	ConditionalBlock(&buf, func(w io.Writer) bool {
		var missing []string
		for _, r := range records {
			if !r.Date.Exists() {
				missing = append(missing, fmt.Sprintf("%s: %s %s", r.Date, r.Kind, money(r.Amount, currency)))
			}
		}
		if len(missing) == 0 {
			return false
		}
		fmt.Fprintln(w)
		section := md.NewMarkdown(w)
		section.H2("Dates not on the calendar")
		section.BulletList(missing...)
		section.Build()
		return true
	})

	return buf.String()
}
