// Package renderer turns account summaries and statements into markdown
// documents and charts.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/moneymanager"
	md "github.com/nao1215/markdown"
)

// OverviewMarkdown renders the account summary.
func OverviewMarkdown(s moneymanager.Summary, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Account %s", s.Name))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{
			md.Bold("Balance"),
			md.Bold(money(s.Balance, currency)),
		},
		Rows: [][]string{
			{"Income", money(s.CreditTotal, currency)},
			{"Expenses", money(s.DebitTotal, currency)},
			{"Net Total", money(s.NetTotal, currency)},
		},
	})
	return doc.String()
}
