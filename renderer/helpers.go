package renderer

import (
	"bytes"
	"io"

	"github.com/etnz/moneymanager"
	"github.com/shopspring/decimal"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// money formats an amount in the account currency.
func money(amount decimal.Decimal, currency string) string {
	return moneymanager.FormatMoney(amount, currency)
}

// signed formats the effect of a record on the balance, transfers have none.
func signed(r moneymanager.Record, currency string) string {
	if r.Kind == moneymanager.Transfer {
		return money(r.Amount, currency)
	}
	return moneymanager.M(r.Signed(), currency).SignedString()
}
