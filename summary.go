package moneymanager

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Summary holds the running totals of the account.
//
// Balance and NetTotal share the same derivation, CreditTotal - DebitTotal,
// and must be equal after every successful operation.
type Summary struct {
	Name        string
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
	NetTotal    decimal.Decimal
	Balance     decimal.Decimal
}

// NewSummary returns a zero summary for the account name.
func NewSummary(name string) Summary {
	return Summary{
		Name:        name,
		DebitTotal:  decimal.Zero,
		CreditTotal: decimal.Zero,
		NetTotal:    decimal.Zero,
		Balance:     decimal.Zero,
	}
}

// Debit returns the summary after an expense of amount.
func (s Summary) Debit(amount decimal.Decimal) Summary {
	s.DebitTotal = s.DebitTotal.Add(amount)
	s.Balance = s.Balance.Sub(amount)
	s.NetTotal = s.NetTotal.Sub(amount)
	return s
}

// Credit returns the summary after an income of amount.
func (s Summary) Credit(amount decimal.Decimal) Summary {
	s.CreditTotal = s.CreditTotal.Add(amount)
	s.Balance = s.Balance.Add(amount)
	s.NetTotal = s.NetTotal.Add(amount)
	return s
}

// Apply returns the summary after the record. Transfers leave it unchanged.
func (s Summary) Apply(r Record) Summary {
	switch r.Kind {
	case Debit:
		return s.Debit(r.Amount)
	case Credit:
		return s.Credit(r.Amount)
	default:
		return s
	}
}

// Replay computes the summary of an account out of its debit and credit logs.
func Replay(name string, debits, credits []Record) Summary {
	s := NewSummary(name)
	for _, r := range debits {
		s = s.Debit(r.Amount)
	}
	for _, r := range credits {
		s = s.Credit(r.Amount)
	}
	return s
}

// Equal reports whether both summaries have the same name and amounts.
func (s Summary) Equal(o Summary) bool {
	return s.Name == o.Name &&
		s.DebitTotal.Equal(o.DebitTotal) &&
		s.CreditTotal.Equal(o.CreditTotal) &&
		s.NetTotal.Equal(o.NetTotal) &&
		s.Balance.Equal(o.Balance)
}

// Consistent reports whether balance and net total both equal credits minus debits.
func (s Summary) Consistent() bool {
	want := s.CreditTotal.Sub(s.DebitTotal)
	return s.Balance.Equal(want) && s.NetTotal.Equal(want)
}

// MarshalJSON implements the json.Marshaler interface for Summary.
func (s Summary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("name", s.Name)
	w.Append("debitTotal", s.DebitTotal)
	w.Append("creditTotal", s.CreditTotal)
	w.Append("netTotal", s.NetTotal)
	w.Append("balance", s.Balance)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Summary.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var temp struct {
		Name        string          `json:"name"`
		DebitTotal  decimal.Decimal `json:"debitTotal"`
		CreditTotal decimal.Decimal `json:"creditTotal"`
		NetTotal    decimal.Decimal `json:"netTotal"`
		Balance     decimal.Decimal `json:"balance"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*s = Summary(temp)
	return nil
}
