package moneymanager

import (
	"encoding/json"

	"github.com/etnz/moneymanager/date"
	"github.com/shopspring/decimal"
)

// Record is one immutable entry of a transaction log.
//
// The amount is always positive: the sign is implied by the log it belongs
// to. Kind is explicit in the statement log and implied by the file or table
// in the type specific logs.
type Record struct {
	ID       string          // ID is unique across all logs, it links a statement entry to its type log entry.
	Kind     Kind            // Kind of the transaction.
	Amount   decimal.Decimal // Amount is positive.
	Date     date.Date       // Date the transaction took place on, as entered.
	Category string          // Category is a free text label.
	Note     string          // Note is an optional free text.
}

// NewRecord creates a record without an ID.
func NewRecord(kind Kind, amount decimal.Decimal, on date.Date, category, note string) Record {
	return Record{Kind: kind, Amount: amount, Date: on, Category: category, Note: note}
}

// Equal reports whether both records hold the same values.
func (r Record) Equal(o Record) bool {
	return r.ID == o.ID && r.Kind == o.Kind && r.Amount.Equal(o.Amount) && r.Date == o.Date &&
		r.Category == o.Category && r.Note == o.Note
}

// Signed returns the amount with the sign of its effect on the balance.
func (r Record) Signed() decimal.Decimal {
	switch r.Kind {
	case Debit:
		return r.Amount.Neg()
	case Credit:
		return r.Amount
	default:
		return decimal.Zero
	}
}

// MarshalJSON implements the json.Marshaler interface for Record.
func (r Record) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", r.ID)
	w.Append("date", r.Date)
	w.Append("amount", r.Amount)
	w.Optional("kind", r.Kind)
	w.Append("category", r.Category)
	w.Optional("note", r.Note)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Record.
func (r *Record) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID       string          `json:"id"`
		Date     date.Date       `json:"date"`
		Amount   decimal.Decimal `json:"amount"`
		Kind     string          `json:"kind"`
		Category string          `json:"category"`
		Note     string          `json:"note"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	var kind Kind
	if temp.Kind != "" {
		k, err := ParseKind(temp.Kind)
		if err != nil {
			return err
		}
		kind = k
	}
	*r = Record{
		ID:       temp.ID,
		Kind:     kind,
		Amount:   temp.Amount,
		Date:     temp.Date,
		Category: temp.Category,
		Note:     temp.Note,
	}
	return nil
}
