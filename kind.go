package moneymanager

import (
	"fmt"
	"strings"
)

// Kind identifies the log a transaction belongs to.
type Kind string

// Transaction kinds, as stored in the statement log.
const (
	Debit    Kind = "Debit"    // an expense, decreases the balance.
	Credit   Kind = "Credit"   // an income, increases the balance.
	Transfer Kind = "Transfer" // moves money to an untracked place, balance unchanged.
)

// Kinds returns all transaction kinds in display order.
func Kinds() []Kind { return []Kind{Debit, Credit, Transfer} }

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case Debit, Credit, Transfer:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// ParseKind parses a kind name, ignoring case.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(strings.TrimSpace(s), string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
