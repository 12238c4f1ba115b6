package moneymanager

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxNoteLength is the maximum number of characters of a note.
const MaxNoteLength = 200

// DefaultCategories returns the categories offered when none is configured.
func DefaultCategories() []string {
	return []string{
		"Food",
		"Self Development",
		"Transportation",
		"Beauty",
		"Household",
		"Health",
		"Apparel",
		"Education",
		"Gift",
	}
}

// ParseAmount parses a user supplied amount. It accepts an optional thousands
// separator "," and rejects anything that is not a strictly positive number.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, s, err)
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Decimal{}, err
	}
	return d, nil
}

// ValidateAmount returns ErrInvalidAmount unless d is strictly positive.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidAmount, d.String())
	}
	return nil
}

// ValidateNote returns ErrNoteTooLong if the note has more than MaxNoteLength characters.
func ValidateNote(note string) error {
	if n := utf8.RuneCountInString(note); n > MaxNoteLength {
		return fmt.Errorf("%w: %d characters, at most %d", ErrNoteTooLong, n, MaxNoteLength)
	}
	return nil
}
