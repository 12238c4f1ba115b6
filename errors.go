package moneymanager

import (
	"errors"

	"github.com/etnz/moneymanager/date"
)

var (
	// ErrInvalidAmount is returned for a non-positive or unparseable amount.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNotInitialized is returned by a Store when no account summary exists yet.
	ErrNotInitialized = errors.New("account not initialized")

	// ErrStorageUnavailable wraps every storage failure. The operation that
	// returned it is not applied and can be retried as a whole.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNoteTooLong is returned when a note exceeds MaxNoteLength characters.
	ErrNoteTooLong = errors.New("note too long")

	// ErrUnknownKind is returned when parsing an unknown transaction kind.
	ErrUnknownKind = errors.New("unknown transaction kind")

	// ErrInvalidDate is returned for out of range date components.
	ErrInvalidDate = date.ErrInvalid
)
