package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of these so callers can
// classify with errors.Is instead of matching on messages.
var (
	ErrValidation   = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("not authorized")
	ErrStore        = errors.New("store failure")
)

var (
	ErrInvalidAmount   = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidType     = fmt.Errorf("%w: unknown transaction type", ErrValidation)
	ErrInvalidCategory = fmt.Errorf("%w: unknown category", ErrValidation)
	ErrInvalidMonth    = fmt.Errorf("%w: month must be between 1 and 12", ErrValidation)
	ErrMissingDate     = fmt.Errorf("%w: date is required", ErrValidation)
	ErrMissingOwner    = fmt.Errorf("%w: owner id is required", ErrValidation)
	ErrNoteTooLong     = fmt.Errorf("%w: note exceeds 500 characters", ErrValidation)

	ErrOwnerNotFound       = fmt.Errorf("%w: owner", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("%w: transaction", ErrNotFound)

	ErrNotOwner = fmt.Errorf("%w: transaction belongs to another owner", ErrUnauthorized)
)
