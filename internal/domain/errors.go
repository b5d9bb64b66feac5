package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409
)

var (
	ErrInvalidQuantity       = fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	ErrInvalidDeliveryDate   = fmt.Errorf("%w: delivery date is missing or in the past", ErrValidation)
	ErrInvalidShippingMethod = fmt.Errorf("%w: unknown shipping method", ErrValidation)
	ErrProfileMissing        = fmt.Errorf("%w: shipping profile not found", ErrValidation)
	ErrEmptyCart             = fmt.Errorf("%w: cart is empty", ErrValidation)

	ErrPartNotFound  = fmt.Errorf("%w: part", ErrNotFound)
	ErrOrderNotFound = fmt.Errorf("%w: order", ErrNotFound)

	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrConflict)
	ErrOrderCodeConflict = fmt.Errorf("%w: could not allocate a unique order code", ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: order already settled with another status", ErrConflict)
)

// ErrOrderCodeTaken is returned by the store when a candidate order code is in use.
// Callers draw a new code; it never reaches the HTTP layer.
var ErrOrderCodeTaken = errors.New("order code taken")

type ProfileIncompleteError struct {
	Fields []string
}

func (e *ProfileIncompleteError) Error() string {
	return "validation: shipping profile is missing " + strings.Join(e.Fields, ", ")
}

func (e *ProfileIncompleteError) Unwrap() error {
	return ErrValidation
}
