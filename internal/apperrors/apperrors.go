// Package apperrors defines the recoverable failure kinds shared by the
// money, calculator and validation packages.
//
// Every failure is returned as an *Error value. Callers branch on the kind
// with errors.Is against the Err* sentinels or extract it with KindOf.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind identifies a class of validation failure.
type Kind string

const (
	// Amount shape.
	InvalidAmount   Kind = "InvalidAmount"
	AmountTooLarge  Kind = "AmountTooLarge"
	TooManyDecimals Kind = "TooManyDecimals"

	// Split resolution.
	InvalidSplitType Kind = "InvalidSplitType"
	NoParticipants   Kind = "NoParticipants"
	NoPartsAssigned  Kind = "NoPartsAssigned"
	InvalidParts     Kind = "InvalidParts"
	SplitSumMismatch Kind = "SplitSumMismatch"

	// Submission shape.
	InvalidDescription  Kind = "InvalidDescription"
	InvalidDate         Kind = "InvalidDate"
	InvalidGroup        Kind = "InvalidGroup"
	TooManyTags         Kind = "TooManyTags"
	TagTooLong          Kind = "TagTooLong"
	UnsupportedCurrency Kind = "UnsupportedCurrency"
	InvalidPayer        Kind = "InvalidPayer"
	RateUnavailable     Kind = "RateUnavailable"
)

// Error is a single failed rule. Message is meant to be shown to the user
// as-is; Field names the input that failed, when there is one.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is reports whether target is an *Error of the same kind. Sentinels match
// any error of their kind regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidAmount       = &Error{Kind: InvalidAmount}
	ErrAmountTooLarge      = &Error{Kind: AmountTooLarge}
	ErrTooManyDecimals     = &Error{Kind: TooManyDecimals}
	ErrInvalidSplitType    = &Error{Kind: InvalidSplitType}
	ErrNoParticipants      = &Error{Kind: NoParticipants}
	ErrNoPartsAssigned     = &Error{Kind: NoPartsAssigned}
	ErrInvalidParts        = &Error{Kind: InvalidParts}
	ErrSplitSumMismatch    = &Error{Kind: SplitSumMismatch}
	ErrInvalidDescription  = &Error{Kind: InvalidDescription}
	ErrInvalidDate         = &Error{Kind: InvalidDate}
	ErrInvalidGroup        = &Error{Kind: InvalidGroup}
	ErrTooManyTags         = &Error{Kind: TooManyTags}
	ErrTagTooLong          = &Error{Kind: TagTooLong}
	ErrUnsupportedCurrency = &Error{Kind: UnsupportedCurrency}
	ErrInvalidPayer        = &Error{Kind: InvalidPayer}
	ErrRateUnavailable     = &Error{Kind: RateUnavailable}
)

// New builds an *Error with a formatted message.
func New(kind Kind, field, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

// FieldOf returns the field of the first *Error in err's chain.
func FieldOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
