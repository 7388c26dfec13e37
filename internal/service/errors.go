package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDepositRate is returned for a deposit rate outside 30/50/100.
	ErrInvalidDepositRate = errors.New("deposit rate must be 30, 50 or 100")
	// ErrUnknownPaymentMethod is returned for a channel not in the configuration.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	// ErrInvalidCredentials is returned for a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError describes rejected input. The message is actionable and is
// surfaced verbatim to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AmountMismatchError is returned when the reported payment amount does not
// equal the amount due exactly. Both values are surfaced so the customer can
// correct the submission.
type AmountMismatchError struct {
	ExpectedCents int64
	ActualCents   int64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("amount mismatch: expected PHP %.2f, got PHP %.2f",
		float64(e.ExpectedCents)/100, float64(e.ActualCents)/100)
}
