package models

import "errors"

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrAlreadyCancelled       = errors.New("order has already been cancelled or fulfilled")
	ErrForbidden              = errors.New("actor does not own this order in the claimed role")
	ErrInvalidTimestamp       = errors.New("current time precedes order placement time")
	ErrConflictingPayment     = errors.New("order already settled with a different payment id")
	ErrOrderNotPayable        = errors.New("order is no longer payable")
	ErrInvalidSignature       = errors.New("payment signature verification failed")
	ErrCancellationInProgress = errors.New("another cancellation for this order is in progress")
)
