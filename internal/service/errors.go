package service

import "errors"

var (
	// ErrDiscountNotFound is returned when a discount cannot be found
	ErrDiscountNotFound = errors.New("discount not found")

	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrValidation is returned when a discount would violate a catalog invariant.
	// It is wrapped with the offending field.
	ErrValidation = errors.New("discount validation failed")

	// ErrUsageLimitReached is returned when recording a usage would exceed max_uses
	ErrUsageLimitReached = errors.New("discount usage limit reached")

	// ErrUsageNotFound is returned when cancelling a usage that was never recorded
	ErrUsageNotFound = errors.New("discount usage not found")

	// ErrDiscountInUse is returned when deleting a discount that has been used
	ErrDiscountInUse = errors.New("discount has recorded usages and cannot be deleted")
)
