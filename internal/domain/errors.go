package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidCategory is returned when a category is not one of the
	// known category slugs.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidPriority is returned when a priority is not one of the
	// known priority levels.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidRecurrence is returned when a recurrence rule is malformed,
	// for example an unknown kind or a field outside its allowed range.
	ErrInvalidRecurrence = errors.New("invalid recurrence rule")

	// ErrInvalidDate is returned when a calendar date or month string
	// cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)
