// Package services defines the business logic of the food-log aggregation
// core. This file centralizes common service-level error values so that they
// can be consistently returned by service methods and checked by callers.
//
// The sentinels form the error taxonomy of the core: validation errors
// (rejected before any store mutation), not-found errors, and storage errors
// (propagated with context by the operation that hit them). Translation into
// HTTP status codes happens at the handler layer.
package services

import "errors"

// Validation errors. All are checked before any store write occurs.
var (
	// ErrInvalidMealType is returned when a meal type is outside the closed
	// set {breakfast, lunch, dinner, snack}.
	ErrInvalidMealType = errors.New("meal type must be one of breakfast, lunch, dinner, snack")

	// ErrInvalidQuantity is returned when a quantity is outside [0.1, 100].
	ErrInvalidQuantity = errors.New("quantity must be between 0.1 and 100")

	// ErrNotesTooLong is returned when notes exceed 500 characters.
	ErrNotesTooLong = errors.New("notes must be at most 500 characters")

	// ErrEmptyBatch is returned when a bulk submission contains no items.
	ErrEmptyBatch = errors.New("bulk submission must contain at least one item")

	// ErrBatchTooLarge is returned when a bulk submission exceeds 20 items.
	ErrBatchTooLarge = errors.New("bulk submission must contain at most 20 items")

	// ErrDuplicateBatchMeal is returned when a bulk submission lists the same
	// meal twice; the update/create partition requires distinct meal IDs.
	ErrDuplicateBatchMeal = errors.New("bulk submission contains the same meal twice")

	// ErrInvalidDateRange is returned when a range query has startDate after
	// endDate.
	ErrInvalidDateRange = errors.New("start date must not be after end date")

	// ErrInvalidWindow is returned when a trend window (weeks or months) is
	// not a positive integer.
	ErrInvalidWindow = errors.New("trend window must be a positive integer")
)

// Not-found errors.
var (
	// ErrLogNotFound indicates that the requested food-log entry does not
	// exist.
	ErrLogNotFound = errors.New("food log entry not found")

	// ErrMealNotFound indicates that a referenced catalog meal does not
	// exist.
	ErrMealNotFound = errors.New("meal not found")
)
