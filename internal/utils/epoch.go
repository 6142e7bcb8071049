// Package utils provides small, generic helper functions used across
// different layers of the application. This file handles the wire format for
// dates: non-negative epoch-millisecond integers.
package utils

import (
	"errors"
	"strconv"
	"time"
)

// ErrBadEpochMillis is returned when a date parameter is not a non-negative
// epoch-millisecond integer.
var ErrBadEpochMillis = errors.New("must be a non-negative epoch-millisecond integer")

// ParseEpochMillis parses an optional epoch-millisecond query parameter.
// An empty string yields (nil, nil); anything that is not a non-negative
// integer yields ErrBadEpochMillis.
func ParseEpochMillis(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return nil, ErrBadEpochMillis
	}
	t := time.UnixMilli(n).UTC()
	return &t, nil
}

// EpochMillisToTime converts a non-negative epoch-millisecond value from a
// JSON body into a UTC time. Negative values yield ErrBadEpochMillis.
func EpochMillisToTime(n int64) (time.Time, error) {
	if n < 0 {
		return time.Time{}, ErrBadEpochMillis
	}
	return time.UnixMilli(n).UTC(), nil
}
