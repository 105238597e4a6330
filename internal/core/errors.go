package core

import "errors"

var (
	// ErrInvalidRange is returned when a report range has a missing, unparseable or inverted bound.
	ErrInvalidRange = errors.New("invalid date range")

	ErrItemNotFound    = errors.New("item not found")
	ErrInvalidItem     = errors.New("invalid item")
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownStatus   = errors.New("unknown freshness status")

	// ErrNoActiveLoad is returned by operations that work on the current load before anything was loaded.
	ErrNoActiveLoad = errors.New("no inventory loaded")
)
