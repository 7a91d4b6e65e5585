package service

import "errors"

var (
	// ErrZoneNotFound is the lookup miss: a trip references a location code
	// absent from location_lookup.
	ErrZoneNotFound = errors.New("zone not found")

	// ErrEmptyBatch is returned when a trip file holds no rows, so no month
	// can be derived.
	ErrEmptyBatch = errors.New("empty trip batch")

	// ErrNoStagedTrips is returned when reconciliation finds nothing staged
	// for the month it was asked to rank.
	ErrNoStagedTrips = errors.New("no staged trips")

	// ErrMonthBehindHistory is returned when a month older than the newest
	// history month is reconciled. Later months were diffed against the
	// stored rows and would silently disagree with a rewrite.
	ErrMonthBehindHistory = errors.New("month is older than recorded history")
)
