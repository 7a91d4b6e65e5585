package models

import (
	"errors"
	"fmt"
)

// ErrInvalidRow is returned when a row breaks its table's static schema.
var ErrInvalidRow = errors.New("invalid row")

// Validate checks t against the staging_table schema.
func (t TripEvent) Validate() error {
	if _, err := ParseMonth(t.Month); err != nil {
		return fmt.Errorf("%w: trip month: %v", ErrInvalidRow, err)
	}
	if t.PickUp == "" || t.DropOff == "" {
		return fmt.Errorf("%w: trip %q -> %q has an empty zone", ErrInvalidRow, t.PickUp, t.DropOff)
	}
	if t.PassengerCount < 0 {
		return fmt.Errorf("%w: negative passenger count %d", ErrInvalidRow, t.PassengerCount)
	}
	return nil
}

// Validate checks r against the popular_destination_history schema.
func (r DestinationRank) Validate() error {
	if _, err := ParseMonth(r.Month); err != nil {
		return fmt.Errorf("%w: rank month: %v", ErrInvalidRow, err)
	}
	return CurrentMonthRecord{PickUp: r.PickUp, DropOff: r.DropOff, Rank: r.Rank}.Validate()
}

// Validate checks r against the popular_destination_current_month schema.
func (r CurrentMonthRecord) Validate() error {
	if r.PickUp == "" || r.DropOff == "" {
		return fmt.Errorf("%w: rank %q -> %q has an empty zone", ErrInvalidRow, r.PickUp, r.DropOff)
	}
	if r.Rank < 1 {
		return fmt.Errorf("%w: rank %d is not positive", ErrInvalidRow, r.Rank)
	}
	return nil
}
