package models

import (
	"time"
)

// RawTrip is one row of the green taxi trip file as published by the TLC.
// Only the columns the pipeline consumes are decoded.
type RawTrip struct {
	PickupDatetime time.Time `csv:"lpep_pickup_datetime"`
	PickupZoneID   string    `csv:"PULocationID"`
	DropOffZoneID  string    `csv:"DOLocationID"`
	PassengerCount *float64  `csv:"passenger_count,omitempty"`
}

// TripEvent is a normalized trip as stored in staging_table.
type TripEvent struct {
	Month          string `db:"month"`
	PickUp         string `db:"pick_up"`
	DropOff        string `db:"drop_off"`
	PassengerCount int    `db:"passenger_count"`
}

// PairKey identifies a (pickup, drop-off) zone pair.
type PairKey struct {
	PickUp  string
	DropOff string
}

func (t TripEvent) Pair() PairKey {
	return PairKey{PickUp: t.PickUp, DropOff: t.DropOff}
}
