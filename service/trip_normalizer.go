package service

import (
	"fmt"
	"math"

	"taxietl/models"
)

// NormalizedBatch is a trip file in the staging schema together with the
// months the later stages work on.
type NormalizedBatch struct {
	Trips         []models.TripEvent
	CurrentMonth  models.Month
	PreviousMonth models.Month

	// Imputed counts rows whose passenger_count was missing.
	Imputed            int
	MeanPassengerCount float64
}

// Normalize converts raw trips to staging rows. Every row gets the batch's
// mode month, missing passenger counts get the batch mean, and zone codes
// are replaced by names from zones. A code missing from zones fails the whole
// batch with ErrZoneNotFound.
func Normalize(raw []models.RawTrip, zones map[string]string) (*NormalizedBatch, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyBatch
	}

	month := modeMonth(raw)
	mean := meanPassengerCount(raw)
	monthText := month.String()

	batch := &NormalizedBatch{
		Trips:              make([]models.TripEvent, 0, len(raw)),
		CurrentMonth:       month,
		PreviousMonth:      month.Previous(),
		MeanPassengerCount: mean,
	}

	for i, r := range raw {
		pickUp, ok := zones[models.NormalizeZoneCode(r.PickupZoneID)]
		if !ok {
			return nil, fmt.Errorf("%w: pickup location %q on row %d", ErrZoneNotFound, r.PickupZoneID, i+1)
		}
		dropOff, ok := zones[models.NormalizeZoneCode(r.DropOffZoneID)]
		if !ok {
			return nil, fmt.Errorf("%w: drop-off location %q on row %d", ErrZoneNotFound, r.DropOffZoneID, i+1)
		}

		count := mean
		if present(r.PassengerCount) {
			count = *r.PassengerCount
		} else {
			batch.Imputed++
		}

		batch.Trips = append(batch.Trips, models.TripEvent{
			Month:          monthText,
			PickUp:         pickUp,
			DropOff:        dropOff,
			PassengerCount: toCount(count),
		})
	}

	return batch, nil
}

// modeMonth returns the most frequent pickup month. Ties go to the month
// seen first.
func modeMonth(raw []models.RawTrip) models.Month {
	counts := make(map[models.Month]int)
	var order []models.Month
	for _, r := range raw {
		m := models.MonthOf(r.PickupDatetime)
		if counts[m] == 0 {
			order = append(order, m)
		}
		counts[m]++
	}

	best := order[0]
	for _, m := range order[1:] {
		if counts[m] > counts[best] {
			best = m
		}
	}
	return best
}

// meanPassengerCount averages the present counts; 0 when none are present.
func meanPassengerCount(raw []models.RawTrip) float64 {
	var sum float64
	var n int
	for _, r := range raw {
		if present(r.PassengerCount) {
			sum += *r.PassengerCount
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// toCount truncates toward zero and clamps at zero.
func toCount(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(v)
}
