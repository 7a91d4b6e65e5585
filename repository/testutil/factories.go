package testutil

import (
	"taxietl/models"
)

// CreateTestTrips returns count identical trips for one pair
func CreateTestTrips(month, pickUp, dropOff string, count int) []models.TripEvent {
	trips := make([]models.TripEvent, 0, count)
	for i := 0; i < count; i++ {
		trips = append(trips, models.TripEvent{
			Month:          month,
			PickUp:         pickUp,
			DropOff:        dropOff,
			PassengerCount: 1,
		})
	}
	return trips
}

// CreateTestHistory returns a history record
func CreateTestHistory(month, pickUp, dropOff string, rank int) models.HistoryRecord {
	return models.HistoryRecord{
		Month:   month,
		PickUp:  pickUp,
		DropOff: dropOff,
		Rank:    rank,
	}
}

// CreateTestZones returns a small slice of the TLC zone lookup
func CreateTestZones() []models.Zone {
	return []models.Zone{
		{LocationID: "7", Borough: "Queens", Zone: "Astoria", ServiceZone: "Boro Zone"},
		{LocationID: "74", Borough: "Manhattan", Zone: "East Harlem North", ServiceZone: "Boro Zone"},
		{LocationID: "75", Borough: "Manhattan", Zone: "East Harlem South", ServiceZone: "Boro Zone"},
		{LocationID: "129", Borough: "Queens", Zone: "Jackson Heights", ServiceZone: "Boro Zone"},
	}
}
