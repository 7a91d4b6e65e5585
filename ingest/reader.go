package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jszwec/csvutil"

	"taxietl/models"
)

// Timestamp layouts seen in TLC exports, tried in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006 03:04:05 PM",
	"2006-01-02 15:04",
}

func unmarshalTimestamp(data []byte, t *time.Time) error {
	s := strings.TrimSpace(string(data))
	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			*t = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// DecodeTrips reads every trip row from r. Columns other than the four the
// pipeline uses are ignored. The first malformed row aborts the read.
func DecodeTrips(r io.Reader) ([]models.RawTrip, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read trip header: %w", err)
	}
	dec.Register(unmarshalTimestamp)

	var trips []models.RawTrip
	for {
		var trip models.RawTrip
		if err := dec.Decode(&trip); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode trip row %d: %w", len(trips)+1, err)
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

// ReadTrips opens path and decodes it with DecodeTrips.
func ReadTrips(path string) ([]models.RawTrip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputMissing, err)
	}
	defer f.Close()
	return DecodeTrips(f)
}

// DecodeZones reads the TLC taxi zone lookup CSV.
func DecodeZones(r io.Reader) ([]models.Zone, error) {
	var zones []models.Zone
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read zone header: %w", err)
	}
	for {
		var z models.Zone
		if err := dec.Decode(&z); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode zone row %d: %w", len(zones)+1, err)
		}
		z.LocationID = strings.TrimSpace(z.LocationID)
		if z.LocationID == "" {
			continue
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// ReadZones opens path and decodes it with DecodeZones.
func ReadZones(path string) ([]models.Zone, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputMissing, err)
	}
	defer f.Close()
	return DecodeZones(f)
}
