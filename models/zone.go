package models

import (
	"math"
	"strconv"
	"strings"
)

// Zone is a row of the TLC taxi zone lookup.
type Zone struct {
	LocationID  string `csv:"LocationID" db:"location_id"`
	Borough     string `csv:"Borough" db:"borough"`
	Zone        string `csv:"Zone" db:"zone"`
	ServiceZone string `csv:"service_zone" db:"service_zone"`
}

// ZoneNames maps normalized location codes to zone names.
func ZoneNames(zones []Zone) map[string]string {
	names := make(map[string]string, len(zones))
	for _, z := range zones {
		names[NormalizeZoneCode(z.LocationID)] = z.Zone
	}
	return names
}

// NormalizeZoneCode maps "7", " 7 " and "7.0" to the same lookup key.
func NormalizeZoneCode(code string) string {
	code = strings.TrimSpace(code)
	if f, err := strconv.ParseFloat(code, 64); err == nil && f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return code
}
