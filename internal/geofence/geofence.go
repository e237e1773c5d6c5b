// Package geofence confirms physical presence near a POI.
package geofence

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/rcliao/field-planner/internal/model"
)

const (
	// EarthRadiusKm is the mean Earth radius used by Haversine.
	EarthRadiusKm = 6371.0
	// DefaultRadiusKm is the geofence radius around a POI.
	DefaultRadiusKm = 1.0
)

// ErrNoCoordinates is returned for entries that have no verifiable location.
var ErrNoCoordinates = errors.New("entry has no coordinates to verify against")

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b model.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// Outcome is the verdict of a presence check.
type Outcome string

const (
	Verified Outcome = "verified"
	Failed   Outcome = "failed"
)

// Result is a presence verdict with the measured distance.
type Result struct {
	Outcome    Outcome           `json:"outcome"`
	DistanceKm float64           `json:"distance_km"`
	Position   model.Coordinates `json:"position"`
	Simulated  bool              `json:"simulated,omitempty"`
}

// Check compares here against the entry's target. Distances up to radiusKm verify.
func Check(entry model.ScheduleEntry, here model.Coordinates, radiusKm float64) (Result, error) {
	target, ok := entry.Target()
	if !ok {
		return Result{}, errors.Wrapf(ErrNoCoordinates, "entry %s", entry.ID)
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	d := Haversine(here, target)
	r := Result{Outcome: Failed, DistanceKm: d, Position: here}
	if d <= radiusKm {
		r.Outcome = Verified
	}
	return r, nil
}

// Reason classifies why a location could not be acquired.
type Reason string

const (
	ReasonPermissionDenied Reason = "permission_denied"
	ReasonTimeout          Reason = "timeout"
	ReasonUnavailable      Reason = "unavailable"
	ReasonUnsupported      Reason = "unsupported"
)

// LocationError reports a failed location acquisition. It never counts as verified.
type LocationError struct {
	Reason Reason
	Err    error
}

func (e *LocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("location %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("location %s", e.Reason)
}

func (e *LocationError) Unwrap() error { return e.Err }
