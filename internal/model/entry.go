package model

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Source tags where a schedule entry came from.
type Source string

const (
	SourceBaseline    Source = "baseline"
	SourceRecommended Source = "recommended"
	SourceManual      Source = "manual"
)

// Status is the progress of a schedule entry.
type Status string

const (
	StatusPlanned Status = "planned"
	StatusStarted Status = "started"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
)

// ErrInvalidTransition is returned when a status change is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusSkipped
}

// Active reports whether the entry still awaits a visit.
func (s Status) Active() bool {
	return s == StatusPlanned || s == StatusStarted
}

// Transition returns the status reached by moving from s to next.
// planned -> started -> done, planned -> done (through started), planned -> skipped.
func (s Status) Transition(next Status) (Status, error) {
	switch {
	case s == StatusPlanned && (next == StatusStarted || next == StatusDone || next == StatusSkipped):
		return next, nil
	case s == StatusStarted && next == StatusDone:
		return next, nil
	}
	return s, errors.Wrapf(ErrInvalidTransition, "%s -> %s", s, next)
}

// ManualDetail carries the user-entered fields of a manual entry.
type ManualDetail struct {
	Title        string       `json:"title"`
	LocationName string       `json:"location_name,omitempty"`
	Address      string       `json:"address,omitempty"`
	Location     *Coordinates `json:"location,omitempty"`
	Color        string       `json:"color,omitempty"`
	Memo         string       `json:"memo,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ScheduleEntry is one planned field visit. Manual is set iff Source is SourceManual.
type ScheduleEntry struct {
	ID                string        `json:"id"`
	Source            Source        `json:"source"`
	POI               POI           `json:"poi"`
	Date              string        `json:"date"`
	StartTime         string        `json:"start_time"`
	EndTime           string        `json:"end_time,omitempty"`
	EstimatedExposure int           `json:"estimated_exposure"`
	Status            Status        `json:"status"`
	Manual            *ManualDetail `json:"manual,omitempty"`
}

// Category returns the coarse category the entry is filtered under.
func (e ScheduleEntry) Category() Category {
	switch e.Source {
	case SourceManual:
		return CategoryManual
	default:
		return e.POI.Type.Category()
	}
}

// Target returns the coordinates a visit must be verified against.
// Manual entries only have a target when the user pinned one.
func (e ScheduleEntry) Target() (Coordinates, bool) {
	switch e.Source {
	case SourceManual:
		if e.Manual == nil || e.Manual.Location == nil {
			return Coordinates{}, false
		}
		return *e.Manual.Location, true
	default:
		return e.POI.Location, true
	}
}

// DisplayName is the name shown in notifications and visit records.
func (e ScheduleEntry) DisplayName() string {
	if e.Source == SourceManual && e.Manual != nil {
		if e.Manual.LocationName != "" {
			return e.Manual.LocationName
		}
		return e.Manual.Title
	}
	return e.POI.Name
}

// ValidationError reports a malformed entry at the input boundary.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Validate checks the shape invariants of an entry.
func (e ScheduleEntry) Validate() error {
	switch e.Source {
	case SourceBaseline, SourceRecommended:
		if e.Manual != nil {
			return &ValidationError{Field: "manual", Msg: "only manual entries carry manual detail"}
		}
	case SourceManual:
		if e.Manual == nil || e.Manual.Title == "" {
			return &ValidationError{Field: "title", Msg: "required"}
		}
		if e.EstimatedExposure != 0 {
			return &ValidationError{Field: "estimated_exposure", Msg: "must be 0 for manual entries"}
		}
	default:
		return &ValidationError{Field: "source", Msg: fmt.Sprintf("unknown source %q", e.Source)}
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return &ValidationError{Field: "date", Msg: fmt.Sprintf("%q is not YYYY-MM-DD", e.Date)}
	}
	start, err := ParseClock(e.StartTime)
	if err != nil {
		return &ValidationError{Field: "start_time", Msg: err.Error()}
	}
	if e.EndTime != "" {
		end, err := ParseClock(e.EndTime)
		if err != nil {
			return &ValidationError{Field: "end_time", Msg: err.Error()}
		}
		if end < start {
			return &ValidationError{Field: "end_time", Msg: "before start_time"}
		}
	}
	if e.EstimatedExposure < 0 {
		return &ValidationError{Field: "estimated_exposure", Msg: "negative"}
	}
	return nil
}

// VisitRecord is a confirmed visit. Unique per (ScheduleEntryID, Date).
type VisitRecord struct {
	ScheduleEntryID string    `json:"schedule_entry_id"`
	POIName         string    `json:"poi_name"`
	Category        Category  `json:"category"`
	Date            string    `json:"date"`
	VisitedAt       time.Time `json:"visited_at"`
}
