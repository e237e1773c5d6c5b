// Package schedule merges baseline, recommended and manual entries into one
// ordered, filterable view.
package schedule

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/rcliao/field-planner/internal/exposure"
	"github.com/rcliao/field-planner/internal/model"
)

// All matches every category or slot.
const All = "all"

// Filter selects entries by coarse category and time slot.
type Filter struct {
	Category string // "all" or a model.Category
	Slot     string // "all" or a model.Slot
}

// ParseFilter validates user supplied filter values. Empty means all.
func ParseFilter(category, slot string) (Filter, error) {
	f := Filter{Category: strings.ToLower(strings.TrimSpace(category)), Slot: strings.ToLower(strings.TrimSpace(slot))}
	if f.Category == "" {
		f.Category = All
	}
	if f.Slot == "" {
		f.Slot = All
	}
	if f.Category != All && !model.ValidCategories[model.Category(f.Category)] {
		return Filter{}, errors.Errorf("unknown category %q", category)
	}
	if f.Slot != All && !model.ValidSlots[model.Slot(f.Slot)] {
		return Filter{}, errors.Errorf("unknown time slot %q", slot)
	}
	return f, nil
}

// Match reports whether e passes the filter.
func (f Filter) Match(e model.ScheduleEntry) bool {
	if f.Category != "" && f.Category != All && string(e.Category()) != f.Category {
		return false
	}
	if f.Slot != "" && f.Slot != All && string(exposure.TimeSlot(e.StartTime)) != f.Slot {
		return false
	}
	return true
}

// Normalize returns a copy of entries where manual entries carry no exposure.
func Normalize(entries []model.ScheduleEntry) []model.ScheduleEntry {
	out := make([]model.ScheduleEntry, len(entries))
	for i, e := range entries {
		if e.Source == model.SourceManual {
			e.EstimatedExposure = 0
		}
		out[i] = e
	}
	return out
}

// View normalizes, filters and stably sorts entries by start time.
// Start times are zero-padded so string order is chronological.
func View(entries []model.ScheduleEntry, f Filter) []model.ScheduleEntry {
	norm := Normalize(entries)
	out := make([]model.ScheduleEntry, 0, len(norm))
	for _, e := range norm {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// Split is the simplified presentation of a sorted view.
type Split struct {
	Next      *model.ScheduleEntry  `json:"next"`
	Remaining []model.ScheduleEntry `json:"remaining"`
	Total     int                   `json:"total"`
}

// Partition picks the first entry at or after current as next and keeps the
// later ones as remaining. Earlier entries are left out of the split.
func Partition(view []model.ScheduleEntry, current string) Split {
	s := Split{Remaining: []model.ScheduleEntry{}, Total: len(view)}
	for i := range view {
		if view[i].StartTime < current {
			continue
		}
		next := view[i]
		s.Next = &next
		s.Remaining = append(s.Remaining, view[i+1:]...)
		break
	}
	return s
}

// Senior builds the large-font home view: only baseline and recommended
// entries, sorted and partitioned around current.
func Senior(entries []model.ScheduleEntry, current string) Split {
	auto := make([]model.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		if e.Source != model.SourceManual {
			auto = append(auto, e)
		}
	}
	return Partition(View(auto, Filter{Category: All, Slot: All}), current)
}
