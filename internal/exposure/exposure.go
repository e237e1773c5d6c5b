// Package exposure estimates how many people a POI visit reaches.
package exposure

import (
	"math"
	"time"

	"github.com/rcliao/field-planner/internal/model"
)

// TimeSlot classifies an "HH:MM" clock. Unparseable clocks fall into night.
//
//	[06:00,12:00) morning, [12:00,17:00) noon, [17:00,21:00) evening, otherwise night.
func TimeSlot(hhmm string) model.Slot {
	m, err := model.ParseClock(hhmm)
	if err != nil {
		return model.SlotNight
	}
	return slotOfHour(m / 60)
}

// SlotAt classifies the wall clock of t.
func SlotAt(t time.Time) model.Slot {
	return slotOfHour(t.Hour())
}

func slotOfHour(h int) model.Slot {
	switch {
	case h >= 6 && h < 12:
		return model.SlotMorning
	case h >= 12 && h < 17:
		return model.SlotNoon
	case h >= 17 && h < 21:
		return model.SlotEvening
	default:
		return model.SlotNight
	}
}

// Of returns floor(baseExposure * accessibility * weight) for the slot of hhmm.
// The catalog guarantees a non-negative base and accessibility within [0, 1].
func Of(poi model.POI, hhmm string) int {
	v := poi.BaseExposure * poi.Accessibility * poi.TimeWeights.Weight(TimeSlot(hhmm))
	if v <= 0 {
		return 0
	}
	return int(math.Floor(v))
}
