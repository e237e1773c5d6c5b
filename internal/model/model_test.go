package model

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	for _, bad := range []string{"", "9:30", "24:00", "12:60", "ab:cd", "12-30"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "07:05", FormatClock(425))
	assert.Equal(t, "18:42", ClockOf(time.Date(2026, 3, 1, 18, 42, 10, 0, time.UTC)))
}

func TestStatusTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusPlanned, StatusStarted},
		{StatusPlanned, StatusDone},
		{StatusPlanned, StatusSkipped},
		{StatusStarted, StatusDone},
	}
	for _, tc := range allowed {
		got, err := tc[0].Transition(tc[1])
		require.NoError(t, err, "%s -> %s", tc[0], tc[1])
		assert.Equal(t, tc[1], got)
	}

	rejected := [][2]Status{
		{StatusStarted, StatusSkipped},
		{StatusDone, StatusPlanned},
		{StatusSkipped, StatusDone},
		{StatusDone, StatusStarted},
	}
	for _, tc := range rejected {
		got, err := tc[0].Transition(tc[1])
		assert.True(t, errors.Is(err, ErrInvalidTransition), "%s -> %s", tc[0], tc[1])
		assert.Equal(t, tc[0], got)
	}
}

func TestCategoryMapping(t *testing.T) {
	assert.Equal(t, CategoryTransit, TypeSubway.Category())
	assert.Equal(t, CategoryTransit, TypeBus.Category())
	assert.Equal(t, CategoryShop, TypeMarket.Category())
	assert.Equal(t, CategoryPark, TypeFacility.Category())
	assert.Equal(t, CategoryPublic, TypeOther.Category())

	manual := ScheduleEntry{Source: SourceManual, POI: POI{Type: TypeSubway}}
	assert.Equal(t, CategoryManual, manual.Category())
}

func TestEntryTarget(t *testing.T) {
	loc := Coordinates{Lat: 37.5, Lng: 127.0}
	base := ScheduleEntry{Source: SourceBaseline, POI: POI{Location: loc}}
	got, ok := base.Target()
	assert.True(t, ok)
	assert.Equal(t, loc, got)

	manual := ScheduleEntry{Source: SourceManual, Manual: &ManualDetail{Title: "door to door"}}
	_, ok = manual.Target()
	assert.False(t, ok)

	manual.Manual.Location = &loc
	got, ok = manual.Target()
	assert.True(t, ok)
	assert.Equal(t, loc, got)
}

func TestValidate(t *testing.T) {
	valid := ScheduleEntry{Source: SourceBaseline, Date: "2026-03-01", StartTime: "09:00", EndTime: "10:00"}
	require.NoError(t, valid.Validate())

	cases := map[string]ScheduleEntry{
		"manual detail on baseline": {Source: SourceBaseline, Date: "2026-03-01", StartTime: "09:00", Manual: &ManualDetail{Title: "x"}},
		"manual without title":      {Source: SourceManual, Date: "2026-03-01", StartTime: "09:00", Manual: &ManualDetail{}},
		"manual with exposure":      {Source: SourceManual, Date: "2026-03-01", StartTime: "09:00", EstimatedExposure: 5, Manual: &ManualDetail{Title: "x"}},
		"bad date":                  {Source: SourceBaseline, Date: "03/01/2026", StartTime: "09:00"},
		"bad start":                 {Source: SourceBaseline, Date: "2026-03-01", StartTime: "9am"},
		"end before start":          {Source: SourceBaseline, Date: "2026-03-01", StartTime: "10:00", EndTime: "09:00"},
		"unknown source":            {Source: "imported", Date: "2026-03-01", StartTime: "09:00"},
	}
	for name, e := range cases {
		err := e.Validate()
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve), name)
	}
}

func TestDisplayName(t *testing.T) {
	e := ScheduleEntry{Source: SourceManual, POI: POI{Name: "ignored"}, Manual: &ManualDetail{Title: "Flyers"}}
	assert.Equal(t, "Flyers", e.DisplayName())
	e.Manual.LocationName = "Main St"
	assert.Equal(t, "Main St", e.DisplayName())

	assert.Equal(t, "Gangnam", ScheduleEntry{Source: SourceBaseline, POI: POI{Name: "Gangnam"}}.DisplayName())
}
