package schedule

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/field-planner/internal/model"
)

func entry(id string, src model.Source, typ model.POIType, start string) model.ScheduleEntry {
	e := model.ScheduleEntry{
		ID:                id,
		Source:            src,
		POI:               model.POI{ID: id, Name: id, Type: typ, BaseExposure: 100},
		Date:              "2026-03-01",
		StartTime:         start,
		EstimatedExposure: 50,
		Status:            model.StatusPlanned,
	}
	if src == model.SourceManual {
		e.Manual = &model.ManualDetail{Title: id}
	}
	return e
}

func starts(entries []model.ScheduleEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.StartTime
	}
	return out
}

func TestViewMergesByStartTime(t *testing.T) {
	entries := []model.ScheduleEntry{
		entry("b1", model.SourceBaseline, model.TypeSubway, "09:00"),
		entry("b2", model.SourceBaseline, model.TypeMarket, "11:00"),
		entry("m1", model.SourceManual, model.TypeOther, "10:00"),
	}
	got := View(entries, Filter{Category: All, Slot: All})
	if diff := cmp.Diff([]string{"09:00", "10:00", "11:00"}, starts(got)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestViewIsStableForEqualStarts(t *testing.T) {
	entries := []model.ScheduleEntry{
		entry("first", model.SourceBaseline, model.TypeSubway, "09:00"),
		entry("second", model.SourceRecommended, model.TypeBus, "09:00"),
	}
	got := View(entries, Filter{})
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
}

func TestViewNormalizesManual(t *testing.T) {
	m := entry("m1", model.SourceManual, model.TypeSubway, "10:00")
	m.EstimatedExposure = 99

	got := View([]model.ScheduleEntry{m}, Filter{})
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].EstimatedExposure)
	assert.Equal(t, m.POI, got[0].POI, "only the exposure is normalized")
	assert.Equal(t, model.CategoryManual, got[0].Category())
	assert.Equal(t, 99, m.EstimatedExposure, "input must not be mutated")
}

func TestViewFilters(t *testing.T) {
	entries := []model.ScheduleEntry{
		entry("subway", model.SourceBaseline, model.TypeSubway, "09:00"),
		entry("bus", model.SourceRecommended, model.TypeBus, "18:00"),
		entry("market", model.SourceBaseline, model.TypeMarket, "13:00"),
		entry("memo", model.SourceManual, model.TypeOther, "09:30"),
	}

	transit, err := ParseFilter("transit", "")
	require.NoError(t, err)
	got := View(entries, transit)
	require.Len(t, got, 2)
	for _, e := range got {
		assert.Equal(t, model.CategoryTransit, e.Category())
	}

	morning, err := ParseFilter("ALL", "morning")
	require.NoError(t, err)
	got = View(entries, morning)
	assert.Equal(t, []string{"09:00", "09:30"}, starts(got))

	manual, err := ParseFilter("manual", "all")
	require.NoError(t, err)
	got = View(entries, manual)
	require.Len(t, got, 1)
	assert.Equal(t, "memo", got[0].ID)

	// filtering is a subset of the unfiltered view
	all := View(entries, Filter{Category: All, Slot: All})
	assert.Len(t, all, len(entries))
}

func TestParseFilterRejectsUnknown(t *testing.T) {
	_, err := ParseFilter("stadium", "")
	assert.Error(t, err)
	_, err = ParseFilter("", "dawn")
	assert.Error(t, err)
}

func TestPartition(t *testing.T) {
	view := View([]model.ScheduleEntry{
		entry("a", model.SourceBaseline, model.TypeSubway, "09:00"),
		entry("b", model.SourceBaseline, model.TypeSubway, "11:00"),
		entry("c", model.SourceBaseline, model.TypeSubway, "14:00"),
	}, Filter{})

	s := Partition(view, "10:15")
	require.NotNil(t, s.Next)
	assert.Equal(t, "b", s.Next.ID)
	assert.Equal(t, []string{"14:00"}, starts(s.Remaining))
	assert.Equal(t, 3, s.Total)

	s = Partition(view, "11:00")
	require.NotNil(t, s.Next)
	assert.Equal(t, "b", s.Next.ID)

	s = Partition(view, "20:00")
	assert.Nil(t, s.Next)
	assert.Empty(t, s.Remaining)
}

func TestSeniorExcludesManual(t *testing.T) {
	s := Senior([]model.ScheduleEntry{
		entry("m", model.SourceManual, model.TypeOther, "08:00"),
		entry("b", model.SourceBaseline, model.TypeSubway, "09:00"),
		entry("r", model.SourceRecommended, model.TypeBus, "12:00"),
	}, "07:00")

	require.NotNil(t, s.Next)
	assert.Equal(t, "b", s.Next.ID)
	require.Len(t, s.Remaining, 1)
	assert.Equal(t, "r", s.Remaining[0].ID)
	assert.Equal(t, 2, s.Total)
}
