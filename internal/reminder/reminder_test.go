package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/field-planner/internal/model"
)

type captureFeed struct {
	items []model.Notification
}

func (f *captureFeed) Push(n model.Notification) model.Notification {
	f.items = append(f.items, n)
	return n
}

func entry(id string, src model.Source, st model.Status) model.ScheduleEntry {
	e := model.ScheduleEntry{ID: id, Source: src, Status: st, POI: model.POI{Name: "Stop " + id}}
	if src == model.SourceManual {
		e.Manual = &model.ManualDetail{Title: id}
	}
	return e
}

func TestAnnounceFansOutPerEntry(t *testing.T) {
	f := &captureFeed{}
	n := New(f, 0, nil)

	pushed := n.Announce([]model.ScheduleEntry{entry("a", model.SourceBaseline, model.StatusPlanned)})
	assert.Equal(t, DefaultCount, pushed)
	require.Len(t, f.items, 3)
	assert.Equal(t, "Are you at Stop a? Please verify your location. (1/3)", f.items[0].Message)
	assert.Equal(t, "Are you at Stop a? Please verify your location. (3/3)", f.items[2].Message)
	for _, it := range f.items {
		assert.Equal(t, model.NotifyGPSVerify, it.Type)
	}
}

func TestAnnounceSkipsManualInactiveAndSeen(t *testing.T) {
	f := &captureFeed{}
	n := New(f, 2, nil)
	n.Seen("old")

	pushed := n.Announce([]model.ScheduleEntry{
		entry("manual", model.SourceManual, model.StatusPlanned),
		entry("done", model.SourceBaseline, model.StatusDone),
		entry("skipped", model.SourceRecommended, model.StatusSkipped),
		entry("old", model.SourceBaseline, model.StatusPlanned),
		entry("rec", model.SourceRecommended, model.StatusStarted),
	})
	assert.Equal(t, 2, pushed)
	assert.Equal(t, []string{"old", "rec"}, n.Announced())

	assert.Equal(t, 0, n.Announce([]model.ScheduleEntry{entry("rec", model.SourceRecommended, model.StatusPlanned)}))
}
