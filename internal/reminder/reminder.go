// Package reminder fans out location-verification prompts for active entries.
package reminder

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/rcliao/field-planner/internal/model"
)

// DefaultCount is how many prompts each entry receives.
const DefaultCount = 3

// Feed receives notifications.
type Feed interface {
	Push(n model.Notification) model.Notification
}

// Notifier pushes verification prompts once per entry.
type Notifier struct {
	feed      Feed
	count     int
	announced map[string]bool
	logger    *zap.Logger
}

// New returns a notifier pushing count prompts per entry into feed.
func New(feed Feed, count int, logger *zap.Logger) *Notifier {
	if count <= 0 {
		count = DefaultCount
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{feed: feed, count: count, announced: make(map[string]bool), logger: logger}
}

// Seen marks ids as already announced, e.g. after a restart.
func (n *Notifier) Seen(ids ...string) {
	for _, id := range ids {
		n.announced[id] = true
	}
}

// Announced returns the ids announced so far.
func (n *Notifier) Announced() []string {
	ids := make([]string, 0, len(n.announced))
	for id := range n.announced {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Announce pushes prompts for every active baseline or recommended entry not
// announced before. Returns how many notifications were pushed.
func (n *Notifier) Announce(entries []model.ScheduleEntry) int {
	pushed := 0
	for _, e := range entries {
		if e.Source == model.SourceManual || !e.Status.Active() || n.announced[e.ID] {
			continue
		}
		n.announced[e.ID] = true
		for i := 1; i <= n.count; i++ {
			n.feed.Push(model.Notification{
				Title:   "Location check",
				Message: fmt.Sprintf("Are you at %s? Please verify your location. (%d/%d)", e.DisplayName(), i, n.count),
				Type:    model.NotifyGPSVerify,
			})
			pushed++
		}
	}
	if pushed > 0 {
		n.logger.Debug("verification prompts queued", zap.Int("notifications", pushed))
	}
	return pushed
}
