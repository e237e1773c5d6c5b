package planner

import (
	"context"
	"sort"

	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/settings"
)

// CategoryShare is one row of the visit breakdown.
type CategoryShare struct {
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
	Percent  float64        `json:"percent"`
}

// Stats summarizes the visit ledger.
type Stats struct {
	TotalVisits int                 `json:"total_visits"`
	ByCategory  []CategoryShare     `json:"by_category"`
	Visits      []model.VisitRecord `json:"visits,omitempty"`
}

// Stats returns visit totals and the per-category share, largest first.
func (p *Planner) Stats(withVisits bool) Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := p.ledger.TotalCount()
	s := Stats{TotalVisits: total, ByCategory: []CategoryShare{}}
	for cat, n := range p.ledger.Breakdown() {
		row := CategoryShare{Category: cat, Count: n}
		if total > 0 {
			row.Percent = float64(n) * 100 / float64(total)
		}
		s.ByCategory = append(s.ByCategory, row)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		a, b := s.ByCategory[i], s.ByCategory[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})
	if withVisits {
		s.Visits = p.ledger.Records()
	}
	return s
}

// Notifications returns the feed newest first with the unread count.
func (p *Planner) Notifications() ([]model.Notification, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.feed.List(), p.feed.Unread()
}

// MarkRead marks notification id read.
func (p *Planner) MarkRead(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.feed.MarkRead(id); err != nil {
		return err
	}
	return p.feed.Save(ctx, p.kv)
}

// MarkAllRead marks every notification read.
func (p *Planner) MarkAllRead(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.feed.MarkAllRead()
	return p.feed.Save(ctx, p.kv)
}

// ClearNotifications empties the feed.
func (p *Planner) ClearNotifications(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.feed.Clear()
	return p.feed.Save(ctx, p.kv)
}

// Settings returns the presentation preferences.
func (p *Planner) Settings() model.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// SeniorMode reports whether the large-font presentation is active.
func (p *Planner) SeniorMode() bool {
	return settings.SeniorMode(p.Settings())
}

// SettingsPatch changes the fields that are set.
type SettingsPatch struct {
	FontScale *float64        `json:"font_scale,omitempty"`
	DarkMode  *bool           `json:"dark_mode,omitempty"`
	Mobility  *model.Mobility `json:"mobility,omitempty"`
}

// UpdateSettings applies patch. Font scale is clamped, mobility validated.
func (p *Planner) UpdateSettings(ctx context.Context, patch SettingsPatch) (model.Settings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.settings
	if patch.FontScale != nil {
		s = settings.WithFontScale(s, *patch.FontScale)
	}
	if patch.DarkMode != nil {
		s.DarkMode = *patch.DarkMode
	}
	if patch.Mobility != nil {
		var err error
		if s, err = settings.WithMobility(s, *patch.Mobility); err != nil {
			return p.settings, err
		}
	}
	if err := settings.Save(ctx, p.kv, s); err != nil {
		return p.settings, err
	}
	p.settings = s
	return s, nil
}
