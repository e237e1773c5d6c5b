package planner

import (
	"context"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/store"
)

// ManualInput holds the user-entered fields of a new manual entry.
type ManualInput struct {
	Title        string             `json:"title"`
	Date         string             `json:"date"`
	StartTime    string             `json:"start_time"`
	EndTime      string             `json:"end_time,omitempty"`
	LocationName string             `json:"location_name,omitempty"`
	Address      string             `json:"address,omitempty"`
	Location     *model.Coordinates `json:"location,omitempty"`
	Color        string             `json:"color,omitempty"`
	Memo         string             `json:"memo,omitempty"`
}

// ManualPatch changes the fields that are set.
type ManualPatch struct {
	Title        *string            `json:"title,omitempty"`
	Date         *string            `json:"date,omitempty"`
	StartTime    *string            `json:"start_time,omitempty"`
	EndTime      *string            `json:"end_time,omitempty"`
	LocationName *string            `json:"location_name,omitempty"`
	Address      *string            `json:"address,omitempty"`
	Location     *model.Coordinates `json:"location,omitempty"`
	Color        *string            `json:"color,omitempty"`
	Memo         *string            `json:"memo,omitempty"`
}

var manualEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)

// AddManual validates in and appends it as a manual entry. An empty date
// means the loaded day.
func (p *Planner) AddManual(ctx context.Context, in ManualInput) (model.ScheduleEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.clock()
	if in.Date == "" {
		in.Date = p.state.Date
	}
	e := model.ScheduleEntry{
		ID:        "manual-" + ulid.MustNew(ulid.Timestamp(now), manualEntropy).String(),
		Source:    model.SourceManual,
		POI:       model.POI{Name: in.Title, Type: model.TypeOther},
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Status:    model.StatusPlanned,
		Manual: &model.ManualDetail{
			Title:        in.Title,
			LocationName: in.LocationName,
			Address:      in.Address,
			Location:     in.Location,
			Color:        in.Color,
			Memo:         in.Memo,
			CreatedAt:    now,
		},
	}
	if e.Manual.Location != nil {
		e.POI.Location = *e.Manual.Location
	}
	if err := e.Validate(); err != nil {
		return model.ScheduleEntry{}, err
	}

	p.state.Manual = append(p.state.Manual, e)
	if err := p.persistSource(ctx, model.SourceManual); err != nil {
		return model.ScheduleEntry{}, err
	}
	p.logger.Info("manual entry added", zap.String("id", e.ID), zap.String("title", in.Title))
	return e, nil
}

// UpdateManual applies patch to manual entry id. Baseline and recommended
// entries return ErrImmutable.
func (p *Planner) UpdateManual(ctx context.Context, id string, patch ManualPatch) (model.ScheduleEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur := p.state.lookup(id)
	if cur == nil {
		return model.ScheduleEntry{}, errors.Wrap(ErrNotFound, id)
	}
	if cur.Source != model.SourceManual {
		return model.ScheduleEntry{}, errors.Wrapf(ErrImmutable, "%s entry %s", cur.Source, id)
	}

	e := *cur
	d := *cur.Manual
	e.Manual = &d
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&d.Title, patch.Title)
	set(&e.Date, patch.Date)
	set(&e.StartTime, patch.StartTime)
	set(&e.EndTime, patch.EndTime)
	set(&d.LocationName, patch.LocationName)
	set(&d.Address, patch.Address)
	set(&d.Color, patch.Color)
	set(&d.Memo, patch.Memo)
	if patch.Location != nil {
		loc := *patch.Location
		d.Location = &loc
		e.POI.Location = loc
	}
	e.POI.Name = d.Title
	if err := e.Validate(); err != nil {
		return model.ScheduleEntry{}, err
	}

	*cur = e
	if err := p.persistSource(ctx, model.SourceManual); err != nil {
		return model.ScheduleEntry{}, err
	}
	return e, nil
}

// RemoveManual deletes manual entry id. Recorded visits are kept.
func (p *Planner) RemoveManual(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, e := range p.state.Manual {
		if e.ID != id {
			continue
		}
		p.state.Manual = append(p.state.Manual[:i], p.state.Manual[i+1:]...)
		return p.persistSource(ctx, model.SourceManual)
	}
	if cur := p.state.lookup(id); cur != nil {
		return errors.Wrapf(ErrImmutable, "%s entry %s", cur.Source, id)
	}
	return errors.Wrap(ErrNotFound, id)
}

// ClearManual removes every manual entry and returns how many were dropped.
func (p *Planner) ClearManual(ctx context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.state.Manual)
	p.state.Manual = nil
	if err := p.kv.Remove(ctx, store.KeyManual); err != nil && !errors.Is(err, store.ErrNotFound) {
		return 0, errors.Wrap(err, "clear manual entries")
	}
	return n, nil
}
