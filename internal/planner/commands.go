package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rcliao/field-planner/internal/geofence"
	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/recommend"
	"github.com/rcliao/field-planner/internal/schedule"
	"github.com/rcliao/field-planner/internal/store"
)

// ViewParams selects a schedule view. An empty Date means the loaded day.
type ViewParams struct {
	Date   string
	Filter schedule.Filter
}

// View returns the filtered entries of a day ordered by start time.
func (p *Planner) View(params ViewParams) []model.ScheduleEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return schedule.View(p.entriesOn(params.Date), params.Filter)
}

// Senior returns the next/remaining split of the loaded day at the current clock.
func (p *Planner) Senior() schedule.Split {
	p.mu.Lock()
	defer p.mu.Unlock()
	return schedule.Senior(p.entriesOn(""), model.ClockOf(p.clock()))
}

func (p *Planner) entriesOn(date string) []model.ScheduleEntry {
	if date == "" {
		date = p.state.Date
	}
	var out []model.ScheduleEntry
	for _, e := range p.state.Entries() {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

// Recommend generates a recommended entry for category. A spent quota is
// reported as *recommend.QuotaExceededError.
func (p *Planner) Recommend(ctx context.Context, category model.Category) (model.ScheduleEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !model.ValidCategories[category] || category == model.CategoryManual {
		return model.ScheduleEntry{}, &model.ValidationError{Field: "category", Msg: fmt.Sprintf("cannot recommend for %q", category)}
	}
	pool, err := p.catalog.Pool(ctx, category)
	if err != nil {
		return model.ScheduleEntry{}, errors.Wrap(err, "load pool")
	}

	now := p.clock()
	res, err := p.engine.TryGenerate(category, p.state.Quota, now, pool)
	var qe *recommend.QuotaExceededError
	switch {
	case errors.As(err, &qe):
		p.metrics.Recommendation("quota_exceeded")
		if serr := store.SetJSON(ctx, p.kv, store.KeyQuota, res.Quota); serr != nil {
			return model.ScheduleEntry{}, serr
		}
		p.state.Quota = res.Quota
		return model.ScheduleEntry{}, err
	case errors.Is(err, recommend.ErrEmptyPool):
		p.metrics.Recommendation("empty_pool")
		return model.ScheduleEntry{}, err
	case err != nil:
		return model.ScheduleEntry{}, err
	}

	// State changes only once both writes have landed.
	recommended := append(p.state.Recommended[:len(p.state.Recommended):len(p.state.Recommended)], res.Entry)
	if err := store.SetJSON(ctx, p.kv, store.KeyQuota, res.Quota); err != nil {
		return model.ScheduleEntry{}, err
	}
	if err := store.SetJSON(ctx, p.kv, store.KeyRecommended, recommended); err != nil {
		if rerr := store.SetJSON(ctx, p.kv, store.KeyQuota, p.state.Quota); rerr != nil {
			p.logger.Error("restore quota", zap.Error(rerr))
		}
		return model.ScheduleEntry{}, err
	}
	p.metrics.Recommendation("granted")
	p.state.Quota = res.Quota
	p.state.Recommended = recommended
	if err := p.announce(ctx); err != nil {
		return model.ScheduleEntry{}, err
	}

	p.logger.Info("recommended entry added",
		zap.String("id", res.Entry.ID),
		zap.String("poi", res.Entry.POI.Name),
		zap.Int("used", p.state.Quota.Used))
	return res.Entry, nil
}

// Cooldown returns the current quota and the time left before another
// recommendation is granted.
func (p *Planner) Cooldown() (model.Quota, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Quota, recommend.Remaining(p.state.Quota, p.clock())
}

// VerifyResult is the outcome of a location verification.
type VerifyResult struct {
	geofence.Result
	Entry    model.ScheduleEntry `json:"entry"`
	Inserted bool                `json:"inserted"`
}

// Verify acquires the current location and checks it against entry id. On
// success the entry is marked done and a visit is recorded once per day.
// Location failures are returned as *geofence.LocationError.
//
// The planner lock is not held while the location is acquired; the entry is
// looked up again before anything is written.
func (p *Planner) Verify(ctx context.Context, id string) (VerifyResult, error) {
	target, err := p.verifiable(id)
	if err != nil {
		return VerifyResult{}, err
	}

	r, err := p.verifier.Verify(ctx, target)
	if err != nil {
		var le *geofence.LocationError
		if errors.As(err, &le) {
			p.metrics.Verification("location_error")
		}
		return VerifyResult{}, err
	}
	p.metrics.Verification(string(r.Outcome))
	if r.Outcome != geofence.Verified {
		return VerifyResult{Result: r, Entry: target}, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	e := p.state.lookup(id)
	if e == nil {
		return VerifyResult{}, errors.Wrapf(ErrNotFound, "%s removed during verification", id)
	}
	if e.Status == model.StatusSkipped {
		return VerifyResult{}, errors.Wrapf(model.ErrInvalidTransition, "entry %s was skipped", id)
	}
	if e.Status != model.StatusDone {
		if err := p.setStatus(ctx, e, model.StatusDone); err != nil {
			return VerifyResult{}, err
		}
	}

	inserted := p.ledger.Record(*e, e.Date, p.clock())
	if inserted {
		p.metrics.VisitRecorded()
		if err := p.ledger.Save(ctx, p.kv); err != nil {
			return VerifyResult{}, err
		}
		p.feed.Push(model.Notification{
			Title:   "Visit recorded",
			Message: fmt.Sprintf("Your visit to %s has been recorded.", e.DisplayName()),
			Type:    model.NotifyGPSVerify,
		})
		p.metrics.NotificationsPushed(1)
		if err := p.feed.Save(ctx, p.kv); err != nil {
			return VerifyResult{}, err
		}
	}
	p.logger.Info("visit verified",
		zap.String("id", e.ID),
		zap.Float64("distance_km", r.DistanceKm),
		zap.Bool("inserted", inserted))
	return VerifyResult{Result: r, Entry: *e, Inserted: inserted}, nil
}

// verifiable returns a copy of entry id if it can still be verified.
func (p *Planner) verifiable(id string) (model.ScheduleEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e := p.state.lookup(id)
	if e == nil {
		return model.ScheduleEntry{}, errors.Wrap(ErrNotFound, id)
	}
	if e.Status == model.StatusSkipped {
		return model.ScheduleEntry{}, errors.Wrapf(model.ErrInvalidTransition, "entry %s was skipped", id)
	}
	return *e, nil
}

// Start marks entry id as started.
func (p *Planner) Start(ctx context.Context, id string) (model.ScheduleEntry, error) {
	return p.transition(ctx, id, model.StatusStarted)
}

// Skip marks entry id as skipped.
func (p *Planner) Skip(ctx context.Context, id string) (model.ScheduleEntry, error) {
	return p.transition(ctx, id, model.StatusSkipped)
}

func (p *Planner) transition(ctx context.Context, id string, next model.Status) (model.ScheduleEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e := p.state.lookup(id)
	if e == nil {
		return model.ScheduleEntry{}, errors.Wrap(ErrNotFound, id)
	}
	if err := p.setStatus(ctx, e, next); err != nil {
		return model.ScheduleEntry{}, err
	}
	return *e, nil
}

func (p *Planner) setStatus(ctx context.Context, e *model.ScheduleEntry, next model.Status) error {
	st, err := e.Status.Transition(next)
	if err != nil {
		return err
	}
	e.Status = st
	if e.Source == model.SourceBaseline {
		p.statuses[e.ID] = st
	}
	return p.persistSource(ctx, e.Source)
}
