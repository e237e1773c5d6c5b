// Package planner owns the field-visit state of one client session.
//
// All mutations go through Planner methods, which are serialized by a single
// mutex and persist the affected state through the key-value store before
// returning.
package planner

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/rcliao/field-planner/internal/catalog"
	"github.com/rcliao/field-planner/internal/feed"
	"github.com/rcliao/field-planner/internal/geofence"
	"github.com/rcliao/field-planner/internal/ledger"
	"github.com/rcliao/field-planner/internal/metrics"
	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/recommend"
	"github.com/rcliao/field-planner/internal/reminder"
	"github.com/rcliao/field-planner/internal/settings"
	"github.com/rcliao/field-planner/internal/store"
)

var (
	// ErrNotFound is returned for unknown entry ids.
	ErrNotFound = errors.New("schedule entry not found")
	// ErrImmutable is returned when editing a baseline or recommended entry.
	ErrImmutable = errors.New("only manual entries can be edited")
)

// Options wires a Planner to its collaborators.
type Options struct {
	Catalog  catalog.Repository
	KV       store.KV
	Verifier *geofence.Verifier
	Engine   *recommend.Engine
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Clock    func() time.Time

	QuotaLimit    int
	QuotaWindow   time.Duration
	ReminderCount int
}

// State is the schedule data of a session.
type State struct {
	Date        string                `json:"date"`
	Baseline    []model.ScheduleEntry `json:"baseline"`
	Recommended []model.ScheduleEntry `json:"recommended"`
	Manual      []model.ScheduleEntry `json:"manual"`
	Quota       model.Quota           `json:"quota"`
}

// Entries returns every entry of the three sources.
func (s *State) Entries() []model.ScheduleEntry {
	out := make([]model.ScheduleEntry, 0, len(s.Baseline)+len(s.Recommended)+len(s.Manual))
	out = append(out, s.Baseline...)
	out = append(out, s.Recommended...)
	out = append(out, s.Manual...)
	return out
}

func (s *State) lookup(id string) *model.ScheduleEntry {
	for _, src := range [][]model.ScheduleEntry{s.Baseline, s.Recommended, s.Manual} {
		for i := range src {
			if src[i].ID == id {
				return &src[i]
			}
		}
	}
	return nil
}

// Planner is the single writer of a session's state.
type Planner struct {
	mu sync.Mutex

	catalog  catalog.Repository
	kv       store.KV
	verifier *geofence.Verifier
	engine   *recommend.Engine
	metrics  *metrics.Metrics
	logger   *zap.Logger
	clock    func() time.Time

	state    State
	statuses map[string]model.Status
	ledger   *ledger.Ledger
	feed     *feed.Feed
	notifier *reminder.Notifier
	settings model.Settings
}

// Open restores persisted state from opts.KV and loads today's baseline.
func Open(ctx context.Context, opts Options) (*Planner, error) {
	if opts.KV == nil {
		return nil, errors.New("planner: key-value store is required")
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Engine == nil {
		opts.Engine = recommend.NewEngine(nil, opts.Logger)
	}
	if opts.Verifier == nil {
		opts.Verifier = geofence.NewVerifier(nil, geofence.Options{}, opts.Logger)
	}

	p := &Planner{
		catalog:  opts.Catalog,
		kv:       opts.KV,
		verifier: opts.Verifier,
		engine:   opts.Engine,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		clock:    opts.Clock,
		statuses: make(map[string]model.Status),
	}

	if err := p.restore(ctx, opts); err != nil {
		return nil, err
	}
	if err := p.LoadBaseline(ctx, model.DateOf(p.clock())); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Planner) restore(ctx context.Context, opts Options) error {
	var err error
	if _, err = store.GetJSON(ctx, p.kv, store.KeyManual, &p.state.Manual); err != nil {
		return errors.Wrap(err, "restore manual entries")
	}
	if _, err = store.GetJSON(ctx, p.kv, store.KeyRecommended, &p.state.Recommended); err != nil {
		return errors.Wrap(err, "restore recommended entries")
	}
	if _, err = store.GetJSON(ctx, p.kv, store.KeyStatus, &p.statuses); err != nil {
		return errors.Wrap(err, "restore statuses")
	}

	p.state.Quota = model.NewQuota()
	if _, err = store.GetJSON(ctx, p.kv, store.KeyQuota, &p.state.Quota); err != nil {
		return errors.Wrap(err, "restore quota")
	}
	if opts.QuotaLimit > 0 {
		p.state.Quota.Limit = opts.QuotaLimit
	}
	if opts.QuotaWindow > 0 {
		p.state.Quota.Window = opts.QuotaWindow
	}

	if p.ledger, err = ledger.Load(ctx, p.kv); err != nil {
		return err
	}
	if p.feed, err = feed.Load(ctx, p.kv, p.clock); err != nil {
		return err
	}
	if p.settings, err = settings.Load(ctx, p.kv); err != nil {
		return err
	}

	p.notifier = reminder.New(p.feed, opts.ReminderCount, p.logger)
	var announced []string
	if _, err = store.GetJSON(ctx, p.kv, store.KeyAnnounced, &announced); err != nil {
		return errors.Wrap(err, "restore announced entries")
	}
	p.notifier.Seen(announced...)
	return nil
}

// LoadBaseline replaces the baseline source with the catalog schedule for
// date and queues verification prompts for newly seen active entries.
func (p *Planner) LoadBaseline(ctx context.Context, date string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	baseline, err := p.catalog.Baseline(ctx, date)
	if err != nil {
		return errors.Wrap(err, "load baseline")
	}
	for i := range baseline {
		if st, ok := p.statuses[baseline[i].ID]; ok {
			baseline[i].Status = st
		}
	}
	p.state.Date = date
	p.state.Baseline = baseline
	return p.announce(ctx)
}

// announce queues prompts for active entries not seen before and persists
// the feed when anything was pushed.
func (p *Planner) announce(ctx context.Context) error {
	pushed := p.notifier.Announce(p.state.Entries())
	if pushed == 0 {
		return nil
	}
	p.metrics.NotificationsPushed(pushed)
	if err := p.feed.Save(ctx, p.kv); err != nil {
		return err
	}
	return store.SetJSON(ctx, p.kv, store.KeyAnnounced, p.notifier.Announced())
}

// Snapshot returns a copy of the current state.
func (p *Planner) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.Baseline = append([]model.ScheduleEntry(nil), p.state.Baseline...)
	s.Recommended = append([]model.ScheduleEntry(nil), p.state.Recommended...)
	s.Manual = append([]model.ScheduleEntry(nil), p.state.Manual...)
	return s
}

// Entry returns the entry with id.
func (p *Planner) Entry(id string) (model.ScheduleEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e := p.state.lookup(id)
	if e == nil {
		return model.ScheduleEntry{}, errors.Wrap(ErrNotFound, id)
	}
	return *e, nil
}

// persistSource saves the source slice that holds an entry of src.
func (p *Planner) persistSource(ctx context.Context, src model.Source) error {
	switch src {
	case model.SourceManual:
		return store.SetJSON(ctx, p.kv, store.KeyManual, p.state.Manual)
	case model.SourceRecommended:
		return store.SetJSON(ctx, p.kv, store.KeyRecommended, p.state.Recommended)
	default:
		return store.SetJSON(ctx, p.kv, store.KeyStatus, p.statuses)
	}
}
