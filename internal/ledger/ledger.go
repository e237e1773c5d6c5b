// Package ledger keeps the append-only record of confirmed visits.
//
// A visit is unique per (schedule entry, date): recording the same pair twice
// is a successful no-op. The ledger is not safe for concurrent use; the
// planner serializes access to it.
package ledger

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/store"
)

type visitKey struct {
	entryID string
	date    string
}

// Ledger is the deduplicated visit record.
type Ledger struct {
	records []model.VisitRecord
	seen    map[visitKey]struct{}
}

// New builds a ledger from existing records, dropping duplicates.
func New(records []model.VisitRecord) *Ledger {
	l := &Ledger{seen: make(map[visitKey]struct{}, len(records))}
	for _, r := range records {
		k := visitKey{r.ScheduleEntryID, r.Date}
		if _, ok := l.seen[k]; ok {
			continue
		}
		l.seen[k] = struct{}{}
		l.records = append(l.records, r)
	}
	return l
}

// Load reads the ledger persisted in kv. A missing key yields an empty ledger.
func Load(ctx context.Context, kv store.KV) (*Ledger, error) {
	var records []model.VisitRecord
	if _, err := store.GetJSON(ctx, kv, store.KeyVisits, &records); err != nil {
		return nil, errors.Wrap(err, "load visits")
	}
	return New(records), nil
}

// Save persists the ledger to kv.
func (l *Ledger) Save(ctx context.Context, kv store.KV) error {
	return store.SetJSON(ctx, kv, store.KeyVisits, l.Records())
}

// Record appends a visit for entry on date. Returns false, without touching
// the ledger, if that pair is already recorded.
func (l *Ledger) Record(entry model.ScheduleEntry, date string, at time.Time) bool {
	k := visitKey{entry.ID, date}
	if _, ok := l.seen[k]; ok {
		return false
	}
	l.seen[k] = struct{}{}
	l.records = append(l.records, model.VisitRecord{
		ScheduleEntryID: entry.ID,
		POIName:         entry.DisplayName(),
		Category:        entry.Category(),
		Date:            date,
		VisitedAt:       at,
	})
	return true
}

// Has reports whether a visit for entryID on date is recorded.
func (l *Ledger) Has(entryID, date string) bool {
	_, ok := l.seen[visitKey{entryID, date}]
	return ok
}

// CountByCategory returns the number of visits in category.
func (l *Ledger) CountByCategory(category model.Category) int {
	n := 0
	for _, r := range l.records {
		if r.Category == category {
			n++
		}
	}
	return n
}

// TotalCount returns the number of recorded visits.
func (l *Ledger) TotalCount() int {
	return len(l.records)
}

// Breakdown returns visit counts per category.
func (l *Ledger) Breakdown() map[model.Category]int {
	out := make(map[model.Category]int)
	for _, r := range l.records {
		out[r.Category]++
	}
	return out
}

// Records returns a copy of the recorded visits in insertion order.
func (l *Ledger) Records() []model.VisitRecord {
	out := make([]model.VisitRecord, len(l.records))
	copy(out, l.records)
	return out
}
