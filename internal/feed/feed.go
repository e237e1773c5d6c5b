// Package feed is the in-app notification feed.
package feed

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/store"
)

// ErrNotFound is returned when a notification id is unknown.
var ErrNotFound = errors.New("notification not found")

// Feed holds notifications newest first.
type Feed struct {
	items   []model.Notification
	clock   func() time.Time
	entropy io.Reader
}

// New returns a feed seeded with items (newest first).
func New(items []model.Notification, clock func() time.Time) *Feed {
	if clock == nil {
		clock = time.Now
	}
	return &Feed{
		items:   append([]model.Notification(nil), items...),
		clock:   clock,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Load reads the feed persisted in kv.
func Load(ctx context.Context, kv store.KV, clock func() time.Time) (*Feed, error) {
	var items []model.Notification
	if _, err := store.GetJSON(ctx, kv, store.KeyNotifications, &items); err != nil {
		return nil, errors.Wrap(err, "load notifications")
	}
	return New(items, clock), nil
}

// Save persists the feed to kv.
func (f *Feed) Save(ctx context.Context, kv store.KV) error {
	return store.SetJSON(ctx, kv, store.KeyNotifications, f.items)
}

// Push prepends n as unread, assigning id and timestamp.
func (f *Feed) Push(n model.Notification) model.Notification {
	now := f.clock()
	n.ID = "notif-" + ulid.MustNew(ulid.Timestamp(now), f.entropy).String()
	n.CreatedAt = now
	n.Read = false
	f.items = append([]model.Notification{n}, f.items...)
	return n
}

// List returns the notifications, newest first.
func (f *Feed) List() []model.Notification {
	return append([]model.Notification{}, f.items...)
}

// Unread counts unread notifications.
func (f *Feed) Unread() int {
	n := 0
	for _, it := range f.items {
		if !it.Read {
			n++
		}
	}
	return n
}

// MarkRead marks one notification read.
func (f *Feed) MarkRead(id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
			return nil
		}
	}
	return errors.Wrap(ErrNotFound, id)
}

// MarkAllRead marks every notification read.
func (f *Feed) MarkAllRead() {
	for i := range f.items {
		f.items[i].Read = true
	}
}

// Clear drops every notification.
func (f *Feed) Clear() {
	f.items = nil
}
