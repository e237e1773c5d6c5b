// Package store provides the key-value persistence interface and its SQLite
// and in-memory implementations.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Keys under which the planner persists its state.
const (
	KeyManual        = "manual-schedules"
	KeyRecommended   = "recommended-schedules"
	KeyStatus        = "entry-status"
	KeyVisits        = "visit-records"
	KeyQuota         = "ai-quota"
	KeySettings      = "app-settings"
	KeyNotifications = "notifications"
	KeyAnnounced     = "announced-entries"
)

// ErrNotFound is returned when removing a key that does not exist.
var ErrNotFound = errors.New("key not found")

// KV is an opaque string store.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Returns ErrNotFound if it is absent.
	Remove(ctx context.Context, key string) error

	// Close closes the store.
	Close() error
}

// Entry is one stored key with its metadata, used by export and import.
type Entry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetJSON decodes the value under key into v. Returns false if key is absent.
func GetJSON(ctx context.Context, kv KV, key string, v any) (bool, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, errors.Wrapf(err, "decode %s", key)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, kv KV, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	return kv.Set(ctx, key, string(b))
}
