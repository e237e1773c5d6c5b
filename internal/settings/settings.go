// Package settings holds presentation preferences persisted across restarts.
package settings

import (
	"context"

	"github.com/pkg/errors"

	"github.com/rcliao/field-planner/internal/model"
	"github.com/rcliao/field-planner/internal/store"
)

const (
	MinFontScale    = 0.8
	MaxFontScale    = 1.4
	SeniorFontScale = 1.2
)

// Default returns the settings of a fresh install.
func Default() model.Settings {
	return model.Settings{FontScale: 1.0, Mobility: "walk"}
}

// Load reads settings from kv, falling back to Default.
func Load(ctx context.Context, kv store.KV) (model.Settings, error) {
	s := Default()
	if _, err := store.GetJSON(ctx, kv, store.KeySettings, &s); err != nil {
		return Default(), errors.Wrap(err, "load settings")
	}
	return s, nil
}

// Save persists s to kv.
func Save(ctx context.Context, kv store.KV, s model.Settings) error {
	return store.SetJSON(ctx, kv, store.KeySettings, s)
}

// WithFontScale returns s with the font scale clamped to [0.8, 1.4].
func WithFontScale(s model.Settings, scale float64) model.Settings {
	switch {
	case scale < MinFontScale:
		scale = MinFontScale
	case scale > MaxFontScale:
		scale = MaxFontScale
	}
	s.FontScale = scale
	return s
}

// WithMobility returns s with mobility m.
func WithMobility(s model.Settings, m model.Mobility) (model.Settings, error) {
	if !model.ValidMobility[m] {
		return s, &model.ValidationError{Field: "mobility", Msg: "must be car, pickup, bike or walk"}
	}
	s.Mobility = m
	return s, nil
}

// SeniorMode reports whether the simplified large-font presentation applies.
func SeniorMode(s model.Settings) bool {
	return s.FontScale >= SeniorFontScale
}
