// Package catalog provides the read-only POI reference data: candidate pools
// per category and the baseline schedule of a session.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/field-planner/internal/exposure"
	"github.com/rcliao/field-planner/internal/model"
)

//go:embed default.yaml
var defaultCatalog []byte

// Repository serves POIs and the baseline schedule.
type Repository interface {
	// Pool returns the recommendation candidates for a coarse category.
	Pool(ctx context.Context, category model.Category) ([]model.POI, error)

	// Baseline returns the catalog-supplied schedule for date.
	Baseline(ctx context.Context, date string) ([]model.ScheduleEntry, error)

	// POIs returns every POI in the catalog.
	POIs(ctx context.Context) ([]model.POI, error)
}

// Visit is one baseline slot in the catalog file.
type Visit struct {
	POI   string `yaml:"poi"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Catalog is a static, file-backed Repository.
type Catalog struct {
	Places   []model.POI `yaml:"pois"`
	Schedule []Visit     `yaml:"baseline"`

	byID map[string]model.POI
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return c
}

// LoadFile parses the YAML catalog at path.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog")
	}
	c, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog %s", path)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}
	c.byID = make(map[string]model.POI, len(c.Places))
	for _, p := range c.Places {
		if p.ID == "" || p.Name == "" {
			return nil, errors.Errorf("poi %q: id and name are required", p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, errors.Errorf("poi %q: duplicate id", p.ID)
		}
		if !model.ValidTypes[p.Type] {
			return nil, errors.Errorf("poi %q: unknown type %q", p.ID, p.Type)
		}
		if p.BaseExposure < 0 {
			return nil, errors.Errorf("poi %q: negative base exposure", p.ID)
		}
		if p.Accessibility < 0 || p.Accessibility > 1 {
			return nil, errors.Errorf("poi %q: accessibility %.2f outside [0,1]", p.ID, p.Accessibility)
		}
		for slot := range p.TimeWeights {
			if !model.ValidSlots[slot] {
				return nil, errors.Errorf("poi %q: unknown time slot %q", p.ID, slot)
			}
		}
		c.byID[p.ID] = p
	}
	for i, v := range c.Schedule {
		if _, ok := c.byID[v.POI]; !ok {
			return nil, errors.Errorf("baseline %d: unknown poi %q", i, v.POI)
		}
		if _, err := model.ParseClock(v.Start); err != nil {
			return nil, errors.Wrapf(err, "baseline %d", i)
		}
		if v.End != "" {
			if _, err := model.ParseClock(v.End); err != nil {
				return nil, errors.Wrapf(err, "baseline %d", i)
			}
		}
	}
	return &c, nil
}

func (c *Catalog) Pool(_ context.Context, category model.Category) ([]model.POI, error) {
	var pool []model.POI
	for _, p := range c.Places {
		if p.Type.Category() == category {
			pool = append(pool, p)
		}
	}
	return pool, nil
}

func (c *Catalog) Baseline(_ context.Context, date string) ([]model.ScheduleEntry, error) {
	entries := make([]model.ScheduleEntry, 0, len(c.Schedule))
	for i, v := range c.Schedule {
		poi := c.byID[v.POI]
		entries = append(entries, model.ScheduleEntry{
			ID:                fmt.Sprintf("base-%s-%d", date, i+1),
			Source:            model.SourceBaseline,
			POI:               poi,
			Date:              date,
			StartTime:         v.Start,
			EndTime:           v.End,
			EstimatedExposure: exposure.Of(poi, v.Start),
			Status:            model.StatusPlanned,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].StartTime < entries[j].StartTime })
	return entries, nil
}

func (c *Catalog) POIs(_ context.Context) ([]model.POI, error) {
	return append([]model.POI(nil), c.Places...), nil
}
