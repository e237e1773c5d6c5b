package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/field-planner/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	ctx := context.Background()
	c := Default()

	pois, err := c.POIs(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, pois)

	for _, cat := range []model.Category{model.CategoryTransit, model.CategorySchool, model.CategoryShop, model.CategoryPark, model.CategoryReligious, model.CategoryPublic} {
		pool, err := c.Pool(ctx, cat)
		require.NoError(t, err)
		assert.NotEmpty(t, pool, "category %s", cat)
		for _, p := range pool {
			assert.Equal(t, cat, p.Type.Category())
		}
	}

	pool, err := c.Pool(ctx, model.CategoryManual)
	require.NoError(t, err)
	assert.Empty(t, pool)
}

func TestBaseline(t *testing.T) {
	entries, err := Default().Baseline(context.Background(), "2026-03-01")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	assert.Equal(t, "base-2026-03-01-1", entries[0].ID)
	assert.Equal(t, "09:00", entries[0].StartTime)
	// Gangnam exit 3: 300 * 0.9 * 1.4
	assert.Equal(t, 378, entries[0].EstimatedExposure)

	for i, e := range entries {
		assert.Equal(t, model.SourceBaseline, e.Source)
		assert.Equal(t, model.StatusPlanned, e.Status)
		assert.NoError(t, e.Validate())
		if i > 0 {
			assert.LessOrEqual(t, entries[i-1].StartTime, e.StartTime)
		}
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown type": `
pois:
  - {id: a, name: A, type: stadium, base_exposure: 1, accessibility: 0.5}
`,
		"duplicate id": `
pois:
  - {id: a, name: A, type: bus, base_exposure: 1, accessibility: 0.5}
  - {id: a, name: B, type: bus, base_exposure: 1, accessibility: 0.5}
`,
		"accessibility out of range": `
pois:
  - {id: a, name: A, type: bus, base_exposure: 1, accessibility: 1.5}
`,
		"negative exposure": `
pois:
  - {id: a, name: A, type: bus, base_exposure: -1, accessibility: 0.5}
`,
		"unknown slot": `
pois:
  - {id: a, name: A, type: bus, base_exposure: 1, accessibility: 0.5, time_weights: {dawn: 2}}
`,
		"baseline references unknown poi": `
pois:
  - {id: a, name: A, type: bus, base_exposure: 1, accessibility: 0.5}
baseline:
  - {poi: b, start: "09:00"}
`,
		"baseline bad clock": `
pois:
  - {id: a, name: A, type: bus, base_exposure: 1, accessibility: 0.5}
baseline:
  - {poi: a, start: "9am"}
`,
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
pois:
  - id: hall
    name: Town Hall
    type: other
    location: {lat: 37.5, lng: 127.0}
    base_exposure: 80
    accessibility: 1
baseline:
  - {poi: hall, start: "10:00", end: "11:00"}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	entries, err := c.Baseline(context.Background(), "2026-03-01")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Town Hall", entries[0].POI.Name)
	assert.Equal(t, 80, entries[0].EstimatedExposure)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

type countingRepo struct {
	Repository
	calls int
}

func (r *countingRepo) Pool(ctx context.Context, category model.Category) ([]model.POI, error) {
	r.calls++
	return r.Repository.Pool(ctx, category)
}

func TestCachedPool(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{Repository: Default()}
	c := NewCached(repo, 0)

	first, err := c.Pool(ctx, model.CategoryTransit)
	require.NoError(t, err)
	second, err := c.Pool(ctx, model.CategoryTransit)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)

	c.Invalidate()
	_, err = c.Pool(ctx, model.CategoryTransit)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)

	// non-pool calls pass through
	entries, err := c.Baseline(ctx, "2026-03-01")
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}
