package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradein-valuation/internal/model"
)

const appleCatalog = `
devices:
  - id: apple-iphone-16
    brand: Apple
    model: iPhone 16
    release_date: "2024-09-20"
    base_price: "799"
    baseline_market_demand: 0.8
    baseline_supply_level: 0.5
    baseline_competitor_price: "760"
    storage_options: [256GB, 128gb, 512 GB]
  - id: apple-iphone-12
    brand: Apple
    model: iPhone 12
    release_date: "2020-10-23"
    base_price: "699.00"
    baseline_market_demand: 0.3
    baseline_supply_level: 0.9
    baseline_competitor_price: "650"
    storage_options: [64GB, 128GB]
    active: false
`

const samsungCatalog = `
devices:
  - id: samsung-galaxy-s25
    brand: Samsung
    model: Galaxy S25
    release_date: "2025-02-07"
    base_price: 859.99
    baseline_market_demand: 0.7
    baseline_supply_level: 0.4
    baseline_competitor_price: 820
    storage_options: [128GB, 256GB]
`

func writeCatalog(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "apple.yaml", appleCatalog)
	writeCatalog(t, dir, "samsung.yml", samsungCatalog)
	writeCatalog(t, dir, "README.txt", "not a catalog")

	s, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	ctx := context.Background()

	p, err := s.GetProfile(ctx, "apple-iphone-16")
	require.NoError(t, err)
	assert.Equal(t, "Apple", p.Brand)
	assert.Equal(t, time.Date(2024, time.September, 20, 0, 0, 0, 0, time.UTC), p.ReleaseDate)
	assert.Equal(t, "799", p.BasePrice.String())
	assert.Equal(t, []model.StorageTier{"128GB", "256GB", "512GB"}, p.StorageOptions)
	assert.True(t, p.Active)

	s25, err := s.GetProfile(ctx, "samsung-galaxy-s25")
	require.NoError(t, err)
	assert.Equal(t, "859.99", s25.BasePrice.String())

	_, err = s.GetProfile(ctx, "apple-iphone-12")
	assert.True(t, errors.Is(err, model.ErrNotFound), "inactive profiles are not served")

	_, err = s.GetProfile(ctx, "nokia-3310")
	assert.True(t, errors.Is(err, model.ErrNotFound))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "apple-iphone-16", list[0].ID)
	assert.Equal(t, "samsung-galaxy-s25", list[1].ID)
}

func TestFileStore_Reload(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "samsung.yaml", samsungCatalog)
	s, err := NewFileStore(dir, nil)
	require.NoError(t, err)

	writeCatalog(t, dir, "apple.yaml", appleCatalog)
	require.NoError(t, s.Reload())
	_, err = s.GetProfile(context.Background(), "apple-iphone-16")
	assert.NoError(t, err)

	// A broken file keeps the previous catalog live.
	writeCatalog(t, dir, "broken.yaml", "devices:\n  - id: x\n    release_date: yesterday\n")
	assert.Error(t, s.Reload())
	_, err = s.GetProfile(context.Background(), "apple-iphone-16")
	assert.NoError(t, err)
}

func TestFileStore_Errors(t *testing.T) {
	_, err := NewFileStore(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)

	dir := t.TempDir()
	writeCatalog(t, dir, "a.yaml", samsungCatalog)
	writeCatalog(t, dir, "b.yaml", samsungCatalog)
	_, err = NewFileStore(dir, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate device id")
}

func TestLoadProfileDir_IncludesInactive(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "apple.yaml", appleCatalog)
	writeCatalog(t, dir, "samsung.yml", samsungCatalog)

	profiles, err := LoadProfileDir(dir)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	ids := map[string]bool{}
	for _, p := range profiles {
		ids[p.ID] = p.Active
	}
	assert.Equal(t, map[string]bool{
		"apple-iphone-16":    true,
		"apple-iphone-12":    false,
		"samsung-galaxy-s25": true,
	}, ids)

	writeCatalog(t, dir, "samsung-copy.yaml", samsungCatalog)
	_, err = LoadProfileDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate device id")
}

func TestProfileRecord_ToModel(t *testing.T) {
	base := ProfileRecord{
		ID: "x", ReleaseDate: "2025-01-01", BasePrice: "100",
		BaselineCompetitorPrice: "90", StorageOptions: []string{"64GB"},
	}
	tests := []struct {
		name   string
		mutate func(*ProfileRecord)
	}{
		{"missing id", func(r *ProfileRecord) { r.ID = " " }},
		{"bad date", func(r *ProfileRecord) { r.ReleaseDate = "01/01/2025" }},
		{"bad price", func(r *ProfileRecord) { r.BasePrice = "cheap" }},
		{"bad competitor price", func(r *ProfileRecord) { r.BaselineCompetitorPrice = "" }},
		{"bad storage", func(r *ProfileRecord) { r.StorageOptions = []string{"64"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			tt.mutate(&r)
			_, err := r.ToModel()
			assert.Error(t, err)
		})
	}

	p, err := base.ToModel()
	require.NoError(t, err)
	back, err := RecordFromModel(p).ToModel()
	require.NoError(t, err)
	assert.Equal(t, p.ID, back.ID)
	assert.True(t, p.BasePrice.Equal(back.BasePrice))
	assert.Equal(t, p.ReleaseDate, back.ReleaseDate)
}

func TestSaveProfileFile(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "apple.yaml", appleCatalog)
	profiles, err := LoadProfileFile(filepath.Join(dir, "apple.yaml"))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "export", "apple.yaml")
	require.NoError(t, SaveProfileFile(out, profiles))
	again, err := LoadProfileFile(out)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.False(t, again[1].Active)
	assert.Equal(t, profiles[0].StorageOptions, again[0].StorageOptions)
}

func TestExampleCatalogLoads(t *testing.T) {
	s, err := NewFileStore(filepath.Join("..", "..", "examples", "profiles"), nil)
	require.NoError(t, err)
	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, list)
}
