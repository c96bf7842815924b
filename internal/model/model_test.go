package model

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	c, err := ParseCondition("  Good ")
	require.NoError(t, err)
	assert.Equal(t, ConditionGood, c)

	_, err = ParseCondition("like new")
	assert.True(t, errors.Is(err, ErrInvalidCondition))

	_, err = ParseCondition("")
	assert.True(t, errors.Is(err, ErrInvalidCondition))
}

func TestParseStorageTier(t *testing.T) {
	tests := []struct {
		raw  string
		want StorageTier
		mb   int64
	}{
		{"64GB", "64GB", 64 * 1024},
		{"256 gb", "256GB", 256 * 1024},
		{"1tb", "1TB", 1024 * 1024},
		{"512MB", "512MB", 512},
	}
	for _, tt := range tests {
		got, err := ParseStorageTier(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
		mb, err := got.CapacityMB()
		require.NoError(t, err)
		assert.Equal(t, tt.mb, mb)
	}

	for _, bad := range []string{"", "GB", "-1GB", "12PB", "huge", "9000000000000TB"} {
		_, err := ParseStorageTier(bad)
		assert.True(t, errors.Is(err, ErrInvalidStorage), bad)
	}
}

func TestSortStorageTiers(t *testing.T) {
	tiers := []StorageTier{"1TB", "weird", "128GB", "64GB", "512GB"}
	SortStorageTiers(tiers)
	assert.Equal(t, []StorageTier{"64GB", "128GB", "512GB", "1TB", "weird"}, tiers)

	huge := []StorageTier{"9000000000000TB", "64GB"}
	SortStorageTiers(huge)
	assert.Equal(t, []StorageTier{"64GB", "9000000000000TB"}, huge)
}

func TestDeviceMarketProfile_HasStorage(t *testing.T) {
	p := &DeviceMarketProfile{ID: "x", StorageOptions: []StorageTier{"128GB", "256GB"}}
	assert.True(t, p.HasStorage("256GB"))
	assert.False(t, p.HasStorage("512GB"))

	var nilProfile *DeviceMarketProfile
	assert.False(t, nilProfile.HasStorage("128GB"))

	assert.Equal(t, "x", p.DisplayName())
	p.Brand, p.Model = "Samsung", "Galaxy S25"
	assert.Equal(t, "Samsung Galaxy S25", p.DisplayName())
}
