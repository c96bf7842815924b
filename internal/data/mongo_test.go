package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileDocumentConversion(t *testing.T) {
	p := sampleProfile("apple-iphone-16")
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	doc, err := documentFromModel(p, now)
	require.NoError(t, err)
	assert.Equal(t, "apple-iphone-16", doc.ID)
	assert.Equal(t, "760.5", doc.BaselineCompetitorPrice.String())
	assert.Equal(t, []string{"128GB", "256GB"}, doc.StorageOptions)
	assert.Equal(t, time.UTC, doc.UpdatedAt.Location())

	back, err := doc.toModel()
	require.NoError(t, err)
	assert.True(t, p.BasePrice.Equal(back.BasePrice))
	assert.True(t, p.BaselineCompetitorPrice.Equal(back.BaselineCompetitorPrice))
	assert.Equal(t, p.ReleaseDate, back.ReleaseDate)
	assert.Equal(t, p.StorageOptions, back.StorageOptions)
	assert.True(t, back.Active)
}

func TestProfileDocument_BadStorage(t *testing.T) {
	doc, err := documentFromModel(sampleProfile("x"), time.Now())
	require.NoError(t, err)
	doc.StorageOptions = []string{"lots"}
	_, err = doc.toModel()
	assert.Error(t, err)
}
