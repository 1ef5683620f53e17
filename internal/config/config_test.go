package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PS_API_URL", "https://shop.example/api/")
	t.Setenv("PS_API_KEY", "secret")
	t.Setenv("SKIP_PRODUCT_IDS", "12, 40,abc,")
	t.Setenv("SKIP_CATEGORY_IDS", "")

	cfg := Load()

	assert.Equal(t, "https://shop.example/api", cfg.APIURL)
	assert.Equal(t, "DKK", cfg.CurrencyCode)
	assert.Equal(t, "IC", cfg.SKUPrefix)
	assert.Equal(t, map[int]bool{12: true, 40: true}, cfg.SkipProductIDs)
	assert.Equal(t, map[int]bool{1: true, 2: true}, cfg.SkipCategoryIDs)
	require.NoError(t, cfg.Validate())
}

func TestValidateReportsMissing(t *testing.T) {
	cfg := &Config{APIURL: "https://shop.example/api"}

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PS_API_KEY")
	assert.NotContains(t, err.Error(), "PS_API_URL")
}
