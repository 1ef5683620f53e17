package metafield

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	r, err := DefaultRules()
	require.NoError(t, err)

	assert.Equal(t, "Medie", r.Consolidation["Luft"])
	assert.Equal(t, "Liter min.", r.KeyMapping["Liter / min."])
	assert.Equal(t, []string{"Luft", "Vand", "Benzin", "Diesel"}, r.ValueMapping["Luft,Vand,Benzin/Diesel"])
	assert.ElementsMatch(t, []string{"hojde", "bredde", "laengde", "maks-tryk", "dimension", "liter-min"}, r.ScalarOnly)
	assert.Contains(t, r.Definitions, "product_feature.medie")
}

func TestLoadRulesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scalar_only: [hojde]\n"), 0o644))

	r, err := LoadRules(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"hojde"}, r.ScalarOnly)
	assert.NotNil(t, r.KeyMapping)
	assert.NotNil(t, r.ValueMapping)
	assert.NotNil(t, r.Consolidation)
}

func TestLoadRulesErrors(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseRules([]byte("key_mapping: [not, a, map]"))
	assert.Error(t, err)
}
