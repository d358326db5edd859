package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRules_MissingFileUsesDefaults(t *testing.T) {
	rules, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"North", "South", "East", "West"}, rules.AllowedRegions)
	assert.Equal(t, 5, rules.TopProducts)
	assert.Equal(t, 5, rules.TopCustomers)
	assert.Equal(t, 10, rules.LowPerformerThreshold)
	require.Len(t, rules.SegmentTiers, 3)
}

func TestLoadRules_PartialFileFillsGaps(t *testing.T) {
	path := writeRulesFile(t, "allowed_regions: [North, Central]\n")

	rules, err := LoadRules(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"North", "Central"}, rules.AllowedRegions)
	// Unspecified knobs fall back to the defaults.
	assert.Equal(t, 5, rules.TopProducts)
	assert.Equal(t, 5, rules.TopCustomers)
	require.Len(t, rules.SegmentTiers, 3)
}

func TestLoadRules_ParsesTierThresholds(t *testing.T) {
	path := writeRulesFile(t, `
segment_tiers:
  - label: VIP
    min_spend: "100000.50"
  - label: Regular
    min_spend: "0"
`)

	rules, err := LoadRules(path)
	require.NoError(t, err)

	require.Len(t, rules.SegmentTiers, 2)
	assert.True(t, rules.SegmentTiers[0].MinSpend.Equal(decimal.RequireFromString("100000.50")))
}

func TestLoadRules_InvalidThreshold(t *testing.T) {
	path := writeRulesFile(t, `
segment_tiers:
  - label: VIP
    min_spend: "lots"
`)

	_, err := LoadRules(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid min_spend")
}

func TestLoadRules_MalformedYAML(t *testing.T) {
	path := writeRulesFile(t, "allowed_regions: [unclosed\n")

	_, err := LoadRules(path)
	require.Error(t, err)
}

func TestRegionAllowed(t *testing.T) {
	rules := DefaultRules()

	assert.True(t, rules.RegionAllowed("North"))
	assert.False(t, rules.RegionAllowed("north"), "matching is case sensitive")
	assert.False(t, rules.RegionAllowed("Central"))
}

func TestSegmentFor(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		spend string
		want  string
	}{
		{"0", "Standard"},
		{"9999.99", "Standard"},
		{"10000", "Gold"},
		{"49999.99", "Gold"},
		{"50000", "Platinum"},
		{"120000", "Platinum"},
	}

	for _, tt := range tests {
		t.Run(tt.spend, func(t *testing.T) {
			spend := decimal.RequireFromString(tt.spend)
			assert.Equal(t, tt.want, rules.SegmentFor(spend))
		})
	}
}

func TestRulesValidate(t *testing.T) {
	rules := DefaultRules()
	require.NoError(t, rules.Validate())

	rules.SegmentTiers[0].Label = ""
	assert.Error(t, rules.Validate())

	rules = DefaultRules()
	rules.AllowedRegions = nil
	assert.Error(t, rules.Validate())
}
