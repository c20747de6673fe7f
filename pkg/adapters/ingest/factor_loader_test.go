package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renjie/prism-lca/pkg/adapters/ingest"
	"github.com/renjie/prism-lca/pkg/core/domain"
)

const factorsJSON = `{
  "steel": {
    "manufacturing": {"carbon_impact": 1.8, "energy_impact": 20, "water_impact": 150},
    "end-of-life": {"carbon_impact": 0.1}
  },
  "wood": {"transportation": {"carbon_impact": 0.3, "energy_impact": 3, "water_impact": 10}}
}`

const factorsYAML = `
steel:
  manufacturing:
    carbon_impact: 1.8
    energy_impact: 20
    water_impact: 150
  end-of-life:
    carbon_impact: 0.1
wood:
  transportation: {carbon_impact: 0.3, energy_impact: 3, water_impact: 10}
`

func TestFactorLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := domain.RawFactors{
		"steel": {
			"manufacturing": {"carbon_impact": 1.8, "energy_impact": 20, "water_impact": 150},
			"end-of-life":   {"carbon_impact": 0.1},
		},
		"wood": {"transportation": {"carbon_impact": 0.3, "energy_impact": 3, "water_impact": 10}},
	}

	tests := []struct {
		name    string
		file    string
		content string
		format  string
	}{
		{name: "json by extension", file: "impact_factors.json", content: factorsJSON},
		{name: "yaml by extension", file: "impact_factors.yaml", content: factorsYAML},
		{name: "yml by extension", file: "impact_factors.YML", content: factorsYAML},
		{name: "explicit format wins", file: "factors.txt", content: factorsYAML, format: "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			got, err := ingest.NewFactorLoader(tt.format).LoadFactors(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestFactorLoaderErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	path := filepath.Join(dir, "factors.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b"), 0o600))
	_, err := ingest.NewFactorLoader("").LoadFactors(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"steel": {"manufacturing": {"carbon_impact": "high"}}}`), 0o600))
	_, err = ingest.NewFactorLoader("").LoadFactors(context.Background(), bad)
	assert.Error(t, err)

	_, err = ingest.NewFactorLoader("").LoadFactors(context.Background(), filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeFactorsEmptyYAML(t *testing.T) {
	t.Parallel()

	raw, err := ingest.DecodeFactors(strings.NewReader(""), ingest.FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, raw)

	_, err = ingest.DecodeFactors(strings.NewReader("{}"), "toml")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
