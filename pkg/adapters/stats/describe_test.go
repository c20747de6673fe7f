package stats_test

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renjie/prism-lca/pkg/adapters/stats"
	"github.com/renjie/prism-lca/pkg/core/domain"
)

const soilCSV = `sample_id,ph,organic_matter,depth_cm,site
S1,6.5,2.0,10,north
S2,7.0,,20,north
S3,5.5,4.0,30,south
S4,,6.0,40,south
S5,8.0,8.0,50,east
`

func TestDescribeReader(t *testing.T) {
	t.Parallel()

	got, err := stats.NewDescriber(nil).DescribeReader(strings.NewReader(soilCSV), nil)
	require.NoError(t, err)

	// string columns are skipped; numeric columns keep their order
	require.Len(t, got, 3)
	assert.Equal(t, "ph", got[0].Column)
	assert.Equal(t, "organic_matter", got[1].Column)
	assert.Equal(t, "depth_cm", got[2].Column)

	// ph: 6.5, 7.0, 5.5, 8.0 -> mean 6.75, missing value filled with it
	ph := got[0]
	assert.Equal(t, 5, ph.Count)
	assert.Equal(t, 1, ph.Filled)
	assert.InDelta(t, 6.75, ph.Mean, 1e-9)
	assert.InDelta(t, 5.5, ph.Min, 1e-9)
	assert.InDelta(t, 8.0, ph.Max, 1e-9)
	assert.InDelta(t, 6.75, ph.Median, 1e-9)
	// sample std of {6.5, 7, 5.5, 6.75, 8}
	assert.InDelta(t, math.Sqrt(3.25/4), ph.StdDev, 1e-9)

	// depth: complete integer column
	depth := got[2]
	assert.Zero(t, depth.Filled)
	assert.InDelta(t, 30.0, depth.Mean, 1e-9)
	assert.InDelta(t, 30.0, depth.Median, 1e-9)
	assert.InDelta(t, math.Sqrt(250), depth.StdDev, 1e-9)
}

func TestDescribeSelectedColumns(t *testing.T) {
	t.Parallel()

	df := dataframe.ReadCSV(strings.NewReader(soilCSV), dataframe.NaNValues([]string{"", "NA"}))
	require.NoError(t, df.Err)

	got, err := stats.Describe(df, []string{"depth_cm"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 10.0, got[0].Min)
	assert.Equal(t, 50.0, got[0].Max)

	_, err = stats.Describe(df, []string{"nitrogen"})
	assert.ErrorIs(t, err, domain.ErrMissingColumn)

	_, err = stats.Describe(df, []string{"site"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	assert.Equal(t, []string{"ph", "organic_matter", "depth_cm"}, stats.NumericColumns(df))
}

func TestDescribeFileAndExport(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "soil.csv")
	require.NoError(t, os.WriteFile(path, []byte(soilCSV), 0o600))

	got, err := stats.NewDescriber(nil).DescribeFile(context.Background(), path, []string{"ph", "depth_cm"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	var buf bytes.Buffer
	require.NoError(t, stats.WriteCSV(&buf, got))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(stats.StatisticsColumns, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "ph,5,1,"))
	assert.True(t, strings.HasPrefix(lines[2], "depth_cm,5,0,"))

	_, err = stats.NewDescriber(nil).DescribeFile(context.Background(), filepath.Join(t.TempDir(), "none.csv"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
