package timeseries

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSVFromReader(t *testing.T) {
	csvData := `month,count
2020-01,100
2020-02,101
2020-03,102
2020-04,103
2020-05,104`

	series, err := LoadCSVFromReader(strings.NewReader(csvData), nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{100, 101, 102, 103, 104}, series.Values)
	start, ok := series.Start()
	require.True(t, ok)
	assert.Equal(t, Period{Year: 2020, Month: time.January}, start)
}

func TestLoadCSVUnsortedRows(t *testing.T) {
	csvData := `date,borough,incidents
2020-03-01,ALL,7
2020-01-01,ALL,5
2020-02-01,ALL,6`

	opts := DefaultCSVOptions()
	opts.ValueColumn = "incidents"

	series, err := LoadCSVFromReader(strings.NewReader(csvData), opts)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6, 7}, series.Values)
}

func TestLoadCSVRejectsGaps(t *testing.T) {
	csvData := `month,count
2020-01,1
2020-03,3`

	_, err := LoadCSVFromReader(strings.NewReader(csvData), nil)
	assert.ErrorIs(t, err, ErrGap)
}

func TestLoadCSVRejectsDuplicates(t *testing.T) {
	csvData := `month,count
2020-01,1
2020-01,3`

	_, err := LoadCSVFromReader(strings.NewReader(csvData), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadCSVInvalidValue(t *testing.T) {
	csvData := `month,count
2020-01,1
2020-02,NA`

	_, err := LoadCSVFromReader(strings.NewReader(csvData), nil)
	assert.Error(t, err)
}

func TestLoadCSVMissingColumn(t *testing.T) {
	opts := DefaultCSVOptions()
	opts.ValueColumn = "total"

	_, err := LoadCSVFromReader(strings.NewReader("month,count\n2020-01,1\n"), opts)
	assert.Error(t, err)

	_, err = LoadCSVFromReader(strings.NewReader("a,b\n2020-01,1\n"), nil)
	assert.Error(t, err)
}

func TestLoadCSVNoHeaderSemicolon(t *testing.T) {
	opts := DefaultCSVOptions()
	opts.HasHeader = false
	opts.Delimiter = ';'

	series, err := LoadCSVFromReader(strings.NewReader("2021-11;4\n2021-12;5\n2022-01;6\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, series.Values)
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.csv")
	require.NoError(t, os.WriteFile(path, []byte("month,count\n2020-01,1\n2020-02,2\n"), 0o600))

	series, err := LoadCSV(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, series.Len())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), nil)
	assert.Error(t, err)
}

func TestLoadCSVEmpty(t *testing.T) {
	_, err := LoadCSVFromReader(strings.NewReader("month,count\n"), nil)
	assert.ErrorIs(t, err, ErrEmpty)
}
