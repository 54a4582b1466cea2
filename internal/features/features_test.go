package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/model"
	"StockSentinel/internal/testutil"
)

func assertComplete(t *testing.T, tbl *Table) {
	t.Helper()
	for _, c := range tbl.Columns() {
		for i, v := range tbl.Column(c) {
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "column %s row %d undefined", c, i)
		}
	}
}

func TestBuildBasic_DropsWarmupRows(t *testing.T) {
	series := testutil.RandomWalk("TEST", 120, 7, 0.001)

	tbl, err := BuildBasic(series)
	require.NoError(t, err)

	assert.Equal(t, 120-19, tbl.Len())
	assert.Equal(t, 19, tbl.Index[0])
	assert.Equal(t, 119, tbl.Index[tbl.Len()-1])
	assert.Equal(t, series.Bars[19].Time, tbl.Dates[0])
	for _, c := range BasicColumns {
		assert.True(t, tbl.Has(c), c)
	}
	assertComplete(t, tbl)
}

func TestBuildBasic_LagAlignment(t *testing.T) {
	series := testutil.LinearSeries("LIN", 60, 100, 1)

	tbl, err := BuildBasic(series)
	require.NoError(t, err)

	for i := 0; i < tbl.Len(); i++ {
		assert.InDelta(t, tbl.Value(i, ColClose)-1, tbl.Value(i, "Price_Lag_1"), 1e-9)
		assert.InDelta(t, tbl.Value(i, ColClose)-3, tbl.Value(i, "Price_Lag_3"), 1e-9)
	}
}

func TestBuildComprehensive_WithoutFundamentals(t *testing.T) {
	series := testutil.RandomWalk("TEST", 250, 11, 0.0005)

	tbl, err := BuildComprehensive(series, nil, 50)
	require.NoError(t, err)

	assert.Equal(t, 250-99, tbl.Len())
	assert.False(t, tbl.Has(ColFundamentalScore))
	assert.False(t, tbl.Has(ColPE))
	assertComplete(t, tbl)
}

func TestBuildComprehensive_FundamentalColumns(t *testing.T) {
	series := testutil.RandomWalk("TEST", 250, 11, 0.0005)
	fundamentals := model.Fundamentals{
		model.MetricTrailingPE:     18,
		model.MetricPriceToBook:    2.5,
		model.MetricReturnOnEquity: 0.2,
	}

	bare, err := BuildComprehensive(series, nil, 50)
	require.NoError(t, err)
	tbl, err := BuildComprehensive(series, fundamentals, 72)
	require.NoError(t, err)

	assert.Len(t, tbl.Columns(), len(bare.Columns())+4)
	assert.Equal(t, bare.Len(), tbl.Len())
	for _, v := range tbl.Column(ColFundamentalScore) {
		assert.Equal(t, 72.0, v)
	}
	assert.Equal(t, 18.0, tbl.Value(0, ColPE))
	assert.Equal(t, 2.5, tbl.Value(0, ColPB))
	assert.Equal(t, 0.2, tbl.Value(0, ColROE))
}

func TestBuildComprehensive_ShortSeriesIsEmpty(t *testing.T) {
	tbl, err := BuildComprehensive(testutil.LinearSeries("LIN", 90, 50, 0.5), nil, 50)
	require.NoError(t, err)
	assert.Zero(t, tbl.Len())
}

func TestBuilder_RejectsUnorderedSeries(t *testing.T) {
	series := testutil.LinearSeries("LIN", 30, 100, 1)
	series.Bars[10], series.Bars[11] = series.Bars[11], series.Bars[10]

	_, err := BuildBasic(series)
	assert.ErrorIs(t, err, model.ErrUnordered)
}

func TestBuilder_DuplicateColumn(t *testing.T) {
	b, err := NewBuilder(testutil.LinearSeries("LIN", 10, 100, 1))
	require.NoError(t, err)

	b.Add("X", make([]float64, 10))
	b.Add("X", make([]float64, 10))
	_, err = b.Build()
	assert.Error(t, err)
}

func TestTable_MatrixUnknownColumn(t *testing.T) {
	tbl, err := BuildBasic(testutil.LinearSeries("LIN", 40, 100, 1))
	require.NoError(t, err)

	_, err = tbl.Matrix([]string{"Nope"})
	assert.Error(t, err)

	m, err := tbl.Matrix(BasicColumns)
	require.NoError(t, err)
	require.Len(t, m, tbl.Len())
	assert.Len(t, m[0], len(BasicColumns))
}

func TestBuildComprehensive_ZeroVolume(t *testing.T) {
	series := testutil.ZeroVolume(testutil.RandomWalk("IDX", 300, 5, 0.0005))

	tbl, err := BuildComprehensive(series, nil, 50)
	require.NoError(t, err)

	require.Equal(t, 300-99, tbl.Len())
	for _, v := range tbl.Column("Volume_Ratio") {
		assert.Equal(t, 1.0, v)
	}
	assertComplete(t, tbl)
}
