package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialmapbr/vulnidx/internal/table"
)

const delta = 1e-12

func numericTable(col string, values []float64) *table.Table {
	t := table.New(col)
	for i, v := range values {
		t.Append(table.Row{
			ID:     int64(i + 1),
			Values: map[string]float64{col: v},
		})
	}
	return t
}

func TestCompute_SingleFeatureRescales(t *testing.T) {
	tab := numericTable("populacao", []float64{10, 20, 30})

	scores := Compute(tab, nil)

	require.Len(t, scores, 3)
	assert.InDelta(t, 0.0, scores[0], delta)
	assert.InDelta(t, 0.5, scores[1], delta)
	assert.InDelta(t, 1.0, scores[2], delta)
}

func TestCompute_ConstantFeatureIsDegenerate(t *testing.T) {
	tab := numericTable("populacao", []float64{5, 5, 5})

	scores := Compute(tab, nil)

	assert.Equal(t, []float64{0, 0, 0}, scores)
}

func TestCompute_NoNumericFeatures(t *testing.T) {
	tab := table.New()
	for i := range 3 {
		tab.Append(table.Row{
			ID:     int64(i + 1),
			Labels: map[string]string{"municipio": "x"},
		})
	}

	scores := Compute(tab, nil)

	assert.Equal(t, []float64{0, 0, 0}, scores)
}

func TestCompute_ExplicitEmptyFeatureList(t *testing.T) {
	tab := numericTable("populacao", []float64{10, 20, 30})

	scores := Compute(tab, []string{})

	assert.Equal(t, []float64{0, 0, 0}, scores)
}

func TestCompute_EmptyTable(t *testing.T) {
	tab := table.New("populacao")

	scores := Compute(tab, nil)

	assert.Empty(t, scores)
}

func TestCompute_SingleRow(t *testing.T) {
	tab := numericTable("populacao", []float64{42})

	scores := Compute(tab, nil)

	assert.Equal(t, []float64{0}, scores)
}

func TestCompute_PreservesRowOrder(t *testing.T) {
	tab := numericTable("populacao", []float64{30, 10, 20})

	scores := Compute(tab, nil)

	require.Len(t, scores, 3)
	assert.InDelta(t, 1.0, scores[0], delta)
	assert.InDelta(t, 0.0, scores[1], delta)
	assert.InDelta(t, 0.5, scores[2], delta)
}

func TestCompute_MonotonicWithTies(t *testing.T) {
	tab := numericTable("populacao", []float64{1, 2, 2, 5})

	scores := Compute(tab, nil)

	require.Len(t, scores, 4)
	assert.Equal(t, scores[1], scores[2])
	assert.Less(t, scores[0], scores[1])
	assert.Less(t, scores[2], scores[3])
	assert.InDelta(t, 0.0, scores[0], delta)
	assert.InDelta(t, 1.0, scores[3], delta)
}

// A zero-variance column contributes nothing to the principal axis, so
// the reduced scores keep the rank ordering of the varying column alone.
func TestCompute_ZeroVarianceColumnIsInert(t *testing.T) {
	tab := table.New("populacao", "constante")
	for i, v := range []float64{1, 2, 3, 4} {
		tab.Append(table.Row{
			ID:     int64(i + 1),
			Values: map[string]float64{"populacao": v, "constante": 7},
		})
	}

	scores := Compute(tab, []string{"populacao", "constante"})

	require.Len(t, scores, 4)
	assert.InDelta(t, 0.0, scores[0], delta)
	assert.InDelta(t, 1.0/3.0, scores[1], delta)
	assert.InDelta(t, 2.0/3.0, scores[2], delta)
	assert.InDelta(t, 1.0, scores[3], delta)
}

// The first principal axis is oriented so its dominant loading is
// positive; with two positively correlated features the score must
// increase with the raw values rather than depend on SVD sign.
func TestCompute_AxisOrientationDeterministic(t *testing.T) {
	build := func() *table.Table {
		tab := table.New("a", "b")
		for i, v := range []float64{1, 2, 3, 4, 5} {
			tab.Append(table.Row{
				ID:     int64(i + 1),
				Values: map[string]float64{"a": v, "b": 2*v + 1},
			})
		}
		return tab
	}

	first := Compute(build(), nil)
	require.Len(t, first, 5)
	assert.InDelta(t, 0.0, first[0], delta)
	assert.InDelta(t, 1.0, first[4], delta)
	for i := 1; i < len(first); i++ {
		assert.Greater(t, first[i], first[i-1])
	}

	// identical input, identical output
	second := Compute(build(), nil)
	assert.Equal(t, first, second)
}

// Anti-correlated features still reduce to a single deterministic score
// vector spanning [0,1], oriented by the dominant loading.
func TestCompute_AntiCorrelatedFeatures(t *testing.T) {
	build := func() *table.Table {
		tab := table.New("a", "b")
		for i, v := range []float64{1, 2, 3, 4, 5} {
			tab.Append(table.Row{
				ID:     int64(i + 1),
				Values: map[string]float64{"a": v, "b": 10 - v},
			})
		}
		return tab
	}

	scores := Compute(build(), nil)

	require.Len(t, scores, 5)
	minScore, maxScore := scores[0], scores[0]
	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
		minScore = min(minScore, s)
		maxScore = max(maxScore, s)
	}
	assert.InDelta(t, 0.0, minScore, delta)
	assert.InDelta(t, 1.0, maxScore, delta)

	assert.Equal(t, scores, Compute(build(), nil))
}

func TestCompute_MissingValueFilledWithZero(t *testing.T) {
	tab := table.New("populacao")
	tab.Append(table.Row{ID: 1, Values: map[string]float64{"populacao": 10}})
	tab.Append(table.Row{ID: 2, Values: map[string]float64{}}) // missing, filled with 0
	tab.Append(table.Row{ID: 3, Values: map[string]float64{"populacao": 20}})

	scores := Compute(tab, []string{"populacao"})

	require.Len(t, scores, 3)
	// fill-then-scale: the column becomes [10, 0, 20]
	assert.InDelta(t, 0.5, scores[0], delta)
	assert.InDelta(t, 0.0, scores[1], delta)
	assert.InDelta(t, 1.0, scores[2], delta)
}

func TestCompute_NonNumericColumnsExcluded(t *testing.T) {
	tab := table.New()
	for i, v := range []float64{10, 20, 30} {
		tab.Append(table.Row{
			ID:     int64(i + 1),
			Labels: map[string]string{"municipio": "m", "uf": "SP"},
			Values: map[string]float64{"populacao": v},
		})
	}

	scores := Compute(tab, nil)

	require.Len(t, scores, 3)
	assert.InDelta(t, 0.0, scores[0], delta)
	assert.InDelta(t, 0.5, scores[1], delta)
	assert.InDelta(t, 1.0, scores[2], delta)
}

func TestMinMaxScale_Idempotent(t *testing.T) {
	once := MinMaxScale([]float64{3, 1, 2})
	twice := MinMaxScale(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, []float64{1, 0, 0.5}, once)
}

func TestMinMaxScale_Degenerate(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 0}, MinMaxScale([]float64{4, 4, 4}))
	assert.Empty(t, MinMaxScale(nil))
}

func TestPlotScoresTerminal_MismatchedLengths(t *testing.T) {
	assert.NotPanics(t, func() {
		PlotScoresTerminal([]string{"Acrelândia"}, []float64{0.1, 0.9}, "ranking")
		PlotScoresTerminal(nil, []float64{0.5}, "ranking")
	})
}
