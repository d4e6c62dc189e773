// Package index computes the composite vulnerability index: column-wise
// standardization, single-component reduction when more than one feature
// is present, and a min-max rescale onto [0,1].
package index

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/socialmapbr/vulnidx/internal/table"
)

// Compute returns one score per table row, in row order, each in [0,1].
//
// When features is nil the numeric columns of the table are used. Every
// input shape has a defined output: no features or no rows yields zeros,
// a single feature yields its standardized column rescaled, several
// features are collapsed onto the first principal axis before rescaling,
// and any score vector without spread (single row, constant column)
// yields zeros instead of a division by zero. Compute is a pure function
// with no state across calls.
func Compute(t *table.Table, features []string) []float64 {
	if features == nil {
		features = t.NumericColumns()
	}

	n := t.Len()
	scores := make([]float64, n)
	if n == 0 || len(features) == 0 {
		return scores
	}
	if n == 1 {
		// a single row standardizes to zero and is degenerate under the
		// max==min rule regardless of feature count
		return scores
	}

	x := t.Matrix(features)
	standardize(x)

	var raw []float64
	if len(features) == 1 {
		raw = mat.Col(nil, 0, x)
	} else {
		raw = projectFirstAxis(x)
	}

	return MinMaxScale(raw)
}

// standardize transforms each column of m to zero mean and unit variance
// in place, using the population standard deviation. Zero-variance
// columns standardize to all zeros.
func standardize(m *mat.Dense) {
	rows, cols := m.Dims()
	col := make([]float64, rows)
	for j := range cols {
		mat.Col(col, j, m)
		mean := stat.Mean(col, nil)
		std := stat.PopStdDev(col, nil)
		for i := range col {
			if std == 0 {
				col[i] = 0
			} else {
				col[i] = (col[i] - mean) / std
			}
		}
		m.SetCol(j, col)
	}
}

// projectFirstAxis projects the standardized matrix onto its first
// principal axis. The SVD leaves the axis sign arbitrary, so the axis is
// oriented to make the feature with the largest absolute loading carry a
// positive coefficient, keeping the score orientation reproducible.
func projectFirstAxis(x *mat.Dense) []float64 {
	rows, cols := x.Dims()

	var pc stat.PC
	if ok := pc.PrincipalComponents(x, nil); !ok {
		return make([]float64, rows)
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	axis := mat.Col(nil, 0, &vecs)

	dominant := 0
	for j := 1; j < cols; j++ {
		if math.Abs(axis[j]) > math.Abs(axis[dominant]) {
			dominant = j
		}
	}
	if axis[dominant] < 0 {
		floats.Scale(-1, axis)
	}

	out := mat.NewVecDense(rows, nil)
	out.MulVec(x, mat.NewVecDense(len(axis), axis))
	return out.RawVector().Data
}
