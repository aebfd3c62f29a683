// Package correlation estimates a Pearson correlation matrix over a
// table's numeric columns from a reservoir-sampled set of row tuples. The
// Gaussian copula built from that matrix lives in package copula.
package correlation

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Pragadeesh-19/replidb/internal/errs"
	"github.com/Pragadeesh-19/replidb/internal/stats"
)

// Matrix is a dense correlation matrix over a fixed set of columns,
// stored row-major. Matrix.Data has len(Columns)*len(Columns) entries.
type Matrix struct {
	Columns []string  `json:"columns"`
	Data    []float64 `json:"correlation_matrix"`
	Dim     int       `json:"dimension"`
}

func (m *Matrix) at(i, j int) float64 { return m.Data[i*m.Dim+j] }
func (m *Matrix) set(i, j int, v float64) {
	m.Data[i*m.Dim+j] = v
}

// At returns the correlation between column i and column j.
func (m *Matrix) At(i, j int) float64 { return m.at(i, j) }

// ColumnIndex returns the index of a column name, or -1 if absent.
func (m *Matrix) ColumnIndex(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Builder accumulates joint numeric-row samples (one []float64 per row,
// pairwise-deleted when any entry in the row is missing) via reservoir
// sampling, then computes the standardized Pearson correlation matrix.
type Builder struct {
	columns   []string
	reservoir *stats.Reservoir[[]float64]
}

// NewBuilder creates a correlation builder for the given ordered column set.
func NewBuilder(columns []string) *Builder {
	return &Builder{
		columns:   columns,
		reservoir: stats.NewReservoir[[]float64](stats.DefaultReservoirCapacity),
	}
}

// AddSample offers one fully-populated row of numeric values (same order
// as columns, no missing entries — row-level pairwise deletion happens
// before this is called).
func (b *Builder) AddSample(row []float64) {
	cp := make([]float64, len(row))
	copy(cp, row)
	b.reservoir.Add(cp)
}

// SampleCount returns how many joint rows have been retained in the
// reservoir so far.
func (b *Builder) SampleCount() int {
	return b.reservoir.Len()
}

// Build computes the Pearson correlation matrix from the sampled rows via
// gonum's stat.CorrelationMatrix, then applies this package's
// near-constant-column convention: a column with sample standard
// deviation below 1e-10 is zeroed against every other column (diagonal
// left at 1) rather than left to gonum's divide-by-zero NaN.
// Returns an error if there are no samples, no columns, or the samples are
// ragged (inconsistent column count).
func (b *Builder) Build() (*Matrix, error) {
	n := b.reservoir.Len()
	cols := len(b.columns)
	if n == 0 {
		return nil, &errs.EmptyInputError{Context: "correlation"}
	}
	if cols == 0 {
		return nil, &errs.EmptyInputError{Context: "correlation: no numeric columns"}
	}

	flat := make([]float64, 0, n*cols)
	for _, row := range b.reservoir.Items {
		if len(row) != cols {
			return nil, &errs.RaggedInputError{Context: "correlation", Expected: cols, Got: len(row)}
		}
		flat = append(flat, row...)
	}

	m := &Matrix{Columns: append([]string(nil), b.columns...), Dim: cols, Data: make([]float64, cols*cols)}

	// A single sample carries no variance information; gonum's
	// stat.StdDev/CorrelationMatrix would divide by zero. Fall back to the
	// identity matrix, matching the convention for near-constant columns
	// below.
	if n < 2 {
		for i := 0; i < cols; i++ {
			m.set(i, i, 1.0)
		}
		return m, nil
	}

	data := mat.NewDense(n, cols, flat)

	const epsilon = 1e-10
	zeroed := make([]bool, cols)
	colBuf := make([]float64, n)
	for j := 0; j < cols; j++ {
		mat.Col(colBuf, j, data)
		if stat.StdDev(colBuf, nil) < epsilon {
			zeroed[j] = true
		}
	}

	sym := mat.NewSymDense(cols, nil)
	stat.CorrelationMatrix(sym, data, nil)

	for i := 0; i < cols; i++ {
		for j := 0; j < cols; j++ {
			switch {
			case i == j:
				m.set(i, j, 1.0)
			case zeroed[i] || zeroed[j]:
				m.set(i, j, 0.0)
			default:
				v := sym.At(i, j)
				if math.IsNaN(v) {
					v = 0
				}
				m.set(i, j, v)
			}
		}
	}

	return m, nil
}
