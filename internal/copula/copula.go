// Package copula implements a Gaussian copula over a correlation matrix:
// Cholesky decomposition and the standard normal CDF/quantile, both via
// gonum, turn independent uniforms into correlated ones.
package copula

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Pragadeesh-19/replidb/internal/correlation"
)

// standardNormal is the Phi/Phi^-1 pair this package draws on; it carries
// no RNG state of its own, so one value is shared across every copula.
var standardNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Copula draws correlated uniform(0,1) vectors whose rank correlation
// approximates the Pearson correlation matrix it was built from.
type Copula struct {
	columns []string
	lower   *mat.TriDense // dim x dim lower-triangular Cholesky factor
	dim     int
}

// New builds a copula from a correlation matrix via Cholesky decomposition.
// Returns an error if the matrix is not positive definite.
func New(m *correlation.Matrix) (*Copula, error) {
	sym := mat.NewSymDense(m.Dim, nil)
	for i := 0; i < m.Dim; i++ {
		for j := i; j < m.Dim; j++ {
			sym.SetSym(i, j, m.At(i, j))
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, fmt.Errorf("correlation matrix is not positive definite")
	}
	var lower mat.TriDense
	chol.LTo(&lower)

	return &Copula{
		columns: append([]string(nil), m.Columns...),
		lower:   &lower,
		dim:     m.Dim,
	}, nil
}

// Columns returns the ordered column names this copula produces quantiles for.
func (c *Copula) Columns() []string { return c.columns }

// GenerateCorrelatedUniforms draws one correlated uniform(0,1) vector, one
// entry per column, using rng as the source of independent uniform draws.
// Each uniform is turned into a standard normal by inverse-CDF (gonum's
// Normal.Quantile), correlated via the Cholesky factor, then mapped back
// to [0,1] by the standard normal CDF — mathematically equivalent to
// drawing the normals by Box-Muller, since the spec's contract is only
// that the intermediate draws be standard normal.
func (c *Copula) GenerateCorrelatedUniforms(rng *rand.Rand) []float64 {
	z := make([]float64, c.dim)
	for i := range z {
		u := rng.Float64()
		if u <= 0 {
			u = 1e-300
		}
		z[i] = standardNormal.Quantile(u)
	}

	var y mat.VecDense
	y.MulVec(c.lower, mat.NewVecDense(c.dim, z))

	u := make([]float64, c.dim)
	for i := 0; i < c.dim; i++ {
		u[i] = clamp01(standardNormal.CDF(y.AtVec(i)))
	}
	return u
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
