package plus

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// SolveMinNorm returns the minimum-norm least-squares solution x of a*x = b.
// Singular values below rcond times the largest are dropped, so structurally
// singular systems (redundant or missing constraint rows) still solve.
func SolveMinNorm(a mat.Matrix, b []float64, rcond float64) ([]float64, error) {
	r, c := a.Dims()
	assert(r == len(b), "right-hand side size mismatch")
	if r == 0 || c == 0 {
		return make([]float64, c), nil
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return nil, errors.Errorf("plus: SVD factorization of %dx%d system failed", r, c)
	}

	x := make([]float64, c)
	rank := svd.Rank(rcond)
	if rank == 0 {
		return x, nil
	}

	var sol mat.VecDense
	svd.SolveVecTo(&sol, mat.NewVecDense(len(b), append([]float64(nil), b...)), rank)
	for i := range x {
		x[i] = sol.AtVec(i)
	}
	return x, nil
}
