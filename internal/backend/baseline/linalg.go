package baseline

import (
	"fmt"
	"math"

	"github.com/born-ml/ndarray/internal/kernel"
	"github.com/born-ml/ndarray/internal/tensor"
)

// pivotTolerance scales the largest input magnitude to decide when a pivot
// is numerically zero.
const pivotTolerance = 1e-12

// lu is an in-place LU factorization with partial pivoting: row perm[i] of
// the input became row i, and sign is the permutation parity.
type lu struct {
	n        int
	a        []float64 // L below the diagonal (unit diagonal implied), U on and above
	perm     []int
	sign     float64
	singular bool
}

func factor(src []float64, n int) *lu {
	f := &lu{n: n, a: append([]float64(nil), src...), perm: make([]int, n), sign: 1}
	for i := range f.perm {
		f.perm[i] = i
	}

	scale := 0.0
	for _, v := range f.a {
		scale = math.Max(scale, math.Abs(v))
	}
	tol := pivotTolerance * scale

	a := f.a
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r*n+col]) > math.Abs(a[pivot*n+col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot*n+col]) <= tol {
			f.singular = true
			return f
		}
		if pivot != col {
			for j := 0; j < n; j++ {
				a[col*n+j], a[pivot*n+j] = a[pivot*n+j], a[col*n+j]
			}
			f.perm[col], f.perm[pivot] = f.perm[pivot], f.perm[col]
			f.sign = -f.sign
		}

		for r := col + 1; r < n; r++ {
			l := a[r*n+col] / a[col*n+col]
			a[r*n+col] = l
			for j := col + 1; j < n; j++ {
				a[r*n+j] -= l * a[col*n+j]
			}
		}
	}
	return f
}

func (f *lu) det() float64 {
	if f.singular {
		return 0
	}
	d := f.sign
	for i := 0; i < f.n; i++ {
		d *= f.a[i*f.n+i]
	}
	return d
}

// solveInto solves A x = b for each of the k right-hand-side columns of b
// (n×k, row-major) and writes x to dst.
func (f *lu) solveInto(dst, b []float64, k int) {
	n, a := f.n, f.a
	for c := 0; c < k; c++ {
		for i := 0; i < n; i++ {
			dst[i*k+c] = b[f.perm[i]*k+c]
		}
		// Forward substitution with unit-diagonal L.
		for i := 0; i < n; i++ {
			v := dst[i*k+c]
			for j := 0; j < i; j++ {
				v -= a[i*n+j] * dst[j*k+c]
			}
			dst[i*k+c] = v
		}
		// Back substitution with U.
		for i := n - 1; i >= 0; i-- {
			v := dst[i*k+c]
			for j := i + 1; j < n; j++ {
				v -= a[i*n+j] * dst[j*k+c]
			}
			dst[i*k+c] = v / a[i*n+i]
		}
	}
}

func singular(op string, n int) error {
	return fmt.Errorf("%w: %s of a singular %dx%d matrix", tensor.ErrSingularMatrix, op, n, n)
}

// Solve finds x with A x = b. b may be a vector (N) or a matrix (N, K).
func Solve(ctx *kernel.Context, in []kernel.Operand, _ kernel.Params) (kernel.Result, error) {
	a, b := in[0], in[1]
	n, err := kernel.SquareDim(kernel.OpSolve, a.Shape)
	if err != nil {
		return kernel.Result{}, err
	}
	if (len(b.Shape) != 1 && len(b.Shape) != 2) || b.Shape[0] != n {
		return kernel.Result{}, fmt.Errorf("%w: solve of [%d,%d] with right-hand side %v",
			tensor.ErrShapeMismatch, n, n, b.Shape)
	}
	k := 1
	if len(b.Shape) == 2 {
		k = b.Shape[1]
	}

	return kernel.Apply(ctx, tensor.Float64, b.Shape, in[:2], func(dst []float64, src [][]float64) error {
		f := factor(src[0], n)
		if f.singular {
			return singular(kernel.OpSolve, n)
		}
		f.solveInto(dst, src[1], k)
		return nil
	})
}

// Inv returns the inverse of a square matrix.
func Inv(ctx *kernel.Context, in []kernel.Operand, _ kernel.Params) (kernel.Result, error) {
	x := in[0]
	n, err := kernel.SquareDim(kernel.OpInv, x.Shape)
	if err != nil {
		return kernel.Result{}, err
	}
	return kernel.Apply(ctx, tensor.Float64, x.Shape, in[:1], func(dst []float64, src [][]float64) error {
		f := factor(src[0], n)
		if f.singular {
			return singular(kernel.OpInv, n)
		}
		identity := make([]float64, n*n)
		for i := 0; i < n; i++ {
			identity[i*n+i] = 1
		}
		f.solveInto(dst, identity, n)
		return nil
	})
}

// Det returns the determinant of a square matrix; a singular matrix gives 0.
func Det(ctx *kernel.Context, in []kernel.Operand, _ kernel.Params) (kernel.Result, error) {
	x := in[0]
	n, err := kernel.SquareDim(kernel.OpDet, x.Shape)
	if err != nil {
		return kernel.Result{}, err
	}
	return kernel.Apply(ctx, tensor.Float64, tensor.Shape{}, in[:1], func(dst []float64, src [][]float64) error {
		dst[0] = factor(src[0], n).det()
		return nil
	})
}
