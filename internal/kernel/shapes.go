package kernel

import (
	"fmt"

	"github.com/born-ml/ndarray/internal/tensor"
)

// MatMulDims checks a (m, k) @ b (k, n) and returns m, k, n.
func MatMulDims(a, b tensor.Shape) (m, k, n int, err error) {
	if len(a) != 2 || len(b) != 2 {
		return 0, 0, 0, fmt.Errorf("%w: matmul needs 2D operands, got %dD and %dD",
			tensor.ErrShapeMismatch, len(a), len(b))
	}
	if a[1] != b[0] {
		return 0, 0, 0, fmt.Errorf("%w: matmul [%d,%d] @ [%d,%d]",
			tensor.ErrShapeMismatch, a[0], a[1], b[0], b[1])
	}
	return a[0], a[1], b[1], nil
}

// DotShape checks the operands of a dot product and returns the result shape.
// Supported forms: vector·vector (scalar), matrix·matrix and matrix·vector.
func DotShape(a, b tensor.Shape) (tensor.Shape, error) {
	switch {
	case len(a) == 1 && len(b) == 1:
		if a[0] != b[0] {
			return nil, fmt.Errorf("%w: dot of vectors with length %d and %d",
				tensor.ErrShapeMismatch, a[0], b[0])
		}
		return tensor.Shape{}, nil
	case len(a) == 2 && len(b) == 2:
		m, _, n, err := MatMulDims(a, b)
		if err != nil {
			return nil, err
		}
		return tensor.Shape{m, n}, nil
	case len(a) == 2 && len(b) == 1:
		if a[1] != b[0] {
			return nil, fmt.Errorf("%w: dot [%d,%d] · [%d]",
				tensor.ErrShapeMismatch, a[0], a[1], b[0])
		}
		return tensor.Shape{a[0]}, nil
	default:
		return nil, fmt.Errorf("%w: dot of %dD and %dD operands",
			tensor.ErrShapeMismatch, len(a), len(b))
	}
}

// GEMMDims checks A (m, n), B (n, p) and an optional C (m, p).
func GEMMDims(a, b tensor.Shape, c tensor.Shape, hasC bool) (m, n, p int, err error) {
	m, n, p, err = MatMulDims(a, b)
	if err != nil {
		return 0, 0, 0, err
	}
	if hasC && !c.Equal(tensor.Shape{m, p}) {
		return 0, 0, 0, fmt.Errorf("%w: gemm C has shape %v, want [%d,%d]",
			tensor.ErrShapeMismatch, c, m, p)
	}
	return m, n, p, nil
}

// SquareDim checks that shape is an n×n matrix and returns n.
func SquareDim(op string, shape tensor.Shape) (int, error) {
	if len(shape) != 2 || shape[0] != shape[1] {
		return 0, fmt.Errorf("%w: %s needs a square matrix, got %v", tensor.ErrShapeMismatch, op, shape)
	}
	return shape[0], nil
}
