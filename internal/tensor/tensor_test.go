package tensor

import (
	"errors"
	"testing"
)

// Test helpers

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

// DType Tests

func TestDataTypeSize(t *testing.T) {
	tests := []struct {
		dtype DataType
		size  int
	}{
		{Float32, 4},
		{Float64, 8},
		{Int32, 4},
		{Int64, 8},
	}

	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeString(t *testing.T) {
	tests := []struct {
		dtype DataType
		str   string
	}{
		{Float32, "float32"},
		{Float64, "float64"},
		{Int32, "int32"},
		{Int64, "int64"},
		{DataType(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.dtype.String(); got != tt.str {
			t.Errorf("%s.String() = %q, want %q", tt.dtype, got, tt.str)
		}
	}
}

func TestInferDataType(t *testing.T) {
	if dt := inferDataType(float32(0)); dt != Float32 {
		t.Errorf("inferDataType(float32) = %v, want Float32", dt)
	}
	if dt := inferDataType(float64(0)); dt != Float64 {
		t.Errorf("inferDataType(float64) = %v, want Float64", dt)
	}
	if dt := DataTypeOf[int32](); dt != Int32 {
		t.Errorf("DataTypeOf[int32]() = %v, want Int32", dt)
	}
	if dt := DataTypeOf[int64](); dt != Int64 {
		t.Errorf("DataTypeOf[int64]() = %v, want Int64", dt)
	}
}

func TestPromote(t *testing.T) {
	if got := Promote(Int32, Int32); got != Int32 {
		t.Errorf("Promote(int32, int32) = %v", got)
	}
	if got := Promote(Int32, Float32); got != Float64 {
		t.Errorf("Promote(int32, float32) = %v", got)
	}
	if got := Promote(Float32, Float64); got != Float64 {
		t.Errorf("Promote(float32, float64) = %v", got)
	}
}

// Shape Tests

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected int
	}{
		{Shape{}, 1},         // Scalar
		{Shape{5}, 5},        // 1D
		{Shape{3, 4}, 12},    // 2D
		{Shape{2, 3, 4}, 24}, // 3D
		{Shape{1, 1, 1}, 1},  // Ones
		{Shape{3, 0}, 0},     // Empty
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.expected {
			t.Errorf("Shape%v.NumElements() = %d, want %d", tt.shape, got, tt.expected)
		}
	}
}

func TestShapeValidation(t *testing.T) {
	validShapes := []Shape{
		{},
		{0},
		{3, 4},
		{2, 3, 4},
	}

	for _, s := range validShapes {
		if err := s.Validate(); err != nil {
			t.Errorf("Shape%v.Validate() failed: %v", s, err)
		}
	}

	invalidShapes := []Shape{
		{-1},
		{3, -4},
	}

	for _, s := range invalidShapes {
		if err := s.Validate(); err == nil {
			t.Errorf("Shape%v.Validate() should fail but didn't", s)
		}
	}
}

func TestShapeEqual(t *testing.T) {
	tests := []struct {
		a, b  Shape
		equal bool
	}{
		{Shape{3, 4}, Shape{3, 4}, true},
		{Shape{3, 4}, Shape{4, 3}, false},
		{Shape{3}, Shape{3, 1}, false},
		{Shape{}, Shape{}, true},
	}

	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.equal {
			t.Errorf("Shape%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.equal)
		}
	}
}

func TestComputeStrides(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected []int
	}{
		{Shape{}, []int{}},
		{Shape{4}, []int{1}},
		{Shape{3, 4}, []int{4, 1}},
		{Shape{2, 3, 4}, []int{12, 4, 1}},
	}

	for _, tt := range tests {
		got := tt.shape.ComputeStrides()
		if len(got) != len(tt.expected) {
			t.Fatalf("Shape%v.ComputeStrides() length = %d, want %d", tt.shape, len(got), len(tt.expected))
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("Shape%v.ComputeStrides()[%d] = %d, want %d", tt.shape, i, got[i], tt.expected[i])
			}
		}
	}
}

func TestShapeOnesAndReversed(t *testing.T) {
	assertEqualShape(t, Shape{1, 1, 1}, Shape{2, 3, 4}.Ones(), "Ones")
	assertEqualShape(t, Shape{4, 3, 2}, Shape{2, 3, 4}.Reversed(), "Reversed")
	assertEqualShape(t, Shape{}, Shape{}.Ones(), "scalar Ones")
}

func TestNormalizeAxis(t *testing.T) {
	s := Shape{2, 3, 4}
	if ax, err := s.NormalizeAxis(-1); err != nil || ax != 2 {
		t.Errorf("NormalizeAxis(-1) = %d, %v", ax, err)
	}
	if _, err := s.NormalizeAxis(3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("NormalizeAxis(3) error = %v, want ErrOutOfBounds", err)
	}
}

func TestShapeOffset(t *testing.T) {
	s := Shape{2, 3}
	off, err := s.Offset(1, 2)
	if err != nil || off != 5 {
		t.Errorf("Offset(1, 2) = %d, %v; want 5", off, err)
	}

	var be *BoundsError
	if _, err := s.Offset(2, 0); !errors.As(err, &be) || !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Offset(2, 0) error = %v, want BoundsError", err)
	}
	if _, err := s.Offset(0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Offset with wrong rank error = %v", err)
	}
}
