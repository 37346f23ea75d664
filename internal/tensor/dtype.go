// Package tensor provides the array storage substrate: element types,
// shape descriptors, typed buffers and the Array that binds them.
package tensor

// DType is a constraint for supported buffer element types.
// The set is closed: kernels are instantiated once per member at compile time.
type DType interface {
	~int32 | ~int64 | ~float32 | ~float64
}

// DataType represents runtime type information for buffers.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}

// Valid reports whether dt is one of the supported data types.
func (dt DataType) Valid() bool {
	switch dt {
	case Float32, Float64, Int32, Int64:
		return true
	default:
		return false
	}
}

// IsInteger reports whether dt is a fixed-width integer type.
func (dt DataType) IsInteger() bool {
	return dt == Int32 || dt == Int64
}

// Promote returns the result type of combining a and b.
// Identical types are kept; any mix widens to Float64.
func Promote(a, b DataType) DataType {
	if a == b {
		return a
	}
	return Float64
}

// DataTypeOf returns the DataType for the generic type T.
func DataTypeOf[T DType]() DataType {
	var dummy T
	return inferDataType(dummy)
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	default:
		panic("unsupported type")
	}
}
