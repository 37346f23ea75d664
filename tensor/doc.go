// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public array types of the ndarray engine.
//
// # Overview
//
// An Array is a shape descriptor bound to a typed, contiguous Buffer:
//   - Row-major strides computed from the shape
//   - Element types int32, int64, float32 and float64
//   - Explicit ownership: an owning Array releases its buffer, a view
//     borrows its parent's buffer and blocks that release until it is
//     released itself
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/ndarray/engine"
//	    "github.com/born-ml/ndarray/tensor"
//	)
//
//	func main() {
//	    e, _ := engine.New(engine.DefaultConfig())
//
//	    a, _ := tensor.FromSlice(e.Allocator(), tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})
//	    m, _ := a.Reshape(tensor.Shape{3, 2})  // zero-copy view
//	    defer m.Release()
//
//	    v, _ := a.At(1, 2)  // 6
//	}
//
// # Memory
//
// Buffers come from an Allocator, normally the engine's memory pool. Pooled
// memory is not zeroed: New returns an Array with undefined contents, use
// Zeros when a cleared array is needed.
//
// # Errors
//
// Failures are reported with the sentinel errors of this package, wrapped
// with context. Test them with errors.Is.
package tensor
