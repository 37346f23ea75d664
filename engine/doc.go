// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package engine runs array operations on a chosen execution tier.
//
// # Overview
//
// An Engine owns a memory pool and a dispatcher. Every operation is named
// by a string and runs in one of three tiers:
//   - Baseline: plain loops, implements every operation
//   - Vectorized: 4-wide chunked loops for elementwise, reductions, matmul and dot
//   - Native: SIMD block primitives, parallel chunks and cache-blocked matrices
//
// Asking a tier for an operation it lacks fails with
// tensor.ErrUnimplementedInTier; the error lists the tiers that have it.
//
// # Basic Usage
//
//	e, err := engine.New(engine.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	a, _ := tensor.FromSlice(e.Allocator(), tensor.Shape{2, 3}, []float64{1, 2, 3, 4, 5, 6})
//	b, _ := tensor.FromSlice(e.Allocator(), tensor.Shape{3, 2}, []float64{7, 8, 9, 10, 11, 12})
//
//	c, err := e.Invoke("matmul", engine.Native, engine.DefaultParams(), a, b)
//	// c = [[58, 64], [139, 154]]
//	defer c.Release()
//
// # Operations
//
// Elementwise: add, subtract, multiply, divide, floor_divide, mod, power.
// Reductions: sum, mean, min, max, prod, var, std.
// Matrix: matmul, transpose, dot, gemm, solve, inv, det.
package engine
