// SPDX-License-Identifier: MIT
// Package linalg: gather/scatter kernels driven by explicit index tables.
//
// Gather extracts a sub-block selected by index lists (numpy's A[ix_(r, c)]).
// Scatter places a block into a zero-initialised larger layout, where element
// i of the source lands at position pos[i] of the destination. Both are the
// only sanctioned way to move potential parameters between variable layouts.

package linalg

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

func checkIndex(idx []int, n int, tag string) error {
	for _, k := range idx {
		if k < 0 || k >= n {
			return linalgErrorf(tag, fmt.Errorf("index %d not in [0,%d): %w", k, n, ErrIndexOutOfRange))
		}
	}

	return nil
}

// GatherSym returns A[idx, idx] as a symmetric matrix, or nil for empty idx.
func GatherSym(a *mat.SymDense, idx []int) (*mat.SymDense, error) {
	if len(idx) == 0 || a == nil {
		return nil, nil
	}
	n, _ := a.Dims()
	if err := checkIndex(idx, n, opGather); err != nil {
		return nil, err
	}
	out := mat.NewSymDense(len(idx), nil)
	for i, ri := range idx {
		for j := i; j < len(idx); j++ {
			out.SetSym(i, j, a.At(ri, idx[j]))
		}
	}

	return out, nil
}

// Gather returns A[rows, cols], or nil if either index list is empty.
func Gather(a mat.Matrix, rows, cols []int) (*mat.Dense, error) {
	if len(rows) == 0 || len(cols) == 0 {
		return nil, nil
	}
	r, c := a.Dims()
	if err := checkIndex(rows, r, opGather); err != nil {
		return nil, err
	}
	if err := checkIndex(cols, c, opGather); err != nil {
		return nil, err
	}
	out := mat.NewDense(len(rows), len(cols), nil)
	for i, ri := range rows {
		for j, cj := range cols {
			out.Set(i, j, a.At(ri, cj))
		}
	}

	return out, nil
}

// GatherVec returns v[idx], or nil for empty idx.
func GatherVec(v *mat.VecDense, idx []int) (*mat.VecDense, error) {
	if len(idx) == 0 || v == nil {
		return nil, nil
	}
	if err := checkIndex(idx, v.Len(), opGather); err != nil {
		return nil, err
	}
	out := mat.NewVecDense(len(idx), nil)
	for i, k := range idx {
		out.SetVec(i, v.AtVec(k))
	}

	return out, nil
}

// ScatterSym places A into a zero n×n matrix with A[i,j] at (pos[i], pos[j]).
// A nil A scatters nothing; n == 0 yields nil.
func ScatterSym(a *mat.SymDense, pos []int, n int) (*mat.SymDense, error) {
	if n == 0 {
		return nil, nil
	}
	out := mat.NewSymDense(n, nil)
	if a == nil {
		return out, nil
	}
	if m, _ := a.Dims(); m != len(pos) {
		return nil, linalgErrorf(opScatter, ErrDimensionMismatch)
	}
	if err := checkIndex(pos, n, opScatter); err != nil {
		return nil, err
	}
	for i, pi := range pos {
		for j := i; j < len(pos); j++ {
			out.SetSym(pi, pos[j], a.At(i, j))
		}
	}

	return out, nil
}

// ScatterVec places v into a zero length-n vector with v[i] at pos[i].
func ScatterVec(v *mat.VecDense, pos []int, n int) (*mat.VecDense, error) {
	if n == 0 {
		return nil, nil
	}
	out := mat.NewVecDense(n, nil)
	if v == nil {
		return out, nil
	}
	if v.Len() != len(pos) {
		return nil, linalgErrorf(opScatter, ErrDimensionMismatch)
	}
	if err := checkIndex(pos, n, opScatter); err != nil {
		return nil, err
	}
	for i, pi := range pos {
		out.SetVec(pi, v.AtVec(i))
	}

	return out, nil
}
