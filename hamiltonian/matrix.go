// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hamiltonian

import (
	"math/rand"
)

// Matrix is a dense N×N integer weight matrix.
//
type Matrix struct {
	n int
	v []int64
}

// NewMatrix returns a zero N×N matrix.
//
func NewMatrix(n int) *Matrix {
	return &Matrix{n: n, v: make([]int64, n*n)}
}

// N returns the matrix dimension.
//
func (m *Matrix) N() int { return m.n }

// At returns J[i][j].
//
func (m *Matrix) At(i, j int) int64 { return m.v[i*m.n+j] }

// Set sets J[i][j].
//
func (m *Matrix) Set(i, j int, v int64) { m.v[i*m.n+j] = v }

// Row returns row i. The returned slice shares the matrix storage.
//
func (m *Matrix) Row(i int) []int64 { return m.v[i*m.n : (i+1)*m.n : (i+1)*m.n] }

// Symmetric returns true if J[i][j] == J[j][i] for all i, j.
//
func (m *Matrix) Symmetric() bool {
	for i := 0; i < m.n; i++ {
		for j := i + 1; j < m.n; j++ {
			if m.At(i, j) != m.At(j, i) {
				return false
			}
		}
	}
	return true
}

// Constant returns a N×N matrix with every element set to v.
//
func Constant(n int, v int64) *Matrix {
	m := NewMatrix(n)
	for i := range m.v {
		m.v[i] = v
	}
	return m
}

// Random returns a N×N matrix of random values in [0, hi].
//
func Random(rng *rand.Rand, n int, hi int64) *Matrix {
	m := NewMatrix(n)
	for i := range m.v {
		m.v[i] = rng.Int63n(hi + 1)
	}
	return m
}

// RandomSymmetric returns a symmetric N×N matrix of random values in
// [lo, hi].
//
func RandomSymmetric(rng *rand.Rand, n int, lo, hi int64) *Matrix {
	m := NewMatrix(n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := lo + rng.Int63n(hi-lo+1)
			m.Set(i, j, v)
			m.Set(j, i, v)
		}
	}
	return m
}
