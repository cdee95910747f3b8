// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hamiltonian is a software reference model of the Ising energy
// H = σᵀ·J·σ (+ biases) where σ is a binary vector mapped to spins: bit 0 is
// spin -1 and bit 1 is spin +1.
//
package hamiltonian

// Spin maps a spin bit to ±1.
//
func Spin(b bool) int64 {
	if b {
		return 1
	}
	return -1
}

// Spins maps a spin vector to ±1 values.
//
func Spins(s []bool) []int64 {
	out := make([]int64, len(s))
	for i, b := range s {
		out[i] = Spin(b)
	}
	return out
}

// Energy returns Σ_i Σ_j s_i·J_ij·s_j.
//
func Energy(s []bool, j *Matrix) int64 {
	var e int64
	for r := range s {
		var dot int64
		for c, w := range j.Row(r) {
			dot += w * Spin(s[c])
		}
		e += Spin(s[r]) * dot
	}
	return e
}

// EnergyWithBias returns Energy(s, j) + Σ_i h_i·s_i.
//
func EnergyWithBias(s []bool, j *Matrix, h []int64) int64 {
	e := Energy(s, j)
	for i, v := range h {
		e += v * Spin(s[i])
	}
	return e
}

// Delta returns Energy(next, j) - Energy(prev, j).
//
func Delta(prev, next []bool, j *Matrix) int64 {
	return Energy(next, j) - Energy(prev, j)
}

// GlobalFlipSymmetric returns true if flipping all spins leaves the energy
// unchanged, which always holds without biases.
//
func GlobalFlipSymmetric(j *Matrix) bool {
	up := make([]bool, j.N())
	for i := range up {
		up[i] = true
	}
	return Delta(up, make([]bool, j.N()), j) == 0
}

// FlipMasks returns the flipped (prev XOR next) and unflipped masks of a
// transition.
//
func FlipMasks(prev, next []bool) (flipped, unflipped []bool) {
	flipped = make([]bool, len(prev))
	unflipped = make([]bool, len(prev))
	for i := range prev {
		flipped[i] = prev[i] != next[i]
		unflipped[i] = !flipped[i]
	}
	return flipped, unflipped
}

// sigma returns the new spin values where mask is set, 0 elsewhere.
//
func sigma(mask, next []bool) []int64 {
	out := make([]int64, len(mask))
	for i, m := range mask {
		if m {
			out[i] = Spin(next[i])
		}
	}
	return out
}

// SigmaC returns the column encoding of a transition: the new spin value of
// the flipped positions, 0 elsewhere.
//
func SigmaC(flipped, next []bool) []int64 { return sigma(flipped, next) }

// SigmaR returns the row encoding of a transition: the new spin value of the
// unflipped positions, 0 elsewhere.
//
func SigmaR(unflipped, next []bool) []int64 { return sigma(unflipped, next) }

// ModelOutput returns Σ_{c<cols} sigmaC_c · Σ_r sigmaR_r·J_cr, the
// output of a column-wise compute unit over the first cols columns.
//
func ModelOutput(sigmaR, sigmaC []int64, j *Matrix, cols int) int64 {
	var total int64
	for c := 0; c < cols; c++ {
		var sum int64
		for r, s := range sigmaR {
			sum += s * j.At(c, r)
		}
		total += sigmaC[c] * sum
	}
	return total
}

// ColumnEnergy returns the energy of s accumulated one column at a time.
//
func ColumnEnergy(s []int64, j *Matrix) int64 {
	var total int64
	for c := range s {
		var sum int64
		for r, v := range s {
			sum += v * j.At(c, r)
		}
		total += s[c] * sum
	}
	return total
}

// IterativeMatches computes the energy delta of a transition both column by
// column and by direct evaluation, and reports whether they match.
//
func IterativeMatches(prev, next []bool, j *Matrix) (match bool, iterative, direct int64) {
	iterative = ColumnEnergy(Spins(next), j) - ColumnEnergy(Spins(prev), j)
	direct = Delta(prev, next, j)
	return iterative == direct, iterative, direct
}

// FlipDelta returns the energy delta of a transition computed from the
// flipped rows only:
//
//	4 · Σ_{r flipped} n_r · Σ_{c not flipped} J_rc·n_c
//
// where n is the new spin vector. It equals Delta(prev, next, j) when j is
// symmetric.
//
func FlipDelta(prev, next []bool, j *Matrix) int64 {
	flipped, unflipped := FlipMasks(prev, next)
	sr := SigmaR(unflipped, next)
	var total int64
	for r, f := range flipped {
		if !f {
			continue
		}
		var sum int64
		for c, w := range j.Row(r) {
			sum += w * sr[c]
		}
		total += Spin(next[r]) * sum
	}
	return 4 * total
}
