// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hamiltonian

// A Problem is a weight matrix with optional biases and a uniform scale. It
// serves its rows to an energy monitor.
//
type Problem struct {
	J     *Matrix
	H     []int64 // biases, nil for none
	Shift uint64  // every row product is shifted left by Shift
}

// Row copies row i of J into dst.
//
func (p *Problem) Row(i int, dst []int64) { copy(dst, p.J.Row(i)) }

// Bias returns the bias of row i.
//
func (p *Problem) Bias(i int) int64 {
	if p.H == nil {
		return 0
	}
	return p.H[i]
}

// Scale returns the scale of row i.
//
func (p *Problem) Scale(i int) uint64 { return p.Shift }

// Energy returns the full energy of s, biases included.
//
func (p *Problem) Energy(s []bool) int64 {
	e := Energy(s, p.J) << p.Shift
	for i, h := range p.H {
		e += h * Spin(s[i])
	}
	return e
}

// Delta returns the energy delta of a transition, biases excluded.
//
func (p *Problem) Delta(prev, next []bool) int64 {
	return Delta(prev, next, p.J) << p.Shift
}
