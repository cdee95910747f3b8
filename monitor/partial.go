// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package monitor

import (
	"github.com/db47h/isingmon/hwlib"
	"github.com/db47h/isingmon/hwsim"
)

// calculator is the partial energy calculator of a single lane.
//
type calculator struct {
	w     []hwsim.Bus // row weights
	h     hwsim.Bus   // bias
	scale hwsim.Bus
	terms []int64
}

// eval returns the partial energy of the lane's row:
//
//	pe = rowspin · (Σ_j cmask_j · spin_j · w_j) << (scale + shift) + rowspin · h·hsel
//
// wrapped to bits.
//
func (lc *calculator) eval(c *hwsim.Circuit, spin, cmask []bool, rowspin, hsel bool, shift uint, bits int) int64 {
	for j, b := range lc.w {
		if !cmask[j] {
			lc.terms[j] = 0
			continue
		}
		// spin -1 subtracts the weight.
		lc.terms[j] = hwlib.AddSub(0, b.Int64(c), !spin[j], bits)
	}
	dot := hwlib.ReduceTree(lc.terms, hwlib.Adder(bits))
	if !rowspin {
		dot = hwlib.AddSub(0, dot, true, bits)
	}
	dot = hwlib.Truncate(dot<<(uint(lc.scale.Uint64(c))+shift), bits)
	if hsel {
		dot = hwlib.AddSub(dot, lc.h.Int64(c), !rowspin, bits)
	}
	return dot
}

// PartialEnergy returns the partial energy calculators, one per lane.
//
// On the raising edge where valid is high, each selected lane computes the
// signed dot product of its weight row with the cached spins over the enabled
// columns, negated if the row spin is -1 and shifted left by the lane's scale.
// Differential mode adds 2 to the shift. The bias, if enabled, is added with
// the row spin sign. Deselected lanes output 0. pe_valid is high for one cycle
// after each computation.
//
//	Inputs: w[WB], spin[N], cmask[N], rowspin[P], wsel[P], hsel[P], diff, valid, rst
//	Outputs: pe[P*EB], pe_valid
//
func PartialEnergy(cfg *Config) hwsim.NewPartFn {
	n, p, eb := cfg.DataSpin, cfg.Parallelism, cfg.EnergyBits
	return (&hwsim.PartSpec{
		Name:    "PARTIAL",
		Inputs:  hwsim.IO("w[%d], spin[%d], cmask[%d], rowspin[%d], wsel[%d], hsel[%d], diff, valid, rst", cfg.WeightBits(), n, n, p, p, p),
		Outputs: hwsim.IO("pe[%d], pe_valid", p*eb),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			w, spin, cmask := s.Bus("w"), s.Bus("spin"), s.Bus("cmask")
			rowspin, wsel, hsel := s.Bus("rowspin"), s.Bus("wsel"), s.Bus("hsel")
			diff, valid, rst := s.Pin("diff"), s.Pin("valid"), s.Pin("rst")
			pe, peValid := s.Bus("pe").Split(p), s.Pin("pe_valid")

			dw := cfg.WeightDataBits()
			biases := w[dw : dw+p*cfg.BitH].Split(p)
			scales := w[dw+p*cfg.BitH:].Split(p)
			lanes := make([]calculator, p)
			for l := range lanes {
				lanes[l] = calculator{
					w:     w[l*n*cfg.BitJ : (l+1)*n*cfg.BitJ].Split(n),
					h:     biases[l],
					scale: scales[l],
					terms: make([]int64, n),
				}
			}
			sv, cm := make([]bool, n), make([]bool, n)

			return []hwsim.Component{func(c *hwsim.Circuit) {
				if !c.AtTick() {
					return
				}
				if c.Get(rst) || !c.Get(valid) {
					c.Set(peValid, false)
					return
				}
				var shift uint
				if c.Get(diff) {
					shift = 2
				}
				spin.Read(c, sv)
				cmask.Read(c, cm)
				for l := range lanes {
					var v int64
					if c.Get(wsel[l]) {
						v = lanes[l].eval(c, sv, cm, c.Get(rowspin[l]), c.Get(hsel[l]), shift, eb)
					}
					pe[l].SetInt64(c, v)
				}
				c.Set(peValid, true)
			}}
		}}).NewPart
}
