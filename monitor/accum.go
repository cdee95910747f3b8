// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package monitor

import (
	"github.com/db47h/isingmon/hwlib"
	"github.com/db47h/isingmon/hwsim"
)

// Accumulator returns the energy accumulator.
//
// On the raising edge, clr or rst load acc with the reset value and clear
// final; this has priority over anything else. Otherwise, if pe_valid is high
// the sum of the lane partial energies is added to acc, and if last is high
// final is set. final stays high until the next clear. Additions wrap around
// at EB bits.
//
//	Inputs: pe[P*EB], pe_valid, last, clr, rst
//	Outputs: acc[EB], final
//
func Accumulator(cfg *Config) hwsim.NewPartFn {
	p, eb := cfg.Parallelism, cfg.EnergyBits
	reset := hwlib.Truncate(cfg.ResetValue, eb)
	return (&hwsim.PartSpec{
		Name:    "ACCUM",
		Inputs:  hwsim.IO("pe[%d], pe_valid, last, clr, rst", p*eb),
		Outputs: hwsim.IO("acc[%d], final", eb),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pe, peValid, last := s.Bus("pe").Split(p), s.Pin("pe_valid"), s.Pin("last")
			clr, rst := s.Pin("clr"), s.Pin("rst")
			acc, final := s.Bus("acc"), s.Pin("final")
			add := hwlib.Adder(eb)
			vals := make([]int64, p)
			v, f := reset, false
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					if !c.AtTick() {
						return
					}
					if c.Get(clr) || c.Get(rst) {
						v, f = reset, false
					} else {
						if c.Get(peValid) {
							for l, b := range pe {
								vals[l] = b.Int64(c)
							}
							v = add(v, hwlib.ReduceTree(vals, add))
						}
						if c.Get(last) {
							f = true
						}
					}
					acc.SetInt64(c, v)
					c.Set(final, f)
				}}
		}}).NewPart
}
