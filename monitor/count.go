// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package monitor

import (
	"github.com/db47h/isingmon/hwlib"
	"github.com/db47h/isingmon/hwsim"
)

// laneMask copies the bits of mask that belong to lane l into dst.
//
func laneMask(dst, mask []bool, p, l int) {
	for e := range dst {
		dst[e] = mask[e*p+l]
	}
}

// FlipCounter returns the per-lane flip counter. On every raising edge, lane
// l's count is loaded with the number of set bits i in flipped where
// i mod P == l.
//
//	Inputs: flipped[N], rst
//	Outputs: count[P*CW]
//
func FlipCounter(cfg *Config) hwsim.NewPartFn {
	p, cw := cfg.Parallelism, cfg.CountBits()
	return (&hwsim.PartSpec{
		Name:    "FLIPCOUNT",
		Inputs:  hwsim.IO("flipped[%d], rst", cfg.DataSpin),
		Outputs: hwsim.IO("count[%d]", p*cw),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			flipped, rst, count := s.Bus("flipped"), s.Pin("rst"), s.Bus("count").Split(p)
			mask := make([]bool, cfg.DataSpin)
			lane := make([]bool, cfg.LaneLen())
			scratch := make([]int64, (cfg.LaneLen()+63)/64)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				if !c.AtTick() {
					return
				}
				if c.Get(rst) {
					for _, b := range count {
						b.SetUint64(c, 0)
					}
					return
				}
				flipped.Read(c, mask)
				for l, b := range count {
					laneMask(lane, mask, p, l)
					b.SetUint64(c, uint64(hwlib.PopCount(lane, scratch)))
				}
			}}
		}}).NewPart
}

// MaxCount returns the maximum count selector. On every raising edge, max is
// loaded with the largest lane count minus one, or 0 if all lanes counted
// zero; zero is set when all lanes counted zero.
//
//	Inputs: count[P*CW], rst
//	Outputs: max[CW], zero
//
func MaxCount(cfg *Config) hwsim.NewPartFn {
	p, cw := cfg.Parallelism, cfg.CountBits()
	return (&hwsim.PartSpec{
		Name:    "MAXCOUNT",
		Inputs:  hwsim.IO("count[%d], rst", p*cw),
		Outputs: hwsim.IO("max[%d], zero", cw),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			count, rst := s.Bus("count").Split(p), s.Pin("rst")
			max, zero := s.Bus("max"), s.Pin("zero")
			vals := make([]int64, p)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				if !c.AtTick() {
					return
				}
				for l, b := range count {
					vals[l] = int64(b.Uint64(c))
				}
				m := hwlib.MaxTree(vals)
				if c.Get(rst) {
					m = 0
				}
				if m > 0 {
					m--
					c.Set(zero, false)
				} else {
					c.Set(zero, true)
				}
				max.SetUint64(c, uint64(m))
			}}
		}}).NewPart
}
