// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/isingmon/hwsim"
)

// DFF returns a clocked N-bits data flip flop with synchronous reset.
//
//	Inputs: in[bits], rst
//	Outputs: out[bits]
//	Function: out(t) = rst(t-1) ? 0 : in(t-1) // where t is the current clock cycle.
//
func DFF(bits int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "DFF" + strconv.Itoa(bits),
		Inputs:  hwsim.IO("in[%d], rst", bits),
		Outputs: hwsim.IO("out[%d]", bits),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, rst, out := s.Bus(pIn), s.Pin(pRst), s.Bus(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					// raising edge?
					if !c.AtTick() {
						return
					}
					r := c.Get(rst)
					for i, p := range in {
						c.Set(out[i], !r && c.Get(p))
					}
				}}
		}}).NewPart
}

// Register returns a N-bits register with load enable and synchronous clear.
// Clear has priority over load.
//
//	Inputs: in[bits], load, clr
//	Outputs: out[bits]
//	Function: if clr { out = 0 } else if load { out = in } // on the raising edge
//
func Register(bits int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "REG" + strconv.Itoa(bits),
		Inputs:  hwsim.IO("in[%d], load, clr", bits),
		Outputs: hwsim.IO("out[%d]", bits),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, load, clr, out := s.Bus(pIn), s.Pin(pLoad), s.Pin(pClr), s.Bus(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					if !c.AtTick() {
						return
					}
					switch {
					case c.Get(clr):
						for _, p := range out {
							c.Set(p, false)
						}
					case c.Get(load):
						for i, p := range in {
							c.Set(out[i], c.Get(p))
						}
					}
				}}
		}}).NewPart
}
