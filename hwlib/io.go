// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/isingmon/hwsim"
)

// Input creates a function based input.
//
//	Outputs: out
//	Function: out = f()
//
func Input(f func() bool) hwsim.NewPartFn {
	p := &hwsim.PartSpec{
		Name:    "Input",
		Inputs:  nil,
		Outputs: hwsim.IO(pOut),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pin := s.Pin(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					c.Set(pin, f())
				},
			}
		},
	}
	return p.NewPart
}

// Output creates an output or probe. The fn function is
// called with the named pin state on every circuit update.
//
//	Inputs: in
//	Function: f(in)
//
func Output(f func(bool)) hwsim.NewPartFn {
	p := &hwsim.PartSpec{
		Name:    "Output",
		Inputs:  hwsim.IO(pIn),
		Outputs: nil,
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in := s.Pin(pIn)
			return []hwsim.Component{
				func(c *hwsim.Circuit) { f(c.Get(in)) },
			}
		},
	}
	return p.NewPart
}

// InputN creates an input bus of the given bits size.
//
//	Outputs: out[bits]
//	Function: out = f()
//
func InputN(bits int, f func() uint64) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "INPUT" + strconv.Itoa(bits),
		Inputs:  nil,
		Outputs: hwsim.IO("out[%d]", bits),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pins := s.Bus(pOut)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				pins.SetUint64(c, f())
			}}
		}}).NewPart
}

// OutputN creates an output bus of the given bits size.
//
//	Inputs: in[bits]
//	Function: f(in)
//
func OutputN(bits int, f func(uint64)) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "OUTPUT" + strconv.Itoa(bits),
		Inputs:  hwsim.IO("in[%d]", bits),
		Outputs: nil,
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pins := s.Bus(pIn)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				f(pins.Uint64(c))
			}}
		}}).NewPart
}

// InputBits creates an input bus of any width. f must fill dst with the pin
// states and must not retain it.
//
//	Outputs: out[bits]
//
func InputBits(bits int, f func(dst []bool)) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "INPUTBITS" + strconv.Itoa(bits),
		Outputs: hwsim.IO("out[%d]", bits),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pins := s.Bus(pOut)
			buf := make([]bool, bits)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				f(buf)
				pins.Write(c, buf)
			}}
		}}).NewPart
}

// OutputBits creates an output bus of any width. The slice passed to f is
// only valid for the duration of the call.
//
//	Inputs: in[bits]
//
func OutputBits(bits int, f func(v []bool)) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:   "OUTPUTBITS" + strconv.Itoa(bits),
		Inputs: hwsim.IO("in[%d]", bits),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pins := s.Bus(pIn)
			buf := make([]bool, bits)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				pins.Read(c, buf)
				f(buf)
			}}
		}}).NewPart
}
