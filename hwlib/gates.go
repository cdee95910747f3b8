// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable parts for hwsim.
//
// Copyright 2018 Denis Bernard <db047h@gmail.com>
//
// This package is licensed under the MIT license. See license text in the LICENSE file.
//
package hwlib

import (
	"strconv"

	"github.com/db47h/isingmon/hwsim"
)

// common pin names
const (
	pA     = "a"
	pB     = "b"
	pIn    = "in"
	pOut   = "out"
	pLoad  = "load"
	pClr   = "clr"
	pRst   = "rst"
	pValid = "valid"
)

func notN(bits int) *hwsim.PartSpec {
	return &hwsim.PartSpec{
		Name:    "NOT" + strconv.Itoa(bits),
		Inputs:  hwsim.IO("in[%d]", bits),
		Outputs: hwsim.IO("out[%d]", bits),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			ins := s.Bus(pIn)
			outs := s.Bus(pOut)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				for i, pin := range ins {
					c.Set(outs[i], !c.Get(pin))
				}
			}}
		}}
}

// NotN returns a N-bits NOT gate.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = !in[i] }
//
func NotN(bits int) hwsim.NewPartFn {
	return notN(bits).NewPart
}

type gateN func(a, b bool) bool

func (g gateN) mount(s *hwsim.Socket) []hwsim.Component {
	a, b, out := s.Bus(pA), s.Bus(pB), s.Bus(pOut)
	return []hwsim.Component{
		func(c *hwsim.Circuit) {
			for i := range a {
				c.Set(out[i], g(c.Get(a[i]), c.Get(b[i])))
			}
		},
	}
}

func newGateN(name string, bits int, f func(bool, bool) bool) *hwsim.PartSpec {
	return &hwsim.PartSpec{
		Name:    name + strconv.Itoa(bits),
		Inputs:  hwsim.IO("a[%d], b[%d]", bits, bits),
		Outputs: hwsim.IO("out[%d]", bits),
		Mount:   gateN(f).mount,
	}
}

// XorN returns a N-bits XOR gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = a[i] != b[i] }
//
func XorN(bits int) hwsim.NewPartFn {
	return newGateN("XOR", bits, func(a, b bool) bool { return a && !b || !a && b }).NewPart
}

// ReverseN returns a part that reverses the bit order of a bus.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = in[bits-1-i] }
//
func ReverseN(bits int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "REV" + strconv.Itoa(bits),
		Inputs:  hwsim.IO("in[%d]", bits),
		Outputs: hwsim.IO("out[%d]", bits),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Bus(pIn), s.Bus(pOut)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				for i, pin := range in {
					c.Set(out[len(out)-1-i], c.Get(pin))
				}
			}}
		}}).NewPart
}
