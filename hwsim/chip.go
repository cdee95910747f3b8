// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"github.com/pkg/errors"
)

type chip struct {
	PartSpec       // PartSpec for this chip
	parts    Parts // sub parts
}

func (c *chip) mount(s *Socket) []Component {
	var updaters []Component

	// wires maps wire names to pins. Chip ports are the wires shared with
	// the enclosing socket, internal wires are allocated on first use.
	wires := make(map[string][]int)
	for _, p := range c.Inputs {
		wires[p.Name] = s.Bus(p.Name)
	}
	for _, p := range c.Outputs {
		wires[p.Name] = s.Bus(p.Name)
	}

	for _, p := range c.parts {
		sub := newSocket(s.c)
		for _, pt := range p.Inputs {
			switch n := p.Conns[pt.Name]; n {
			case "", False:
				// unconnected inputs are grounded.
				sub.m[pt.Name] = s.c.constPins(cstFalse, pt.Width)
			case True:
				sub.m[pt.Name] = s.c.constPins(cstTrue, pt.Width)
			default:
				sub.m[pt.Name] = wireOrNew(s.c, wires, n, pt.Width)
			}
		}
		for _, pt := range p.Outputs {
			if n := p.Conns[pt.Name]; n != "" {
				sub.m[pt.Name] = wireOrNew(s.c, wires, n, pt.Width)
			} else {
				sub.m[pt.Name] = s.c.allocPins(pt.Width)
			}
		}
		updaters = append(updaters, p.Mount(sub)...)
	}
	return updaters
}

func wireOrNew(c *Circuit, wires map[string][]int, name string, width int) []int {
	if pins, ok := wires[name]; ok {
		return pins
	}
	pins := c.allocPins(width)
	wires[name] = pins
	return pins
}

// Chip composes existing parts into a new part packaged into a chip.
// The ports specified as inputs and outputs will be the inputs
// and outputs of the chip.
//
// A register with an inverted output could be created like this:
//
//	nreg, err := Chip(
//		"NREG8",
//		IO("in[8], load"),
//		IO("out[8]"),
//		hwlib.Register(8)("in=in, load=load, out=q"),
//		hwlib.NotN(8)("in=q, out=out"),
//	)
//
// The returned value is a function of type NewPartFn that can be used to
// compose the new part with others into other chips.
//
// Chip checks that every connection refers to an existing port, that the
// widths of all ports connected to the same wire match, that each wire is
// driven by exactly one output (or chip input) and that outputs are not
// connected to constants.
//
func Chip(name string, inputs, outputs []Port, parts ...Part) (NewPartFn, error) {
	wr := newWiring()
	seen := make(map[string]bool)

	for _, p := range inputs {
		if seen[p.Name] {
			return nil, errors.Errorf("%s: duplicate port %s", name, p.Name)
		}
		seen[p.Name] = true
		if err := wr.drive(p.Name, p.Width, name+"."+p.Name); err != nil {
			return nil, err
		}
	}
	for _, p := range outputs {
		if seen[p.Name] {
			return nil, errors.Errorf("%s: duplicate port %s", name, p.Name)
		}
		seen[p.Name] = true
		if err := wr.read(p.Name, p.Width, name+"."+p.Name); err != nil {
			return nil, err
		}
	}

	for _, p := range parts {
		if p.PartSpec == nil {
			return nil, errors.Errorf("%s: nil part", name)
		}
		for k, v := range p.Conns {
			pt, input, ok := p.port(k)
			if !ok {
				return nil, errors.New("invalid pin name " + k + " for part " + p.Name)
			}
			where := p.Name + "." + k
			var err error
			switch {
			case isConst(v) && input:
				continue
			case isConst(v):
				err = errors.Errorf("%s: output pin connected to constant %q", where, v)
			case input:
				err = wr.read(v, pt.Width, where)
			default:
				err = wr.drive(v, pt.Width, where)
			}
			if err != nil {
				return nil, errors.Wrap(err, name)
			}
		}
	}

	if err := wr.check(); err != nil {
		return nil, errors.Wrap(err, name)
	}

	c := &chip{
		PartSpec{
			Name:    name,
			Inputs:  inputs,
			Outputs: outputs,
		},
		parts,
	}
	c.PartSpec.Mount = c.mount
	return c.PartSpec.NewPart, nil
}
