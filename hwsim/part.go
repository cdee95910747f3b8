// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Port is a named input or output of a part. Width is the bus width in bits.
//
type Port struct {
	Name  string
	Width int
}

// ParseIO parses a port list description like "a, b, bus[16]" and returns
// the corresponding ports. Ports without a width specification are 1 bit wide.
//
func ParseIO(spec string) ([]Port, error) {
	var out []Port
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	for _, f := range strings.Split(spec, ",") {
		f = strings.TrimSpace(f)
		name, width := f, 1
		if i := strings.IndexByte(f, '['); i >= 0 {
			if !strings.HasSuffix(f, "]") {
				return nil, errors.Errorf("in %q: missing close bracket", f)
			}
			n, err := strconv.Atoi(f[i+1 : len(f)-1])
			if err != nil {
				return nil, errors.Wrapf(err, "in %q: bad bus size", f)
			}
			if n <= 0 {
				return nil, errors.Errorf("in %q: bus size must be positive", f)
			}
			name, width = strings.TrimSpace(f[:i]), n
		}
		if !validName(name) {
			return nil, errors.Errorf("in %q: invalid pin name %q", spec, name)
		}
		out = append(out, Port{name, width})
	}
	return out, nil
}

// IO is like ParseIO but formats spec with args first and panics on error.
// It is meant to be used in PartSpec definitions:
//
//	Inputs: hwsim.IO("a[%d], b[%d], sel", bits, bits),
//
func IO(spec string, args ...interface{}) []Port {
	if len(args) > 0 {
		spec = fmt.Sprintf(spec, args...)
	}
	ports, err := ParseIO(spec)
	if err != nil {
		panic(err)
	}
	return ports
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned pin numbers and return closures around
// these pin numbers.
//
// For example, a N-bits Not gate can be defined like this:
//
//	not := &PartSpec{
//		Name: "Not",
//		Inputs: IO("in[%d]", n),
//		Outputs: IO("out[%d]", n),
//		Mount: func (s *Socket) []Component {
//			in, out := s.Bus("in"), s.Bus("out")
//			return []Component{
//				func (c *Circuit) {
//					for i := range in {
//						c.Set(out[i], !c.Get(in[i]))
//					}
//				}}
//		}}
//
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
type PartSpec struct {
	// Part name.
	Name string
	// Input ports. Must be distinct from each other and from output ports.
	Inputs []Port
	// Output ports.
	Outputs []Port
	// Mount function (see MountFn).
	Mount MountFn
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string cannot be parsed. Connections are
// checked against p's ports when the part is used in a Chip.
//
func (p *PartSpec) NewPart(connections string) Part {
	w, err := ParseConnections(connections)
	if err != nil {
		panic(err)
	}
	return Part{p, w}
}

// port returns the port with the given name and whether it is an input.
//
func (p *PartSpec) port(name string) (pt Port, input bool, ok bool) {
	for _, pt := range p.Inputs {
		if pt.Name == name {
			return pt, true, true
		}
	}
	for _, pt := range p.Outputs {
		if pt.Name == name {
			return pt, false, true
		}
	}
	return Port{}, false, false
}

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part. See ParseConnections for the syntax of the connection configuration
// string.
//
type NewPartFn func(connections string) Part

// A Part wraps a part specification together with its connections within a host
// chip.
//
type Part struct {
	*PartSpec
	Conns W
}

// Parts is a list of parts.
//
type Parts []Part
