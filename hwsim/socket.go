// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

// pin numbers of constant wires.
const (
	cstFalse = iota
	cstTrue
	cstCount
)

// constPins returns a bus of width pins all wired to constant pin cst.
//
func (c *Circuit) constPins(cst int, width int) []int {
	pins := make([]int, width)
	for i := range pins {
		pins[i] = cst
	}
	return pins
}

// A Socket maps a part's port names to pin numbers in a circuit.
//
type Socket struct {
	m map[string][]int
	c *Circuit
}

func newSocket(c *Circuit) *Socket {
	return &Socket{
		m: make(map[string][]int),
		c: c,
	}
}

// Pin returns the pin number allocated to the given single bit port.
// This function panics if the port does not exist or is a bus.
//
func (s *Socket) Pin(name string) int {
	b := s.Bus(name)
	if len(b) != 1 {
		panic("pin " + name + " is a bus")
	}
	return b[0]
}

// Bus returns the pin numbers allocated to the given port.
// This function panics if the port does not exist.
//
func (s *Socket) Bus(name string) Bus {
	pins, ok := s.m[name]
	if !ok {
		panic("pin " + name + " does not exist")
	}
	return Bus(pins)
}

// A Bus is an ordered set of pins. Pin 0 is the least significant bit.
//
type Bus []int

// Uint64 returns the state of the bus as an unsigned integer.
// Only the 64 least significant pins are read.
//
func (b Bus) Uint64(c *Circuit) uint64 {
	var out uint64
	for bit, p := range b {
		if bit == 64 {
			break
		}
		if c.Get(p) {
			out |= 1 << uint(bit)
		}
	}
	return out
}

// Int64 returns the state of the bus as a two's complement signed integer.
// The most significant pin of the bus is the sign bit.
//
func (b Bus) Int64(c *Circuit) int64 {
	n := len(b)
	if n == 0 {
		return 0
	}
	v := int64(b.Uint64(c))
	if n >= 64 {
		return v
	}
	s := uint(64 - n)
	return v << s >> s
}

// SetUint64 sets the pins to the given value. Bits of v that do not fit in the
// bus are ignored.
//
func (b Bus) SetUint64(c *Circuit, v uint64) {
	for bit, p := range b {
		c.Set(p, bit < 64 && v&(1<<uint(bit)) != 0)
	}
}

// SetInt64 sets the pins to the two's complement representation of v,
// truncated to the bus width.
//
func (b Bus) SetInt64(c *Circuit, v int64) {
	for bit, p := range b {
		if bit >= 64 {
			c.Set(p, v < 0)
			continue
		}
		c.Set(p, v&(1<<uint(bit)) != 0)
	}
}

// Read copies the pin states into dst.
//
func (b Bus) Read(c *Circuit, dst []bool) {
	for i, p := range b {
		dst[i] = c.Get(p)
	}
}

// Write sets the pins from src.
//
func (b Bus) Write(c *Circuit, src []bool) {
	for i, p := range b {
		c.Set(p, src[i])
	}
}

// Split splits the bus into n buses of equal width. It panics if the bus
// width is not a multiple of n.
//
func (b Bus) Split(n int) []Bus {
	if n <= 0 || len(b)%n != 0 {
		panic("bus width is not a multiple of the split count")
	}
	w := len(b) / n
	out := make([]Bus, n)
	for i := range out {
		out[i] = b[i*w : (i+1)*w : (i+1)*w]
	}
	return out
}
