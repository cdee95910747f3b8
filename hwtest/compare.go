// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/isingmon/hwlib"
	"github.com/db47h/isingmon/hwsim"
)

func connString(in, out []hwsim.Port, suffix string) string {
	var b strings.Builder
	for _, p := range in {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteRune('=')
		b.WriteString(p.Name)
	}
	for _, p := range out {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteRune('=')
		b.WriteString(p.Name)
		b.WriteString(suffix)
	}
	return b.String()
}

func samePorts(a, b []hwsim.Port) error {
	if len(a) != len(b) {
		return fmt.Errorf("port count mismatch: %d != %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			return fmt.Errorf("port #%d mismatch: %v != %v", i, a[i], b[i])
		}
	}
	return nil
}

func randBool(rng *rand.Rand) bool {
	return rng.Int63()&(1<<62) != 0
}

func bitString(v []bool) string {
	var b strings.Builder
	for i := len(v) - 1; i >= 0; i-- {
		if v[i] {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ComparePart takes two parts and compares their outputs given the same inputs.
// Both parts must have the same Input/Output interface. Inputs are all low,
// then all high, then random for a number of clock cycles; outputs are
// compared at the end of every cycle.
//
func ComparePart(t *testing.T, spc uint, part1 hwsim.NewPartFn, part2 hwsim.NewPartFn) {
	t.Helper()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	ps1, ps2 := part1(""), part2("")
	if err := samePorts(ps1.Inputs, ps2.Inputs); err != nil {
		t.Fatal("inputs: ", err)
	}
	if err := samePorts(ps1.Outputs, ps2.Outputs); err != nil {
		t.Fatal("outputs: ", err)
	}

	inputs := make([][]bool, len(ps1.Inputs))
	outputs := make([][2][]bool, len(ps1.Outputs))

	var parts hwsim.Parts
	for i, p := range ps1.Inputs {
		in := make([]bool, p.Width)
		inputs[i] = in
		parts = append(parts, hwlib.InputBits(p.Width, func(dst []bool) { copy(dst, in) })("out="+p.Name))
	}
	for i, p := range ps1.Outputs {
		o := &outputs[i]
		o[0], o[1] = make([]bool, p.Width), make([]bool, p.Width)
		parts = append(parts,
			hwlib.OutputBits(p.Width, func(v []bool) { copy(o[0], v) })("in="+p.Name+"__1"),
			hwlib.OutputBits(p.Width, func(v []bool) { copy(o[1], v) })("in="+p.Name+"__2"),
		)
	}
	parts = append(parts,
		part1(connString(ps1.Inputs, ps1.Outputs, "__1")),
		part2(connString(ps2.Inputs, ps2.Outputs, "__2")))

	c, err := hwsim.NewCircuit(0, spc, parts...)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	errString := func(oname string, ex, got []bool) string {
		var b strings.Builder
		for i, p := range ps1.Inputs {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Name)
			b.WriteRune('=')
			b.WriteString(bitString(inputs[i]))
		}
		return fmt.Sprintf("\nExpected %s => %s=%s\nGot %s", b.String(), oname, bitString(ex), bitString(got))
	}

	check := func() {
		t.Helper()
		// one cycle to propagate the inputs, one for clocked parts to latch them.
		c.Cycle()
		c.Cycle()
		for o, out := range outputs {
			for i := range out[0] {
				if out[0][i] != out[1][i] {
					t.Fatal(errString(ps1.Outputs[o].Name, out[0], out[1]))
				}
			}
		}
	}

	start := time.Now()

	// try all 0
	check()

	// try all 1
	for _, in := range inputs {
		for i := range in {
			in[i] = true
		}
	}
	check()

	for i := 0; i < 256; i++ {
		for _, in := range inputs {
			for i := range in {
				in[i] = randBool(rng)
			}
		}
		check()
	}

	elapsed := time.Since(start)
	ticks := c.Cycles()
	t.Logf("%d components. %d steps in %v. %d clock ticks => %.2f Hz", c.Size(), c.Steps(), elapsed, ticks, float64(ticks)/(float64(elapsed)/float64(time.Second)))
}
