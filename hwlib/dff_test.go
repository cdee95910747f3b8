// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib_test

import (
	"math/rand"
	"testing"

	hl "github.com/db47h/isingmon/hwlib"
	hw "github.com/db47h/isingmon/hwsim"
	"github.com/db47h/isingmon/hwtest"
)

func randBool() bool {
	return rand.Int63()&(1<<62) != 0
}

func TestDFF(t *testing.T) {
	var in, out uint64
	var rst bool

	c, err := hw.NewCircuit(1, 4,
		hl.InputN(4, func() uint64 { return in })("out=in"),
		hl.Input(func() bool { return rst })("out=rst"),
		hl.DFF(4)("in=in, rst=rst, out=out"),
		hl.OutputN(4, func(o uint64) { out = o })("in=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	for i := 15; i >= 0; i-- {
		in = uint64(i)
		c.Cycle()
		c.Cycle()
		if out != uint64(i) {
			t.Fatalf("bad output for input %d: got %d", i, out)
		}
	}

	in = 9
	c.Cycle()
	c.Cycle()
	rst = true
	c.Cycle()
	c.Cycle()
	if out != 0 {
		t.Fatalf("expected 0 after reset, got %d", out)
	}
}

func TestRegister(t *testing.T) {
	var in, out uint64
	var load, clr bool

	c, err := hw.NewCircuit(0, 4,
		hl.InputN(8, func() uint64 { return in })("out=in"),
		hl.Input(func() bool { return load })("out=load"),
		hl.Input(func() bool { return clr })("out=clr"),
		hl.Register(8)("in=in, load=load, clr=clr, out=out"),
		hl.OutputN(8, func(o uint64) { out = o })("in=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	td := []struct {
		in        uint64
		load, clr bool
		out       uint64
	}{
		{0x5a, false, false, 0},
		{0x5a, true, false, 0x5a},
		{0xff, false, false, 0x5a},
		{0xff, true, false, 0xff},
		{0x12, true, true, 0},
		{0x12, false, false, 0},
		{0x34, false, true, 0},
		{0x34, true, false, 0x34},
	}

	for i, d := range td {
		in, load, clr = d.in, d.load, d.clr
		c.Cycle()
		c.Cycle()
		if out != d.out {
			t.Fatalf("step %d: in=%x load=%v clr=%v: expected %x, got %x", i, d.in, d.load, d.clr, d.out, out)
		}
	}
}

// A register followed by a double inversion behaves like a plain register.
//
func TestRegister_hold(t *testing.T) {
	loop, err := hw.Chip("LOOPREG", hw.IO("in[4], load, clr"), hw.IO("out[4]"),
		hl.Register(4)("in=in, load=load, clr=clr, out=q"),
		hl.NotN(4)("in=q, out=nq"),
		hl.NotN(4)("in=nq, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, 8, hl.Register(4), loop)
}

func TestDFF_random(t *testing.T) {
	var in [16]bool
	var out [16]bool

	c, err := hw.NewCircuit(0, 2,
		hl.InputBits(16, func(dst []bool) { copy(dst, in[:]) })("out=in"),
		hl.DFF(16)("in=in, out=out"),
		hl.OutputBits(16, func(v []bool) { copy(out[:], v) })("in=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	for n := 0; n < 100; n++ {
		for i := range in {
			in[i] = randBool()
		}
		c.Cycle()
		c.Cycle()
		if in != out {
			t.Fatalf("expected %v, got %v", in, out)
		}
	}
}
