// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib_test

import (
	"testing"

	hl "github.com/db47h/isingmon/hwlib"
	hw "github.com/db47h/isingmon/hwsim"
	"github.com/db47h/isingmon/hwtest"
)

// a ^ b == !(!a ^ b)
func TestXorN(t *testing.T) {
	xor, err := hw.Chip("myXOR", hw.IO("a[8], b[8]"), hw.IO("out[8]"),
		hl.NotN(8)("in=a, out=na"),
		hl.XorN(8)("a=na, b=b, out=nx"),
		hl.NotN(8)("in=nx, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, 8, hl.XorN(8), xor)
}

func TestReverseN(t *testing.T) {
	rev2, err := hw.Chip("REVREV", hw.IO("a[7], b[7]"), hw.IO("out[7]"),
		hl.ReverseN(7)("in=a, out=ra"),
		hl.ReverseN(7)("in=ra, out=a2"),
		hl.XorN(7)("a=a2, b=b, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, 8, hl.XorN(7), rev2)

	var in, out uint64
	c, err := hw.NewCircuit(1, 4,
		hl.InputN(4, func() uint64 { return in })("out=in"),
		hl.ReverseN(4)("in=in, out=out"),
		hl.OutputN(4, func(v uint64) { out = v })("in=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	for _, d := range []struct{ in, out uint64 }{
		{0x1, 0x8}, {0x3, 0xc}, {0x6, 0x6}, {0xe, 0x7}, {0x0, 0x0},
	} {
		in = d.in
		c.Cycle()
		if out != d.out {
			t.Fatalf("reverse(%04b): expected %04b, got %04b", d.in, d.out, out)
		}
	}
}
