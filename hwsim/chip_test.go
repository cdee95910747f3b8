// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim_test

import (
	"strings"
	"testing"

	hl "github.com/db47h/isingmon/hwlib"
	hw "github.com/db47h/isingmon/hwsim"
	"github.com/pkg/errors"
)

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

func TestChip_errors(t *testing.T) {
	data := []struct {
		name  string
		in    string
		out   string
		parts hw.Parts
		err   string
	}{
		{"ok", "a, b", "out", hw.Parts{
			hl.NotN(1)("in=a, out=out"),
		}, ""},
		{"const_in", "a", "out", hw.Parts{
			hl.NotN(1)("in=true, out=out"),
		}, ""},
		{"unknown_pin", "a", "out", hw.Parts{
			hl.NotN(1)("in=a, typo=a, out=out"),
		}, "invalid pin name typo for part NOT1"},
		{"width", "a", "out", hw.Parts{
			hl.NotN(2)("in=a, out=out"),
		}, "does not match width 1 of wire"},
		{"multi_out", "a", "out", hw.Parts{
			hl.NotN(1)("in=a, out=x"),
			hl.NotN(1)("in=a, out=x"),
			hl.NotN(1)("in=x, out=out"),
		}, "wire x driven by both"},
		{"input_driven", "a", "out", hw.Parts{
			hl.NotN(1)("in=out, out=a"),
		}, "wire a driven by both"},
		{"true_out", "a", "out", hw.Parts{
			hl.NotN(1)("in=a, out=true"),
		}, "output pin connected to constant \"true\""},
		{"no_output", "a", "out", hw.Parts{
			hl.NotN(1)("in=wx, out=out"),
		}, "wire wx (read by NOT1.in) not connected to any output"},
		{"undriven_out", "a", "out", hw.Parts{}, "wire out (read by TEST.out) not connected to any output"},
		{"duplicate", "a, a", "out", hw.Parts{
			hl.NotN(1)("in=a, out=out"),
		}, "duplicate port a"},
		{"duplicate_io", "a", "a", nil, "duplicate port a"},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := hw.Chip("TEST", hw.IO(d.in), hw.IO(d.out), d.parts...)
			if d.err == "" {
				if err != nil {
					trace(t, err)
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), d.err) {
				t.Fatalf("got error %v, expected %q", err, d.err)
			}
		})
	}
}

func TestChip_omittedPins(t *testing.T) {
	var a, b, tr, o0, o1 int
	dummy := (&hw.PartSpec{
		Name:    "dummy",
		Inputs:  hw.IO("a, b, t"),
		Outputs: hw.IO("o0, o1"),
		Mount: func(s *hw.Socket) []hw.Component {
			a, b, tr, o0, o1 = s.Pin("a"), s.Pin("b"), s.Pin("t"), s.Pin("o0"), s.Pin("o1")
			return nil
		}}).NewPart
	wrapper, err := hw.Chip("wrapper", hw.IO("wa, wb"), hw.IO("wo0"),
		dummy("a=false, t=true, o0=wo0"),
	)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	c, err := hw.NewCircuit(0, 0, wrapper(""))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	if a != 0 || b != 0 { // false
		t.Errorf("a = %v, b = %v, both must be 0", a, b)
	}
	if tr != 1 { // true
		t.Errorf("t = %v, must be 1", tr)
	}
	if o0 < 2 || o1 < 2 || o0 == o1 {
		t.Errorf("o0 = %v, o1 = %v, must be distinct and >= 2", o0, o1)
	}
}

// Chips nest and share wires with their host through their ports.
//
func TestChip_nested(t *testing.T) {
	buf, err := hw.Chip("BUF4", hw.IO("in[4]"), hw.IO("out[4]"),
		hl.NotN(4)("in=in, out=n"),
		hl.NotN(4)("in=n, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	inv, err := hw.Chip("INV4", hw.IO("in[4]"), hw.IO("out[4], copy[4]"),
		buf("in=in, out=copy"),
		hl.NotN(4)("in=copy, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	var in, out, cp uint64
	c, err := hw.NewCircuit(0, 8,
		hl.InputN(4, func() uint64 { return in })("out=x"),
		inv("in=x, out=y, copy=z"),
		hl.OutputN(4, func(v uint64) { out = v })("in=y"),
		hl.OutputN(4, func(v uint64) { cp = v })("in=z"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()
	for in = 0; in < 16; in++ {
		c.Cycle()
		if out != ^in&15 || cp != in {
			t.Fatalf("in = %d: out = %d, copy = %d", in, out, cp)
		}
	}
}
