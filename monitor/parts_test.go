// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package monitor_test

import (
	"testing"

	hl "github.com/db47h/isingmon/hwlib"
	hw "github.com/db47h/isingmon/hwsim"
	"github.com/db47h/isingmon/monitor"
)

func decode(v []bool) uint64 {
	var out uint64
	for i, b := range v {
		if b {
			out |= 1 << uint(i)
		}
	}
	return out
}

func maskOf(n int, idx ...int) []bool {
	m := make([]bool, n)
	for _, i := range idx {
		m[i] = true
	}
	return m
}

func TestExtractor(t *testing.T) {
	td := []struct {
		name     string
		msbFirst bool
		flipped  []int
		lanes    [][]int
	}{
		{"lsb", false, []int{2, 6, 10}, [][]int{{2, 6, 10}, {}}},
		{"msb", true, []int{2, 6, 10}, [][]int{{10, 6, 2}, {}}},
		{"both", false, []int{15, 0, 7, 8}, [][]int{{0, 8}, {7, 15}}},
		{"all", false, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
			[][]int{{0, 2, 4, 6, 8, 10, 12, 14}, {1, 3, 5, 7, 9, 11, 13, 15}}},
		{"none", false, nil, [][]int{{}, {}}},
	}

	cfg := monitor.DefaultConfig()
	cfg.DataSpin, cfg.Parallelism = 16, 2
	ll, aw, cw := cfg.LaneLen(), cfg.AddrBits(), cfg.CountBits()

	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			cfg.MSBFirst = d.msbFirst
			var (
				flipped    = maskOf(16, d.flipped...)
				start      bool
				pos, found []bool
				empty      []bool
				done       bool
			)
			c, err := hw.NewCircuit(0, 8,
				hl.InputBits(16, func(dst []bool) { copy(dst, flipped) })("out=flipped"),
				hl.Input(func() bool { return start })("out=start"),
				monitor.Extractor(&cfg)("flipped=flipped, start=start, pos=pos, found=found, empty=empty, done=done"),
				hl.OutputBits(16*aw, func(v []bool) { pos = append(pos[:0], v...) })("in=pos"),
				hl.OutputBits(2*cw, func(v []bool) { found = append(found[:0], v...) })("in=found"),
				hl.OutputBits(2, func(v []bool) { empty = append(empty[:0], v...) })("in=empty"),
				hl.Output(func(v bool) { done = v })("in=done"),
			)
			if err != nil {
				t.Fatal(err)
			}
			defer c.Dispose()

			start = true
			c.Cycle()
			start = false
			c.Cycle()
			n := 0
			for ; n < ll+4 && !done; n++ {
				c.Cycle()
			}
			if !done {
				t.Fatal("extractor not done")
			}
			for l, want := range d.lanes {
				f := int(decode(found[l*cw : (l+1)*cw]))
				if f != len(want) {
					t.Fatalf("lane %d: found %d, expected %d", l, f, len(want))
				}
				for e, w := range want {
					p := int(decode(pos[(l*ll+e)*aw : (l*ll+e+1)*aw]))
					if p != w {
						t.Fatalf("lane %d entry %d: got %d, expected %d", l, e, p, w)
					}
				}
				if empty[l] != (len(want) == 0) {
					t.Fatalf("lane %d: empty = %v", l, empty[l])
				}
			}
		})
	}
}

func TestFlipCounter_MaxCount(t *testing.T) {
	cfg := monitor.DefaultConfig()
	cfg.DataSpin, cfg.Parallelism = 16, 4
	cw := cfg.CountBits()

	var (
		flipped = make([]bool, 16)
		count   []bool
		max     uint64
		zero    bool
	)
	c, err := hw.NewCircuit(0, 4,
		hl.InputBits(16, func(dst []bool) { copy(dst, flipped) })("out=flipped"),
		monitor.FlipCounter(&cfg)("flipped=flipped, count=count"),
		monitor.MaxCount(&cfg)("count=count, max=max, zero=zero"),
		hl.OutputBits(4*cw, func(v []bool) { count = append(count[:0], v...) })("in=count"),
		hl.OutputN(cw, func(v uint64) { max = v })("in=max"),
		hl.Output(func(v bool) { zero = v })("in=zero"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	td := []struct {
		flipped []int
		counts  []uint64
		max     uint64
		zero    bool
	}{
		{[]int{0, 4, 8, 1, 13}, []uint64{3, 2, 0, 0}, 2, false},
		{nil, []uint64{0, 0, 0, 0}, 0, true},
		{[]int{6}, []uint64{0, 0, 1, 0}, 0, false},
		{[]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, []uint64{4, 4, 4, 4}, 3, false},
	}
	for i, d := range td {
		copy(flipped, maskOf(16, d.flipped...))
		c.Cycle()
		c.Cycle()
		c.Cycle()
		for l, want := range d.counts {
			if got := decode(count[l*cw : (l+1)*cw]); got != want {
				t.Fatalf("#%d lane %d: count %d, expected %d", i, l, got, want)
			}
		}
		if max != d.max || zero != d.zero {
			t.Fatalf("#%d: max=%d zero=%v, expected max=%d zero=%v", i, max, zero, d.max, d.zero)
		}
	}
}

func TestAccumulator(t *testing.T) {
	cfg := monitor.DefaultConfig()
	cfg.Parallelism, cfg.EnergyBits, cfg.ResetValue = 2, 8, 3

	var (
		pe0, pe1         int64
		valid, last, clr bool
		acc              int64
		final            bool
	)
	c, err := hw.NewCircuit(0, 4,
		hl.InputN(16, func() uint64 { return uint64(pe0)&0xff | (uint64(pe1)&0xff)<<8 })("out=pe"),
		hl.Input(func() bool { return valid })("out=valid"),
		hl.Input(func() bool { return last })("out=last"),
		hl.Input(func() bool { return clr })("out=clr"),
		monitor.Accumulator(&cfg)("pe=pe, pe_valid=valid, last=last, clr=clr, acc=acc, final=final"),
		hl.OutputN(8, func(v uint64) { acc = hl.SignExtend(v, 8) })("in=acc"),
		hl.Output(func(v bool) { final = v })("in=final"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	// op applies the given inputs for exactly one raising edge.
	op := func(a, b int64, v, l, cl bool) {
		pe0, pe1, valid, last, clr = a, b, v, l, cl
		c.Cycle()
		pe0, pe1, valid, last, clr = 0, 0, false, false, false
		c.Cycle()
	}

	td := []struct {
		a, b     int64
		v, l, cl bool
		acc      int64
		final    bool
	}{
		{0, 0, false, false, true, 3, false},
		{10, 20, true, false, false, 33, false},
		{-5, 1, true, true, false, 29, true},
		{0, 0, false, false, false, 29, true},
		{100, 100, true, false, false, -27, true},
		{1, 1, true, true, true, 3, false},
		{7, 0, false, true, false, 3, true},
	}
	for i, d := range td {
		op(d.a, d.b, d.v, d.l, d.cl)
		if acc != d.acc || final != d.final {
			t.Fatalf("#%d: acc=%d final=%v, expected acc=%d final=%v", i, acc, final, d.acc, d.final)
		}
	}
}
