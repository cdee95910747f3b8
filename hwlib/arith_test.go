// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib_test

import (
	"math/bits"
	"testing"
	"testing/quick"

	hl "github.com/db47h/isingmon/hwlib"
)

func TestClog2(t *testing.T) {
	td := []struct{ n, want int }{
		{0, 0}, {1, 0}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {64, 6}, {65, 7}, {256, 8}, {257, 9},
	}
	for _, d := range td {
		if got := hl.Clog2(d.n); got != d.want {
			t.Errorf("Clog2(%d) = %d, expected %d", d.n, got, d.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	td := []struct {
		v    int64
		bits int
		want int64
	}{
		{7, 4, 7},
		{8, 4, -8},
		{15, 4, -1},
		{16, 4, 0},
		{-9, 4, 7},
		{-1, 64, -1},
		{1 << 40, 32, 0},
		{123, 0, 0},
	}
	for _, d := range td {
		if got := hl.Truncate(d.v, d.bits); got != d.want {
			t.Errorf("Truncate(%d, %d) = %d, expected %d", d.v, d.bits, got, d.want)
		}
	}
	if got := hl.SignExtend(0xf, 4); got != -1 {
		t.Errorf("SignExtend(0xf, 4) = %d, expected -1", got)
	}
	if got := hl.SignExtend(0x7, 4); got != 7 {
		t.Errorf("SignExtend(0x7, 4) = %d, expected 7", got)
	}
}

func TestAddSub(t *testing.T) {
	td := []struct {
		a, b int64
		sub  bool
		bits int
		want int64
	}{
		{3, 4, false, 8, 7},
		{3, 4, true, 8, -1},
		{-3, -4, false, 8, -7},
		{-3, -4, true, 8, 1},
		{127, 1, false, 8, -128},
		{-128, 1, true, 8, 127},
		{0, 5, true, 16, -5},
	}
	for _, d := range td {
		if got := hl.AddSub(d.a, d.b, d.sub, d.bits); got != d.want {
			t.Errorf("AddSub(%d, %d, %v, %d) = %d, expected %d", d.a, d.b, d.sub, d.bits, got, d.want)
		}
	}
}

func TestReduceTree(t *testing.T) {
	if got := hl.ReduceTree(nil, hl.Adder(64)); got != 0 {
		t.Fatalf("empty reduction: got %d", got)
	}
	if got := hl.ReduceTree([]int64{42}, hl.Adder(64)); got != 42 {
		t.Fatalf("single element reduction: got %d", got)
	}
	// a single element is returned as is, even when out of range for op.
	if got := hl.ReduceTree([]int64{2050}, hl.Adder(12)); got != 2050 {
		t.Fatalf("single element reduction: got %d", got)
	}

	sum := func(vals []int64) bool {
		var want int64
		for _, v := range vals {
			want += v
		}
		tmp := append([]int64(nil), vals...)
		return hl.ReduceTree(tmp, hl.Adder(64)) == want
	}
	if err := quick.Check(sum, nil); err != nil {
		t.Fatal(err)
	}

	wrapped := func(vals []int16) bool {
		var want int64
		tmp := make([]int64, len(vals))
		for i, v := range vals {
			// operands are in range, as lane terms are.
			tmp[i] = hl.Truncate(int64(v), 12)
			want += tmp[i]
		}
		return hl.ReduceTree(tmp, hl.Adder(12)) == hl.Truncate(want, 12)
	}
	if err := quick.Check(wrapped, nil); err != nil {
		t.Fatal(err)
	}
}

func TestMaxTree(t *testing.T) {
	max := func(vals []int64) bool {
		if len(vals) == 0 {
			return hl.MaxTree(vals) == 0
		}
		want := vals[0]
		for _, v := range vals[1:] {
			if v > want {
				want = v
			}
		}
		return hl.MaxTree(append([]int64(nil), vals...)) == want
	}
	if err := quick.Check(max, nil); err != nil {
		t.Fatal(err)
	}
}

func TestPopCount(t *testing.T) {
	f := func(words []uint64, extra uint8) bool {
		var want int
		mask := make([]bool, 0, len(words)*64+int(extra%64))
		for _, w := range words {
			want += bits.OnesCount64(w)
			for i := uint(0); i < 64; i++ {
				mask = append(mask, w&(1<<i) != 0)
			}
		}
		for i := 0; i < int(extra%64); i++ {
			mask = append(mask, i&1 == 0)
			if i&1 == 0 {
				want++
			}
		}
		return hl.PopCount(mask, nil) == want
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}

	scratch := make([]int64, 4)
	mask := make([]bool, 256)
	for i := range mask {
		mask[i] = true
	}
	if got := hl.PopCount(mask, scratch); got != 256 {
		t.Fatalf("PopCount(all ones) = %d, expected 256", got)
	}
}
