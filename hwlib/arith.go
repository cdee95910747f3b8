// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import "math/bits"

// Clog2 returns ⌈log2(n)⌉, the number of bits needed to represent values in
// [0, n). It returns 0 for n <= 1.
//
func Clog2(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// Truncate wraps v to a bits wide two's complement value.
//
func Truncate(v int64, bits int) int64 {
	if bits >= 64 {
		return v
	}
	if bits <= 0 {
		return 0
	}
	s := uint(64 - bits)
	return v << s >> s
}

// SignExtend interprets the bits least significant bits of v as a two's
// complement value.
//
func SignExtend(v uint64, bits int) int64 {
	return Truncate(int64(v), bits)
}

// AddSub is the signed add/subtract primitive.
//
//	Function: sub == false: a + b
//	          sub == true:  a - b
//
// The result wraps around at the given bit width.
//
func AddSub(a, b int64, sub bool, bits int) int64 {
	if sub {
		return Truncate(a-b, bits)
	}
	return Truncate(a+b, bits)
}

// ReduceTree reduces vals with op using a balanced pairwise reduction tree:
// vals[0] op vals[1], vals[2] op vals[3], ... then the partial results are
// reduced the same way until a single value remains. An odd element is
// carried to the next level unchanged.
//
// vals is used as scratch space and is clobbered. ReduceTree returns 0 if
// vals is empty, and vals[0] as is, without calling op, if it has a single
// element.
//
func ReduceTree(vals []int64, op func(a, b int64) int64) int64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	for n > 1 {
		h := n / 2
		for i := 0; i < h; i++ {
			vals[i] = op(vals[2*i], vals[2*i+1])
		}
		if n&1 != 0 {
			vals[h] = vals[n-1]
			h++
		}
		n = h
	}
	return vals[0]
}

// Adder returns an op for ReduceTree that adds its operands with wraparound
// at the given bit width.
//
func Adder(bits int) func(a, b int64) int64 {
	return func(a, b int64) int64 { return AddSub(a, b, false, bits) }
}

func maxOp(a, b int64) int64 {
	if b > a {
		return b
	}
	return a
}

// PopCount returns the number of true values in mask. Leaves are counted in
// 64 bit words and the word counts are summed by ReduceTree. scratch must be
// at least (len(mask)+63)/64 long, or nil.
//
func PopCount(mask []bool, scratch []int64) int {
	words := (len(mask) + 63) / 64
	if len(scratch) < words {
		scratch = make([]int64, words)
	}
	scratch = scratch[:words]
	for w := range scratch {
		var word uint64
		end := w*64 + 64
		if end > len(mask) {
			end = len(mask)
		}
		for i, b := range mask[w*64 : end] {
			if b {
				word |= 1 << uint(i)
			}
		}
		scratch[w] = int64(bits.OnesCount64(word))
	}
	return int(ReduceTree(scratch, Adder(64)))
}

// MaxTree returns the largest value of vals using ReduceTree. vals is
// clobbered.
//
func MaxTree(vals []int64) int64 {
	return ReduceTree(vals, maxOp)
}
