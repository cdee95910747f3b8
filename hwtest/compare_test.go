// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest_test

import (
	"math/rand"
	"testing"

	"github.com/db47h/isingmon/hamiltonian"
	hl "github.com/db47h/isingmon/hwlib"
	hw "github.com/db47h/isingmon/hwsim"
	"github.com/db47h/isingmon/hwtest"
	"github.com/db47h/isingmon/monitor"
)

func TestComparePart(t *testing.T) {
	xor, err := hw.Chip("custom_xor", hw.IO("a[3], b[3]"), hw.IO("out[3]"),
		hl.NotN(3)("in=a, out=notA"),
		hl.NotN(3)("in=b, out=notB"),
		hl.XorN(3)("a=notA, b=notB, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, 4, hl.XorN(3), xor)
}

// A little endian spin cache fed with reversed spins behaves like a big
// endian one.
//
func TestComparePart_spinCache(t *testing.T) {
	cfg := monitor.Config{DataSpin: 12}
	le, err := monitor.SpinCache(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	rev, err := hw.Chip("REVCACHE", hw.IO("spin[12], load, rst"), hw.IO("cached[12], flipped[12], unflipped[12]"),
		hl.ReverseN(12)("in=spin, out=r"),
		le("spin=r, load=load, rst=rst, cached=cached, flipped=flipped, unflipped=unflipped"),
	)
	if err != nil {
		t.Fatal(err)
	}
	cfg.BigEndian = true
	be, err := monitor.SpinCache(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, 8, be, rev)
}

func TestRandomTransition(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	s := make([]bool, 40)
	for k := 0; k <= len(s); k += 5 {
		next := hwtest.RandomTransition(rng, s, k)
		f, _ := hamiltonian.FlipMasks(s, next)
		if got := hl.PopCount(f, nil); got != k {
			t.Fatalf("expected %d flips, got %d", k, got)
		}
	}
}

func TestCompareReference(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	cfg := monitor.DefaultConfig()
	cfg.DataSpin, cfg.Parallelism = 16, 4
	p := &hamiltonian.Problem{J: hamiltonian.RandomSymmetric(rng, 16, -8, 7)}
	e, err := monitor.NewEngine(cfg, p)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	hwtest.CompareReference(t, e, p, 12, rng)
}
