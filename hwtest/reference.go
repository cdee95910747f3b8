// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"context"
	"math/rand"
	"testing"

	"github.com/db47h/isingmon/hamiltonian"
	"github.com/db47h/isingmon/hwlib"
	"github.com/db47h/isingmon/monitor"
)

// RandomTransition returns a copy of s with k distinct random spins flipped.
//
func RandomTransition(rng *rand.Rand, s []bool, k int) []bool {
	next := append([]bool(nil), s...)
	for _, i := range rng.Perm(len(s))[:k] {
		next[i] = !next[i]
	}
	return next
}

// CompareReference runs a first operation on a random spin vector, then
// trials random transitions in differential mode, with a random number of
// flips in [0, N], and checks the engine output against the reference model.
// Every fourth trial is also evaluated in standard mode. Expected values are
// wrapped to the configured energy width.
//
func CompareReference(t *testing.T, e *monitor.Engine, p *hamiltonian.Problem, trials int, rng *rand.Rand) {
	t.Helper()
	cfg := e.Config()
	n, eb := cfg.DataSpin, cfg.EnergyBits
	ctx := context.Background()

	eval := func(s []bool, mode monitor.Mode, want int64) {
		t.Helper()
		r, err := e.Eval(ctx, s, mode)
		if err != nil {
			t.Fatal(err)
		}
		want = hwlib.Truncate(want+cfg.ResetValue, eb)
		if r.Energy != want {
			t.Fatalf("%v, %d flips: expected %d, got %d", mode, r.Flips, want, r.Energy)
		}
	}

	e.Reset()
	s := RandomTransition(rng, make([]bool, n), rng.Intn(n+1))
	eval(s, monitor.First, p.Energy(s))

	for i := 0; i < trials; i++ {
		next := RandomTransition(rng, s, rng.Intn(n+1))
		eval(next, monitor.Differential, p.Delta(s, next))
		s = next
		if i%4 == 3 {
			eval(s, monitor.Standard, p.Energy(s))
		}
	}
}
