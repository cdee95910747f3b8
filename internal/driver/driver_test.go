// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package driver_test

import (
	"math/rand"
	"testing"

	"github.com/db47h/isingmon/hamiltonian"
	"github.com/db47h/isingmon/hwtest"
	"github.com/db47h/isingmon/internal/driver"
	"github.com/db47h/isingmon/monitor"
	"github.com/sarchlab/akita/v4/sim"
)

func TestRun(t *testing.T) {
	cfg := monitor.DefaultConfig()
	cfg.DataSpin, cfg.Parallelism = 32, 4
	rng := rand.New(rand.NewSource(42))
	p := &hamiltonian.Problem{J: hamiltonian.RandomSymmetric(rng, 32, -8, 7)}
	eng, err := monitor.NewEngine(cfg, p)
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	var (
		jobs []driver.Job
		want []int64
	)
	s := hwtest.RandomTransition(rng, make([]bool, 32), 16)
	jobs = append(jobs, driver.Job{Spins: s, Mode: monitor.First})
	want = append(want, p.Energy(s))
	for i := 0; i < 6; i++ {
		next := hwtest.RandomTransition(rng, s, rng.Intn(33))
		jobs = append(jobs, driver.Job{Spins: next, Mode: monitor.Differential})
		want = append(want, p.Delta(s, next))
		s = next
	}

	res, end, err := driver.Run(eng, 1*sim.GHz, jobs, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(res))
	}
	for i, r := range res {
		if r.Energy != want[i] || r.Mode != jobs[i].Mode {
			t.Fatalf("job %d: got %d (%v), expected %d (%v)", i, r.Energy, r.Mode, want[i], jobs[i].Mode)
		}
	}
	if end <= 0 {
		t.Fatalf("simulated time %v", end)
	}
	if eng.Busy() {
		t.Fatal("engine still busy")
	}
}

func TestRun_badJob(t *testing.T) {
	cfg := monitor.DefaultConfig()
	cfg.DataSpin, cfg.Parallelism = 16, 4
	eng, err := monitor.NewEngine(cfg, &hamiltonian.Problem{J: hamiltonian.Constant(16, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()
	if _, _, err := driver.Run(eng, 1*sim.GHz, []driver.Job{{Spins: make([]bool, 3)}}, nil); err == nil {
		t.Fatal("expected an error")
	}
}
