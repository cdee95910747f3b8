// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command isingmon runs a set of scenarios on a simulated energy monitor and
// checks the results against the reference model.
//
// Usage:
//
//	isingmon [flags]
//
// Scenarios:
//
//	constant  all spins +1 with a constant weight matrix, first operation
//	global    global flip of the above, expected 0
//	single    single spin flip of the above
//	random    random transitions on a random symmetric matrix
//	akita     the random scenario clocked by an akita event engine
//
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	"github.com/db47h/isingmon/hamiltonian"
	"github.com/db47h/isingmon/hwlib"
	"github.com/db47h/isingmon/internal/driver"
	"github.com/db47h/isingmon/monitor"
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
)

type scenario struct {
	name string
	run  func(*runner) error
}

type runner struct {
	cfg     monitor.Config
	opts    []monitor.Option
	rng     *rand.Rand
	trials  int
	freqMHz float64
	log     *slog.Logger
}

func (r *runner) engine(p *hamiltonian.Problem) (*monitor.Engine, error) {
	return monitor.NewEngine(r.cfg, p, r.opts...)
}

// check compares an engine result with the expected value wrapped to the
// energy width.
//
func (r *runner) check(what string, res monitor.Result, want int64) error {
	want = hwlib.Truncate(want+r.cfg.ResetValue, r.cfg.EnergyBits)
	if res.Energy != want {
		return errors.Errorf("%s: got %d, expected %d", what, res.Energy, want)
	}
	r.log.Info(what, slog.String("mode", res.Mode.String()), slog.Int("flips", res.Flips),
		slog.Int64("energy", res.Energy), slog.Uint64("cycles", uint64(res.Cycles)))
	return nil
}

func constantProblem(r *runner) (*hamiltonian.Problem, []bool) {
	n := r.cfg.DataSpin
	s := make([]bool, n)
	for i := range s {
		s[i] = true
	}
	return &hamiltonian.Problem{J: hamiltonian.Constant(n, 3)}, s
}

var scenarios = []scenario{
	{"constant", func(r *runner) error {
		p, s := constantProblem(r)
		e, err := r.engine(p)
		if err != nil {
			return err
		}
		defer e.Close()
		res, err := e.Eval(context.Background(), s, monitor.First)
		if err != nil {
			return err
		}
		return r.check("constant", res, p.Energy(s))
	}},
	{"global", func(r *runner) error {
		p, s := constantProblem(r)
		e, err := r.engine(p)
		if err != nil {
			return err
		}
		defer e.Close()
		if _, err = e.Eval(context.Background(), s, monitor.First); err != nil {
			return err
		}
		res, err := e.Eval(context.Background(), make([]bool, len(s)), monitor.Differential)
		if err != nil {
			return err
		}
		return r.check("global flip", res, 0)
	}},
	{"single", func(r *runner) error {
		p, s := constantProblem(r)
		e, err := r.engine(p)
		if err != nil {
			return err
		}
		defer e.Close()
		if _, err = e.Eval(context.Background(), s, monitor.First); err != nil {
			return err
		}
		next := append([]bool(nil), s...)
		k := r.rng.Intn(len(s))
		next[k] = false
		res, err := e.Eval(context.Background(), next, monitor.Differential)
		if err != nil {
			return err
		}
		return r.check(fmt.Sprintf("flip spin %d", k), res, p.Delta(s, next))
	}},
	{"random", func(r *runner) error {
		n := r.cfg.DataSpin
		p := &hamiltonian.Problem{J: hamiltonian.RandomSymmetric(r.rng, n, -(1 << uint(r.cfg.BitJ-1)), 1<<uint(r.cfg.BitJ-1)-1)}
		e, err := r.engine(p)
		if err != nil {
			return err
		}
		defer e.Close()
		s := randomFlips(r.rng, make([]bool, n))
		res, err := e.Eval(context.Background(), s, monitor.First)
		if err != nil {
			return err
		}
		if err = r.check("random first", res, p.Energy(s)); err != nil {
			return err
		}
		for i := 0; i < r.trials; i++ {
			next := randomFlips(r.rng, s)
			if res, err = e.Eval(context.Background(), next, monitor.Differential); err != nil {
				return err
			}
			if err = r.check(fmt.Sprintf("random #%d", i), res, p.Delta(s, next)); err != nil {
				return err
			}
			s = next
		}
		return nil
	}},
	{"akita", func(r *runner) error {
		n := r.cfg.DataSpin
		p := &hamiltonian.Problem{J: hamiltonian.RandomSymmetric(r.rng, n, -(1 << uint(r.cfg.BitJ-1)), 1<<uint(r.cfg.BitJ-1)-1)}
		e, err := r.engine(p)
		if err != nil {
			return err
		}
		defer e.Close()
		s := randomFlips(r.rng, make([]bool, n))
		jobs := []driver.Job{{Spins: s, Mode: monitor.First}}
		want := []int64{p.Energy(s)}
		for i := 0; i < r.trials; i++ {
			next := randomFlips(r.rng, s)
			jobs = append(jobs, driver.Job{Spins: next, Mode: monitor.Differential})
			want = append(want, p.Delta(s, next))
			s = next
		}
		res, end, err := driver.Run(e, sim.Freq(r.freqMHz)*sim.MHz, jobs, r.log)
		if err != nil {
			return err
		}
		for i := range res {
			if err = r.check(fmt.Sprintf("akita #%d", i), res[i], want[i]); err != nil {
				return err
			}
		}
		r.log.Info("akita run done", slog.Int("jobs", len(jobs)), slog.Any("time", end), slog.Float64("MHz", r.freqMHz))
		return nil
	}},
}

// randomFlips flips a random number of random spins in a copy of s.
//
func randomFlips(rng *rand.Rand, s []bool) []bool {
	next := append([]bool(nil), s...)
	for _, i := range rng.Perm(len(s))[:rng.Intn(len(s)+1)] {
		next[i] = !next[i]
	}
	return next
}

func main() {
	cfg := monitor.DefaultConfig()
	var (
		pipes    = flag.Int("pipes", 1, "pipeline depth of the input channels")
		seed     = flag.Int64("seed", 1, "random seed")
		trials   = flag.Int("trials", 16, "number of random transitions")
		workers  = flag.Int("workers", 1, "simulation goroutines (<= 0 for GOMAXPROCS)")
		spc      = flag.Uint("spc", 8, "simulation steps per clock cycle")
		freq     = flag.Float64("freq", 200, "clock frequency in MHz for the akita scenario")
		jsonLog  = flag.Bool("json", false, "log in JSON format")
		verbose  = flag.Bool("v", false, "log epoch details")
		run      = flag.String("run", "constant,global,single,random,akita", "comma separated list of scenarios")
		resetVal = flag.Int64("reset", 0, "accumulator reset value")
	)
	flag.IntVar(&cfg.DataSpin, "n", cfg.DataSpin, "number of spins")
	flag.IntVar(&cfg.Parallelism, "p", cfg.Parallelism, "number of lanes")
	flag.IntVar(&cfg.BitJ, "bitj", cfg.BitJ, "weight width")
	flag.IntVar(&cfg.BitH, "bith", cfg.BitH, "bias width")
	flag.IntVar(&cfg.ScalingBit, "scale", cfg.ScalingBit, "scale field width")
	flag.IntVar(&cfg.EnergyBits, "eb", cfg.EnergyBits, "energy width")
	flag.BoolVar(&cfg.BigEndian, "big-endian", false, "big endian spin vectors")
	flag.BoolVar(&cfg.MSBFirst, "msb-first", false, "extract flip positions from the most significant bit")
	flag.Parse()

	cfg.CfgPipes, cfg.SpinPipes, cfg.WeightPipes = *pipes, *pipes, *pipes
	cfg.ResetValue = *resetVal

	var h slog.Handler
	lvl := slog.LevelInfo
	if *verbose {
		lvl = slog.LevelDebug
	}
	if *jsonLog {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	log := slog.New(h)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("bad configuration", slog.Any("err", err))
		os.Exit(2)
	}
	if min := cfg.MinStepsPerCycle(); *spc < min {
		log.Error("bad configuration", slog.Uint64("spc", uint64(*spc)), slog.Uint64("min", uint64(min)))
		os.Exit(2)
	}

	r := &runner{
		cfg: cfg,
		opts: []monitor.Option{
			monitor.WithWorkers(*workers),
			monitor.WithStepsPerCycle(*spc),
			monitor.WithLogger(log),
		},
		rng:     rand.New(rand.NewSource(*seed)),
		trials:  *trials,
		freqMHz: *freq,
		log:     log,
	}

	selected := make(map[string]bool)
	for _, s := range strings.Split(*run, ",") {
		selected[strings.TrimSpace(s)] = true
	}
	failed := 0
	for _, s := range scenarios {
		if !selected[s.name] {
			continue
		}
		if err := s.run(r); err != nil {
			log.Error("scenario failed", slog.String("scenario", s.name), slog.Any("err", err))
			failed++
			continue
		}
		log.Info("scenario passed", slog.String("scenario", s.name))
	}
	if failed > 0 {
		os.Exit(1)
	}
}
