// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package driver runs a monitor engine as a ticking component of an akita
// discrete event simulation. One tick of the component is one clock cycle of
// the monitor, so the simulated time of a run is the time the monitor would
// take at the given clock frequency.
//
package driver

import (
	"log/slog"

	"github.com/db47h/isingmon/monitor"
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
)

// A Job is a spin vector to evaluate in a given mode.
//
type Job struct {
	Spins []bool
	Mode  monitor.Mode
}

// Driver cycles a monitor.Engine on every tick for as long as it has work.
//
type Driver struct {
	*sim.TickingComponent

	eng       *monitor.Engine
	results   []monitor.Result
	ticks     uint
	maxCycles uint
	logger    *slog.Logger
}

// New returns a new driver for eng, ticking at freq on the given event
// engine. If logger is nil, slog.Default() is used.
//
func New(name string, engine sim.Engine, freq sim.Freq, eng *monitor.Engine, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Driver{eng: eng, maxCycles: 1 << 24, logger: logger.With(slog.String("driver", name))}
	d.TickingComponent = sim.NewTickingComponent(name, engine, freq, d)
	return d
}

// Tick runs one clock cycle of the monitor. It returns false once the engine
// is idle, which stops the ticking.
//
func (d *Driver) Tick() bool {
	if !d.eng.Busy() || d.ticks >= d.maxCycles {
		return false
	}
	d.eng.Cycle()
	d.ticks++
	for r, ok := d.eng.Pop(); ok; r, ok = d.eng.Pop() {
		d.logger.Debug("result", slog.String("mode", r.Mode.String()), slog.Int64("energy", r.Energy),
			slog.Uint64("cycles", uint64(r.Cycles)))
		d.results = append(d.results, r)
	}
	return true
}

// Results returns and clears the results collected so far.
//
func (d *Driver) Results() []monitor.Result {
	r := d.results
	d.results = nil
	return r
}

// Ticks returns the number of ticks that cycled the engine.
//
func (d *Driver) Ticks() uint { return d.ticks }

// Run queues jobs on eng and runs them to completion on a serial event engine
// with the monitor clocked at freq. It returns the results in job order and
// the simulated time at which the last one completed.
//
func Run(eng *monitor.Engine, freq sim.Freq, jobs []Job, logger *slog.Logger) ([]monitor.Result, sim.VTimeInSec, error) {
	for i, j := range jobs {
		if err := eng.Push(j.Spins, j.Mode); err != nil {
			return nil, 0, errors.Wrapf(err, "job %d", i)
		}
	}
	engine := sim.NewSerialEngine()
	d := New("MonitorDriver", engine, freq, eng, logger)
	engine.Schedule(sim.MakeTickEvent(d, 0))
	if err := engine.Run(); err != nil {
		return nil, 0, errors.Wrap(err, "event engine")
	}
	res := d.Results()
	if eng.Busy() {
		return res, engine.CurrentTime(), errors.Wrapf(monitor.ErrTimeout, "jobs pending after %d cycles", d.Ticks())
	}
	if len(res) != len(jobs) {
		return res, engine.CurrentTime(), errors.Errorf("got %d results for %d jobs", len(res), len(jobs))
	}
	return res, engine.CurrentTime(), nil
}
