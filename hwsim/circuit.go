// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// A Component is a component in a circuit that can Get and Set pin states.
// It is called once per simulation step.
//
type Component func(c *Circuit)

// Circuit is a runnable circuit simulation.
//
// Pin states are stored in two frames. During a step, components read the
// current frame and write the next one, then the frames are swapped. A pin
// that is not driven during a step keeps its state.
//
type Circuit struct {
	s0    []bool // wire states frame #0
	s1    []bool // wire states frame #1
	cs    []Component
	count int  // wire count
	spc   uint // steps per clock cycle
	step  uint

	wc []chan struct{}
	wg sync.WaitGroup
}

// NewCircuit builds a new circuit based on the given parts.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used.
//
// stepsPerCycle indicates how many simulation steps to run per clock cycle.
// It is rounded up to the next power of two and is at least 2. It must be
// larger than the number of combinational levels between any two clocked
// components, or values will be latched before they settle. Circuits built
// by the caller are not checked; monitor.Config.MinStepsPerCycle gives the
// bound for an energy monitor (4 with zero depth channels).
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
//
func NewCircuit(workers int, stepsPerCycle uint, parts ...Part) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	if stepsPerCycle < 2 {
		stepsPerCycle = 2
	}
	stepsPerCycle--
	stepsPerCycle |= stepsPerCycle >> 1
	stepsPerCycle |= stepsPerCycle >> 2
	stepsPerCycle |= stepsPerCycle >> 4
	stepsPerCycle |= stepsPerCycle >> 8
	stepsPerCycle |= stepsPerCycle >> 16
	stepsPerCycle++

	// new circuit with room for constant value pins.
	cc := &Circuit{count: cstCount, spc: stepsPerCycle}
	wrap, err := Chip("CIRCUIT", nil, nil, parts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chip wrapper")
	}
	ups := wrap("").Mount(newSocket(cc))
	cc.cs = ups
	cc.s0 = make([]bool, cc.count)
	cc.s1 = make([]bool, cc.count)
	cc.s0[cstTrue] = true
	cc.s1[cstTrue] = true

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	for len(ups) > 0 {
		size := len(ups) / workers
		if size*workers < len(ups) {
			size++
		}
		wc := make(chan struct{}, 1)
		cc.wc = append(cc.wc, wc)
		go worker(cc, ups[:size], wc)
		ups = ups[size:]
	}

	return cc, nil
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
//
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
	c.wc = nil
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// allocPins allocates n new pins and returns their numbers.
//
func (c *Circuit) allocPins(n int) []int {
	pins := make([]int, n)
	for i := range pins {
		pins[i] = c.count
		c.count++
	}
	return pins
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint {
	return c.step
}

// Cycles returns the number of clock cycles started so far.
//
func (c *Circuit) Cycles() uint {
	return (c.step + c.spc - 1) / c.spc
}

// SPC returns the stepsPerCycle value.
//
func (c *Circuit) SPC() uint {
	return c.spc
}

// AtTick returns true if the current step is at the beginning of a clock cycle
// (raising edge of the clock). Clocked components latch their inputs when
// AtTick returns true.
//
func (c *Circuit) AtTick() bool {
	return c.step&(c.spc-1) == 0
}

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) bool {
	return c.s0[n]
}

// Set sets the state s of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Set(n int, s bool) {
	c.s1[n] = s
}

// Toggle toggles the state of pin n.
//
func (c *Circuit) Toggle(n int) {
	c.s1[n] = !c.s0[n]
}

// Step advances the simulation by one step.
//
func (c *Circuit) Step() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}

	c.wg.Wait()
	c.step++
	c.s0, c.s1 = c.s1, c.s0
	copy(c.s1, c.s0)
	if c.s0[cstFalse] || !c.s0[cstTrue] {
		panic("true or false constants have been overwritten")
	}
}

// Cycle runs the simulation until the beginning of the next clock cycle.
// The first step of the cycle is the raising edge where clocked components
// latch their inputs; the remaining steps let combinational logic settle.
//
func (c *Circuit) Cycle() {
	c.Step()
	for !c.AtTick() {
		c.Step()
	}
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }
