// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package monitor

import (
	"math/bits"

	"github.com/db47h/isingmon/hwsim"
)

type laneState int

const (
	laneIdle laneState = iota
	laneSearching
	laneDone
)

// lane is the flip position extractor state of a single lane.
//
type lane struct {
	state    laneState
	work     []uint64 // remaining flipped bits, local indices
	pos      []int    // global indices of the flips found so far
	empty    bool
	finished bool
	first    bool // next search step is the first one since start
}

func (ln *lane) load(mask []bool, p, l int) {
	for i := range ln.work {
		ln.work[i] = 0
	}
	for e := 0; e*p+l < len(mask); e++ {
		if mask[e*p+l] {
			ln.work[e/64] |= 1 << uint(e%64)
		}
	}
	ln.pos = ln.pos[:0]
	ln.empty = false
	ln.finished = false
	ln.first = true
	ln.state = laneSearching
}

// next returns the local index of the next set bit of the working mask and
// clears it, or -1 if there is none.
//
func (ln *lane) next(msbFirst bool) int {
	if msbFirst {
		for w := len(ln.work) - 1; w >= 0; w-- {
			if v := ln.work[w]; v != 0 {
				b := 63 - bits.LeadingZeros64(v)
				ln.work[w] &^= 1 << uint(b)
				return w*64 + b
			}
		}
		return -1
	}
	for w, v := range ln.work {
		if v != 0 {
			b := bits.TrailingZeros64(v)
			ln.work[w] &^= 1 << uint(b)
			return w*64 + b
		}
	}
	return -1
}

// step runs one search step and returns the index of the new position list
// entry, or -1 if no position was found.
//
func (ln *lane) step(msbFirst bool, p, l int) int {
	switch ln.state {
	case laneSearching:
		e := ln.next(msbFirst)
		if e < 0 {
			ln.empty = ln.first
			ln.finished = true
			ln.state = laneDone
		} else {
			ln.pos = append(ln.pos, e*p+l)
		}
		ln.first = false
		if e < 0 {
			return -1
		}
		return len(ln.pos) - 1
	case laneDone:
		ln.state = laneIdle
	}
	return -1
}

func (ln *lane) reset() {
	ln.state = laneIdle
	ln.pos = ln.pos[:0]
	ln.empty = false
	ln.finished = false
}

// Extractor returns the per-lane flip position extractor.
//
// On the raising edge where start is high, every lane loads its part of the
// flipped mask. Each following cycle, a lane appends the global index of its
// lowest remaining flip (highest with MSBFirst) to its position list, until no
// flip is left. A lane with no flips at all raises its empty flag. done is set
// once every lane has finished and stays high until the next start.
//
// empty is an observation output: the monitor leaves it unconnected and
// detects epochs without flips from the zero flag of MaxCount.
//
// Entry e of lane l is at pos[(l*L+e)*AW:(l*L+e+1)*AW].
//
//	Inputs: flipped[N], start, rst
//	Outputs: pos[N*AW], found[P*CW], empty[P], done
//
func Extractor(cfg *Config) hwsim.NewPartFn {
	p, ll, aw, cw := cfg.Parallelism, cfg.LaneLen(), cfg.AddrBits(), cfg.CountBits()
	msbFirst := cfg.MSBFirst
	return (&hwsim.PartSpec{
		Name:    "EXTRACTOR",
		Inputs:  hwsim.IO("flipped[%d], start, rst", cfg.DataSpin),
		Outputs: hwsim.IO("pos[%d], found[%d], empty[%d], done", cfg.DataSpin*aw, p*cw, p),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			flipped, start, rst := s.Bus("flipped"), s.Pin("start"), s.Pin("rst")
			pos, found, empty, done := s.Bus("pos").Split(cfg.DataSpin), s.Bus("found").Split(p), s.Bus("empty"), s.Pin("done")

			lanes := make([]lane, p)
			for i := range lanes {
				lanes[i].work = make([]uint64, (ll+63)/64)
				lanes[i].pos = make([]int, 0, ll)
			}
			mask := make([]bool, cfg.DataSpin)

			return []hwsim.Component{func(c *hwsim.Circuit) {
				if !c.AtTick() {
					return
				}
				switch {
				case c.Get(rst):
					for l := range lanes {
						lanes[l].reset()
					}
				case c.Get(start):
					flipped.Read(c, mask)
					for l := range lanes {
						lanes[l].load(mask, p, l)
					}
				default:
					for l := range lanes {
						ln := &lanes[l]
						if e := ln.step(msbFirst, p, l); e >= 0 {
							pos[l*ll+e].SetUint64(c, uint64(ln.pos[e]))
						}
					}
				}
				all := true
				for l := range lanes {
					ln := &lanes[l]
					found[l].SetUint64(c, uint64(len(ln.pos)))
					c.Set(empty[l], ln.empty)
					all = all && ln.finished
				}
				c.Set(done, all)
			}}
		}}).NewPart
}
