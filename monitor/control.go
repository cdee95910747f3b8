// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package monitor

import (
	"github.com/db47h/isingmon/hwsim"
)

type ctlState int

const (
	ctlIdle    ctlState = iota // waiting for a spin vector
	ctlSettle                  // flip mask being computed
	ctlExtract                 // waiting for the flip positions
	ctlRequest                 // requesting weights for counter k
	ctlWait                    // waiting for the weights of counter k
	ctlLast                    // lone last pulse
	ctlOutput                  // result available
)

var ctlStateNames = [...]string{"idle", "settle", "extract", "request", "wait", "last", "output"}

func (s ctlState) String() string {
	if s < 0 || int(s) >= len(ctlStateNames) {
		return "invalid"
	}
	return ctlStateNames[s]
}

// control is the state of the control state machine.
//
type control struct {
	state  ctlState
	diff   bool
	offset uint64 // start value of k in standard mode
	k      uint64
	term   uint64 // last value of k in the current epoch
}

func (ct *control) reset() {
	*ct = control{}
}

// Control returns the control state machine and counter that sequences an
// epoch:
//
//	idle     spin handshake: load the spin cache, clear the accumulator and
//	         sample the mode pins. A config handshake loads the start offset.
//	settle   one cycle for the flip mask; start the extractor.
//	extract  differential mode only. Wait for done. No flips: last.
//	request  request the weights for k.
//	wait     wait for the weights; k++ or output after the terminal index.
//	last     a lone last pulse.
//	output   e_valid follows final; return to idle on e_ready.
//
// The terminal index is max in differential mode, L-1 otherwise. In standard
// mode, k starts at the configured offset; an offset of L or more skips the
// scan.
//
//	Inputs: cfg[AW], cfg_valid, spin_valid, std, first, done, max[CW], zero, req_ready, w_valid, final, e_ready, ext_clr, rst
//	Outputs: cfg_ready, spin_ready, spin_load, clr, start, diff, k[CW], req_valid, w_ready, w_accept, last, e_valid, busy
//
func Control(cfg *Config) hwsim.NewPartFn {
	ll := uint64(cfg.LaneLen())
	return (&hwsim.PartSpec{
		Name: "CONTROL",
		Inputs: hwsim.IO("cfg[%d], cfg_valid, spin_valid, std, first, done, max[%d], zero, req_ready, w_valid, final, e_ready, ext_clr, rst",
			cfg.AddrBits(), cfg.CountBits()),
		Outputs: hwsim.IO("cfg_ready, spin_ready, spin_load, clr, start, diff, k[%d], req_valid, w_ready, w_accept, last, e_valid, busy",
			cfg.CountBits()),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			cfgIn, cfgValid, spinValid := s.Bus("cfg"), s.Pin("cfg_valid"), s.Pin("spin_valid")
			std, first, done, max, zero := s.Pin("std"), s.Pin("first"), s.Pin("done"), s.Bus("max"), s.Pin("zero")
			reqReady, wValid, final, eReady := s.Pin("req_ready"), s.Pin("w_valid"), s.Pin("final"), s.Pin("e_ready")
			extClr, rst := s.Pin("ext_clr"), s.Pin("rst")

			cfgReady, spinReady, spinLoad, clr := s.Pin("cfg_ready"), s.Pin("spin_ready"), s.Pin("spin_load"), s.Pin("clr")
			start, diff, k := s.Pin("start"), s.Pin("diff"), s.Bus("k")
			reqValid, wReady, wAccept, last := s.Pin("req_valid"), s.Pin("w_ready"), s.Pin("w_accept"), s.Pin("last")
			eValid, busy := s.Pin("e_valid"), s.Pin("busy")

			ct := &control{}
			return []hwsim.Component{func(c *hwsim.Circuit) {
				if c.AtTick() {
					if c.Get(rst) {
						ct.reset()
					} else {
						ct.tick(c.Get(cfgValid), cfgIn.Uint64(c), c.Get(spinValid), c.Get(std) || c.Get(first),
							c.Get(done), max.Uint64(c), c.Get(zero), c.Get(reqReady), c.Get(wValid), c.Get(final), c.Get(eReady), ll)
					}
				}

				r := c.Get(rst)
				idle := ct.state == ctlIdle && !r
				load := idle && c.Get(spinValid)
				accept := ct.state == ctlWait && !r && c.Get(wValid)
				c.Set(cfgReady, idle)
				c.Set(spinReady, idle)
				c.Set(spinLoad, load)
				c.Set(clr, load || c.Get(extClr))
				c.Set(start, ct.state == ctlSettle)
				c.Set(diff, ct.diff)
				k.SetUint64(c, ct.k)
				c.Set(reqValid, ct.state == ctlRequest && !r)
				c.Set(wReady, ct.state == ctlWait && !r)
				c.Set(wAccept, accept)
				c.Set(last, accept && ct.k == ct.term || ct.state == ctlLast)
				c.Set(eValid, ct.state == ctlOutput && c.Get(final))
				c.Set(busy, ct.state != ctlIdle)
			}}
		}}).NewPart
}

// tick runs the state transition on the raising edge.
//
func (ct *control) tick(cfgValid bool, cfgIn uint64, spinValid, std, done bool, max uint64, zero, reqReady, wValid, final, eReady bool, ll uint64) {
	switch ct.state {
	case ctlIdle:
		if cfgValid {
			ct.offset = cfgIn
		}
		if spinValid {
			ct.diff = !std
			ct.state = ctlSettle
		}
	case ctlSettle:
		switch {
		case ct.diff:
			ct.state = ctlExtract
		case ct.offset >= ll:
			ct.state = ctlLast
		default:
			ct.k, ct.term = ct.offset, ll-1
			ct.state = ctlRequest
		}
	case ctlExtract:
		if !done {
			break
		}
		if zero {
			ct.state = ctlLast
		} else {
			ct.k, ct.term = 0, max
			ct.state = ctlRequest
		}
	case ctlRequest:
		if reqReady {
			ct.state = ctlWait
		}
	case ctlWait:
		if !wValid {
			break
		}
		if ct.k == ct.term {
			ct.state = ctlOutput
		} else {
			ct.k++
			ct.state = ctlRequest
		}
	case ctlLast:
		ct.state = ctlOutput
	case ctlOutput:
		if final && eReady {
			ct.state = ctlIdle
		}
	}
}
