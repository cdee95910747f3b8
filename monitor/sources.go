// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package monitor

import (
	"github.com/db47h/isingmon/hwlib"
	"github.com/db47h/isingmon/hwsim"
)

// A WeightSource provides the weights, biases and scales of the rows of a
// weight matrix. Row indices are spin indices in [0, N).
//
// Values are truncated to the configured widths when sent to the monitor.
//
type WeightSource interface {
	// Row fills dst with the N weights of row i.
	Row(i int, dst []int64)
	// Bias returns the bias of row i.
	Bias(i int) int64
	// Scale returns the left shift applied to the partial energy of row i.
	Scale(i int) uint64
}

// cfgSource feeds start offsets to the config channel.
//
type cfgSource struct {
	queue []uint64
}

func (cs *cfgSource) part(cfg *Config) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "CFGSRC",
		Inputs:  hwsim.IO("ready"),
		Outputs: hwsim.IO("out[%d], valid", cfg.AddrBits()),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			out, valid, ready := s.Bus("out"), s.Pin("valid"), s.Pin("ready")
			return []hwsim.Component{func(c *hwsim.Circuit) {
				if !c.AtTick() {
					return
				}
				if c.Get(valid) && c.Get(ready) && len(cs.queue) > 0 {
					cs.queue = cs.queue[1:]
				}
				if len(cs.queue) > 0 {
					out.SetUint64(c, cs.queue[0])
					c.Set(valid, true)
				} else {
					c.Set(valid, false)
				}
			}}
		}}).NewPart
}

// spinSource presents one job at a time on the spin channel and drives the
// mode pins for as long as the job is in flight.
//
type spinSource struct {
	job  *job
	sent bool
}

func (ss *spinSource) part(cfg *Config) hwsim.NewPartFn {
	n := cfg.DataSpin
	return (&hwsim.PartSpec{
		Name:    "SPINSRC",
		Inputs:  hwsim.IO("ready"),
		Outputs: hwsim.IO("out[%d], valid, std, first", n),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			out, valid, ready := s.Bus("out"), s.Pin("valid"), s.Pin("ready")
			std, first := s.Pin("std"), s.Pin("first")
			buf := make([]bool, n)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				if !c.AtTick() {
					return
				}
				if c.Get(valid) && c.Get(ready) {
					ss.sent = true
				}
				j := ss.job
				if j == nil || ss.sent {
					c.Set(valid, false)
					return
				}
				for i, v := range j.spins {
					if cfg.BigEndian {
						buf[n-1-i] = v
					} else {
						buf[i] = v
					}
				}
				out.Write(c, buf)
				c.Set(valid, true)
				c.Set(std, j.mode == Standard)
				c.Set(first, j.mode == First)
			}}
		}}).NewPart
}

func (ss *spinSource) present(j *job) {
	ss.job = j
	ss.sent = false
}

// weightServer answers row requests from a WeightSource. It handles one
// request at a time. A request in flight is dropped on reset.
//
type weightServer struct {
	src        WeightSource
	pending    bool
	presenting bool
	rows       []int
	en         []bool
	buf        []int64
}

func (ws *weightServer) reset() {
	ws.pending, ws.presenting = false, false
}

func (ws *weightServer) part(cfg *Config) hwsim.NewPartFn {
	n, p, aw := cfg.DataSpin, cfg.Parallelism, cfg.AddrBits()
	ws.rows = make([]int, p)
	ws.en = make([]bool, p)
	ws.buf = make([]int64, n)
	return (&hwsim.PartSpec{
		Name:    "WSERVER",
		Inputs:  hwsim.IO("req_valid, req_addr[%d], req_en[%d], ready, rst", p*aw, p),
		Outputs: hwsim.IO("req_ready, out[%d], valid", cfg.WeightBits()),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			reqValid, reqAddr, reqEn, ready := s.Pin("req_valid"), s.Bus("req_addr").Split(p), s.Bus("req_en"), s.Pin("ready")
			reqReady, out, valid, rst := s.Pin("req_ready"), s.Bus("out"), s.Pin("valid"), s.Pin("rst")
			dw := cfg.WeightDataBits()
			biases := out[dw : dw+p*cfg.BitH].Split(p)
			scales := out[dw+p*cfg.BitH:].Split(p)
			weights := make([][]hwsim.Bus, p)
			for l := range weights {
				weights[l] = out[l*n*cfg.BitJ : (l+1)*n*cfg.BitJ].Split(n)
			}
			return []hwsim.Component{func(c *hwsim.Circuit) {
				if !c.AtTick() {
					return
				}
				if c.Get(rst) {
					ws.reset()
					c.Set(reqReady, false)
					c.Set(valid, false)
					return
				}
				if c.Get(valid) && c.Get(ready) {
					ws.presenting = false
				}
				if c.Get(reqValid) && c.Get(reqReady) {
					for l := range ws.rows {
						ws.rows[l] = int(reqAddr[l].Uint64(c))
						ws.en[l] = c.Get(reqEn[l])
					}
					ws.pending = true
				}
				if ws.pending && !ws.presenting {
					for l := range weights {
						if !ws.en[l] || ws.rows[l] >= n {
							for j := range ws.buf {
								ws.buf[j] = 0
							}
							biases[l].SetInt64(c, 0)
							scales[l].SetUint64(c, 0)
						} else {
							r := ws.rows[l]
							ws.src.Row(r, ws.buf)
							biases[l].SetInt64(c, hwlib.Truncate(ws.src.Bias(r), cfg.BitH))
							scales[l].SetUint64(c, ws.src.Scale(r))
						}
						for j, b := range weights[l] {
							b.SetInt64(c, ws.buf[j])
						}
					}
					ws.pending, ws.presenting = false, true
				}
				c.Set(reqReady, !ws.pending && !ws.presenting)
				c.Set(valid, ws.presenting)
			}}
		}}).NewPart
}

// Result is the outcome of an epoch.
//
type Result struct {
	Energy int64
	Mode   Mode
	Flips  int  // number of spins that changed since the previous epoch
	Cycles uint // clock cycles from job submission to result
}

// energySink consumes energies from the output channel and keeps track of
// the accumulator value.
//
type energySink struct {
	ready   func(cycle uint) bool
	results []int64
	acc     int64
}

func (es *energySink) part(cfg *Config) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "SINK",
		Inputs:  hwsim.IO("in[%d], valid", cfg.EnergyBits),
		Outputs: hwsim.IO("ready"),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, valid, ready := s.Bus("in"), s.Pin("valid"), s.Pin("ready")
			return []hwsim.Component{func(c *hwsim.Circuit) {
				es.acc = in.Int64(c)
				if !c.AtTick() {
					return
				}
				if c.Get(valid) && c.Get(ready) {
					es.results = append(es.results, es.acc)
				}
				c.Set(ready, es.ready == nil || es.ready(c.Cycles()))
			}}
		}}).NewPart
}
