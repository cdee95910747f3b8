// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/isingmon/hwsim"
)

type pipeStage struct {
	valid bool
	data  []bool
}

// pipe is a chain of registered stages with ready/valid handshakes on both
// ends.
//
type pipe struct {
	stages []pipeStage
	leave  []bool
}

// accept computes which stages empty themselves this cycle given the
// downstream ready signal, and returns whether the first stage can take a new
// value. Stages are scanned from the output end.
//
func (p *pipe) accept(outReady bool) bool {
	down := outReady
	for i := len(p.stages) - 1; i >= 0; i-- {
		st := &p.stages[i]
		p.leave[i] = st.valid && down
		down = !st.valid || p.leave[i]
	}
	return down
}

func (p *pipe) shift(outReady bool, inValid bool, in []bool) {
	inReady := p.accept(outReady)
	last := len(p.stages) - 1
	for i := last; i >= 0; i-- {
		if !p.leave[i] {
			continue
		}
		if i < last {
			next := &p.stages[i+1]
			next.valid = true
			next.data, p.stages[i].data = p.stages[i].data, next.data
		}
		p.stages[i].valid = false
	}
	if inValid && inReady {
		st := &p.stages[0]
		st.valid = true
		copy(st.data, in)
	}
}

func (p *pipe) reset() {
	for i := range p.stages {
		p.stages[i].valid = false
	}
}

// Pipe returns a handshake pipeline of the given depth. Each stage holds one
// word of the given width. A stage accepts a new word when it is empty or
// when its current word moves downstream during the same cycle, so that a
// full pipe sustains one transfer per cycle. Back-pressure (out_ready low)
// propagates to in_ready once the stages fill up. Words leave the pipe in the
// order they entered it.
//
// A transfer happens on the raising edge when valid and ready are both high.
// With depth 0, the pipe is a combinational pass-through.
//
//	Inputs: in[bits], in_valid, out_ready, rst
//	Outputs: out[bits], out_valid, in_ready
//
func Pipe(bits, depth int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "PIPE" + strconv.Itoa(bits) + "x" + strconv.Itoa(depth),
		Inputs:  hwsim.IO("in[%d], in_valid, out_ready, rst", bits),
		Outputs: hwsim.IO("out[%d], out_valid, in_ready", bits),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, inValid, outReady, rst := s.Bus(pIn), s.Pin("in_valid"), s.Pin("out_ready"), s.Pin(pRst)
			out, outValid, inReady := s.Bus(pOut), s.Pin("out_valid"), s.Pin("in_ready")

			if depth <= 0 {
				return []hwsim.Component{func(c *hwsim.Circuit) {
					for i, p := range in {
						c.Set(out[i], c.Get(p))
					}
					c.Set(outValid, c.Get(inValid))
					c.Set(inReady, c.Get(outReady))
				}}
			}

			p := &pipe{
				stages: make([]pipeStage, depth),
				leave:  make([]bool, depth),
			}
			for i := range p.stages {
				p.stages[i].data = make([]bool, bits)
			}
			buf := make([]bool, bits)
			return []hwsim.Component{func(c *hwsim.Circuit) {
				if c.AtTick() {
					if c.Get(rst) {
						p.reset()
					} else {
						in.Read(c, buf)
						p.shift(c.Get(outReady), c.Get(inValid), buf)
					}
					st := &p.stages[depth-1]
					out.Write(c, st.data)
					c.Set(outValid, st.valid)
				}
				// in_ready follows out_ready combinationally.
				c.Set(inReady, !c.Get(rst) && p.accept(c.Get(outReady)))
			}}
		}}).NewPart
}
