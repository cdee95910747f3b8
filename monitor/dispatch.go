// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package monitor

import (
	"github.com/db47h/isingmon/hwsim"
)

// Dispatch returns the weight masking and lane dispatch logic. It is purely
// combinational.
//
// In standard mode (diff low), lane l works on row k*P+l, every lane is
// selected and all columns are enabled. In differential mode, lane l works on
// the k-th entry of its position list and is only selected while k is lower
// than its found count. Only the unflipped columns are enabled. Biases are
// enabled in standard mode only.
//
// rowspin is the cached spin of the lane's row.
//
//	Inputs: k[CW], diff, spin[N], unflipped[N], pos[N*AW], found[P*CW]
//	Outputs: addr[P*AW], wsel[P], hsel[P], rowspin[P], cmask[N]
//
func Dispatch(cfg *Config) hwsim.NewPartFn {
	n, p, ll, aw, cw := cfg.DataSpin, cfg.Parallelism, cfg.LaneLen(), cfg.AddrBits(), cfg.CountBits()
	return (&hwsim.PartSpec{
		Name:    "DISPATCH",
		Inputs:  hwsim.IO("k[%d], diff, spin[%d], unflipped[%d], pos[%d], found[%d]", cw, n, n, n*aw, p*cw),
		Outputs: hwsim.IO("addr[%d], wsel[%d], hsel[%d], rowspin[%d], cmask[%d]", p*aw, p, p, p, n),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			k, diff, spin, unflipped := s.Bus("k"), s.Pin("diff"), s.Bus("spin"), s.Bus("unflipped")
			pos, found := s.Bus("pos").Split(n), s.Bus("found").Split(p)
			addr, wsel, hsel, rowspin, cmask := s.Bus("addr").Split(p), s.Bus("wsel"), s.Bus("hsel"), s.Bus("rowspin"), s.Bus("cmask")
			return []hwsim.Component{func(c *hwsim.Circuit) {
				kv, d := int(k.Uint64(c)), c.Get(diff)
				for l := 0; l < p; l++ {
					var row int
					var sel bool
					if d {
						sel = kv < ll && uint64(kv) < found[l].Uint64(c)
						if sel {
							row = int(pos[l*ll+kv].Uint64(c))
						}
					} else {
						row = kv*p + l
						sel = row < n
					}
					if !sel || row >= n {
						row, sel = 0, false
					}
					addr[l].SetUint64(c, uint64(row))
					c.Set(wsel[l], sel)
					c.Set(hsel[l], sel && !d)
					c.Set(rowspin[l], sel && c.Get(spin[row]))
				}
				for i, pin := range cmask {
					c.Set(pin, !d || c.Get(unflipped[i]))
				}
			}}
		}}).NewPart
}
