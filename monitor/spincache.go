// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package monitor

import (
	"github.com/db47h/isingmon/hwlib"
	"github.com/db47h/isingmon/hwsim"
)

// SpinCache returns the spin cache and flip detector.
//
// On the raising edge where load is high, flipped is loaded with the XOR of
// the cached vector and spin, and spin is cached. With big endian spin
// ordering, bit 0 of spin carries spin N-1.
//
//	Inputs: spin[N], load, rst
//	Outputs: cached[N], flipped[N], unflipped[N]
//
func SpinCache(cfg *Config) (hwsim.NewPartFn, error) {
	n := cfg.DataSpin
	in := "spin"
	var parts hwsim.Parts
	if cfg.BigEndian {
		in = "ordered"
		parts = append(parts, hwlib.ReverseN(n)("in=spin, out=ordered"))
	}
	parts = append(parts,
		hwlib.XorN(n)("a=cached, b="+in+", out=diff"),
		hwlib.Register(n)("in=diff, load=load, clr=rst, out=flipped"),
		hwlib.Register(n)("in="+in+", load=load, clr=rst, out=cached"),
		hwlib.NotN(n)("in=flipped, out=unflipped"),
	)
	return hwsim.Chip("SPINCACHE",
		hwsim.IO("spin[%d], load, rst", n),
		hwsim.IO("cached[%[1]d], flipped[%[1]d], unflipped[%[1]d]", n),
		parts...)
}
