// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package monitor

import (
	"github.com/db47h/isingmon/hwlib"
	"github.com/db47h/isingmon/hwsim"
	"github.com/pkg/errors"
)

// Ports returns the input and output ports of a monitor built with the given
// configuration.
//
func Ports(cfg *Config) (inputs, outputs []hwsim.Port) {
	n, p := cfg.DataSpin, cfg.Parallelism
	inputs = hwsim.IO("rst, clr, std, first, cfg[%d], cfg_valid, spin[%d], spin_valid, w[%d], w_valid, req_ready, e_ready",
		cfg.AddrBits(), n, cfg.WeightBits())
	outputs = hwsim.IO("cfg_ready, spin_ready, w_ready, req_valid, req_addr[%d], req_en[%d], e[%d], e_valid, busy",
		p*cfg.AddrBits(), p, cfg.EnergyBits)
	return inputs, outputs
}

// New returns a new energy monitor part.
//
// The monitor has three ready/valid input channels: cfg (start offset of the
// standard mode scan), spin (spin vectors) and w (weights, biases and scales
// for the rows requested on the req channel), and one ready/valid output
// channel: e, the energy. std and first select the evaluation mode and are
// sampled when a spin vector is accepted. clr clears the accumulator and rst
// resets the whole monitor.
//
// On the weight channel, weight j of lane l is at bits [(l*N+j)*BITJ, +BITJ),
// the bias of lane l at DW + l*BITH and its scale at DW + P*BITH + l*SB, where
// DW = N*BITJ*P. On the req channel, req_addr holds one row index per lane and
// req_en tells which lanes need a row.
//
func New(cfg Config) (hwsim.NewPartFn, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sc, err := SpinCache(&cfg)
	if err != nil {
		return nil, errors.Wrap(err, "spin cache")
	}
	in, out := Ports(&cfg)
	return hwsim.Chip("MONITOR", in, out,
		hwlib.Pipe(cfg.AddrBits(), cfg.CfgPipes)("in=cfg, in_valid=cfg_valid, out_ready=cfg_take, rst=rst, out=cfg_q, out_valid=cfg_q_valid, in_ready=cfg_ready"),
		hwlib.Pipe(cfg.DataSpin, cfg.SpinPipes)("in=spin, in_valid=spin_valid, out_ready=spin_take, rst=rst, out=spin_q, out_valid=spin_q_valid, in_ready=spin_ready"),
		hwlib.Pipe(cfg.WeightBits(), cfg.WeightPipes)("in=w, in_valid=w_valid, out_ready=w_take, rst=rst, out=w_q, out_valid=w_q_valid, in_ready=w_ready"),
		sc("spin=spin_q, load=spin_load, rst=rst, cached=cached, flipped=flipped, unflipped=unflipped"),
		FlipCounter(&cfg)("flipped=flipped, rst=rst, count=count"),
		MaxCount(&cfg)("count=count, rst=rst, max=max, zero=zero"),
		Extractor(&cfg)("flipped=flipped, start=start, rst=rst, pos=pos, found=found, done=done"),
		Dispatch(&cfg)("k=k, diff=diff, spin=cached, unflipped=unflipped, pos=pos, found=found, addr=req_addr, wsel=req_en, hsel=hsel, rowspin=rowspin, cmask=cmask"),
		PartialEnergy(&cfg)("w=w_q, spin=cached, cmask=cmask, rowspin=rowspin, wsel=req_en, hsel=hsel, diff=diff, valid=w_accept, rst=rst, pe=pe, pe_valid=pe_valid"),
		hwlib.DFF(1)("in=last, rst=rst, out=last_q"),
		Accumulator(&cfg)("pe=pe, pe_valid=pe_valid, last=last_q, clr=acc_clr, rst=rst, acc=e, final=final"),
		Control(&cfg)("cfg=cfg_q, cfg_valid=cfg_q_valid, spin_valid=spin_q_valid, std=std, first=first, done=done, max=max, zero=zero, "+
			"req_ready=req_ready, w_valid=w_q_valid, final=final, e_ready=e_ready, ext_clr=clr, rst=rst, "+
			"cfg_ready=cfg_take, spin_ready=spin_take, spin_load=spin_load, clr=acc_clr, start=start, diff=diff, k=k, "+
			"req_valid=req_valid, w_ready=w_take, w_accept=w_accept, last=last, e_valid=e_valid, busy=busy"),
	)
}
