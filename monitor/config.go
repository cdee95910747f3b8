// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package monitor

import (
	"github.com/db47h/isingmon/hwlib"
	"github.com/pkg/errors"
)

// Errors returned by the monitor package. Use errors.Cause to test for them.
var (
	ErrConfig  = errors.New("invalid configuration")
	ErrTimeout = errors.New("evaluation timed out")
	ErrBusy    = errors.New("engine busy")
)

// maxPipes is the largest accepted buffering depth of an ingestion channel.
const maxPipes = 16

// Config is the static configuration of a monitor. It is fixed once the
// monitor is built.
//
type Config struct {
	BitJ        int  // weight element width
	BitH        int  // bias width
	DataSpin    int  // spin vector length N
	ScalingBit  int  // scale field width; a lane's partial energy is shifted left by its scale
	Parallelism int  // number of lanes P. Must divide DataSpin.
	EnergyBits  int  // width of partial and accumulated energies
	BigEndian   bool // bit 0 of the spin channel carries spin N-1
	MSBFirst    bool // extract flip positions from the highest index down

	// Buffering depth of the ingestion channels.
	CfgPipes    int
	SpinPipes   int
	WeightPipes int

	// Value of the accumulator after a clear.
	ResetValue int64
}

// DefaultConfig returns a configuration for 256 spins with 4 bit weights on
// 4 lanes.
//
func DefaultConfig() Config {
	return Config{
		BitJ:        4,
		BitH:        4,
		DataSpin:    256,
		ScalingBit:  1,
		Parallelism: 4,
		EnergyBits:  32,
		CfgPipes:    1,
		SpinPipes:   1,
		WeightPipes: 1,
	}
}

// MinStepsPerCycle returns the smallest number of simulation steps per clock
// cycle a monitor built with cfg works with. A zero depth channel chains the
// handshake logic of the monitor with the producer's, which takes 4 steps to
// settle.
//
func (cfg *Config) MinStepsPerCycle() uint {
	if cfg.CfgPipes == 0 || cfg.SpinPipes == 0 || cfg.WeightPipes == 0 {
		return 4
	}
	return 2
}

// LaneLen returns the number of spins handled by each lane.
//
func (cfg *Config) LaneLen() int { return cfg.DataSpin / cfg.Parallelism }

// AddrBits returns the width of a spin index.
//
func (cfg *Config) AddrBits() int {
	if n := hwlib.Clog2(cfg.DataSpin); n > 0 {
		return n
	}
	return 1
}

// CountBits returns the width of a per-lane flip count.
//
func (cfg *Config) CountBits() int {
	return hwlib.Clog2(cfg.LaneLen() + 1)
}

// WeightDataBits returns the width of the weight part of the weight channel.
//
func (cfg *Config) WeightDataBits() int {
	return cfg.DataSpin * cfg.BitJ * cfg.Parallelism
}

// WeightBits returns the width of the weight channel: weights, then biases,
// then scales.
//
func (cfg *Config) WeightBits() int {
	return cfg.WeightDataBits() + cfg.Parallelism*(cfg.BitH+cfg.ScalingBit)
}

// PartialBits returns the number of bits needed to hold the sum of the lane
// partial energies of a single weight transfer.
//
func (cfg *Config) PartialBits() int {
	dot := cfg.BitJ + hwlib.Clog2(cfg.DataSpin) + 1 + (1<<uint(cfg.ScalingBit) - 1) + 2
	if cfg.BitH > dot {
		dot = cfg.BitH
	}
	return dot + 1 + hwlib.Clog2(cfg.Parallelism)
}

// Validate checks the configuration. The returned error's cause is ErrConfig.
//
func (cfg *Config) Validate() error {
	switch {
	case cfg.DataSpin < 1:
		return errors.Wrapf(ErrConfig, "spin vector length %d", cfg.DataSpin)
	case cfg.Parallelism < 1 || cfg.DataSpin%cfg.Parallelism != 0:
		return errors.Wrapf(ErrConfig, "parallelism %d does not divide spin vector length %d", cfg.Parallelism, cfg.DataSpin)
	case cfg.BitJ < 1 || cfg.BitJ > 32:
		return errors.Wrapf(ErrConfig, "weight width %d out of range [1, 32]", cfg.BitJ)
	case cfg.BitH < 1 || cfg.BitH > 32:
		return errors.Wrapf(ErrConfig, "bias width %d out of range [1, 32]", cfg.BitH)
	case cfg.ScalingBit < 1 || cfg.ScalingBit > 6:
		return errors.Wrapf(ErrConfig, "scale width %d out of range [1, 6]", cfg.ScalingBit)
	case cfg.EnergyBits < 2 || cfg.EnergyBits > 64:
		return errors.Wrapf(ErrConfig, "energy width %d out of range [2, 64]", cfg.EnergyBits)
	case cfg.EnergyBits < cfg.PartialBits():
		return errors.Wrapf(ErrConfig, "energy width %d too narrow, need at least %d bits", cfg.EnergyBits, cfg.PartialBits())
	}
	for _, p := range []struct {
		name  string
		depth int
	}{{"config", cfg.CfgPipes}, {"spin", cfg.SpinPipes}, {"weight", cfg.WeightPipes}} {
		if p.depth < 0 || p.depth > maxPipes {
			return errors.Wrapf(ErrConfig, "%s channel depth %d out of range [0, %d]", p.name, p.depth, maxPipes)
		}
	}
	return nil
}

// Mode selects how an epoch is evaluated.
//
type Mode int

// Evaluation modes.
//
const (
	// Differential computes E(new) - E(old) from the flipped rows only.
	// Biases do not contribute.
	Differential Mode = iota
	// Standard computes the full energy of the new spin vector, biases
	// included.
	Standard
	// First is the first operation after a reset. It is evaluated like
	// Standard.
	First
)

func (m Mode) String() string {
	switch m {
	case Differential:
		return "differential"
	case Standard:
		return "standard"
	case First:
		return "first"
	}
	return "Mode(?)"
}
