// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package monitor implements an incremental Ising energy monitor as a set of
hwsim parts.

Given a spin vector S of N bits (bit 1 is spin +1, bit 0 is spin -1), a
symmetric weight matrix J and biases h, the monitor computes

	E(S) = Σ_i Σ_j s_i·J_ij·s_j + Σ_i h_i·s_i

in standard mode, or only E(S_new) - E(S_old) in differential mode, where
the work is proportional to the number of flipped spins:

	ΔE = 4 · Σ_{r flipped} n_r · Σ_{j not flipped} J_rj·n_j

with n the new spin values.

The monitor is a chip made of the following parts, leaves first: three
handshake pipes (config, spin and weight channels), the spin cache and flip
detector, the per-lane flip counter, the maximum count selector, the per-lane
flip position extractor, the lane dispatcher, the partial energy calculator
and the accumulator. A control state machine sequences them.

Spins are split into P interleaved lanes: lane l handles the spins i with
i mod P == l. Weights are not stored in the monitor: for every row it needs,
the monitor issues a request on the request channel naming one row per lane
and waits for the weights on the weight channel.

Engine wraps a monitor, its weight server and the producers and consumers of
its channels into a circuit that can be driven one job at a time.
*/
package monitor
