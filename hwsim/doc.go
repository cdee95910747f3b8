// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package hwsim provides a naive cycle-level hardware simulator and an API to
compose parts (registers, pipelines, arithmetic units, etc.) into chips.

A part is described by a PartSpec: a name, input and output ports with a bus
width, and a Mount function that returns the Components simulating the part.
Components are plain closures called once per simulation step. They read pin
states from the current frame of the Circuit and write the next one.

Parts are connected with connection strings mapping a part's port names to
wire names in the enclosing chip:

	reg := hwlib.Register(8)("in=data, load=we, clr=rst, out=q")

Clocked components latch their inputs at the beginning of a clock cycle
(Circuit.AtTick). Combinational components update their outputs on every step
and need one step per level of logic to propagate. A clock cycle lasts
Circuit.SPC() steps, which must be larger than the deepest combinational path
of the circuit.
*/
package hwsim
