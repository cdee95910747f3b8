// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strings"

	"github.com/pkg/errors"
)

// Constant wire names. Inputs connected to True or False are tied high or low
// on every bit of the port.
//
const (
	True  = "true"
	False = "false"
	GND   = False
)

// W is a set of wires, connecting a part's ports (the map key) to wires in its
// container.
//
type W map[string]string

// ParseConnections parses a connection string like "a=x, b=y, out=z" into
// a W. Spaces around names are ignored. An empty string returns an empty W.
//
func ParseConnections(s string) (W, error) {
	w := make(W)
	s = strings.TrimSpace(s)
	if s == "" {
		return w, nil
	}
	for _, c := range strings.Split(s, ",") {
		i := strings.IndexByte(c, '=')
		if i < 0 {
			return nil, errors.Errorf("in %q: missing '=' in connection %q", s, strings.TrimSpace(c))
		}
		k, v := strings.TrimSpace(c[:i]), strings.TrimSpace(c[i+1:])
		if !validName(k) || !validName(v) {
			return nil, errors.Errorf("invalid pin mapping %s:%s", k, v)
		}
		if _, ok := w[k]; ok {
			return nil, errors.Errorf("in %q: pin %s connected more than once", s, k)
		}
		w[k] = v
	}
	return w, nil
}

func isConst(name string) bool {
	return name == True || name == False
}

// wiring records the width, driver and first reader of every wire in a chip.
//
type wiring struct {
	width   map[string]int
	driver  map[string]string
	readers map[string]string
}

func newWiring() *wiring {
	return &wiring{
		width:   make(map[string]int),
		driver:  make(map[string]string),
		readers: make(map[string]string),
	}
}

func (wr *wiring) declare(wire string, width int, where string) error {
	if w, ok := wr.width[wire]; ok && w != width {
		return errors.Errorf("%s: width %d does not match width %d of wire %s", where, width, w, wire)
	}
	wr.width[wire] = width
	return nil
}

func (wr *wiring) read(wire string, width int, where string) error {
	if err := wr.declare(wire, width, where); err != nil {
		return err
	}
	if _, ok := wr.readers[wire]; !ok {
		wr.readers[wire] = where
	}
	return nil
}

func (wr *wiring) drive(wire string, width int, where string) error {
	if err := wr.declare(wire, width, where); err != nil {
		return err
	}
	if d, ok := wr.driver[wire]; ok {
		return errors.Errorf("wire %s driven by both %s and %s", wire, d, where)
	}
	wr.driver[wire] = where
	return nil
}

// check reports wires that are read but never driven.
//
func (wr *wiring) check() error {
	for wire, r := range wr.readers {
		if _, ok := wr.driver[wire]; !ok {
			return errors.Errorf("wire %s (read by %s) not connected to any output", wire, r)
		}
	}
	return nil
}
