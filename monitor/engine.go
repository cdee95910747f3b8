// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package monitor

import (
	"context"
	"log/slog"

	"github.com/db47h/isingmon/hwlib"
	"github.com/db47h/isingmon/hwsim"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/db47h/isingmon/monitor"

type job struct {
	spins []bool
	mode  Mode
	flips int
	start uint
}

type options struct {
	workers   int
	spc       uint
	maxCycles uint
	logger    *slog.Logger
	tracer    trace.Tracer
	ready     func(cycle uint) bool
}

// An Option configures an Engine.
//
type Option func(*options)

// WithWorkers sets the number of goroutines used to simulate the circuit.
// The default is 1. A value <= 0 means GOMAXPROCS.
//
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

// WithStepsPerCycle sets the number of simulation steps per clock cycle. The
// default is 8. NewEngine fails with ErrConfig if spc is lower than the
// configuration's MinStepsPerCycle.
//
func WithStepsPerCycle(spc uint) Option { return func(o *options) { o.spc = spc } }

// WithMaxCycles sets the number of clock cycles after which Eval gives up.
//
func WithMaxCycles(n uint) Option { return func(o *options) { o.maxCycles = n } }

// WithLogger sets the logger used to report epoch completions (at debug
// level). By default nothing is logged.
//
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithTracer sets the tracer used by Eval. The default is the global tracer
// provider's.
//
func WithTracer(t trace.Tracer) Option { return func(o *options) { o.tracer = t } }

// WithReady sets the function driving e_ready, the ready signal of the energy
// output channel. It is called once per clock cycle. By default the output
// channel is always ready.
//
func WithReady(f func(cycle uint) bool) Option { return func(o *options) { o.ready = f } }

// Engine is a monitor wired to a weight source, a spin vector queue and an
// energy sink in a running circuit.
//
// Engine methods are not safe for concurrent use.
//
type Engine struct {
	cfg  Config
	opts options
	c    *hwsim.Circuit

	cfgSrc  cfgSource
	spinSrc spinSource
	ws      weightServer
	sink    energySink
	rst     bool
	clr     bool
	busy    bool

	queue   []*job
	current *job
	results []Result
	spins   []bool // spin vector of the last submitted job
}

// NewEngine builds a new engine for the given configuration. Weights are
// read from src on demand.
//
// The engine must be closed with Close once no longer needed.
//
func NewEngine(cfg Config, src WeightSource, opts ...Option) (*Engine, error) {
	if src == nil {
		return nil, errors.New("nil weight source")
	}
	e := &Engine{
		cfg: cfg,
		opts: options{
			workers:   1,
			spc:       8,
			maxCycles: 1 << 22,
		},
		spins: make([]bool, cfg.DataSpin),
	}
	for _, o := range opts {
		o(&e.opts)
	}
	if e.opts.tracer == nil {
		e.opts.tracer = otel.Tracer(tracerName)
	}
	e.ws.src = src
	e.sink.ready = e.opts.ready

	mon, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if min := cfg.MinStepsPerCycle(); e.opts.spc < min {
		return nil, errors.Wrapf(ErrConfig, "%d steps per cycle, need at least %d", e.opts.spc, min)
	}
	n, p := cfg.DataSpin, cfg.Parallelism
	e.c, err = hwsim.NewCircuit(e.opts.workers, e.opts.spc,
		hwlib.Input(func() bool { return e.rst })("out=rst"),
		hwlib.Input(func() bool { return e.clr })("out=clr"),
		e.cfgSrc.part(&cfg)("out=cfg, valid=cfg_valid, ready=cfg_ready"),
		e.spinSrc.part(&cfg)("out=spin, valid=spin_valid, std=std, first=first, ready=spin_ready"),
		e.ws.part(&cfg)("req_valid=req_valid, req_addr=req_addr, req_en=req_en, ready=w_ready, rst=rst, req_ready=req_ready, out=w, valid=w_valid"),
		e.sink.part(&cfg)("in=e, valid=e_valid, ready=e_ready"),
		hwlib.Output(func(b bool) { e.busy = b })("in=busy"),
		mon("rst=rst, clr=clr, std=std, first=first, cfg=cfg, cfg_valid=cfg_valid, spin=spin, spin_valid=spin_valid, "+
			"w=w, w_valid=w_valid, req_ready=req_ready, e_ready=e_ready, "+
			"cfg_ready=cfg_ready, spin_ready=spin_ready, w_ready=w_ready, req_valid=req_valid, req_addr=req_addr, req_en=req_en, "+
			"e=e, e_valid=e_valid, busy=busy"),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "engine for %d spins on %d lanes", n, p)
	}
	e.log("engine ready", slog.Int("spins", n), slog.Int("lanes", p), slog.Uint64("spc", uint64(e.c.SPC())))
	return e, nil
}

func (e *Engine) log(msg string, attrs ...slog.Attr) {
	if e.opts.logger == nil {
		return
	}
	e.opts.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

// Config returns the engine configuration.
//
func (e *Engine) Config() Config { return e.cfg }

// Push queues a spin vector for evaluation in the given mode. spins[i] is
// spin i; true is +1. Jobs are evaluated one at a time, in order.
//
func (e *Engine) Push(spins []bool, mode Mode) error {
	if len(spins) != e.cfg.DataSpin {
		return errors.Errorf("spin vector length %d, expected %d", len(spins), e.cfg.DataSpin)
	}
	j := &job{spins: append([]bool(nil), spins...), mode: mode, start: e.c.Cycles()}
	for i, s := range j.spins {
		if s != e.spins[i] {
			j.flips++
		}
	}
	copy(e.spins, j.spins)
	e.queue = append(e.queue, j)
	return nil
}

// SetOffset queues a config transfer that sets the start value of the row
// counter in standard mode. It takes effect for the first job accepted after
// the transfer.
//
func (e *Engine) SetOffset(offset uint64) {
	e.cfgSrc.queue = append(e.cfgSrc.queue, offset)
}

// Cycle runs one clock cycle.
//
func (e *Engine) Cycle() {
	if e.current == nil && len(e.queue) > 0 {
		e.current, e.queue = e.queue[0], e.queue[1:]
		e.current.start = e.c.Cycles()
		e.spinSrc.present(e.current)
	}
	e.c.Cycle()
	for _, v := range e.sink.results {
		j := e.current
		if j == nil {
			// result of an epoch abandoned by Reset.
			continue
		}
		r := Result{Energy: v, Mode: j.mode, Flips: j.flips, Cycles: e.c.Cycles() - j.start}
		e.results = append(e.results, r)
		e.log("epoch done", slog.String("mode", r.Mode.String()), slog.Int("flips", r.Flips),
			slog.Int64("energy", r.Energy), slog.Uint64("cycles", uint64(r.Cycles)))
		e.current = nil
		e.spinSrc.present(nil)
	}
	e.sink.results = e.sink.results[:0]
}

// Busy returns true if a job or an offset is queued, or if the monitor is
// busy.
//
func (e *Engine) Busy() bool {
	return e.current != nil || len(e.queue) > 0 || len(e.cfgSrc.queue) > 0 || e.busy
}

// Pop returns the oldest available result.
//
func (e *Engine) Pop() (Result, bool) {
	if len(e.results) == 0 {
		return Result{}, false
	}
	r := e.results[0]
	e.results = e.results[1:]
	return r, true
}

// Eval evaluates a single spin vector and returns the result. The engine must
// be idle. Eval returns ErrTimeout if no result is available after the
// configured maximum number of cycles.
//
func (e *Engine) Eval(ctx context.Context, spins []bool, mode Mode) (Result, error) {
	if e.Busy() || len(e.results) > 0 {
		return Result{}, ErrBusy
	}
	ctx, span := e.opts.tracer.Start(ctx, "monitor.eval",
		trace.WithAttributes(attribute.String("mode", mode.String()), attribute.Int("spins", len(spins))))
	defer span.End()

	if err := e.Push(spins, mode); err != nil {
		span.RecordError(err)
		return Result{}, err
	}
	for n := uint(0); n < e.opts.maxCycles; n++ {
		if n&1023 == 0 {
			if err := ctx.Err(); err != nil {
				span.RecordError(err)
				return Result{}, errors.Wrap(ErrTimeout, err.Error())
			}
		}
		e.Cycle()
		if r, ok := e.Pop(); ok {
			span.SetAttributes(attribute.Int("flips", r.Flips), attribute.Int64("energy", r.Energy), attribute.Int("cycles", int(r.Cycles)))
			return r, nil
		}
	}
	err := errors.Wrapf(ErrTimeout, "no result after %d cycles", e.opts.maxCycles)
	span.RecordError(err)
	return Result{}, err
}

// Run cycles the engine until all queued jobs are done or the maximum
// number of cycles is reached, and returns all available results.
//
func (e *Engine) Run(ctx context.Context) ([]Result, error) {
	for n := uint(0); e.Busy(); n++ {
		if n >= e.opts.maxCycles {
			return e.drain(), errors.Wrapf(ErrTimeout, "jobs pending after %d cycles", n)
		}
		if n&1023 == 0 {
			if err := ctx.Err(); err != nil {
				return e.drain(), errors.Wrap(ErrTimeout, err.Error())
			}
		}
		e.Cycle()
	}
	return e.drain(), nil
}

func (e *Engine) drain() []Result {
	r := e.results
	e.results = nil
	return r
}

// Clear clears the accumulator. The engine must be idle.
//
func (e *Engine) Clear() error {
	if e.Busy() {
		return ErrBusy
	}
	e.clr = true
	e.c.Cycle()
	e.c.Cycle()
	e.clr = false
	e.c.Cycle()
	return nil
}

// Reset resets the monitor: the spin cache is cleared (all spins -1), queued
// jobs and pending results are dropped and any epoch in flight is abandoned.
//
func (e *Engine) Reset() {
	e.queue, e.current, e.results = nil, nil, nil
	e.cfgSrc.queue = nil
	e.spinSrc.present(nil)
	for i := range e.spins {
		e.spins[i] = false
	}
	e.rst = true
	e.c.Cycle()
	e.c.Cycle()
	e.rst = false
	e.c.Cycle()
	e.sink.results = e.sink.results[:0]
	e.log("engine reset")
}

// Accumulated returns the current value of the accumulator.
//
func (e *Engine) Accumulated() int64 { return e.sink.acc }

// Cycles returns the number of clock cycles run so far.
//
func (e *Engine) Cycles() uint { return e.c.Cycles() }

// Close releases the resources held by the engine.
//
func (e *Engine) Close() {
	e.c.Dispose()
}
