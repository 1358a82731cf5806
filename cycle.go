package factory

import (
	"slices"
	"sync"

	"github.com/xraph/go-utils/errs"
	"go.uber.org/zap"
)

// CycleDetector is middleware that tracks the chain of types being resolved
// and reports circular dependencies.
//
// When a type reappears in the chain, the chain from its first occurrence is
// a cycle. A cycle is recoverable: it is logged and the chain restarts from
// the repeated type. Once the identical cycle has been recorded threshold
// times within one top-level resolution, the next occurrence is fatal.
type CycleDetector struct {
	threshold int
	logger    *zap.Logger
	fatal     func(err *errs.Error)

	mu       sync.Mutex
	chain    []string
	messages []string
}

// CycleOption configures a CycleDetector.
type CycleOption func(*CycleDetector)

// WithCycleLogger sets the logger used for recoverable and fatal cycles.
func WithCycleLogger(logger *zap.Logger) CycleOption {
	return func(d *CycleDetector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithFatalHandler replaces the handler invoked for a fatal cycle. The
// default logs at fatal level, which terminates the process.
func WithFatalHandler(fn func(err *errs.Error)) CycleOption {
	return func(d *CycleDetector) {
		if fn != nil {
			d.fatal = fn
		}
	}
}

// NewCycleDetector creates a detector with the given repeat threshold.
func NewCycleDetector(threshold int, opts ...CycleOption) *CycleDetector {
	d := &CycleDetector{
		threshold: threshold,
		logger:    zap.NewNop(),
	}
	d.fatal = d.terminate

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// BeforeResolve implements Middleware.
func (d *CycleDetector) BeforeResolve(r *Resolution) {
	if err := d.track(r); err != nil {
		d.fatal(err)
	}
}

// track records the resolution and returns an error when the cycle it closes
// is fatal.
func (d *CycleDetector) track(r *Resolution) *errs.Error {
	d.mu.Lock()
	defer d.mu.Unlock()

	name := r.Key.TypeName()
	index := slices.Index(d.chain, name)
	d.chain = append(d.chain, name)

	if index < 0 {
		return nil
	}

	cycle := slices.Clone(d.chain[index:])
	message := cycleMessage(cycle)

	seen := 0
	for _, m := range d.messages {
		if m == message {
			seen++
		}
	}

	if seen >= d.threshold {
		d.reset()
		return ErrCircularDependency(cycle)
	}

	d.logger.Warn("recoverable circular dependency",
		zap.String("key", r.Key.String()),
		zap.Strings("chain", cycle),
		zap.Int("occurrence", seen+1),
	)

	d.chain = []string{name}
	d.messages = append(d.messages, message)

	return nil
}

// AfterResolve implements Middleware.
func (d *CycleDetector) AfterResolve(_ *Resolution, _ any, _ bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.chain) > 0 {
		d.chain = d.chain[:len(d.chain)-1]
	}
}

// GraphResolved implements Middleware.
func (d *CycleDetector) GraphResolved() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.reset()
}

// Chain returns a copy of the in-flight type chain. It is safe to call while
// another goroutine resolves.
func (d *CycleDetector) Chain() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return slices.Clone(d.chain)
}

// reset clears the chain state. Callers hold d.mu.
func (d *CycleDetector) reset() {
	d.chain = nil
	d.messages = nil
}

func (d *CycleDetector) terminate(err *errs.Error) {
	d.logger.Fatal(err.Message, zap.Any("chain", err.Ctx["chain"]))
	// Fatal may be hooked not to exit; never continue an unbounded cycle.
	panic(err)
}
