package factory

import (
	"slices"

	"go.uber.org/zap"
)

// Runtime is the state every container in a process shares: the registry
// lock, the resolution depth counter, runtime arguments, the environment
// classifier and process-wide middleware.
//
// Containers use DefaultRuntime unless given another with WithRuntime.
type Runtime struct {
	lock       *RecursiveMutex
	env        Environment
	logger     *zap.Logger
	depth      int
	args       []runtimeArg
	middleware *middlewareChain
	graph      *GroupScope
}

type runtimeArg struct {
	key string
	arg string
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithEnvironment sets the environment classifier.
func WithEnvironment(env Environment) RuntimeOption {
	return func(rt *Runtime) {
		if env != nil {
			rt.env = env
		}
	}
}

// WithRuntimeLogger sets the runtime logger.
func WithRuntimeLogger(logger *zap.Logger) RuntimeOption {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithLock shares an existing lock with the runtime.
func WithLock(lock *RecursiveMutex) RuntimeOption {
	return func(rt *Runtime) {
		if lock != nil {
			rt.lock = lock
		}
	}
}

// WithRuntimeMiddleware installs process-wide middleware.
func WithRuntimeMiddleware(mw ...Middleware) RuntimeOption {
	return func(rt *Runtime) {
		for _, m := range mw {
			rt.middleware.add(m)
		}
	}
}

// WithCycleDetection installs a CycleDetector with the given threshold.
// A threshold of zero or less leaves detection off. The detector logs through
// the runtime logger, so WithRuntimeLogger must precede it.
func WithCycleDetection(threshold int, opts ...CycleOption) RuntimeOption {
	return func(rt *Runtime) {
		if threshold <= 0 {
			return
		}

		opts = append([]CycleOption{WithCycleLogger(rt.logger)}, opts...)
		rt.middleware.add(NewCycleDetector(threshold, opts...))
	}
}

// NewRuntime creates a runtime with its own lock. The environment defaults
// to NewSystemEnvironment.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		lock:       &RecursiveMutex{},
		logger:     zap.NewNop(),
		middleware: newMiddlewareChain(),
		graph:      Graph,
	}

	for _, opt := range opts {
		opt(rt)
	}

	if rt.env == nil {
		rt.env = NewSystemEnvironment()
	}

	return rt
}

// DefaultRuntime is the runtime shared by containers that do not choose one.
// Cycle detection follows FACTORY_DEBUG and FACTORY_CYCLE_THRESHOLD, and
// FACTORY_TRACE installs a Tracer.
var DefaultRuntime = newDefaultRuntime()

func newDefaultRuntime() *Runtime {
	env := NewSystemEnvironment()
	opts := []RuntimeOption{WithEnvironment(env)}

	if env.IsDebug() {
		opts = append(opts, WithCycleDetection(env.CycleThreshold()))
	}

	if env.TraceEnabled() {
		opts = append(opts, WithRuntimeMiddleware(NewTracer(nil, nil)))
	}

	return NewRuntime(opts...)
}

// Environment returns the environment classifier.
func (rt *Runtime) Environment() Environment {
	return rt.env
}

// Use installs process-wide middleware.
func (rt *Runtime) Use(mw Middleware) {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	rt.middleware.add(mw)
}

// Do runs fn with the registry lock held, making a series of registrations
// atomic with respect to other goroutines.
func (rt *Runtime) Do(fn func()) {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	fn()
}

// Depth returns the current resolution depth.
func (rt *Runtime) Depth() int {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	return rt.depth
}

// Resolving reports whether the calling goroutine is inside a resolution,
// that is, running a factory.
func (rt *Runtime) Resolving() bool {
	if !rt.lock.held() {
		return false
	}

	return rt.depth > 0
}

// SetArg adds or replaces a runtime argument under key. Runtime arguments are
// matched against argument contexts after launch arguments, in the order
// they were first set.
func (rt *Runtime) SetArg(key, arg string) {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	for i := range rt.args {
		if rt.args[i].key == key {
			rt.args[i].arg = arg
			return
		}
	}

	rt.args = append(rt.args, runtimeArg{key: key, arg: arg})
}

// RemoveArg removes the runtime argument stored under key.
func (rt *Runtime) RemoveArg(key string) {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	rt.args = slices.DeleteFunc(rt.args, func(a runtimeArg) bool {
		return a.key == key
	})
}

// Args returns the runtime argument values in order.
func (rt *Runtime) Args() []string {
	rt.lock.Lock()
	defer rt.lock.Unlock()

	return rt.argValues()
}

func (rt *Runtime) argValues() []string {
	values := make([]string, len(rt.args))
	for i, a := range rt.args {
		values[i] = a.arg
	}

	return values
}

// enter increments the depth. Callers hold the lock.
func (rt *Runtime) enter() {
	rt.depth++
}

// leave decrements the depth and reports whether the outermost resolution
// has finished, in which case the graph scope has been cleared.
// Callers hold the lock.
func (rt *Runtime) leave() bool {
	rt.depth--
	if rt.depth > 0 {
		return false
	}

	rt.depth = 0
	rt.graph.Reset()

	return true
}

// graphResolved tells process-wide and container middleware that a
// top-level resolution is complete. Callers hold the lock.
func (rt *Runtime) graphResolved(local *middlewareChain) {
	rt.middleware.graphResolved()

	if local != nil {
		local.graphResolved()
	}
}
