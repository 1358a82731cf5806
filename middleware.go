package factory

// Resolution describes one step of the resolution algorithm.
type Resolution struct {
	// Key being resolved.
	Key Key
	// Depth is the number of enclosing resolutions; zero for a top-level call.
	Depth int
	// Scope is the name of the effective scope.
	Scope string
}

// Middleware observes resolutions. It is the instrumentation layer of the
// registry: cycle detection and tracing are middleware, and the resolution
// algorithm runs the same steps whether or not any is installed.
//
// Middleware runs with the registry lock held and must not block.
type Middleware interface {
	// BeforeResolve is called before the scope is consulted.
	BeforeResolve(r *Resolution)

	// AfterResolve is called once the scope returned an instance.
	// created reports whether the factory ran.
	AfterResolve(r *Resolution, instance any, created bool)

	// GraphResolved is called when the resolution depth returns to zero.
	GraphResolved()
}

// middlewareChain manages multiple middleware.
type middlewareChain struct {
	middleware []Middleware
}

// newMiddlewareChain creates a new middleware chain.
func newMiddlewareChain() *middlewareChain {
	return &middlewareChain{
		middleware: make([]Middleware, 0),
	}
}

// add appends middleware to the chain.
func (m *middlewareChain) add(middleware Middleware) {
	m.middleware = append(m.middleware, middleware)
}

func (m *middlewareChain) beforeResolve(r *Resolution) {
	for _, mw := range m.middleware {
		mw.BeforeResolve(r)
	}
}

// afterResolve runs in reverse order so the chain unwinds like a stack.
func (m *middlewareChain) afterResolve(r *Resolution, instance any, created bool) {
	for i := len(m.middleware) - 1; i >= 0; i-- {
		m.middleware[i].AfterResolve(r, instance, created)
	}
}

func (m *middlewareChain) graphResolved() {
	for _, mw := range m.middleware {
		mw.GraphResolved()
	}
}

// FuncMiddleware wraps functions as Middleware. Nil functions are skipped.
type FuncMiddleware struct {
	BeforeResolveFunc func(r *Resolution)
	AfterResolveFunc  func(r *Resolution, instance any, created bool)
	GraphResolvedFunc func()
}

// BeforeResolve implements Middleware.
func (f *FuncMiddleware) BeforeResolve(r *Resolution) {
	if f.BeforeResolveFunc != nil {
		f.BeforeResolveFunc(r)
	}
}

// AfterResolve implements Middleware.
func (f *FuncMiddleware) AfterResolve(r *Resolution, instance any, created bool) {
	if f.AfterResolveFunc != nil {
		f.AfterResolveFunc(r, instance, created)
	}
}

// GraphResolved implements Middleware.
func (f *FuncMiddleware) GraphResolved() {
	if f.GraphResolvedFunc != nil {
		f.GraphResolvedFunc()
	}
}
