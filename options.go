package factory

import (
	"maps"

	"github.com/xraph/go-utils/log"
)

// Option is a configuration option for a container.
type Option func(*config)

type config struct {
	runtime      *Runtime
	logger       log.Logger
	defaultScope Scope
	decorator    func(any)
	autoRegister func(*Container)
	middleware   []Middleware
}

func defaultConfig() *config {
	return &config{
		runtime: DefaultRuntime,
		logger:  log.NewNoopLogger(),
	}
}

// WithRuntime makes the container use rt instead of DefaultRuntime.
func WithRuntime(rt *Runtime) Option {
	return func(c *config) {
		if rt != nil {
			c.runtime = rt
		}
	}
}

// WithLogger sets the container logger.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDefaultScope sets the scope used by keys without their own.
func WithDefaultScope(scope Scope) Option {
	return func(c *config) {
		c.defaultScope = scope
	}
}

// WithDecorator sets a decorator called with every instance the container
// resolves, after any per-key decorator.
func WithDecorator(fn func(any)) Option {
	return func(c *config) {
		c.decorator = fn
	}
}

// WithAutoRegistration sets a hook run once, before the first registration or
// resolution touches the container.
func WithAutoRegistration(fn func(*Container)) Option {
	return func(c *config) {
		c.autoRegister = fn
	}
}

// WithMiddleware installs container-level middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *config) {
		c.middleware = append(c.middleware, mw...)
	}
}

// ResetOption selects what a reset clears.
type ResetOption int

const (
	// ResetAll clears the override, options and cached instance.
	ResetAll ResetOption = iota
	// ResetNone does nothing.
	ResetNone
	// ResetRegistration clears the override factory only.
	ResetRegistration
	// ResetContext clears context factories only.
	ResetContext
	// ResetScope clears cached instances only.
	ResetScope
)

// String returns the option name.
func (o ResetOption) String() string {
	switch o {
	case ResetAll:
		return "all"
	case ResetNone:
		return "none"
	case ResetRegistration:
		return "registration"
	case ResetContext:
		return "context"
	case ResetScope:
		return "scope"
	default:
		return "unknown"
	}
}

// registrationOptions is the per-key option record. Factories are stored
// untyped; the owning Registration knows their concrete func(P) T type.
type registrationOptions struct {
	scope            Scope
	argumentContexts map[string]any
	contexts         map[contextKind]any
	decorator        any
	once             bool
	onceApplied      bool
}

// canUpdate reports whether the once policy still permits mutations.
func (o *registrationOptions) canUpdate() bool {
	return o == nil || !(o.once && o.onceApplied)
}

func (o *registrationOptions) clone() *registrationOptions {
	if o == nil {
		return nil
	}

	cp := *o
	cp.argumentContexts = maps.Clone(o.argumentContexts)
	cp.contexts = maps.Clone(o.contexts)

	return &cp
}

func (o *registrationOptions) clearContexts() {
	o.argumentContexts = nil
	o.contexts = nil
}
