package factory

import "strings"

type contextKind int

const (
	contextArg contextKind = iota
	contextPreview
	contextTest
	contextSimulator
	contextDevice
	contextDebug
)

// Context names the circumstance in which an alternative factory applies.
type Context struct {
	kind contextKind
	args []string
}

var (
	// Preview applies while rendering previews. Requires a debug environment.
	Preview = Context{kind: contextPreview}
	// Test applies while running tests. Requires a debug environment.
	Test = Context{kind: contextTest}
	// Simulator applies when the environment reports a simulator.
	Simulator = Context{kind: contextSimulator}
	// Device applies when the environment does not report a simulator.
	Device = Context{kind: contextDevice}
	// Debug applies in any debug environment.
	Debug = Context{kind: contextDebug}
)

// Arg applies when arg is among the launch or runtime arguments.
func Arg(arg string) Context {
	return Context{kind: contextArg, args: []string{arg}}
}

// Args applies when any of args is among the launch or runtime arguments.
func Args(args ...string) Context {
	return Context{kind: contextArg, args: append([]string(nil), args...)}
}

// String returns the context name.
func (c Context) String() string {
	switch c.kind {
	case contextArg:
		return "arg(" + strings.Join(c.args, ",") + ")"
	case contextPreview:
		return "preview"
	case contextTest:
		return "test"
	case contextSimulator:
		return "simulator"
	case contextDevice:
		return "device"
	case contextDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// selectContext returns the context factory that applies to the current
// environment, or nil when no context matches. Tiers are checked in a fixed
// order and the first match wins:
//
//  1. launch arguments, in the order supplied
//  2. runtime arguments, in the order set
//  3. preview (debug only)
//  4. test (debug only)
//  5. simulator, or device when not on a simulator
//  6. debug (debug only)
func selectContext(env Environment, runtimeArgs []string, opts *registrationOptions) any {
	if opts == nil {
		return nil
	}

	if len(opts.argumentContexts) > 0 {
		for _, arg := range env.Arguments() {
			if found, ok := opts.argumentContexts[arg]; ok {
				return found
			}
		}

		for _, arg := range runtimeArgs {
			if found, ok := opts.argumentContexts[arg]; ok {
				return found
			}
		}
	}

	if len(opts.contexts) == 0 {
		return nil
	}

	debug := env.IsDebug()

	if debug && env.IsPreview() {
		if found, ok := opts.contexts[contextPreview]; ok {
			return found
		}
	}

	if debug && env.IsTest() {
		if found, ok := opts.contexts[contextTest]; ok {
			return found
		}
	}

	platform := contextDevice
	if env.IsSimulator() {
		platform = contextSimulator
	}

	if found, ok := opts.contexts[platform]; ok {
		return found
	}

	if debug {
		if found, ok := opts.contexts[contextDebug]; ok {
			return found
		}
	}

	return nil
}
