// Package factory is a dependency-injection registry built on explicit
// factory closures.
//
// A Container maps keys (the produced type, the container, an optional
// parameter type and an optional name) to factories. Each key can carry a
// lifetime scope, context-specific alternative factories, a decorator and a
// once policy, and the whole container can be snapshotted with Push and
// restored with Pop, which makes it easy to swap in mocks for a single test.
//
//	c := factory.New()
//
//	factory.Register(c, func() Clock { return systemClock{} }).
//		Scope(factory.Singleton).
//		Context(factory.Test, func() Clock { return &fakeClock{} })
//
//	clock, ok := factory.Resolve[Clock](c)
//
// Resolution never fails for expected reasons: an unregistered key resolves
// to (zero, false). The only fatal condition is a dependency cycle that keeps
// repeating, which is reported by the CycleDetector middleware.
//
// All registration, resolution and reset operations in a process are
// serialized by one reentrant lock owned by the Runtime, so a factory may
// resolve its own dependencies while another goroutine waits.
package factory
