package factory

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Lazy wraps a dependency that is resolved on first access.
// This is useful for breaking dependency cycles or deferring resolution of
// expensive services until they are actually needed.
type Lazy[T any] struct {
	resolve  func() (T, bool)
	key      Key
	mu       sync.Once
	value    T
	err      error
	resolved atomic.Bool
}

// NewLazy creates a lazy wrapper around the registration for T in c.
func NewLazy[T any](c *Container) *Lazy[T] {
	return &Lazy[T]{
		resolve: func() (T, bool) { return Resolve[T](c) },
		key:     keyFor[T](c.id, ""),
	}
}

// LazyOf creates a lazy wrapper around a factory handle.
func LazyOf[T any](f *Factory[T]) *Lazy[T] {
	return &Lazy[T]{
		resolve: func() (T, bool) { return f.Resolve(), true },
		key:     f.Key(),
	}
}

// Get resolves the dependency and returns it.
// The resolution happens only once; subsequent calls return the cached value.
func (l *Lazy[T]) Get() (T, error) {
	l.mu.Do(func() {
		value, ok := l.resolve()
		if !ok {
			l.err = ErrServiceNotRegistered(l.key)
			return
		}

		l.value = value
		l.resolved.Store(true)
	})

	return l.value, l.err
}

// MustGet resolves the dependency and returns it, panicking on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("lazy dependency %s failed: %v", l.key, err))
	}

	return value
}

// IsResolved returns true if the dependency has been resolved.
func (l *Lazy[T]) IsResolved() bool {
	return l.resolved.Load()
}

// Key returns the key of the dependency.
func (l *Lazy[T]) Key() Key {
	return l.key
}

// Provider resolves T from a container on every call. It is the function
// form of Resolve and follows the registration's scope.
type Provider[T any] struct {
	container *Container
}

// NewProvider creates a provider for T.
func NewProvider[T any](c *Container) *Provider[T] {
	return &Provider[T]{container: c}
}

// Provide resolves T, reporting false when nothing is registered.
func (p *Provider[T]) Provide() (T, bool) {
	return Resolve[T](p.container)
}

// MustProvide resolves T, panicking when nothing is registered.
func (p *Provider[T]) MustProvide() T {
	return MustResolve[T](p.container)
}

// Func returns Provide as a plain function value.
func (p *Provider[T]) Func() func() (T, bool) {
	return p.Provide
}
