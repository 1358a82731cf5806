package factory

import (
	"reflect"

	"github.com/xraph/go-utils/log"
)

// Registration is the record for one key. It owns the original factory and
// runs the resolution algorithm. Everything that can change after creation
// (override factory, scope, contexts, decorator, once policy) is kept in the
// manager's tables, so every Registration for the same key sees the same
// state and Push/Pop can snapshot it.
type Registration[P, T any] struct {
	key     Key
	manager *Manager
	factory func(P) T
}

func newRegistration[P, T any](m *Manager, key Key, factory func(P) T) *Registration[P, T] {
	return &Registration[P, T]{
		key:     key,
		manager: m,
		factory: factory,
	}
}

// Key returns the registration key.
func (r *Registration[P, T]) Key() Key {
	return r.key
}

// Resolve returns an instance for parameters. The effective factory is
// chosen by context, the effective scope decides whether it runs, and any
// decorators see the instance before it is returned.
func (r *Registration[P, T]) Resolve(parameters P) T {
	m := r.manager
	rt := m.runtime

	rt.lock.Lock()
	defer rt.lock.Unlock()

	m.checkAutoRegistration()

	opts := m.option(r.key)
	scope := m.scopeFor(opts)
	factory := r.factoryForCurrentContext(opts)

	res := &Resolution{
		Key:   r.key,
		Depth: rt.depth,
		Scope: scopeName(scope),
	}

	rt.middleware.beforeResolve(res)
	m.middleware.beforeResolve(res)

	created := false
	build := func() any {
		created = true
		return factory(parameters)
	}

	rt.enter()

	finished := false
	defer func() {
		// A panicking factory still unwinds the depth counter.
		if !finished && rt.leave() {
			rt.graphResolved(m.middleware)
		}
	}()

	var instance any
	if scope == nil {
		instance = build()
	} else {
		instance = scope.Resolve(m.cache, r.key, build)
	}

	finished = true
	top := rt.leave()

	m.middleware.afterResolve(res, instance, created)
	rt.middleware.afterResolve(res, instance, created)

	if top {
		rt.graphResolved(m.middleware)
	}

	typed, ok := instance.(T)
	if !ok && instance != nil {
		m.logger.Error("resolved instance has unexpected type",
			log.Error(ErrTypeMismatch(r.key, instance)),
		)
	}

	if opts != nil {
		if decorate, ok := opts.decorator.(func(T)); ok {
			decorate(typed)
		}
	}

	if m.decorator != nil {
		m.decorator(instance)
	}

	return typed
}

// factoryForCurrentContext picks the context factory that applies, else the
// registered override, else the original factory. Callers hold the lock.
func (r *Registration[P, T]) factoryForCurrentContext(opts *registrationOptions) func(P) T {
	rt := r.manager.runtime

	if found := selectContext(rt.env, rt.argValues(), opts); found != nil {
		if f, ok := found.(func(P) T); ok {
			return f
		}
	}

	if found, ok := r.manager.registration(r.key); ok {
		if f, ok := found.(func(P) T); ok {
			return f
		}
	}

	return r.factory
}

// Register replaces the override factory and evicts any cached instance.
func (r *Registration[P, T]) Register(factory func(P) T) {
	r.mutate(func(m *Manager, opts *registrationOptions) bool {
		m.registrations[r.key] = factory
		r.evict(m, opts)

		return true
	})
}

// SetScope replaces the key's scope. The instance cached under the previous
// scope is evicted. Setting the current scope again does nothing.
func (r *Registration[P, T]) SetScope(scope Scope) {
	r.mutate(func(m *Manager, opts *registrationOptions) bool {
		if sameScope(opts.scope, scope) {
			return false
		}

		r.evict(m, opts)
		opts.scope = scope

		return true
	})
}

// AddContext registers factory for ctx.
func (r *Registration[P, T]) AddContext(ctx Context, factory func(P) T) {
	r.mutate(func(_ *Manager, opts *registrationOptions) bool {
		if ctx.kind == contextArg {
			if opts.argumentContexts == nil {
				opts.argumentContexts = make(map[string]any)
			}

			for _, arg := range ctx.args {
				opts.argumentContexts[arg] = factory
			}

			return true
		}

		if opts.contexts == nil {
			opts.contexts = make(map[contextKind]any)
		}

		opts.contexts[ctx.kind] = factory

		return true
	})
}

// AddArgumentContext registers factory for each of args.
func (r *Registration[P, T]) AddArgumentContext(factory func(P) T, args ...string) {
	r.AddContext(Args(args...), factory)
}

// SetDecorator registers fn to be called with every resolved instance.
func (r *Registration[P, T]) SetDecorator(fn func(T)) {
	r.mutate(func(_ *Manager, opts *registrationOptions) bool {
		opts.decorator = fn

		return true
	})
}

// Once requests the once policy: as soon as one mutation has been applied to
// the key, further mutations are ignored until the key is reset.
func (r *Registration[P, T]) Once() {
	m := r.manager

	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	m.mutableOption(r.key).once = true
}

// Reset clears the part of the key's state selected by option.
func (r *Registration[P, T]) Reset(option ResetOption) {
	m := r.manager

	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	opts := m.option(r.key)

	switch option {
	case ResetAll:
		r.evict(m, opts)
		delete(m.registrations, r.key)
		delete(m.options, r.key)
	case ResetRegistration:
		delete(m.registrations, r.key)
	case ResetContext:
		if opts != nil {
			opts.clearContexts()
		}
	case ResetScope:
		r.evict(m, opts)
	case ResetNone:
	}
}

// Release gives back one reference to an instance resolved in the Shared
// scope. It does nothing for other scopes.
func (r *Registration[P, T]) Release() {
	m := r.manager

	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	scope := m.scopeFor(m.option(r.key))
	if shared, ok := scope.(sharedScope); ok {
		shared.release(m.cache, r.key)
	}
}

// Registered reports whether an override factory is stored for the key.
func (r *Registration[P, T]) Registered() bool {
	m := r.manager

	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	_, ok := m.registration(r.key)

	return ok
}

// mutate applies fn to the key's options when the once policy permits it.
// fn reports whether it changed anything; only changes count toward the
// once policy.
func (r *Registration[P, T]) mutate(fn func(m *Manager, opts *registrationOptions) bool) {
	m := r.manager

	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	m.checkAutoRegistration()

	opts := m.mutableOption(r.key)
	if !opts.canUpdate() {
		return
	}

	if fn(m, opts) {
		opts.onceApplied = true
	}
}

// evict removes the key's cached instance from the cache its current scope
// uses, and from the container cache. Callers hold the lock.
func (r *Registration[P, T]) evict(m *Manager, opts *registrationOptions) {
	cacheFor(m.scopeFor(opts), m.cache).Remove(r.key)
	m.cache.Remove(r.key)
}

// sameScope compares scopes without panicking on non-comparable
// implementations.
func sameScope(a, b Scope) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}

	return a == b
}
