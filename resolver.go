package factory

import "fmt"

// Register registers fn as the factory for T in c and returns its handle for
// further configuration.
func Register[T any](c *Container, fn func() T) *Factory[T] {
	c.runtime.lock.Lock()
	defer c.runtime.lock.Unlock()

	c.checkAutoRegistration()

	f := &Factory[T]{
		registration: newRegistration(c.Manager, keyFor[T](c.id, ""), lift(fn)),
	}

	return f.Register(fn)
}

// RegisterParam registers fn as the factory for T built from a P.
func RegisterParam[P, T any](c *Container, fn func(P) T) *ParameterFactory[P, T] {
	c.runtime.lock.Lock()
	defer c.runtime.lock.Unlock()

	c.checkAutoRegistration()

	f := &ParameterFactory[P, T]{
		registration: newRegistration(c.Manager, paramKeyFor[P, T](c.id, ""), fn),
	}

	return f.Register(fn)
}

// Lookup returns the handle for T if a factory is registered in c. Use it to
// change options after the initial registration.
func Lookup[T any](c *Container) (*Factory[T], bool) {
	c.runtime.lock.Lock()
	defer c.runtime.lock.Unlock()

	c.checkAutoRegistration()

	key := keyFor[T](c.id, "")

	found, ok := c.registration(key)
	if !ok {
		return nil, false
	}

	fn, ok := found.(func(struct{}) T)
	if !ok {
		return nil, false
	}

	return &Factory[T]{registration: newRegistration(c.Manager, key, fn)}, true
}

// LookupParam returns the handle for T built from a P if one is registered.
func LookupParam[P, T any](c *Container) (*ParameterFactory[P, T], bool) {
	c.runtime.lock.Lock()
	defer c.runtime.lock.Unlock()

	c.checkAutoRegistration()

	key := paramKeyFor[P, T](c.id, "")

	found, ok := c.registration(key)
	if !ok {
		return nil, false
	}

	fn, ok := found.(func(P) T)
	if !ok {
		return nil, false
	}

	return &ParameterFactory[P, T]{registration: newRegistration(c.Manager, key, fn)}, true
}

// Resolve returns an instance of T, or false when nothing is registered.
func Resolve[T any](c *Container) (T, bool) {
	f, ok := Lookup[T](c)
	if !ok {
		var zero T
		return zero, false
	}

	return f.Resolve(), true
}

// ResolveWith returns an instance of T built from parameters, or false when
// nothing is registered.
func ResolveWith[P, T any](c *Container, parameters P) (T, bool) {
	f, ok := LookupParam[P, T](c)
	if !ok {
		var zero T
		return zero, false
	}

	return f.Resolve(parameters), true
}

// MustResolve resolves or panics - use only during startup.
func MustResolve[T any](c *Container) T {
	instance, ok := Resolve[T](c)
	if !ok {
		panic(fmt.Sprintf("failed to resolve: %v", ErrServiceNotRegistered(keyFor[T](c.id, ""))))
	}

	return instance
}

// MustResolveWith resolves a parameterized service or panics.
func MustResolveWith[P, T any](c *Container, parameters P) T {
	instance, ok := ResolveWith[P, T](c, parameters)
	if !ok {
		panic(fmt.Sprintf("failed to resolve: %v", ErrServiceNotRegistered(paramKeyFor[P, T](c.id, ""))))
	}

	return instance
}
