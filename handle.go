package factory

// Factory is a handle to the registration of a service of type T.
// Configuration methods return the handle so calls can be chained:
//
//	factory.Register(c, func() Cache { return newMemoryCache() }).
//		Scope(factory.Singleton).
//		Context(factory.Test, func() Cache { return &fakeCache{} }).
//		Once()
type Factory[T any] struct {
	registration *Registration[struct{}, T]
}

// Define declares a factory for T owned by c. The original factory is used
// whenever no override or context applies, and survives ResetAll. name
// separates several declared factories of the same type.
//
//	func (c *AppContainer) Clock() *factory.Factory[Clock] {
//		return factory.Define(c.Container, "clock", func() Clock { return systemClock{} })
//	}
func Define[T any](c *Container, name string, fn func() T) *Factory[T] {
	return &Factory[T]{
		registration: newRegistration(c.Manager, keyFor[T](c.id, name), lift(fn)),
	}
}

// Resolve returns an instance of T.
func (f *Factory[T]) Resolve() T {
	return f.registration.Resolve(struct{}{})
}

// Register overrides the factory.
func (f *Factory[T]) Register(fn func() T) *Factory[T] {
	f.registration.Register(lift(fn))
	return f
}

// Scope sets the lifetime scope.
func (f *Factory[T]) Scope(scope Scope) *Factory[T] {
	f.registration.SetScope(scope)
	return f
}

// Context registers fn for ctx.
func (f *Factory[T]) Context(ctx Context, fn func() T) *Factory[T] {
	f.registration.AddContext(ctx, lift(fn))
	return f
}

// Decorator registers fn to be called with every resolved instance.
func (f *Factory[T]) Decorator(fn func(T)) *Factory[T] {
	f.registration.SetDecorator(fn)
	return f
}

// Once freezes the configuration applied so far: later Register, Scope,
// Context and Decorator calls are ignored until the key is reset.
func (f *Factory[T]) Once() *Factory[T] {
	f.registration.Once()
	return f
}

// Reset clears the part of the registration selected by option.
func (f *Factory[T]) Reset(option ResetOption) *Factory[T] {
	f.registration.Reset(option)
	return f
}

// Release gives back one reference to a Shared instance.
func (f *Factory[T]) Release() {
	f.registration.Release()
}

// Key returns the registration key.
func (f *Factory[T]) Key() Key {
	return f.registration.Key()
}

// Registration exposes the underlying record.
func (f *Factory[T]) Registration() *Registration[struct{}, T] {
	return f.registration
}

// ParameterFactory is a handle to the registration of a service of type T
// built from a parameter of type P.
type ParameterFactory[P, T any] struct {
	registration *Registration[P, T]
}

// DefineParam declares a parameterized factory owned by c.
func DefineParam[P, T any](c *Container, name string, fn func(P) T) *ParameterFactory[P, T] {
	return &ParameterFactory[P, T]{
		registration: newRegistration(c.Manager, paramKeyFor[P, T](c.id, name), fn),
	}
}

// Resolve returns an instance of T built from parameters. Cached scopes
// return the cached instance and ignore parameters.
func (f *ParameterFactory[P, T]) Resolve(parameters P) T {
	return f.registration.Resolve(parameters)
}

// Register overrides the factory.
func (f *ParameterFactory[P, T]) Register(fn func(P) T) *ParameterFactory[P, T] {
	f.registration.Register(fn)
	return f
}

// Scope sets the lifetime scope.
func (f *ParameterFactory[P, T]) Scope(scope Scope) *ParameterFactory[P, T] {
	f.registration.SetScope(scope)
	return f
}

// Context registers fn for ctx.
func (f *ParameterFactory[P, T]) Context(ctx Context, fn func(P) T) *ParameterFactory[P, T] {
	f.registration.AddContext(ctx, fn)
	return f
}

// Decorator registers fn to be called with every resolved instance.
func (f *ParameterFactory[P, T]) Decorator(fn func(T)) *ParameterFactory[P, T] {
	f.registration.SetDecorator(fn)
	return f
}

// Once freezes the configuration applied so far.
func (f *ParameterFactory[P, T]) Once() *ParameterFactory[P, T] {
	f.registration.Once()
	return f
}

// Reset clears the part of the registration selected by option.
func (f *ParameterFactory[P, T]) Reset(option ResetOption) *ParameterFactory[P, T] {
	f.registration.Reset(option)
	return f
}

// Release gives back one reference to a Shared instance.
func (f *ParameterFactory[P, T]) Release() {
	f.registration.Release()
}

// Key returns the registration key.
func (f *ParameterFactory[P, T]) Key() Key {
	return f.registration.Key()
}

// Registration exposes the underlying record.
func (f *ParameterFactory[P, T]) Registration() *Registration[P, T] {
	return f.registration
}

// lift adapts a parameterless factory to the registration signature.
func lift[T any](fn func() T) func(struct{}) T {
	return func(struct{}) T { return fn() }
}
