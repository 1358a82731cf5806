package factory

import (
	"maps"

	"github.com/xraph/go-utils/log"
)

// Manager holds the state of one container: the registration table of
// override factories, the option table, the container cache and the
// snapshot stack used by Push and Pop.
//
// Every method takes the runtime lock.
type Manager struct {
	id                     string
	runtime                *Runtime
	logger                 log.Logger
	registrations          map[Key]any
	options                map[Key]*registrationOptions
	cache                  *Cache
	stack                  []snapshot
	defaultScope           Scope
	decorator              func(any)
	middleware             *middlewareChain
	autoRegister           func()
	autoRegistrationNeeded bool
}

// snapshot is a full copy of the mutable tables.
type snapshot struct {
	registrations map[Key]any
	options       map[Key]*registrationOptions
	cache         map[Key]any
}

func newManager(id string, cfg *config) *Manager {
	m := &Manager{
		id:            id,
		runtime:       cfg.runtime,
		logger:        cfg.logger,
		registrations: make(map[Key]any),
		options:       make(map[Key]*registrationOptions),
		cache:         NewCache(),
		defaultScope:  cfg.defaultScope,
		decorator:     cfg.decorator,
		middleware:    newMiddlewareChain(),
	}

	for _, mw := range cfg.middleware {
		m.middleware.add(mw)
	}

	return m
}

// ID returns the container identity used in keys.
func (m *Manager) ID() string {
	return m.id
}

// Runtime returns the runtime the manager shares.
func (m *Manager) Runtime() *Runtime {
	return m.runtime
}

// Logger returns the manager logger.
func (m *Manager) Logger() log.Logger {
	return m.logger
}

// Cache returns the container cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// RegisterFactory stores factory as the override for key.
func (m *Manager) RegisterFactory(key Key, factory any) {
	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	m.registrations[key] = factory
}

// registration returns the override factory stored for key.
func (m *Manager) registration(key Key) (any, bool) {
	f, ok := m.registrations[key]
	return f, ok
}

// option returns the option record for key, or nil.
func (m *Manager) option(key Key) *registrationOptions {
	return m.options[key]
}

// setOption replaces the option record for key.
func (m *Manager) setOption(key Key, opts *registrationOptions) {
	m.options[key] = opts
}

// mutableOption returns the option record for key, creating it.
func (m *Manager) mutableOption(key Key) *registrationOptions {
	opts := m.options[key]
	if opts == nil {
		opts = &registrationOptions{}
		m.setOption(key, opts)
	}

	return opts
}

// DefaultScope returns the scope used by keys without their own.
// Nil behaves as Unique.
func (m *Manager) DefaultScope() Scope {
	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	return m.defaultScope
}

// SetDefaultScope changes the default scope and clears the container cache.
func (m *Manager) SetDefaultScope(scope Scope) {
	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	m.defaultScope = scope
	m.cache.Reset()
}

// SetDecorator sets the container-wide decorator.
func (m *Manager) SetDecorator(fn func(any)) {
	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	m.decorator = fn
}

// Use installs container-level middleware.
func (m *Manager) Use(mw Middleware) {
	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	m.middleware.add(mw)
}

// Push saves a copy of the registrations, options and cached instances.
func (m *Manager) Push() {
	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	options := make(map[Key]*registrationOptions, len(m.options))
	for k, v := range m.options {
		options[k] = v.clone()
	}

	m.stack = append(m.stack, snapshot{
		registrations: maps.Clone(m.registrations),
		options:       options,
		cache:         m.cache.snapshot(),
	})
}

// Pop restores the most recent snapshot. Pop with no snapshot does nothing.
func (m *Manager) Pop() {
	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	if len(m.stack) == 0 {
		return
	}

	top := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]

	m.registrations = top.registrations
	m.options = top.options
	m.cache.restore(top.cache)
}

// Depth returns the number of saved snapshots.
func (m *Manager) Depth() int {
	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	return len(m.stack)
}

// Reset clears registrations, options and the container cache.
func (m *Manager) Reset() {
	m.ResetWith(ResetAll)
}

// ResetWith clears the part of the container state selected by option.
func (m *Manager) ResetWith(option ResetOption) {
	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	switch option {
	case ResetAll:
		m.registrations = make(map[Key]any)
		m.options = make(map[Key]*registrationOptions)
		m.cache.Reset()
	case ResetRegistration:
		m.registrations = make(map[Key]any)
	case ResetContext:
		for _, opts := range m.options {
			opts.clearContexts()
		}
	case ResetScope:
		m.cache.Reset()
	case ResetNone:
	}
}

// TriggerAutoRegistrationIfNeeded runs the auto-registration hook the first
// time it is called. Later calls do nothing.
func (m *Manager) TriggerAutoRegistrationIfNeeded() {
	m.runtime.lock.Lock()
	defer m.runtime.lock.Unlock()

	m.checkAutoRegistration()
}

// checkAutoRegistration runs the hook if needed. Callers hold the lock.
func (m *Manager) checkAutoRegistration() {
	if !m.autoRegistrationNeeded {
		return
	}

	m.autoRegistrationNeeded = false

	if m.autoRegister != nil {
		m.logger.Debug("running auto registration", log.String("container", m.id))
		m.autoRegister()
	}
}

// scopeFor returns the effective scope for key. Callers hold the lock.
func (m *Manager) scopeFor(opts *registrationOptions) Scope {
	if opts != nil && opts.scope != nil {
		return opts.scope
	}

	return m.defaultScope
}

// ownedCaches returns every cache that may hold instances for this
// container's keys. Callers hold the lock.
func (m *Manager) ownedCaches() []*Cache {
	caches := []*Cache{m.cache}
	seen := map[*Cache]bool{m.cache: true}

	add := func(scope Scope) {
		c := cacheFor(scope, m.cache)
		if !seen[c] {
			seen[c] = true
			caches = append(caches, c)
		}
	}

	if m.defaultScope != nil {
		add(m.defaultScope)
	}

	for _, opts := range m.options {
		if opts.scope != nil {
			add(opts.scope)
		}
	}

	return caches
}
