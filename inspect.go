package factory

import (
	"slices"
	"sort"
)

// RegistrationInfo contains diagnostic information about one key.
type RegistrationInfo struct {
	Key        Key
	Scope      string
	Registered bool
	Contexts   []string
	Decorated  bool
	Locked     bool
	Cached     bool
}

// Inspect returns diagnostic information about every key that has an
// override or options in the container, sorted by key.
func (c *Container) Inspect() []RegistrationInfo {
	c.runtime.lock.Lock()
	defer c.runtime.lock.Unlock()

	keys := make(map[Key]struct{}, len(c.registrations)+len(c.options))
	for k := range c.registrations {
		keys[k] = struct{}{}
	}

	for k := range c.options {
		keys[k] = struct{}{}
	}

	infos := make([]RegistrationInfo, 0, len(keys))
	for k := range keys {
		infos = append(infos, c.inspect(k))
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Key.String() < infos[j].Key.String()
	})

	return infos
}

// inspect builds the info for key. Callers hold the lock.
func (c *Container) inspect(key Key) RegistrationInfo {
	opts := c.option(key)
	scope := c.scopeFor(opts)
	_, registered := c.registration(key)
	_, cached := cacheFor(scope, c.cache).Get(key)

	info := RegistrationInfo{
		Key:        key,
		Scope:      scopeName(scope),
		Registered: registered,
		Cached:     cached && scope != nil,
	}

	if opts != nil {
		for arg := range opts.argumentContexts {
			info.Contexts = append(info.Contexts, Arg(arg).String())
		}

		for kind := range opts.contexts {
			info.Contexts = append(info.Contexts, Context{kind: kind}.String())
		}

		slices.Sort(info.Contexts)

		info.Decorated = opts.decorator != nil
		info.Locked = !opts.canUpdate()
	}

	return info
}

// RegistrationQuery defines criteria for Query. Zero fields match everything.
type RegistrationQuery struct {
	// Scope filters by scope name.
	Scope string

	// Registered filters by whether an override factory is stored.
	Registered *bool

	// Cached filters by whether an instance is currently cached.
	Cached *bool

	// Context filters by a registered context name, e.g. "test" or "arg(mock)".
	Context string
}

// Query returns the registrations matching query.
//
// Example:
//
//	cached := true
//	singletons := factory.Query(c, factory.RegistrationQuery{
//	    Scope:  "singleton",
//	    Cached: &cached,
//	})
func Query(c *Container, query RegistrationQuery) []RegistrationInfo {
	var results []RegistrationInfo

	for _, info := range c.Inspect() {
		if query.Scope != "" && info.Scope != query.Scope {
			continue
		}

		if query.Registered != nil && info.Registered != *query.Registered {
			continue
		}

		if query.Cached != nil && info.Cached != *query.Cached {
			continue
		}

		if query.Context != "" && !slices.Contains(info.Contexts, query.Context) {
			continue
		}

		results = append(results, info)
	}

	return results
}

// FindByScope returns the registrations using the named scope.
func FindByScope(c *Container, scope string) []RegistrationInfo {
	return Query(c, RegistrationQuery{Scope: scope})
}
