package factory

// Scope decides whether a resolution is served from a cache or built fresh,
// and how a built instance is cached.
//
// Resolve is always called with the registry lock held. cache is the
// container's cache; scopes that keep their own cache ignore it.
type Scope interface {
	Name() string
	Resolve(cache *Cache, key Key, build func() any) any
}

// OwnCache is implemented by scopes that keep instances outside the
// container's cache. Per-key resets use it to find the entry to evict.
type OwnCache interface {
	Cache() *Cache
}

var (
	// Unique never caches; every resolution runs the factory.
	Unique Scope = uniqueScope{}

	// Cached keeps one instance per key in the container's cache until the
	// key or the container is reset.
	Cached Scope = cachedScope{}

	// Shared keeps one instance per key while holders still reference it.
	// Holders give the instance back with Factory.Release; once every
	// holder has released it, the next resolution builds a new one.
	Shared Scope = sharedScope{}

	// Singleton keeps one instance per key for the life of the process,
	// independent of container resets. Use Singleton.Reset to clear it.
	Singleton = NewScope("singleton")

	// Graph keeps instances only for the duration of one top-level
	// resolution, so every dependency in a single object graph shares them.
	Graph = NewScope("graph")
)

type uniqueScope struct{}

func (uniqueScope) Name() string { return "unique" }

func (uniqueScope) Resolve(_ *Cache, _ Key, build func() any) any {
	return build()
}

type cachedScope struct{}

func (cachedScope) Name() string { return "cached" }

func (cachedScope) Resolve(cache *Cache, key Key, build func() any) any {
	return resolveCached(cache, key, build)
}

// GroupScope is a named scope with its own cache. Instances live until the
// scope is reset, which makes it suitable for session-like lifetimes.
type GroupScope struct {
	name  string
	cache *Cache
}

// NewScope creates a custom cached scope.
func NewScope(name string) *GroupScope {
	return &GroupScope{name: name, cache: NewCache()}
}

// Name returns the scope name.
func (s *GroupScope) Name() string { return s.name }

// Resolve returns the cached instance for key or builds and caches one.
func (s *GroupScope) Resolve(_ *Cache, key Key, build func() any) any {
	return resolveCached(s.cache, key, build)
}

// Cache returns the scope's cache.
func (s *GroupScope) Cache() *Cache { return s.cache }

// Reset evicts every instance held by the scope.
func (s *GroupScope) Reset() {
	s.cache.Reset()
}

func resolveCached(cache *Cache, key Key, build func() any) any {
	if instance, ok := cache.Get(key); ok {
		return instance
	}

	instance := build()
	cache.Set(key, instance)

	return instance
}

// sharedRef is the cache holder used by the Shared scope.
type sharedRef struct {
	value any
	refs  int
}

type sharedScope struct{}

func (sharedScope) Name() string { return "shared" }

func (sharedScope) Resolve(cache *Cache, key Key, build func() any) any {
	if entry, ok := cache.Get(key); ok {
		if ref, ok := entry.(*sharedRef); ok && ref.refs > 0 {
			ref.refs++
			return ref.value
		}
	}

	instance := build()
	cache.Set(key, &sharedRef{value: instance, refs: 1})

	return instance
}

// release drops one reference to the shared instance for key and evicts it
// when no references remain.
func (sharedScope) release(cache *Cache, key Key) {
	entry, ok := cache.Get(key)
	if !ok {
		return
	}

	ref, ok := entry.(*sharedRef)
	if !ok {
		return
	}

	ref.refs--
	if ref.refs <= 0 {
		cache.Remove(key)
	}
}

// cachedValue unwraps scope holders so diagnostics and disposal see the
// instance itself.
func cachedValue(entry any) any {
	if ref, ok := entry.(*sharedRef); ok {
		return ref.value
	}

	return entry
}

// cacheFor returns the cache a scope stores key's instance in.
func cacheFor(scope Scope, fallback *Cache) *Cache {
	if owner, ok := scope.(OwnCache); ok {
		return owner.Cache()
	}

	return fallback
}

// scopeName returns the name of scope, treating nil as Unique.
func scopeName(scope Scope) string {
	if scope == nil {
		return Unique.Name()
	}

	return scope.Name()
}
