package factory

import (
	"github.com/google/uuid"
	"github.com/xraph/go-utils/di"
	"github.com/xraph/go-utils/log"
	"go.uber.org/multierr"
)

// Container is a registry of factories. Keys are scoped to the container, so
// two containers never share registrations or cached instances.
type Container struct {
	*Manager
}

// AutoRegistering is implemented by types that register their factories
// lazily. Pass the method to WithAutoRegistration.
type AutoRegistering interface {
	AutoRegister(c *Container)
}

// Disposable is implemented by instances that release resources when the
// container is closed.
type Disposable = di.Disposable

// New creates a container.
func New(opts ...Option) *Container {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	c := &Container{
		Manager: newManager(uuid.NewString(), cfg),
	}

	if cfg.autoRegister != nil {
		c.autoRegister = func() { cfg.autoRegister(c) }
		c.autoRegistrationNeeded = true
	}

	return c
}

// Close evicts every cached instance that belongs to the container, including
// instances held by Singleton and custom scopes, and disposes those that
// implement Disposable. Registrations are kept.
func (c *Container) Close() error {
	c.runtime.lock.Lock()
	defer c.runtime.lock.Unlock()

	var failures error

	for _, cache := range c.ownedCaches() {
		evicted := cache.removeWhere(func(k Key) bool {
			return k.Container == c.id
		})

		for key, entry := range evicted {
			d, ok := cachedValue(entry).(Disposable)
			if !ok {
				continue
			}

			if err := d.Dispose(); err != nil {
				c.logger.Error("dispose failed",
					log.String("key", key.String()),
					log.Error(err),
				)

				failures = multierr.Append(failures, err)
			}
		}
	}

	if failures != nil {
		return NewDisposeError(c.id, failures)
	}

	return nil
}
