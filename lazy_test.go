package factory

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazy_Get(t *testing.T) {
	c := New(WithRuntime(testRuntime(StaticEnvironment{})))
	Register(c, func() *MyService { return newMyService() })

	lazy := NewLazy[*MyService](c)
	assert.False(t, lazy.IsResolved())

	first, err := lazy.Get()
	require.NoError(t, err)
	assert.True(t, lazy.IsResolved())

	second, err := lazy.Get()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, keyFor[*MyService](c.ID(), ""), lazy.Key())
}

func TestLazy_NotRegistered(t *testing.T) {
	c := New(WithRuntime(testRuntime(StaticEnvironment{})))
	lazy := NewLazy[*MyService](c)

	_, err := lazy.Get()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRegistered))
	assert.False(t, lazy.IsResolved())

	assert.Panics(t, func() { lazy.MustGet() })
}

func TestLazy_DefersResolution(t *testing.T) {
	built := 0

	c := New(WithRuntime(testRuntime(StaticEnvironment{})))
	f := Define(c, "service", func() *MyService {
		built++
		return newMyService()
	})

	lazy := LazyOf(f)
	assert.Equal(t, 0, built)
	assert.Equal(t, f.Key(), lazy.Key())

	service := lazy.MustGet()
	assert.Equal(t, "MyService", service.Text())

	lazy.MustGet()
	assert.Equal(t, 1, built)
}

func TestProvider(t *testing.T) {
	c := New(WithRuntime(testRuntime(StaticEnvironment{})))
	provider := NewProvider[*MyService](c)

	_, ok := provider.Provide()
	assert.False(t, ok)
	assert.Panics(t, func() { provider.MustProvide() })

	Register(c, func() *MyService { return newMyService() })

	fn := provider.Func()
	s1, ok := fn()
	require.True(t, ok)
	assert.NotSame(t, s1, provider.MustProvide())
}

func TestLazy_ConcurrentGetAndIsResolved(t *testing.T) {
	c := New(WithRuntime(testRuntime(StaticEnvironment{})))
	Register(c, func() *MyService { return newMyService() })

	lazy := NewLazy[*MyService](c)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()

			_, err := lazy.Get()
			assert.NoError(t, err)
		}()

		go func() {
			defer wg.Done()
			_ = lazy.IsResolved()
		}()
	}

	wg.Wait()
	assert.True(t, lazy.IsResolved())
}
