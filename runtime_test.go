package factory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRuntime_Options(t *testing.T) {
	lock := &RecursiveMutex{}
	logger := zap.NewExample()
	env := StaticEnvironment{Debug: true}

	rt := NewRuntime(
		WithEnvironment(env),
		WithRuntimeLogger(logger),
		WithLock(lock),
		WithCycleDetection(5),
	)

	assert.Equal(t, env, rt.Environment())
	assert.Same(t, lock, rt.lock)
	assert.Same(t, logger, rt.logger)
	require.Len(t, rt.middleware.middleware, 1)

	detector, ok := rt.middleware.middleware[0].(*CycleDetector)
	require.True(t, ok)
	assert.Equal(t, 5, detector.threshold)
	assert.Same(t, logger, detector.logger)
}

func TestNewRuntime_DefaultEnvironment(t *testing.T) {
	rt := NewRuntime(WithEnvironment(nil), WithRuntimeLogger(nil), WithLock(nil))

	_, ok := rt.Environment().(*SystemEnvironment)
	assert.True(t, ok)
	assert.NotNil(t, rt.lock)
	assert.NotNil(t, rt.logger)
}

func TestNewDefaultRuntime(t *testing.T) {
	t.Setenv(EnvDebug, "true")
	t.Setenv(EnvCycleThreshold, "4")
	t.Setenv(EnvTrace, "true")

	rt := newDefaultRuntime()
	require.Len(t, rt.middleware.middleware, 2)

	detector, ok := rt.middleware.middleware[0].(*CycleDetector)
	require.True(t, ok)
	assert.Equal(t, 4, detector.threshold)

	_, ok = rt.middleware.middleware[1].(*Tracer)
	assert.True(t, ok)

	t.Setenv(EnvDebug, "false")
	t.Setenv(EnvTrace, "false")

	assert.Empty(t, newDefaultRuntime().middleware.middleware)
}

func TestRuntime_Resolving(t *testing.T) {
	rt := testRuntime(StaticEnvironment{})
	c := New(WithRuntime(rt))

	var inside bool

	f := Define(c, "service", func() *MyService {
		inside = rt.Resolving()
		return newMyService()
	})

	assert.False(t, rt.Resolving())
	f.Resolve()
	assert.True(t, inside)
	assert.False(t, rt.Resolving())
}

func TestRuntime_DoIsAtomic(t *testing.T) {
	rt := testRuntime(StaticEnvironment{})
	c := New(WithRuntime(rt))

	Register(c, func() string { return "before" })

	var wg sync.WaitGroup
	wg.Add(1)

	rt.Do(func() {
		Register(c, func() string { return "first" })

		go func() {
			defer wg.Done()

			value, _ := Resolve[string](c)
			assert.Equal(t, "second", value)
		}()

		Register(c, func() string { return "second" })
	})

	wg.Wait()
}

func TestRuntime_SharedAcrossContainers(t *testing.T) {
	rec := &recordingMiddleware{name: "rt"}
	rt := testRuntime(StaticEnvironment{}, WithRuntimeMiddleware(rec))

	c1 := New(WithRuntime(rt))
	c2 := New(WithRuntime(rt))

	inner := Define(c2, "inner", func() *MockServiceN { return newMockServiceN(0) })
	outer := Define(c1, "outer", func() *MyService {
		inner.Resolve()
		return newMyService()
	})

	outer.Resolve()

	assert.Equal(t, []string{
		"rt:before:0",
		"rt:before:1",
		"rt:after:1:true",
		"rt:after:0:true",
		"rt:graph",
	}, rec.calls)
}
