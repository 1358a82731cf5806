package factory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loggingMiddleware(name string, log *[]string) *FuncMiddleware {
	return &FuncMiddleware{
		BeforeResolveFunc: func(r *Resolution) {
			*log = append(*log, fmt.Sprintf("%s:before:%d", name, r.Depth))
		},
		AfterResolveFunc: func(r *Resolution, _ any, created bool) {
			*log = append(*log, fmt.Sprintf("%s:after:%d:%t", name, r.Depth, created))
		},
		GraphResolvedFunc: func() {
			*log = append(*log, name+":graph")
		},
	}
}

func TestMiddleware_NestedOrder(t *testing.T) {
	var log []string

	rt := testRuntime(StaticEnvironment{}, WithRuntimeMiddleware(loggingMiddleware("rt", &log)))
	c := New(WithRuntime(rt), WithMiddleware(loggingMiddleware("c", &log)))

	child := Define(c, "child", func() *MyService { return newMyService() })
	root := Define(c, "root", func() MyServiceType { return child.Resolve() })

	root.Resolve()

	assert.Equal(t, []string{
		"rt:before:0",
		"c:before:0",
		"rt:before:1",
		"c:before:1",
		"c:after:1:true",
		"rt:after:1:true",
		"c:after:0:true",
		"rt:after:0:true",
		"rt:graph",
		"c:graph",
	}, log)
	assert.Equal(t, 0, rt.Depth())
}

func TestMiddleware_CachedResolution(t *testing.T) {
	rec := &recordingMiddleware{name: "m"}
	c := New(WithRuntime(testRuntime(StaticEnvironment{})), WithMiddleware(rec))

	f := Define(c, "service", func() *MyService { return newMyService() }).Scope(Cached)
	f.Resolve()
	f.Resolve()

	assert.Equal(t, []string{
		"m:before:0",
		"m:after:0:true",
		"m:graph",
		"m:before:0",
		"m:after:0:false",
		"m:graph",
	}, rec.calls)
}

func TestMiddleware_ResolutionDetails(t *testing.T) {
	var seen []Resolution

	c := New(WithRuntime(testRuntime(StaticEnvironment{})))
	c.Use(&FuncMiddleware{
		BeforeResolveFunc: func(r *Resolution) { seen = append(seen, *r) },
	})

	f := Define(c, "service", func() *MyService { return newMyService() }).Scope(Cached)
	f.Resolve()

	require.Len(t, seen, 1)
	assert.Equal(t, f.Key(), seen[0].Key)
	assert.Equal(t, "cached", seen[0].Scope)
	assert.Equal(t, 0, seen[0].Depth)
}

func TestMiddleware_RuntimeUse(t *testing.T) {
	rec := &recordingMiddleware{name: "rt"}
	rt := testRuntime(StaticEnvironment{})
	rt.Use(rec)

	c := New(WithRuntime(rt))
	Define(c, "service", func() *MyService { return newMyService() }).Resolve()

	assert.Equal(t, []string{"rt:before:0", "rt:after:0:true", "rt:graph"}, rec.calls)
}

func TestFuncMiddleware_NilFuncs(t *testing.T) {
	mw := &FuncMiddleware{}

	assert.NotPanics(t, func() {
		mw.BeforeResolve(&Resolution{})
		mw.AfterResolve(&Resolution{}, nil, false)
		mw.GraphResolved()
	})
}
