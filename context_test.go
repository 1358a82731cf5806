package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func contextOptions() *registrationOptions {
	return &registrationOptions{
		argumentContexts: map[string]any{"launch": "launch", "runtime": "runtime"},
		contexts: map[contextKind]any{
			contextPreview:   "preview",
			contextTest:      "test",
			contextSimulator: "simulator",
			contextDevice:    "device",
			contextDebug:     "debug",
		},
	}
}

func TestSelectContext_Precedence(t *testing.T) {
	tests := []struct {
		name        string
		env         StaticEnvironment
		runtimeArgs []string
		drop        []contextKind
		want        any
	}{
		{
			name:        "launch argument wins",
			env:         StaticEnvironment{Debug: true, Preview: true, Test: true, Args: []string{"launch"}},
			runtimeArgs: []string{"runtime"},
			want:        "launch",
		},
		{
			name:        "runtime argument",
			env:         StaticEnvironment{Debug: true, Preview: true, Test: true},
			runtimeArgs: []string{"runtime"},
			want:        "runtime",
		},
		{
			name: "preview before test",
			env:  StaticEnvironment{Debug: true, Preview: true, Test: true},
			want: "preview",
		},
		{
			name: "test",
			env:  StaticEnvironment{Debug: true, Test: true},
			want: "test",
		},
		{
			name: "preview and test require debug",
			env:  StaticEnvironment{Preview: true, Test: true},
			want: "device",
		},
		{
			name: "simulator",
			env:  StaticEnvironment{Debug: true, Simulator: true},
			want: "simulator",
		},
		{
			name: "device",
			env:  StaticEnvironment{Debug: true},
			want: "device",
		},
		{
			name: "debug",
			env:  StaticEnvironment{Debug: true},
			drop: []contextKind{contextDevice},
			want: "debug",
		},
		{
			name: "no match",
			env:  StaticEnvironment{},
			drop: []contextKind{contextDevice},
			want: nil,
		},
		{
			name: "unknown arguments are ignored",
			env:  StaticEnvironment{Args: []string{"other"}},
			drop: []contextKind{contextDevice},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := contextOptions()
			for _, kind := range tt.drop {
				delete(opts.contexts, kind)
			}

			assert.Equal(t, tt.want, selectContext(tt.env, tt.runtimeArgs, opts))
		})
	}
}

func TestSelectContext_NoOptions(t *testing.T) {
	assert.Nil(t, selectContext(StaticEnvironment{Debug: true}, nil, nil))
	assert.Nil(t, selectContext(StaticEnvironment{Debug: true}, nil, &registrationOptions{}))
}

func TestSelectContext_LaunchArgumentOrder(t *testing.T) {
	opts := &registrationOptions{
		argumentContexts: map[string]any{"a": "a", "b": "b"},
	}

	assert.Equal(t, "b", selectContext(StaticEnvironment{Args: []string{"b", "a"}}, nil, opts))
	assert.Equal(t, "a", selectContext(StaticEnvironment{Args: []string{"a", "b"}}, nil, opts))
}

func TestContext_String(t *testing.T) {
	assert.Equal(t, "arg(mock)", Arg("mock").String())
	assert.Equal(t, "arg(a,b)", Args("a", "b").String())
	assert.Equal(t, "preview", Preview.String())
	assert.Equal(t, "test", Test.String())
	assert.Equal(t, "simulator", Simulator.String())
	assert.Equal(t, "device", Device.String())
	assert.Equal(t, "debug", Debug.String())
}

func TestContext_LaunchArgumentBeatsDebug(t *testing.T) {
	rt := testRuntime(StaticEnvironment{Debug: true, Args: []string{"mock1"}})
	c := New(WithRuntime(rt))

	f := Define(c, "service", func() MyServiceType { return newMyService() }).
		Context(Debug, func() MyServiceType { return newMockServiceN(0) }).
		Context(Arg("mock1"), func() MyServiceType { return newMockServiceN(1) })

	assert.Equal(t, "MockService1", f.Resolve().Text())
}

func TestContext_RuntimeArguments(t *testing.T) {
	rt := testRuntime(StaticEnvironment{})
	c := New(WithRuntime(rt))

	f := Define(c, "service", func() MyServiceType { return newMyService() }).
		Context(Args("mock1", "mock2"), func() MyServiceType { return newMockServiceN(1) }).
		Context(Arg("mock3"), func() MyServiceType { return newMockServiceN(3) })

	assert.Equal(t, "MyService", f.Resolve().Text())

	rt.SetArg("feature", "mock2")
	assert.Equal(t, "MockService1", f.Resolve().Text())

	rt.SetArg("feature", "mock3")
	assert.Equal(t, []string{"mock3"}, rt.Args())
	assert.Equal(t, "MockService3", f.Resolve().Text())

	rt.SetArg("other", "mock1")
	assert.Equal(t, []string{"mock3", "mock1"}, rt.Args())
	assert.Equal(t, "MockService3", f.Resolve().Text())

	rt.RemoveArg("feature")
	assert.Equal(t, "MockService1", f.Resolve().Text())

	rt.RemoveArg("other")
	assert.Empty(t, rt.Args())
	assert.Equal(t, "MyService", f.Resolve().Text())
}

func TestContext_OverridesRegistration(t *testing.T) {
	rt := testRuntime(StaticEnvironment{Debug: true, Test: true})
	c := New(WithRuntime(rt))

	f := Define(c, "service", func() MyServiceType { return newMyService() }).
		Register(func() MyServiceType { return newMockServiceN(1) }).
		Context(Test, func() MyServiceType { return newMockServiceN(2) })

	assert.Equal(t, "MockService2", f.Resolve().Text())
}
