package factory

import (
	"fmt"
	"sync/atomic"
)

var nextServiceID atomic.Int64

type MyServiceType interface {
	ID() int64
	Text() string
}

type MyService struct {
	id int64
}

func newMyService() *MyService {
	return &MyService{id: nextServiceID.Add(1)}
}

func (s *MyService) ID() int64    { return s.id }
func (s *MyService) Text() string { return "MyService" }

type MockServiceN struct {
	id int64
	n  int
}

func newMockServiceN(n int) *MockServiceN {
	return &MockServiceN{id: nextServiceID.Add(1), n: n}
}

func (s *MockServiceN) ID() int64    { return s.id }
func (s *MockServiceN) Text() string { return fmt.Sprintf("MockService%d", s.n) }

type ParameterService struct {
	id    int64
	value int
}

func newParameterService(value int) *ParameterService {
	return &ParameterService{id: nextServiceID.Add(1), value: value}
}

// testRuntime returns an isolated runtime with a fixed environment.
func testRuntime(env StaticEnvironment, opts ...RuntimeOption) *Runtime {
	return NewRuntime(append([]RuntimeOption{WithEnvironment(env)}, opts...)...)
}

// recordingMiddleware records every middleware call as a string.
type recordingMiddleware struct {
	name  string
	calls []string
}

func (m *recordingMiddleware) BeforeResolve(r *Resolution) {
	m.calls = append(m.calls, fmt.Sprintf("%s:before:%d", m.name, r.Depth))
}

func (m *recordingMiddleware) AfterResolve(r *Resolution, _ any, created bool) {
	m.calls = append(m.calls, fmt.Sprintf("%s:after:%d:%t", m.name, r.Depth, created))
}

func (m *recordingMiddleware) GraphResolved() {
	m.calls = append(m.calls, m.name+":graph")
}
