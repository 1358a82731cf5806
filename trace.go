package factory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/m1gwings/treedrawer/tree"
	"go.uber.org/zap"
)

// Tracer is middleware that records every resolution of a top-level call
// tree and reports it once the tree is complete. Each line shows the depth,
// the key, the instance type and whether the instance was newly created (N)
// or served from a cache (C).
type Tracer struct {
	logger *zap.Logger
	output func(string)
	lines  []traceLine
	open   []int

	mu   sync.Mutex
	last string
}

type traceLine struct {
	depth    int
	key      Key
	typeName string
	created  bool
	done     bool
}

func (l traceLine) String() string {
	status := "C"
	if l.created {
		status = "N"
	}

	typeName := l.typeName
	if !l.done {
		typeName = "<unresolved>"
	}

	return fmt.Sprintf("%d: %s%s = %s %s", l.depth, strings.Repeat("    ", l.depth), l.key, typeName, status)
}

// NewTracer creates a tracer that logs each completed call tree at debug
// level. output, when non-nil, also receives the rendered tree.
func NewTracer(logger *zap.Logger, output func(string)) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Tracer{logger: logger, output: output}
}

// BeforeResolve implements Middleware.
func (t *Tracer) BeforeResolve(r *Resolution) {
	t.open = append(t.open, len(t.lines))
	t.lines = append(t.lines, traceLine{depth: r.Depth, key: r.Key})
}

// AfterResolve implements Middleware.
func (t *Tracer) AfterResolve(_ *Resolution, instance any, created bool) {
	if len(t.open) == 0 {
		return
	}

	slot := t.open[len(t.open)-1]
	t.open = t.open[:len(t.open)-1]

	t.lines[slot].typeName = fmt.Sprintf("%T", instance)
	t.lines[slot].created = created
	t.lines[slot].done = true
}

// GraphResolved implements Middleware.
func (t *Tracer) GraphResolved() {
	defer func() {
		t.lines = nil
		t.open = nil
	}()

	if len(t.lines) == 0 {
		return
	}

	for _, line := range t.lines {
		t.logger.Debug(line.String(),
			zap.Int("depth", line.depth),
			zap.String("key", line.key.String()),
			zap.String("type", line.typeName),
			zap.Bool("created", line.created),
		)
	}

	rendered := renderTrace(t.lines)

	t.mu.Lock()
	t.last = rendered
	t.mu.Unlock()

	if t.output != nil {
		t.output(rendered)
	}
}

// Last returns the rendering of the most recent completed call tree. It is
// safe to call while another goroutine resolves.
func (t *Tracer) Last() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.last
}

// renderTrace draws the recorded lines, which are in entry order, as a tree.
func renderTrace(lines []traceLine) string {
	var (
		roots []*tree.Tree
		stack []*tree.Tree
	)

	for _, line := range lines {
		label := tree.NodeString(line.String())

		if line.depth == 0 || len(stack) == 0 {
			root := tree.NewTree(label)
			roots = append(roots, root)
			stack = []*tree.Tree{root}

			continue
		}

		depth := min(line.depth, len(stack))
		stack = stack[:depth]
		stack = append(stack, stack[depth-1].AddChild(label))
	}

	rendered := make([]string, 0, len(roots))
	for _, root := range roots {
		rendered = append(rendered, root.String())
	}

	return strings.Join(rendered, "\n")
}
