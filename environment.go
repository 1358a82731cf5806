package factory

import (
	"os"
	"strconv"
	"testing"

	"github.com/joho/godotenv"
)

// Environment variables read by SystemEnvironment.
const (
	EnvDebug          = "FACTORY_DEBUG"
	EnvTest           = "FACTORY_TEST"
	EnvPreview        = "FACTORY_PREVIEW"
	EnvSimulator      = "FACTORY_SIMULATOR"
	EnvCycleThreshold = "FACTORY_CYCLE_THRESHOLD"
	EnvTrace          = "FACTORY_TRACE"
)

// DefaultCycleThreshold is the number of times an identical dependency cycle
// may be observed within one top-level resolution before it is fatal.
const DefaultCycleThreshold = 10

// Environment classifies the running process for context selection.
// The registry only reads it.
type Environment interface {
	// IsDebug enables the Preview, Test and Debug contexts.
	IsDebug() bool
	IsPreview() bool
	IsTest() bool
	IsSimulator() bool
	// Arguments returns the launch arguments in the order they were supplied.
	Arguments() []string
}

// StaticEnvironment is a fixed Environment, mostly useful in tests.
type StaticEnvironment struct {
	Debug     bool
	Preview   bool
	Test      bool
	Simulator bool
	Args      []string
}

func (e StaticEnvironment) IsDebug() bool       { return e.Debug }
func (e StaticEnvironment) IsPreview() bool     { return e.Preview }
func (e StaticEnvironment) IsTest() bool        { return e.Test }
func (e StaticEnvironment) IsSimulator() bool   { return e.Simulator }
func (e StaticEnvironment) Arguments() []string { return e.Args }

// SystemEnvironment classifies the process from its environment variables
// and launch arguments. Tests are detected through testing.Testing unless
// FACTORY_TEST overrides it.
type SystemEnvironment struct {
	debug          bool
	preview        bool
	test           bool
	simulator      bool
	trace          bool
	cycleThreshold int
	args           []string
}

// LoadEnvironment reads .env files (if present) and builds a SystemEnvironment
// from the process environment. Missing files are not an error; with no
// arguments ".env" is tried.
func LoadEnvironment(envFiles ...string) *SystemEnvironment {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// .env is optional outside development
	_ = godotenv.Load(files...)

	return NewSystemEnvironment()
}

// NewSystemEnvironment builds a SystemEnvironment from the current process
// environment without touching .env files.
func NewSystemEnvironment() *SystemEnvironment {
	var args []string
	if len(os.Args) > 1 {
		args = append(args, os.Args[1:]...)
	}

	return &SystemEnvironment{
		debug:          envBool(EnvDebug, true),
		preview:        envBool(EnvPreview, false),
		test:           envBool(EnvTest, testing.Testing()),
		simulator:      envBool(EnvSimulator, false),
		trace:          envBool(EnvTrace, false),
		cycleThreshold: envInt(EnvCycleThreshold, DefaultCycleThreshold),
		args:           args,
	}
}

func (e *SystemEnvironment) IsDebug() bool       { return e.debug }
func (e *SystemEnvironment) IsPreview() bool     { return e.preview }
func (e *SystemEnvironment) IsTest() bool        { return e.test }
func (e *SystemEnvironment) IsSimulator() bool   { return e.simulator }
func (e *SystemEnvironment) Arguments() []string { return e.args }

// TraceEnabled reports whether FACTORY_TRACE requested resolution tracing.
func (e *SystemEnvironment) TraceEnabled() bool { return e.trace }

// CycleThreshold returns the configured repeat threshold for cycle detection.
// Zero disables detection.
func (e *SystemEnvironment) CycleThreshold() int { return e.cycleThreshold }

// ── helpers ─────────────────────────────────────────────────────────────────

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}

	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return i
}
