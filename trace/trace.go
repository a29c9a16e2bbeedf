package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents different levels of tracing
type Level int

const (
	LevelOff Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
	LevelVerbose
)

// String returns the string representation of Level
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "OFF"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelVerbose:
		return "VERBOSE"
	default:
		return "UNKNOWN"
	}
}

// Component represents different components that can be traced
type Component string

const (
	ComponentParser   Component = "PARSER"
	ComponentRegistry Component = "REGISTRY"
	ComponentLocator  Component = "LOCATOR"
	ComponentTracer   Component = "TRACER"
	ComponentResolver Component = "RESOLVER"
	ComponentEngine   Component = "ENGINE"
)

var allComponents = []Component{
	ComponentParser, ComponentRegistry, ComponentLocator,
	ComponentTracer, ComponentResolver, ComponentEngine,
}

// Tracer provides leveled, component-scoped tracing for lineage analysis
type Tracer struct {
	level             Level
	enabledComponents map[Component]bool
	mutex             sync.RWMutex
	out               io.Writer
}

// Global tracer instance
var globalTracer *Tracer
var tracerOnce sync.Once

// GetTracer returns the global tracer instance
func GetTracer() *Tracer {
	tracerOnce.Do(func() {
		globalTracer = NewTracer()
	})
	return globalTracer
}

// NewTracer creates a new tracer with configuration from environment variables
func NewTracer() *Tracer {
	tracer := &Tracer{
		level:             LevelOff,
		enabledComponents: make(map[Component]bool),
		out:               os.Stderr,
	}

	tracer.configureFromEnv()
	return tracer
}

// configureFromEnv configures the tracer from environment variables
func (t *Tracer) configureFromEnv() {
	// Set trace level from LINEAGE_TRACE_LEVEL
	if levelStr := os.Getenv("LINEAGE_TRACE_LEVEL"); levelStr != "" {
		switch strings.ToUpper(levelStr) {
		case "OFF":
			t.level = LevelOff
		case "ERROR":
			t.level = LevelError
		case "WARN":
			t.level = LevelWarn
		case "INFO":
			t.level = LevelInfo
		case "DEBUG":
			t.level = LevelDebug
		case "VERBOSE":
			t.level = LevelVerbose
		}
	}

	// Set enabled components from LINEAGE_TRACE_COMPONENTS (comma-separated)
	if componentsStr := os.Getenv("LINEAGE_TRACE_COMPONENTS"); componentsStr != "" {
		if strings.ToUpper(componentsStr) == "ALL" {
			for _, comp := range allComponents {
				t.enabledComponents[comp] = true
			}
		} else {
			components := strings.Split(componentsStr, ",")
			for _, comp := range components {
				t.enabledComponents[Component(strings.TrimSpace(strings.ToUpper(comp)))] = true
			}
		}
	}
}

// SetLevel sets the trace level
func (t *Tracer) SetLevel(level Level) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.level = level
}

// SetOutput sets the destination for trace output
func (t *Tracer) SetOutput(w io.Writer) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.out = w
}

// EnableComponent enables tracing for a specific component
func (t *Tracer) EnableComponent(component Component) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.enabledComponents[component] = true
}

// DisableComponent disables tracing for a specific component
func (t *Tracer) DisableComponent(component Component) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.enabledComponents[component] = false
}

// IsEnabled checks if tracing is enabled for a given level and component
func (t *Tracer) IsEnabled(level Level, component Component) bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.level >= level && t.enabledComponents[component]
}

// trace prints a trace entry if the level and component are enabled
func (t *Tracer) trace(level Level, component Component, message string, context map[string]interface{}) {
	if !t.IsEnabled(level, component) {
		return
	}

	t.mutex.RLock()
	out := t.out
	t.mutex.RUnlock()

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(out, "[%s] %s/%s: %s", timestamp, level, component, message)

	if len(context) > 0 {
		fmt.Fprintf(out, " |")
		for k, v := range context {
			fmt.Fprintf(out, " %s=%v", k, v)
		}
	}
	fmt.Fprintln(out)
}

// Error logs an error-level trace
func (t *Tracer) Error(component Component, message string, context ...map[string]interface{}) {
	ctx := make(map[string]interface{})
	if len(context) > 0 {
		ctx = context[0]
	}
	t.trace(LevelError, component, message, ctx)
}

// Warn logs a warning-level trace
func (t *Tracer) Warn(component Component, message string, context ...map[string]interface{}) {
	ctx := make(map[string]interface{})
	if len(context) > 0 {
		ctx = context[0]
	}
	t.trace(LevelWarn, component, message, ctx)
}

// Info logs an info-level trace
func (t *Tracer) Info(component Component, message string, context ...map[string]interface{}) {
	ctx := make(map[string]interface{})
	if len(context) > 0 {
		ctx = context[0]
	}
	t.trace(LevelInfo, component, message, ctx)
}

// Debug logs a debug-level trace
func (t *Tracer) Debug(component Component, message string, context ...map[string]interface{}) {
	ctx := make(map[string]interface{})
	if len(context) > 0 {
		ctx = context[0]
	}
	t.trace(LevelDebug, component, message, ctx)
}

// Verbose logs a verbose-level trace
func (t *Tracer) Verbose(component Component, message string, context ...map[string]interface{}) {
	ctx := make(map[string]interface{})
	if len(context) > 0 {
		ctx = context[0]
	}
	t.trace(LevelVerbose, component, message, ctx)
}

// Context creates a context map for tracing
func Context(pairs ...interface{}) map[string]interface{} {
	context := make(map[string]interface{})
	for i := 0; i < len(pairs)-1; i += 2 {
		if key, ok := pairs[i].(string); ok {
			context[key] = pairs[i+1]
		}
	}
	return context
}
