// Package logger holds the process-wide zerolog logger used by the API and
// its commands. Call Init once from main; everything else asks for Get or a
// Component-scoped child.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options configures Init.
type Options struct {
	// Level is one of trace, debug, info, warn or error. Unknown values mean info.
	Level string
	// Pretty switches to the colored console writer used during development.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service, when set, is stamped on every event.
	Service string
	// Env, when set, is stamped on every event as "env".
	Env string
}

var (
	mu     sync.RWMutex
	once   sync.Once
	root   zerolog.Logger
	loaded bool
)

// Init builds the root logger. Only the first call configures it; later calls
// return the logger built by the first one.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		w := opts.Output
		if w == nil {
			w = os.Stdout
		}
		if opts.Pretty {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
		}

		level := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(level)

		fields := zerolog.New(w).Level(level).With().Timestamp()
		if opts.Service != "" {
			fields = fields.Str("service", opts.Service)
		}
		if opts.Env != "" {
			fields = fields.Str("env", opts.Env)
		}

		mu.Lock()
		root = fields.Logger()
		loaded = true
		mu.Unlock()
	})
	return Get()
}

// Get returns the root logger. It panics before Init.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !loaded {
		panic("logger: Get called before Init")
	}
	return root
}

// Component returns a child logger carrying a "component" field. Before Init
// it returns a disabled logger so packages can be used from tests.
func Component(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if !loaded {
		return zerolog.Nop()
	}
	return root.With().Str("component", name).Logger()
}

// Reset forgets the root logger. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	root = zerolog.Logger{}
	loaded = false
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
