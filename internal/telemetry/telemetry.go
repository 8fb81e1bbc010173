// Package telemetry wires up the structured logger shared by every
// subsystem of the reasoner. Components take a *zap.Logger; pkg/reter.New
// derives each subsystem's named sub-logger (e.g. the network's) via Named.
package telemetry

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls how the root logger is built.
type Options struct {
	// Debug enables debug-level logging and a human-readable console
	// encoder instead of JSON. Mirrors the debug_mode toggle the rest of
	// the corpus gates verbose logging behind.
	Debug bool
	// JSON keeps JSON output in Debug mode, which otherwise switches to
	// the console encoder. Outside Debug mode output is always JSON.
	JSON bool
}

// New builds a root logger per Options. Components should derive named
// sub-loggers from it via Named rather than constructing their own.
func New(opts Options) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if opts.Debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	cfg := zap.Config{
		Level:            level,
		Development:      opts.Debug,
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	if opts.Debug && !opts.JSON {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// Noop returns a logger that discards everything, for tests and for
// callers that never configured telemetry.
func Noop() *zap.Logger {
	return zap.NewNop()
}

// Named subsystem loggers, matching the categories the rest of the
// reasoner logs under (alpha dispatch, beta joins, REQL execution,
// snapshot I/O, durability store, source watching).
const (
	SubsystemNetwork   = "network"
	SubsystemREQL      = "reql"
	SubsystemSnapshot  = "snapshot"
	SubsystemStore     = "store"
	SubsystemWatch     = "watch"
	SubsystemOntology  = "ontology"
)

// Named returns log.Named(subsystem), a small indirection so call sites
// reference the constants above instead of repeating string literals.
func Named(log *zap.Logger, subsystem string) *zap.Logger {
	if log == nil {
		log = Noop()
	}
	return log.Named(subsystem)
}
