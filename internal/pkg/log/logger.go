/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the severity of a log entry.
type Level int8

// Log levels.
const (
	DEBUG   = Level(zapcore.DebugLevel)
	INFO    = Level(zapcore.InfoLevel)
	WARNING = Level(zapcore.WarnLevel)
	ERROR   = Level(zapcore.ErrorLevel)
	PANIC   = Level(zapcore.PanicLevel)
	FATAL   = Level(zapcore.FatalLevel)
)

const defaultLevel = INFO

// String returns the upper-case name of the level.
func (l Level) String() string {
	switch l {
	case WARNING:
		return "WARN"
	case DEBUG, INFO, ERROR, PANIC, FATAL:
		return strings.ToUpper(zapcore.Level(l).String())
	default:
		return fmt.Sprintf("Level(%d)", l)
	}
}

// ParseLevel parses a case-insensitive level name.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARNING, nil
	case "error":
		return ERROR, nil
	case "panic":
		return PANIC, nil
	case "fatal":
		return FATAL, nil
	}

	return ERROR, fmt.Errorf("logger: invalid log level %q", s)
}

// Encoding is the output format of a logger.
type Encoding = string

// Supported encodings.
const (
	Console Encoding = "console"
	JSON    Encoding = "json"
)

// DefaultEncoding may be overridden at build time with -ldflags.
var DefaultEncoding = Console //nolint:gochecknoglobals

var registry = &levelRegistry{levels: map[string]Level{}} //nolint:gochecknoglobals

type options struct {
	encoding Encoding
	stdOut   zapcore.WriteSyncer
	stdErr   zapcore.WriteSyncer
	fields   []zap.Field
}

// Option configures a logger.
type Option func(o *options)

// WithStdOut sets the sink for DEBUG, INFO and WARN entries.
func WithStdOut(w zapcore.WriteSyncer) Option {
	return func(o *options) { o.stdOut = w }
}

// WithStdErr sets the sink for ERROR, PANIC and FATAL entries.
func WithStdErr(w zapcore.WriteSyncer) Option {
	return func(o *options) { o.stdErr = w }
}

// WithFields attaches fields to every entry.
func WithFields(fields ...zap.Field) Option {
	return func(o *options) { o.fields = append(o.fields, fields...) }
}

// WithEncoding selects console or json output.
func WithEncoding(encoding Encoding) Option {
	return func(o *options) { o.encoding = encoding }
}

// Log is a module-scoped structured logger.
type Log struct {
	*zap.Logger
	module string
}

// New returns a logger for the given module. The module's level is looked up on every entry,
// so SetLevel and SetSpec apply to loggers that already exist.
func New(module string, opts ...Option) *Log {
	o := &options{
		encoding: DefaultEncoding,
		stdOut:   os.Stdout,
		stdErr:   os.Stderr,
	}

	for _, opt := range opts {
		opt(o)
	}

	return &Log{
		Logger: newZap(module, o).With(o.fields...),
		module: module,
	}
}

// IsEnabled reports whether entries at the given level are written for this logger's module.
func (l *Log) IsEnabled(level Level) bool {
	return registry.enabled(l.module, level)
}

const defaultModuleKey = "default"

// SetLevel sets the level for a module.
func SetLevel(module string, level Level) {
	registry.set(module, level)
}

// SetDefaultLevel sets the level used by modules without an explicit setting.
func SetDefaultLevel(level Level) {
	registry.set("", level)
}

// GetLevel returns the effective level for a module.
func GetLevel(module string) Level {
	return registry.get(module)
}

// Levels returns every explicitly set level keyed by module. The default level is keyed "default".
func Levels() map[string]string {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()

	out := make(map[string]string, len(registry.levels)+1)
	out[defaultModuleKey] = defaultLevel.String()

	for module, level := range registry.levels {
		if module == "" {
			module = defaultModuleKey
		}

		out[module] = level.String()
	}

	return out
}

// SetSpec applies a level spec of the form
//
//	module1=level1:module2=level2:defaultLevel
//
// The default level is optional and falls back to INFO.
func SetSpec(spec string) error {
	defaultLvl := defaultLevel
	hasDefault := false
	perModule := map[string]Level{}

	for _, part := range strings.Split(spec, ":") {
		module, lvl, found := strings.Cut(part, "=")
		if !found {
			if hasDefault {
				return errors.New("multiple default values found")
			}

			level, err := ParseLevel(part)
			if err != nil {
				return err
			}

			defaultLvl, hasDefault = level, true

			continue
		}

		level, err := ParseLevel(lvl)
		if err != nil {
			return err
		}

		perModule[module] = level
	}

	registry.set("", defaultLvl)

	for module, level := range perModule {
		registry.set(module, level)
	}

	return nil
}

type levelRegistry struct {
	mutex  sync.RWMutex
	levels map[string]Level
}

func (r *levelRegistry) get(module string) Level {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if level, ok := r.levels[module]; ok {
		return level
	}

	if level, ok := r.levels[""]; ok {
		return level
	}

	return defaultLevel
}

func (r *levelRegistry) set(module string, level Level) {
	r.mutex.Lock()
	r.levels[module] = level
	r.mutex.Unlock()
}

func (r *levelRegistry) enabled(module string, level Level) bool {
	return level >= r.get(module)
}

func newZap(module string, o *options) *zap.Logger {
	encoder := newEncoder(o.encoding)

	errLevels := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel && registry.enabled(module, Level(lvl))
	})

	outLevels := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl < zapcore.ErrorLevel && registry.enabled(module, Level(lvl))
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(o.stdErr), errLevels),
		zapcore.NewCore(encoder, zapcore.Lock(o.stdOut), outLevels),
	)

	return zap.New(core, zap.AddCaller()).Named(module)
}

func newEncoder(encoding Encoding) zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if strings.EqualFold(encoding, JSON) {
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder

		return zapcore.NewJSONEncoder(cfg)
	}

	cfg.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + name + "]")
	}

	return zapcore.NewConsoleEncoder(cfg)
}

// Discard returns a logger that writes nowhere. Useful in tests.
func Discard(module string) *Log {
	sink := zapcore.AddSync(io.Discard)

	return New(module, WithStdOut(sink), WithStdErr(sink))
}
