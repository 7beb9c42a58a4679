// internal/logger/logger.go

package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

type Mode int

const (
	MINIMAL Mode = iota
	NORMAL
	FULL
)

var zerologLevels = map[Level]zerolog.Level{
	DEBUG: zerolog.DebugLevel,
	INFO:  zerolog.InfoLevel,
	WARN:  zerolog.WarnLevel,
	ERROR: zerolog.ErrorLevel,
	FATAL: zerolog.FatalLevel,
}

// Logger is a printf-style facade over zerolog. Child loggers created with
// WithComponent share the parent's output and log file.
type Logger struct {
	mu      sync.RWMutex
	zl      zerolog.Logger
	level   Level
	mode    Mode
	logFile *os.File
	out     io.Writer
}

type Config struct {
	Level       Level
	Mode        Mode
	LogFilePath string
	UseColors   bool
	Output      io.Writer
}

func New(cfg Config) (*Logger, error) {
	console := cfg.Output
	if console == nil {
		console = os.Stdout
	}

	l := &Logger{
		level: cfg.Level,
		mode:  cfg.Mode,
	}

	var writers []io.Writer
	writers = append(writers, consoleWriter(console, cfg.Mode, cfg.UseColors))

	if cfg.LogFilePath != "" {
		file, err := openLogFile(cfg.LogFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to setup log file: %w", err)
		}
		l.logFile = file
		writers = append(writers, file)
	}

	if len(writers) == 1 {
		l.out = writers[0]
	} else {
		l.out = zerolog.MultiLevelWriter(writers...)
	}

	ctx := zerolog.New(l.out).With()
	if cfg.Mode != MINIMAL {
		ctx = ctx.Timestamp()
	}
	if cfg.Mode == FULL {
		ctx = ctx.CallerWithSkipFrameCount(4)
	}
	l.zl = ctx.Logger().Level(zerologLevels[cfg.Level])

	return l, nil
}

func consoleWriter(out io.Writer, mode Mode, useColors bool) io.Writer {
	if mode == FULL {
		return out
	}
	w := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !useColors,
		TimeFormat: time.DateTime,
	}
	if mode == MINIMAL {
		w.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	return w
}

func openLogFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func (l *Logger) Close() error {
	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}

// WithComponent returns a child logger tagged with a component field.
func (l *Logger) WithComponent(component string) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return &Logger{
		zl:    l.zl.With().Str("component", component).Logger(),
		level: l.level,
		mode:  l.mode,
		out:   l.out,
	}
}

// Zerolog exposes the underlying logger for callers that want structured fields.
func (l *Logger) Zerolog() zerolog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.zl
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.RLock()
	zl := l.zl
	l.mu.RUnlock()

	var ev *zerolog.Event
	switch level {
	case DEBUG:
		ev = zl.Debug()
	case INFO:
		ev = zl.Info()
	case WARN:
		ev = zl.Warn()
	case ERROR:
		ev = zl.Error()
	case FATAL:
		ev = zl.Fatal()
	}
	ev.Msgf(format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(FATAL, format, args...)
}

func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.zl = l.zl.Level(zerologLevels[level])
}

func (l *Logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return DEBUG
	case "info", "INFO":
		return INFO
	case "warn", "WARN", "warning", "WARNING":
		return WARN
	case "error", "ERROR":
		return ERROR
	case "fatal", "FATAL":
		return FATAL
	default:
		return INFO
	}
}

func ParseMode(s string) Mode {
	switch s {
	case "minimal", "MINIMAL":
		return MINIMAL
	case "normal", "NORMAL":
		return NORMAL
	case "full", "FULL":
		return FULL
	default:
		return NORMAL
	}
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop(), level: FATAL, out: io.Discard}
}

var defaultLogger *Logger

func init() {
	defaultLogger, _ = New(Config{
		Level:     INFO,
		Mode:      NORMAL,
		UseColors: true,
	})
}

// SetDefault replaces the package-level logger.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

func Default() *Logger {
	return defaultLogger
}

func Debug(format string, args ...interface{}) {
	defaultLogger.Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	defaultLogger.Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	defaultLogger.Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	defaultLogger.Error(format, args...)
}

func Fatal(format string, args ...interface{}) {
	defaultLogger.Fatal(format, args...)
}

func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

func Close() error {
	return defaultLogger.Close()
}
