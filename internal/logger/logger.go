package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger defines the contactbook logging contract.
// Arguments after msg are slog-style key/value pairs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Options selects the level, destination and format of a logger.
type Options struct {
	Level  string `koanf:"level"`
	File   string `koanf:"file"`
	Format string `koanf:"format"`
}

// SlogLogger implements Logger on top of log/slog.
type SlogLogger struct {
	logger *slog.Logger
	closer io.Closer
}

// New builds a logger from options. Unparseable options fall back to
// defaults and the fallback is reported through the returned logger.
func New(options Options) *SlogLogger {
	level, ok := parseLevel(options.Level)
	if !ok {
		bad := options.Level
		options.Level = ""
		l := New(options)
		l.Warn("could not parse logger level", "level", bad)
		return l
	}
	opts := slog.HandlerOptions{Level: level}

	var output io.Writer
	var closer io.Closer
	switch options.File {
	case "", "-":
		output = os.Stderr
	case os.DevNull:
		return &SlogLogger{logger: slog.New(slog.DiscardHandler)}
	default:
		f, err := os.OpenFile(options.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			options.File = ""
			l := New(options)
			l.Warn("could not open logger file", "err", err)
			return l
		}
		output, closer = f, f
	}

	switch strings.ToLower(options.Format) {
	case "", "text":
		return &SlogLogger{logger: slog.New(slog.NewTextHandler(output, &opts)), closer: closer}
	case "json":
		return &SlogLogger{logger: slog.New(slog.NewJSONHandler(output, &opts)), closer: closer}
	default:
		options.Format = "text"
		l := New(options)
		l.Warn("could not parse logger format")
		return l
	}
}

// NewWithWriter returns a text logger writing to w at the given level.
func NewWithWriter(w io.Writer, level slog.Leveler) *SlogLogger {
	return &SlogLogger{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

func parseLevel(option string) (slog.Leveler, bool) {
	switch strings.ToLower(option) {
	case "":
		return slog.LevelInfo, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return nil, false
	}
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// With returns a logger that adds args to every record.
func (l *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{logger: l.logger.With(args...)}
}

// Close releases the log file, if any.
func (l *SlogLogger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// Discard returns a logger that drops every record.
func Discard() *SlogLogger {
	return &SlogLogger{logger: slog.New(slog.DiscardHandler)}
}

// Default provides a global default logger writing text to stderr.
var Default Logger = New(Options{})
