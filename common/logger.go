package common

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Logger is the leveled logging interface shared by every engine component.
// Components never fail loudly across their public boundary, so soft failures
// (missing host capabilities, release errors during teardown) are reported here.
type Logger interface {
	// DebugEnabled reports whether Debugf output is emitted.
	DebugEnabled() bool

	// SetDebug toggles Debugf output.
	SetDebug(enabled bool)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes Info and Debug output to stdout and Warn and Error output to stderr.
type DefaultLogger struct {
	mu     *sync.Mutex
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

var _ Logger = &DefaultLogger{}

// NewDefaultLogger creates a DefaultLogger whose lines are tagged with the given prefix.
//
// Parameters:
//   - prefix: tag printed in front of every line, omitted when empty
//   - debug: whether Debugf output is emitted
//
// Returns:
//   - *DefaultLogger: the logger
func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		mu:     &sync.Mutex{},
		debug:  debug,
		prefix: prefix,
		out:    log.New(os.Stdout, "", flags),
		err:    log.New(os.Stderr, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = enabled
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	l.out.Print(l.line("DEBUG", format, args...))
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Print(l.line("INFO", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Print(l.line("WARN", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Print(l.line("ERROR", format, args...))
}

func (l *DefaultLogger) line(level, format string, args ...any) string {
	if l.prefix != "" {
		return fmt.Sprintf("[%s] %s: %s", l.prefix, level, fmt.Sprintf(format, args...))
	}
	return fmt.Sprintf("%s: %s", level, fmt.Sprintf(format, args...))
}

type nopLogger struct{}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}

func (nopLogger) DebugEnabled() bool             { return false }
func (nopLogger) SetDebug(bool)                  {}
func (nopLogger) Debugf(string, ...any)          {}
func (nopLogger) Infof(string, ...any)           {}
func (nopLogger) Warnf(string, ...any)           {}
func (nopLogger) Errorf(string, ...any)          {}

// RecordingLogger keeps every formatted line in memory, keyed by level.
// It is used by tests and by tools that surface engine warnings in their own UI.
type RecordingLogger struct {
	mu    sync.Mutex
	lines map[string][]string
}

var _ Logger = &RecordingLogger{}

// NewRecordingLogger creates an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{lines: make(map[string][]string)}
}

func (r *RecordingLogger) DebugEnabled() bool { return true }
func (r *RecordingLogger) SetDebug(bool)      {}

func (r *RecordingLogger) Debugf(format string, args ...any) { r.record("DEBUG", format, args...) }
func (r *RecordingLogger) Infof(format string, args ...any)  { r.record("INFO", format, args...) }
func (r *RecordingLogger) Warnf(format string, args ...any)  { r.record("WARN", format, args...) }
func (r *RecordingLogger) Errorf(format string, args ...any) { r.record("ERROR", format, args...) }

// Lines returns a copy of the lines recorded at the given level ("DEBUG", "INFO", "WARN", "ERROR").
func (r *RecordingLogger) Lines(level string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.lines[level]))
	copy(out, r.lines[level])
	return out
}

func (r *RecordingLogger) record(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[level] = append(r.lines[level], fmt.Sprintf(format, args...))
}
