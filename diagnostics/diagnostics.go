// Package diagnostics is the allocator's debug-output and assertion
// facility: severity-leveled log lines tagged with file, line, and
// function, plus an Assert that prints and aborts on violation. It is kept
// outside the heap engine itself — the engine only ever calls into it
// through a function-variable hook, never an import, so that nothing
// reachable from a mutating heap operation can itself allocate through it.
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	colorable "github.com/mattn/go-colorable"
)

// Level orders the severities from least to most urgent.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) color() string {
	switch l {
	case LevelWarning:
		return "\x1b[33m"
	case LevelError:
		return "\x1b[31m"
	default:
		return "\x1b[36m"
	}
}

const colorReset = "\x1b[0m"

var (
	mu          sync.Mutex
	out         io.Writer = colorable.NewColorableStderr()
	minLevel              = LevelWarning
	initialized           = false
)

// ensureConfigured reads SEGALLOC_LOG once, lazily, so packages that never
// log pay nothing and test code can still override the level directly via
// SetLevel.
func ensureConfigured() {
	if initialized {
		return
	}
	initialized = true
	switch strings.ToLower(os.Getenv("SEGALLOC_LOG")) {
	case "info":
		minLevel = LevelInfo
	case "warning", "warn":
		minLevel = LevelWarning
	case "error":
		minLevel = LevelError
	case "off", "none":
		minLevel = LevelError + 1
	}
}

// SetLevel overrides the minimum severity that gets printed, bypassing
// SEGALLOC_LOG. Intended for tests and for callers that have already
// parsed their own configuration.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	initialized = true
	minLevel = l
}

// SetOutput redirects where log lines are written. Intended for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

func logf(level Level, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	ensureConfigured()
	if level < minLevel {
		return
	}

	pc, file, line, ok := runtime.Caller(2)
	loc := "???"
	if ok {
		loc = fmt.Sprintf("%s:%d", trimPath(file), line)
		if fn := runtime.FuncForPC(pc); fn != nil {
			loc += " " + trimPath(fn.Name())
		}
	}

	fmt.Fprintf(out, "%s%-5s%s %s %s\n", level.color(), level, colorReset, loc, fmt.Sprintf(format, args...))
}

func trimPath(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Infof logs an informational line.
func Infof(format string, args ...interface{}) { logf(LevelInfo, format, args...) }

// Warnf logs a warning line.
func Warnf(format string, args ...interface{}) { logf(LevelWarning, format, args...) }

// Errorf logs an error line.
func Errorf(format string, args ...interface{}) { logf(LevelError, format, args...) }

// Fatalf logs an error line, then terminates the process. Used for
// invariant violations the core cannot recover from: a program-break
// syscall failing mid-mutation, where the directory has already been
// spliced into an inconsistent state.
func Fatalf(format string, args ...interface{}) {
	logf(LevelError, format, args...)
	os.Exit(2)
}

// Assert prints the failing expression's description and location, then
// aborts, when cond is false. Assertions are always compiled in; there is
// no NDEBUG-style build tag, matching the library's "fail loud, not
// silent" stance — callers that want assertions compiled out entirely
// should not call Assert from a hot path.
func Assert(cond bool, format string, args ...interface{}) {
	if cond {
		return
	}
	mu.Lock()
	_, file, line, ok := runtime.Caller(1)
	loc := "???"
	if ok {
		loc = fmt.Sprintf("%s:%d", trimPath(file), line)
	}
	fmt.Fprintf(out, "%sASSERT%s %s %s\n", LevelError.color(), colorReset, loc, fmt.Sprintf(format, args...))
	mu.Unlock()
	os.Exit(2)
}
