// Package exec implements the graph execution engine and the
// embedder-facing host interface (spec.md §4.10), grounded on
// driver.go's log.Printf convention for diagnostics.
package exec

import "log"

// LogLevel is the closed set the host interface's Log channel uses.
type LogLevel int

const (
	Debug LogLevel = iota
	Info
	Warning
	Error
)

func (l LogLevel) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "?"
	}
}

// HostInterface is the pluggable bridge to an embedding application
// (spec.md §4.10): progress/cancel/log/path-resolve. A nil
// HostInterface is never passed to Engine; DefaultHostInterface is
// substituted instead, so call sites never special-case nil.
type HostInterface interface {
	ReportProgress(current, total int, msg string) (cont bool)
	IsCancelled() bool
	Log(level LogLevel, msg string)
	ResolvePath(relative string) string
	GetHostInfo() string
}

// DefaultHostInterface logs via the standard library logger, never
// cancels, and resolves paths as-is (relative to the process cwd).
type DefaultHostInterface struct{}

func (DefaultHostInterface) ReportProgress(current, total int, msg string) bool {
	return true
}

func (DefaultHostInterface) IsCancelled() bool { return false }

func (DefaultHostInterface) Log(level LogLevel, msg string) {
	log.Printf("[%s] %s", level, msg)
}

func (DefaultHostInterface) ResolvePath(relative string) string { return relative }

func (DefaultHostInterface) GetHostInfo() string { return "nodeflux/exec default host" }
