package auth

import (
	"fmt"
	"strings"
)

// Logger is the minimal logging surface the package needs. Satisfied
// by glog loggers; a fmt-backed default keeps constructors nil-safe.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Println("[ERR] AUTH " + msg + formatPairs(args))
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Println("[WRN] AUTH " + msg + formatPairs(args))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Println("[INF] AUTH " + msg + formatPairs(args))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Println("[DBG] AUTH " + msg + formatPairs(args))
}

// formatPairs renders trailing slog-style key-value pairs; a dangling
// key is printed on its own.
func formatPairs(args []any) string {
	if len(args) == 0 {
		return ""
	}

	var b strings.Builder
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, " %v", args[i])
		}
	}
	return b.String()
}
