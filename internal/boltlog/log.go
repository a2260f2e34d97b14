// Package boltlog is a leveled logger in the vein of the teacher's
// pkg/log: plain *log.Logger instances per level, muted by swapping
// their writer to io.Discard rather than checking a numeric threshold
// on every call.
package boltlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

var (
	debugWriter io.Writer = os.Stderr
	infoWriter  io.Writer = os.Stderr
	warnWriter  io.Writer = os.Stderr
	errWriter   io.Writer = os.Stderr
)

var (
	debugLog = log.New(debugWriter, "[DEBUG] ", 0)
	infoLog  = log.New(infoWriter, "[INFO]  ", 0)
	warnLog  = log.New(warnWriter, "[WARN]  ", 0)
	errLog   = log.New(errWriter, "[ERROR] ", log.Lshortfile)
)

// SetLevel mutes every level below lvl by discarding its writer, the
// same cascading-fallthrough scheme as the teacher's SetLogLevel.
func SetLevel(lvl string) {
	switch lvl {
	case "err", "fatal":
		warnLog.SetOutput(io.Discard)
		fallthrough
	case "warn":
		infoLog.SetOutput(io.Discard)
		fallthrough
	case "info":
		debugLog.SetOutput(io.Discard)
	case "debug":
	default:
		fmt.Fprintf(os.Stderr, "boltlog: invalid level %q, using debug\n", lvl)
	}
}

func fieldStr(msg string, args []any) string {
	if len(args) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	return b.String()
}

func Debug(msg string, args ...any) { debugLog.Output(2, fieldStr(msg, args)) }
func Info(msg string, args ...any)  { infoLog.Output(2, fieldStr(msg, args)) }
func Warn(msg string, args ...any)  { warnLog.Output(2, fieldStr(msg, args)) }
func Err(msg string, args ...any)   { errLog.Output(2, fieldStr(msg, args)) }

// Logger adapts the package-level functions to boltconn.Logger (and
// any other collaborator expecting an injectable instance rather than
// a process-wide singleton).
type Logger struct{}

func (Logger) Debug(msg string, args ...any) { Debug(msg, args...) }
func (Logger) Info(msg string, args ...any)  { Info(msg, args...) }
func (Logger) Warn(msg string, args ...any)  { Warn(msg, args...) }
func (Logger) Err(msg string, args ...any)   { Err(msg, args...) }

// Default is the singleton instance cmd/ and internal/session wire
// into core packages that accept a Logger.
var Default = Logger{}
