// Package kernlog is the kernel's tiny logging helper: level-gated
// fmt.Printf, nothing more.
package kernlog

import (
	"fmt"
	"os"
	"sync/atomic"
)

// Numeric syslog-style levels.
const (
	LevelError = 3
	LevelWarn  = 4
	LevelInfo  = 6
	LevelDebug = 7
)

var minLevel atomic.Int32

func init() {
	minLevel.Store(LevelInfo)
}

// SetLevel changes the minimum level that gets printed. Higher values are
// more verbose (kDebug=7 prints everything, kError=3 prints only errors).
func SetLevel(level int) {
	minLevel.Store(int32(level))
}

// Printf writes a formatted line to stderr if level is at or below the
// current minimum verbosity.
func Printf(level int, format string, args ...any) {
	if int32(level) > minLevel.Load() {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

// Errorf always prints regardless of level.
func Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
