// Package monitoring is the logging front for the capture pipeline's library
// packages. Binaries keep the default log.Printf destination; tests mute it
// with SetLogger(nil).
package monitoring

import "log"

// Logf is the package-level diagnostic logger, defaulting to log.Printf.
// Replace it through SetLogger rather than assigning directly.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. A nil f installs a no-op logger,
// silencing capture progress output.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
