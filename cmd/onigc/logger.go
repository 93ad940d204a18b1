package main

import (
	"fmt"
	"io"
	"os"
)

const logPrefix = "[onigc] "

// Logger reports what onigc learned about a pattern while generating code.
// Progress lines need -v; pattern warnings from the compiler are always
// printed and counted.
type Logger struct {
	enabled  bool
	out      io.Writer
	warnings int
}

// NewLogger returns a logger writing to stderr. enabled turns on the -v
// progress lines.
func NewLogger(enabled bool) *Logger {
	return &Logger{
		enabled: enabled,
		out:     os.Stderr,
	}
}

// SetOutput redirects the logger, e.g. to the stderr passed to run.
func (l *Logger) SetOutput(w io.Writer) {
	l.out = w
}

// Log prints a progress line under -v.
func (l *Logger) Log(format string, args ...any) {
	if l.enabled {
		fmt.Fprintf(l.out, logPrefix+format+"\n", args...)
	}
}

// Section starts a block of -v output, such as the pattern analysis.
func (l *Logger) Section(name string) {
	if l.enabled {
		fmt.Fprintf(l.out, "\n%s=== %s ===\n", logPrefix, name)
	}
}

// Warn prints a compile warning for the pattern. It matches the signature
// of onig.Config.Warn so it can be installed there directly.
func (l *Logger) Warn(msg string) {
	l.warnings++
	fmt.Fprintf(l.out, "%swarning: %s\n", logPrefix, msg)
}

// Warnings returns how many warnings Warn has printed.
func (l *Logger) Warnings() int { return l.warnings }

// Enabled reports whether -v output is on.
func (l *Logger) Enabled() bool {
	return l.enabled
}
