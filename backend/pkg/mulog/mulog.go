// Package `mulog` provides minimal Zap-Sugar-like loggers with structured
// logging `Levelw(msg, kv...)` functions, for tools that run interactively
// and for tests.
package mulog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// `Logger` prints messages with timestamps, using package `log`.  Debug
// messages are dropped unless `Verbose` is set.
type Logger struct {
	Verbose bool
}

func (l Logger) Debugw(msg string, kv ...interface{}) {
	if l.Verbose {
		log.Printf("debug: %s %v\n", msg, kv)
	}
}

func (Logger) Infow(msg string, kv ...interface{}) {
	log.Printf("info: %s %v\n", msg, kv)
}

func (Logger) Warnw(msg string, kv ...interface{}) {
	log.Printf("warning: %s %v\n", msg, kv)
}

func (Logger) Errorw(msg string, kv ...interface{}) {
	log.Printf("error: %s %v\n", msg, kv)
}

func (Logger) Fatalw(msg string, kv ...interface{}) {
	log.Fatalf("fatal: %s %v\n", msg, kv)
}

// `Printer` prints undecorated messages to `W`, or to stderr if `W` is nil.
type Printer struct {
	W       io.Writer
	Verbose bool
}

func (p Printer) out() io.Writer {
	if p.W == nil {
		return os.Stderr
	}
	return p.W
}

func (p Printer) Debugw(msg string, kv ...interface{}) {
	if p.Verbose {
		fmt.Fprintf(p.out(), "debug: %s %v\n", msg, kv)
	}
}

func (p Printer) Infow(msg string, kv ...interface{}) {
	fmt.Fprintf(p.out(), "info: %s %v\n", msg, kv)
}

func (p Printer) Warnw(msg string, kv ...interface{}) {
	fmt.Fprintf(p.out(), "warning: %s %v\n", msg, kv)
}

func (p Printer) Errorw(msg string, kv ...interface{}) {
	fmt.Fprintf(p.out(), "error: %s %v\n", msg, kv)
}

func (p Printer) Fatalw(msg string, kv ...interface{}) {
	fmt.Fprintf(p.out(), "fatal: %s %v\n", msg, kv)
	os.Exit(1)
}

// `Discard` drops all messages.  It is used in tests.
type Discard struct{}

func (Discard) Debugw(msg string, kv ...interface{}) {}
func (Discard) Infow(msg string, kv ...interface{})  {}
func (Discard) Warnw(msg string, kv ...interface{})  {}
func (Discard) Errorw(msg string, kv ...interface{}) {}
