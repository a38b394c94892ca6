// Package `shelltest` provides a `shell.System` that records commands instead
// of running them.  File operations are real, so tests use temporary
// directories.
package shelltest

import (
	"context"
	"sync"

	"github.com/nogproject/ecmwf/backend/internal/shell"
	"github.com/nogproject/ecmwf/backend/pkg/mulog"
)

// `Handler` decides the exit status and stdout of a recorded command.
type Handler func(argv []string) (status int, out string)

// `Succeed` is the default handler.
func Succeed([]string) (int, string) { return 0, "" }

type Call struct {
	Argv []string
	Opts shell.SpawnOptions
}

// `Fake` runs file operations on the local host and records `Call()` and
// `Capture()`.
type Fake struct {
	*shell.Local
	Handler Handler

	mu    sync.Mutex
	calls []Call
}

var _ shell.System = &Fake{}

func New(env map[string]string) *Fake {
	return &Fake{
		Local:   shell.NewLocalEnv(mulog.Discard{}, env),
		Handler: Succeed,
	}
}

func (f *Fake) run(argv []string, opts shell.SpawnOptions) (int, string) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{
		Argv: append([]string(nil), argv...),
		Opts: opts,
	})
	h := f.Handler
	f.mu.Unlock()
	return h(argv)
}

func (f *Fake) Call(
	ctx context.Context, argv []string, opts shell.SpawnOptions,
) (bool, error) {
	if len(argv) == 0 {
		return false, shell.ErrEmptyArgv
	}
	status, _ := f.run(argv, opts)
	if status == 0 {
		return true, nil
	}
	if opts.Fatal {
		return false, &shell.ExecutionError{
			Argv: argv, ExitStatus: status,
		}
	}
	return false, nil
}

func (f *Fake) Capture(
	ctx context.Context, argv []string, opts shell.SpawnOptions,
) (string, error) {
	if len(argv) == 0 {
		return "", shell.ErrEmptyArgv
	}
	status, out := f.run(argv, opts)
	if status != 0 {
		return "", &shell.ExecutionError{
			Argv: argv, ExitStatus: status,
		}
	}
	return out, nil
}

// `Calls()` returns the recorded commands in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// `Last()` returns the argv of the last recorded command, or nil.
func (f *Fake) Last() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1].Argv
}

func (f *Fake) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}

// `ValueOf()` returns the token that follows `-name` in `argv`.
func ValueOf(argv []string, name string) (string, bool) {
	for i, a := range argv {
		if a == "-"+name && i+1 < len(argv) {
			return argv[i+1], true
		}
	}
	return "", false
}

// `HasFlag()` tells whether `-name` appears in `argv`.
func HasFlag(argv []string, name string) bool {
	for _, a := range argv {
		if a == "-"+name {
			return true
		}
	}
	return false
}
