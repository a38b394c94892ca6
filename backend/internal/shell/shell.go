// Package `shell` provides the system primitives that the ECMWF addons build
// on: running external tools without shell interpretation and a few file
// operations for staging, temporary files, and cleanup.
package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

var ErrEmptyArgv = errors.New("empty argument vector")

type Logger interface {
	Debugw(msg string, kv ...interface{})
	Infow(msg string, kv ...interface{})
	Warnw(msg string, kv ...interface{})
}

// `SpawnOptions` modify how a process is run.  With `Fatal`, a non-zero exit
// is returned as an `*ExecutionError`; otherwise `Call()` reports it as
// `false`.  With `Silent`, the process output is not logged.
type SpawnOptions struct {
	Fatal  bool
	Silent bool
}

// `System` is the shell abstraction that is injected into the addons.
type System interface {
	// `Call()` runs `argv` and reports the exit status.
	Call(ctx context.Context, argv []string, opts SpawnOptions) (bool, error)
	// `Capture()` runs `argv` and returns its stdout.  Failures are always
	// errors, because there is no output to return.
	Capture(ctx context.Context, argv []string, opts SpawnOptions) (string, error)

	Abs(path string) (string, error)
	Symlink(oldname, newname string) error
	Move(src, dst string) error
	// `Remove()` removes a file or directory tree.  A missing path is not
	// an error.
	Remove(path string) error
	IsRegularFile(path string) bool
	TempDir(dir, prefix string) (string, error)
	TempFile(dir, prefix string) (*os.File, error)
	// `SafeAddSuffix()` returns a path next to `path` that does not exist.
	SafeAddSuffix(path string) (string, error)
	Environ() map[string]string
}

// `ExecutionError` is the error of an external tool that failed.
type ExecutionError struct {
	Argv []string
	// `ExitStatus` is -1 if the process did not exit normally.
	ExitStatus int
	Stderr     string
	Err        error
}

func (e *ExecutionError) Error() string {
	msg := fmt.Sprintf("`%s` failed", Quote(e.Argv))
	if e.ExitStatus >= 0 {
		msg = fmt.Sprintf("%s, exit status %d", msg, e.ExitStatus)
	} else {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg = fmt.Sprintf("%s; stderr: %s", msg, s)
	}
	return msg
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// `NewExecutionError()` wraps the error of `exec.Cmd.Run()`.
func NewExecutionError(argv []string, err error, stderr string) *ExecutionError {
	status := -1
	var xerr *exec.ExitError
	if errors.As(err, &xerr) {
		status = xerr.ExitCode()
	}
	return &ExecutionError{
		Argv:       append([]string(nil), argv...),
		ExitStatus: status,
		Stderr:     stderr,
		Err:        err,
	}
}

// `Quote()` renders `argv` as a Bash command line for logs.
func Quote(argv []string) string {
	qs := make([]string, 0, len(argv))
	for _, a := range argv {
		q, err := syntax.Quote(a, syntax.LangBash)
		if err != nil {
			q = fmt.Sprintf("%q", a)
		}
		qs = append(qs, q)
	}
	return strings.Join(qs, " ")
}

// `EnvMap()` converts `os.Environ()` style `KEY=value` entries.
func EnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		env[kv[:i]] = kv[i+1:]
	}
	return env
}
