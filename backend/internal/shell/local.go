package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/hacdias/fileutils"
	"github.com/nogproject/ecmwf/backend/pkg/ulid"
)

// `Local` implements `System` for the local host.
type Local struct {
	lg  Logger
	env map[string]string
}

var _ System = &Local{}

// `NewLocal()` uses the process environment.
func NewLocal(lg Logger) *Local {
	return &Local{lg: lg, env: EnvMap(os.Environ())}
}

// `NewLocalEnv()` uses `env` as the environment of spawned processes and of
// `Environ()`.
func NewLocalEnv(lg Logger, env map[string]string) *Local {
	c := make(map[string]string, len(env))
	for k, v := range env {
		c[k] = v
	}
	return &Local{lg: lg, env: c}
}

func (s *Local) environ() []string {
	kvs := make([]string, 0, len(s.env))
	for k, v := range s.env {
		kvs = append(kvs, k+"="+v)
	}
	return kvs
}

func (s *Local) command(ctx context.Context, argv []string) (*exec.Cmd, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyArgv
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = s.environ()
	return cmd, nil
}

func (s *Local) Call(
	ctx context.Context, argv []string, opts SpawnOptions,
) (bool, error) {
	cmd, err := s.command(ctx, argv)
	if err != nil {
		return false, err
	}

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = io.MultiWriter(&out, &stderr)
	err = cmd.Run()
	if !opts.Silent && out.Len() > 0 {
		s.lg.Infow(
			"Command output.",
			"cmd", Quote(argv), "out", out.String(),
		)
	}
	if err == nil {
		return true, nil
	}

	xerr := NewExecutionError(argv, err, stderr.String())
	if opts.Fatal {
		return false, xerr
	}
	s.lg.Warnw("Ignored command failure.", "err", xerr)
	return false, nil
}

func (s *Local) Capture(
	ctx context.Context, argv []string, opts SpawnOptions,
) (string, error) {
	cmd, err := s.command(ctx, argv)
	if err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", NewExecutionError(argv, err, stderr.String())
	}
	if !opts.Silent {
		s.lg.Infow(
			"Command output.",
			"cmd", Quote(argv), "out", stdout.String(),
		)
	}
	return stdout.String(), nil
}

func (s *Local) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

func (s *Local) Symlink(oldname, newname string) error {
	return os.Symlink(oldname, newname)
}

// `Move()` renames and falls back to copy and remove across file systems.
func (s *Local) Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var lerr *os.LinkError
	if !errors.As(err, &lerr) || !errors.Is(lerr.Err, syscall.EXDEV) {
		return err
	}

	if err := fileutils.CopyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

func (s *Local) Remove(path string) error {
	return os.RemoveAll(path)
}

func (s *Local) IsRegularFile(path string) bool {
	inf, err := os.Stat(path)
	if err != nil {
		return false
	}
	return inf.Mode().IsRegular()
}

func (s *Local) TempDir(dir, prefix string) (string, error) {
	return os.MkdirTemp(dir, prefix+"*")
}

func (s *Local) TempFile(dir, prefix string) (*os.File, error) {
	return os.CreateTemp(dir, prefix+"*")
}

func (s *Local) SafeAddSuffix(path string) (string, error) {
	for {
		suf, err := ulid.NewSuffix()
		if err != nil {
			return "", err
		}
		p := path + "." + suf + ".tmp"
		_, err = os.Lstat(p)
		if err == nil {
			continue
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		return p, nil
	}
}

func (s *Local) Environ() map[string]string {
	c := make(map[string]string, len(s.env))
	for k, v := range s.env {
		c[k] = v
	}
	return c
}
