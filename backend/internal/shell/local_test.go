package shell_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nogproject/ecmwf/backend/internal/shell"
	"github.com/nogproject/ecmwf/backend/pkg/mulog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal() *shell.Local {
	return shell.NewLocalEnv(mulog.Discard{}, map[string]string{
		"PATH":      os.Getenv("PATH"),
		"SMS_XTEST": "1",
	})
}

func TestCallStatus(t *testing.T) {
	ctx := context.Background()
	s := newLocal()

	ok, err := s.Call(ctx, []string{"true"}, shell.SpawnOptions{})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Call(ctx, []string{"false"}, shell.SpawnOptions{})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Call(ctx, []string{"false"}, shell.SpawnOptions{Fatal: true})
	assert.False(t, ok)
	var xerr *shell.ExecutionError
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, 1, xerr.ExitStatus)
	assert.Equal(t, []string{"false"}, xerr.Argv)
}

func TestCallEmptyArgv(t *testing.T) {
	_, err := newLocal().Call(
		context.Background(), nil, shell.SpawnOptions{},
	)
	assert.Equal(t, shell.ErrEmptyArgv, err)
}

func TestCaptureUsesEnv(t *testing.T) {
	ctx := context.Background()
	s := newLocal()

	out, err := s.Capture(
		ctx, []string{"sh", "-c", "echo $SMS_XTEST"},
		shell.SpawnOptions{Silent: true},
	)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	_, err = s.Capture(
		ctx, []string{"sh", "-c", "echo oops >&2; exit 3"},
		shell.SpawnOptions{},
	)
	var xerr *shell.ExecutionError
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, 3, xerr.ExitStatus)
	assert.Equal(t, "oops\n", xerr.Stderr)
	assert.Contains(t, err.Error(), "stderr: oops")
}

func TestEnvironIsCopy(t *testing.T) {
	s := newLocal()
	env := s.Environ()
	env["SMS_XTEST"] = "2"
	assert.Equal(t, "1", s.Environ()["SMS_XTEST"])
}

func TestFileOps(t *testing.T) {
	s := newLocal()
	dir := t.TempDir()

	src := filepath.Join(dir, "src")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))
	assert.True(t, s.IsRegularFile(src))
	assert.False(t, s.IsRegularFile(dir))
	assert.False(t, s.IsRegularFile(filepath.Join(dir, "missing")))

	tmp, err := s.TempDir(dir, "ecfs_pnorm_")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(tmp), "ecfs_pnorm_"))

	lnk := filepath.Join(tmp, "normalized")
	require.NoError(t, s.Symlink(src, lnk))
	dat, err := os.ReadFile(lnk)
	require.NoError(t, err)
	assert.Equal(t, "x", string(dat))

	dst := filepath.Join(dir, "dst")
	require.NoError(t, s.Move(src, dst))
	assert.False(t, s.IsRegularFile(src))
	assert.True(t, s.IsRegularFile(dst))

	require.NoError(t, s.Remove(tmp))
	require.NoError(t, s.Remove(tmp))
	_, err = os.Stat(tmp)
	assert.True(t, os.IsNotExist(err))
}

func TestSafeAddSuffix(t *testing.T) {
	s := newLocal()
	base := filepath.Join(t.TempDir(), "out.grib")

	p1, err := s.SafeAddSuffix(base)
	require.NoError(t, err)
	p2, err := s.SafeAddSuffix(base)
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
	assert.True(t, strings.HasPrefix(p1, base+"."))
	assert.True(t, strings.HasSuffix(p1, ".tmp"))
	_, err = os.Lstat(p1)
	assert.True(t, os.IsNotExist(err))
}

func TestSafeAddSuffixUnderRegularFile(t *testing.T) {
	s := newLocal()
	plain := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(plain, []byte("x"), 0644))

	p, err := s.SafeAddSuffix(filepath.Join(plain, "target"))
	require.Error(t, err)
	assert.Equal(t, "", p)
}

func TestQuote(t *testing.T) {
	q := shell.Quote([]string{"ecp", "-o", "a b"})
	assert.Equal(t, `ecp -o 'a b'`, q)
}

func TestEnvMap(t *testing.T) {
	env := shell.EnvMap([]string{"A=1", "B=x=y", "=bad", "C"})
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y"}, env)
}
