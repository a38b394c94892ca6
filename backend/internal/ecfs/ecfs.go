// Package `ecfs` wraps the ECFS archive commands `etest`, `echmod`, `els`,
// `emkdir`, `ecp`, and `erm`.
//
// ECFS mistakes a colon in a local path for a remote prefix.  Local paths
// with a colon that do not start with `ec<word>:` are therefore staged in a
// temporary directory with prefix `ecfs_pnorm_`: sources through a symlink
// `<tmp>/normalized`, targets by writing `<tmp>/normalized` next to the final
// target and renaming it after a successful copy.
package ecfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nogproject/ecmwf/backend/internal/compress"
	"github.com/nogproject/ecmwf/backend/internal/ecmwfcli"
	"github.com/nogproject/ecmwf/backend/internal/shell"
	"github.com/nogproject/ecmwf/backend/pkg/cmdline"
)

const (
	CmdTest  = "etest"
	CmdChmod = "echmod"
	CmdLs    = "els"
	CmdMkdir = "emkdir"
	CmdCp    = "ecp"
	CmdRm    = "erm"
)

const pnormPrefix = "ecfs_pnorm_"
const normalizedName = "normalized"

var rgxECFSPath = regexp.MustCompile(`^ec\w*:`)

type Logger interface {
	Debugw(msg string, kv ...interface{})
	Warnw(msg string, kv ...interface{})
}

// `Tools` is the ECFS addon.  Options are lists of single-letter flags.
// Unless noted, a nil list selects the default flags and a non-nil list is
// used as is.
type Tools struct {
	cli *ecmwfcli.Interface
	sys shell.System
	lg  Logger
}

func New(cli *ecmwfcli.Interface, lg Logger) *Tools {
	return &Tools{cli: cli, sys: cli.System(), lg: lg}
}

func flagsOr(opts []string, defaults ...string) cmdline.Options {
	if opts == nil {
		return cmdline.Flags(defaults...)
	}
	return cmdline.Flags(opts...)
}

// `Test()` tests `item`, by default for existence with `-r`.  A failing test
// is `false, nil`.
func (t *Tools) Test(ctx context.Context, item string, opts []string) (bool, error) {
	return t.cli.Call(ctx, ecmwfcli.Request{
		Command:  CmdTest,
		Args:     []string{item},
		Options:  flagsOr(opts, "r"),
		NonFatal: true,
		Silent:   true,
	})
}

// `Chmod()` sets the permissions `mode`, like `644`, on `loc`.
func (t *Tools) Chmod(
	ctx context.Context, mode, loc string, opts []string,
) (bool, error) {
	return t.cli.Call(ctx, ecmwfcli.Request{
		Command: CmdChmod,
		Args:    []string{mode, loc},
		Options: flagsOr(opts),
	})
}

// `Ls()` returns the listing of `loc`, by default one entry per line with
// `-1`.
func (t *Tools) Ls(ctx context.Context, loc string, opts []string) (string, error) {
	return t.cli.Capture(ctx, ecmwfcli.Request{
		Command: CmdLs,
		Args:    []string{loc},
		Options: flagsOr(opts, "1"),
		Silent:  true,
	})
}

// `Mkdir()` creates `target` with parents.  `-p` is used whenever `opts` is
// empty.
func (t *Tools) Mkdir(
	ctx context.Context, target string, opts []string,
) (bool, error) {
	flags := cmdline.Flags(opts...)
	if flags.Len() == 0 {
		flags.AddFlag("p")
	}
	return t.cli.Call(ctx, ecmwfcli.Request{
		Command: CmdMkdir,
		Args:    []string{target},
		Options: flags,
	})
}

// `CopyFlags()` returns the `ecp` flags for `opts`.  Nil selects `-p -o`,
// preserve and overwrite.  An explicit list is copied without additions, so
// callers that pass `-e -n -u -t` do not get `-o`.
func CopyFlags(opts []string) []string {
	if opts != nil {
		return append([]string{}, opts...)
	}
	return []string{"p", "o"}
}

// `Cp()` copies `src` to `dst`, where one of them is an ECFS path.
func (t *Tools) Cp(
	ctx context.Context, src, dst string, opts []string,
) (bool, error) {
	return t.withSource(src, func(src string) (bool, error) {
		return t.withTarget(dst, func(dst string) (bool, error) {
			return t.cli.Call(ctx, ecmwfcli.Request{
				Command: CmdCp,
				Args:    []string{src, dst},
				Options: cmdline.Flags(CopyFlags(opts)...),
			})
		})
	})
}

// `CpFrom()` copies the content of `r` to `dst`.
func (t *Tools) CpFrom(
	ctx context.Context, r io.Reader, dst string, opts []string,
) (bool, error) {
	tmp, err := t.tempFile()
	if err != nil {
		return false, err
	}
	name := tmp.Name()
	defer t.remove(name)

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	return t.Cp(ctx, name, dst, opts)
}

// `CpTo()` copies `src` and writes its content to `w`.
func (t *Tools) CpTo(
	ctx context.Context, src string, w io.Writer, opts []string,
) (bool, error) {
	tmp, err := t.tempFile()
	if err != nil {
		return false, err
	}
	name := tmp.Name()
	defer t.remove(name)
	if err := tmp.Close(); err != nil {
		return false, err
	}

	ok, err := t.Cp(ctx, src, name, opts)
	if err != nil || !ok {
		return ok, err
	}

	fp, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer func() { _ = fp.Close() }()
	if _, err := io.Copy(w, fp); err != nil {
		return false, err
	}
	return true, nil
}

// `Get()` copies `src` to `dst`.  With a pipeline, it copies to an
// intermediate file and decompresses into `dst`.
func (t *Tools) Get(
	ctx context.Context,
	src, dst string,
	pipeline compress.Pipeline,
	opts []string,
) (bool, error) {
	if pipeline == nil {
		return t.Cp(ctx, src, dst, opts)
	}

	ctarget, err := t.sys.SafeAddSuffix(dst)
	if err != nil {
		return false, err
	}
	defer t.remove(ctarget)

	ok, err := t.Cp(ctx, src, ctarget, opts)
	if err != nil || !ok {
		return ok, err
	}
	if err := pipeline.File2Uncompress(ctarget, dst); err != nil {
		return false, err
	}
	return true, nil
}

// `Put()` copies `src` to `dst`.  With a pipeline, it compresses to an
// intermediate file that it copies.
func (t *Tools) Put(
	ctx context.Context,
	src, dst string,
	pipeline compress.Pipeline,
	opts []string,
) (bool, error) {
	if pipeline == nil {
		return t.Cp(ctx, src, dst, opts)
	}

	csource, err := t.sys.SafeAddSuffix(src)
	if err != nil {
		return false, err
	}
	defer t.remove(csource)

	if err := pipeline.Compress2File(src, csource); err != nil {
		return false, err
	}
	return t.Cp(ctx, csource, dst, opts)
}

// `Rm()` deletes a file or directory.
func (t *Tools) Rm(ctx context.Context, item string, opts []string) (bool, error) {
	return t.cli.Call(ctx, ecmwfcli.Request{
		Command: CmdRm,
		Args:    []string{item},
		Options: flagsOr(opts),
	})
}

// `NeedsNormalize()` tells whether `path` must be staged before it is passed
// to ECFS.
func NeedsNormalize(path string) bool {
	return strings.Contains(path, ":") && !rgxECFSPath.MatchString(path)
}

func (t *Tools) withSource(
	path string, fn func(string) (bool, error),
) (bool, error) {
	if !NeedsNormalize(path) {
		return fn(path)
	}

	abs, err := t.sys.Abs(path)
	if err != nil {
		return false, err
	}
	tmpdir, err := t.sys.TempDir("", pnormPrefix)
	if err != nil {
		return false, err
	}
	defer t.remove(tmpdir)

	norm := filepath.Join(tmpdir, normalizedName)
	t.lg.Debugw(
		"Remapped source to satisfy ECFS filename restrictions.",
		"path", path, "normalized", norm,
	)
	if err := t.sys.Symlink(abs, norm); err != nil {
		return false, err
	}
	return fn(norm)
}

func (t *Tools) withTarget(
	path string, fn func(string) (bool, error),
) (bool, error) {
	if !NeedsNormalize(path) {
		return fn(path)
	}

	abs, err := t.sys.Abs(path)
	if err != nil {
		return false, err
	}
	tmpdir, err := t.sys.TempDir(filepath.Dir(abs), pnormPrefix)
	if err != nil {
		return false, err
	}
	defer t.remove(tmpdir)

	norm := filepath.Join(tmpdir, normalizedName)
	t.lg.Debugw(
		"Staged target to satisfy ECFS filename restrictions.",
		"path", path, "normalized", norm,
	)
	ok, err := fn(norm)
	if err != nil || !ok {
		return ok, err
	}

	t.lg.Debugw("Moving staged target.", "normalized", norm, "path", path)
	if err := t.sys.Move(norm, abs); err != nil {
		return false, err
	}
	return true, nil
}

func (t *Tools) tempFile() (*os.File, error) {
	return t.sys.TempFile("", "ecfs_stream_")
}

func (t *Tools) remove(path string) {
	if err := t.sys.Remove(path); err != nil {
		t.lg.Warnw("Failed to remove temporary path.", "path", path, "err", err)
	}
}
