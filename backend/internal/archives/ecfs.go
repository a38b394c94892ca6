package archives

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/nogproject/ecmwf/backend/internal/ecfs"
	"github.com/nogproject/ecmwf/backend/internal/shell"
	"github.com/nogproject/ecmwf/backend/internal/transfer"
)

var ecfsStorages = map[string]bool{
	"ecgate.ecmwf.int": true,
	"ecfs.ecmwf.int":   true,
}

// ECFS rejects some characters in names.
var ecfsEscaper = strings.NewReplacer(
	"@", "__atsymbol__",
	":", "__semicol__",
	"%", "__percent__",
	" ", "__space__",
)

type Ecfs struct {
	Storage string
	tools   *ecfs.Tools
	lg      Logger
}

var _ Archive = &Ecfs{}

func (a *Ecfs) Tube() string { return TubeECfs }

// `Fullpath()` returns the escaped ECFS path `ec:<item>`.
func (a *Ecfs) Fullpath(item string) (string, error) {
	if !ecfsStorages[a.Storage] {
		return "", ErrNotImplemented
	}
	return "ec:" + ecfsEscaper.Replace(item), nil
}

func (a *Ecfs) PrestageInfo(
	ctx context.Context, item string, opts transfer.Options,
) (string, error) {
	return "", ErrNotImplemented
}

func (a *Ecfs) Check(
	ctx context.Context, item string, opts transfer.Options,
) (bool, transfer.Extras, error) {
	full, err := a.Fullpath(item)
	if err != nil {
		return false, transfer.Extras{}, err
	}
	ok, err := a.tools.Test(ctx, full, opts.Options)
	return ok, transfer.Extras{}, err
}

// `List()` returns the entries below `item`.  A failing listing returns no
// entries without error.
func (a *Ecfs) List(
	ctx context.Context, item string, opts transfer.Options,
) ([]string, transfer.Extras, error) {
	full, err := a.Fullpath(item)
	if err != nil {
		return nil, transfer.Extras{}, err
	}
	out, err := a.tools.Ls(ctx, full, opts.Options)
	var xerr *shell.ExecutionError
	if errors.As(err, &xerr) {
		a.lg.Debugw("Ignored failed ECFS listing.", "item", full, "err", err)
		return nil, transfer.Extras{}, nil
	}
	if err != nil {
		return nil, transfer.Extras{}, err
	}
	return splitLines(out), transfer.Extras{}, nil
}

func splitLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func (a *Ecfs) Retrieve(
	ctx context.Context, item, local string, opts transfer.Options,
) (bool, transfer.Extras, error) {
	x := opts.Extras()
	full, err := a.Fullpath(item)
	if err != nil {
		return false, x, err
	}
	ok, err := a.tools.Get(ctx, full, local, opts.Pipeline, opts.Options)
	return ok, x, err
}

// `Insert()` creates the parent directory, copies `local`, and makes the
// archived file world-readable.
func (a *Ecfs) Insert(
	ctx context.Context, item, local string, opts transfer.Options,
) (bool, transfer.Extras, error) {
	x := opts.Extras()
	full, err := a.Fullpath(item)
	if err != nil {
		return false, x, err
	}

	steps := []func() (bool, error){
		func() (bool, error) { return a.tools.Mkdir(ctx, path.Dir(full), nil) },
		func() (bool, error) {
			return a.tools.Put(ctx, local, full, opts.Pipeline, opts.Options)
		},
		func() (bool, error) { return a.tools.Chmod(ctx, "644", full, nil) },
	}
	for _, step := range steps {
		ok, err := step()
		if err != nil || !ok {
			return false, x, err
		}
	}
	a.lg.Infow("Inserted into ECFS.", "item", full, "local", local)
	return true, x, nil
}

func (a *Ecfs) Delete(
	ctx context.Context, item string, opts transfer.Options,
) (bool, transfer.Extras, error) {
	x := transfer.Extras{Fmt: opts.ResolvedFmt()}
	full, err := a.Fullpath(item)
	if err != nil {
		return false, x, err
	}
	ok, err := a.tools.Rm(ctx, full, opts.Options)
	return ok, x, err
}
