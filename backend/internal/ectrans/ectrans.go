// Package `ectrans` wraps the ECMWF transfer tool `ectrans`, which sends files
// between the ECMWF hosts and registered remote associations through a
// gateway.  Transfers are synchronous or queued by `ectrans` for retry.
package ectrans

import (
	"context"
	"os"

	"github.com/nogproject/ecmwf/backend/internal/compress"
	"github.com/nogproject/ecmwf/backend/internal/ecmwfcli"
	"github.com/nogproject/ecmwf/backend/internal/shell"
	"github.com/nogproject/ecmwf/backend/internal/siteconfig"
	"github.com/nogproject/ecmwf/backend/pkg/cmdline"
)

const (
	FlagVerbose   = "verbose"
	FlagOverwrite = "overwrite"
	FlagPut       = "put"
	FlagGet       = "get"

	OptPriority = "priority"
	OptRetryCnt = "retryCnt"
	OptRetryFrq = "retryFrq"
	OptGateway  = "gateway"
	OptRemote   = "remote"
	OptSource   = "source"
	OptTarget   = "target"
)

type Logger interface {
	Debugw(msg string, kv ...interface{})
	Warnw(msg string, kv ...interface{})
}

type Tools struct {
	cli *ecmwfcli.Interface
	sys shell.System
	cfg siteconfig.Lookuper
	lg  Logger
}

func New(cli *ecmwfcli.Interface, cfg siteconfig.Lookuper, lg Logger) *Tools {
	return &Tools{cli: cli, sys: cli.System(), cfg: cfg, lg: lg}
}

// `GatewayInit()` returns `gateway` or the configured `ectrans.gateway`.
func (t *Tools) GatewayInit(gateway string) (string, error) {
	return siteconfig.ResolveGateway(t.cfg, gateway, "")
}

// `RemoteInit()` returns `remote` or the configured remote association for
// `storage`, falling back to `ectrans.remote_default`.
func (t *Tools) RemoteInit(remote, storage string) (string, error) {
	return siteconfig.ResolveRemote(t.cfg, remote, "", storage)
}

// `Params` control the default options of a transfer.  `Extra` options win
// over defaults.  Names in `Disable` suppress the default flags `verbose` and
// `overwrite`.
type Params struct {
	Sync    bool
	Extra   cmdline.Options
	Disable []string
}

func (p Params) names(name string) bool {
	if p.Extra.Has(name) {
		return true
	}
	for _, d := range p.Disable {
		if d == name {
			return true
		}
	}
	return false
}

// `DefaultsInit()` returns the options for a transfer.  Synchronous
// transfers use `-priority 80 -retryCnt 0`.  Asynchronous transfers use
// `-priority 30 -retryCnt 72 -retryFrq 600`, which retries every ten minutes
// for twelve hours.
func DefaultsInit(p Params) cmdline.Options {
	opts := p.Extra.Clone()
	if p.Sync {
		opts.SetDefault(OptPriority, "80")
		opts.SetDefault(OptRetryCnt, "0")
	} else {
		opts.SetDefault(OptPriority, "30")
		opts.SetDefault(OptRetryCnt, "72")
		opts.SetDefault(OptRetryFrq, "600")
	}
	for _, f := range []string{FlagVerbose, FlagOverwrite} {
		if !p.names(f) {
			opts.AddFlag(f)
		}
	}
	return opts
}

func (t *Tools) transfer(
	ctx context.Context, opts cmdline.Options, src, dst, gateway, remote string,
) (bool, error) {
	opts.Set(OptGateway, gateway)
	opts.Set(OptRemote, remote)
	opts.Set(OptSource, src)
	opts.Set(OptTarget, dst)
	return t.cli.Call(ctx, ecmwfcli.Request{Options: opts})
}

// `RawPut()` sends the local `src` to `dst` on `remote`.  Synchronous
// transfers add `-put`.
func (t *Tools) RawPut(
	ctx context.Context, src, dst, gateway, remote string, p Params,
) (bool, error) {
	opts := DefaultsInit(p)
	if p.Sync {
		opts.AddFlag(FlagPut)
	}
	return t.transfer(ctx, opts, src, dst, gateway, remote)
}

// `Put()` sends a regular file, compressing it first if a pipeline is given.
func (t *Tools) Put(
	ctx context.Context,
	src, dst, gateway, remote string,
	pipeline compress.Pipeline,
	sync bool,
) (bool, error) {
	if !t.sys.IsRegularFile(src) {
		return false, &os.PathError{
			Op: "ectrans put", Path: src, Err: os.ErrNotExist,
		}
	}
	p := Params{Sync: sync}
	if pipeline == nil {
		return t.RawPut(ctx, src, dst, gateway, remote, p)
	}

	csource, err := t.sys.SafeAddSuffix(src)
	if err != nil {
		return false, err
	}
	defer t.remove(csource)

	if err := pipeline.Compress2File(src, csource); err != nil {
		return false, err
	}
	return t.RawPut(ctx, csource, dst, gateway, remote, p)
}

// `RawGet()` receives `src` from `remote` into the local `dst`.  It is always
// synchronous.
func (t *Tools) RawGet(
	ctx context.Context, src, dst, gateway, remote string,
) (bool, error) {
	opts := DefaultsInit(Params{Sync: true})
	opts.AddFlag(FlagGet)
	return t.transfer(ctx, opts, src, dst, gateway, remote)
}

// `Get()` removes an existing `dst` and receives into it, decompressing if a
// pipeline is given.
func (t *Tools) Get(
	ctx context.Context,
	src, dst, gateway, remote string,
	pipeline compress.Pipeline,
) (bool, error) {
	if err := t.sys.Remove(dst); err != nil {
		return false, err
	}
	if pipeline == nil {
		return t.RawGet(ctx, src, dst, gateway, remote)
	}

	ctarget, err := t.sys.SafeAddSuffix(dst)
	if err != nil {
		return false, err
	}
	defer t.remove(ctarget)

	ok, err := t.RawGet(ctx, src, ctarget, gateway, remote)
	if err != nil || !ok {
		return ok, err
	}
	if err := pipeline.File2Uncompress(ctarget, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (t *Tools) remove(path string) {
	if err := t.sys.Remove(path); err != nil {
		t.lg.Warnw("Failed to remove temporary path.", "path", path, "err", err)
	}
}
