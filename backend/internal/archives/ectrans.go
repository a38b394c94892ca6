package archives

import (
	"context"

	"github.com/nogproject/ecmwf/backend/internal/ectrans"
	"github.com/nogproject/ecmwf/backend/internal/siteconfig"
	"github.com/nogproject/ecmwf/backend/internal/transfer"
)

// `Ectrans` reaches remote associations through `ectrans`.  It can only
// retrieve and insert.  The remote is resolved in the order per-call option,
// `Remote`, configured remote of `Storage`, configured default remote.
type Ectrans struct {
	Storage string
	Remote  string
	Gateway string
	tools   *ectrans.Tools
	cfg     siteconfig.Lookuper
	lg      Logger
}

var _ Archive = &Ectrans{}

func (a *Ectrans) Tube() string { return TubeECtrans }

func (a *Ectrans) Fullpath(item string) (string, error) {
	return item, nil
}

func (a *Ectrans) PrestageInfo(
	ctx context.Context, item string, opts transfer.Options,
) (string, error) {
	return "", ErrNotImplemented
}

func (a *Ectrans) Check(
	ctx context.Context, item string, opts transfer.Options,
) (bool, transfer.Extras, error) {
	return false, transfer.Extras{}, ErrNotImplemented
}

func (a *Ectrans) List(
	ctx context.Context, item string, opts transfer.Options,
) ([]string, transfer.Extras, error) {
	return nil, transfer.Extras{}, ErrNotImplemented
}

func (a *Ectrans) Delete(
	ctx context.Context, item string, opts transfer.Options,
) (bool, transfer.Extras, error) {
	return false, transfer.Extras{}, ErrNotImplemented
}

func (a *Ectrans) endpoints(opts transfer.Options) (string, string, error) {
	remote, err := siteconfig.ResolveRemote(
		a.cfg, opts.Remote, a.Remote, a.Storage,
	)
	if err != nil {
		return "", "", err
	}
	gateway, err := siteconfig.ResolveGateway(a.cfg, opts.Gateway, a.Gateway)
	if err != nil {
		return "", "", err
	}
	return gateway, remote, nil
}

func (a *Ectrans) Retrieve(
	ctx context.Context, item, local string, opts transfer.Options,
) (bool, transfer.Extras, error) {
	x := opts.Extras()
	gateway, remote, err := a.endpoints(opts)
	if err != nil {
		return false, x, err
	}
	ok, err := a.tools.Get(ctx, item, local, gateway, remote, opts.Pipeline)
	return ok, x, err
}

func (a *Ectrans) Insert(
	ctx context.Context, item, local string, opts transfer.Options,
) (bool, transfer.Extras, error) {
	x := opts.Extras()
	gateway, remote, err := a.endpoints(opts)
	if err != nil {
		return false, x, err
	}
	ok, err := a.tools.Put(
		ctx, local, item, gateway, remote, opts.Pipeline, opts.EnforceSync,
	)
	if err == nil && ok {
		a.lg.Infow(
			"Sent with ectrans.",
			"item", item, "remote", remote, "sync", opts.EnforceSync,
		)
	}
	return ok, x, err
}
