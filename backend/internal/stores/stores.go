// Package `stores` provides the store that accesses files on other servers
// from ECMWF.  Schemes `ectrans` and `ecfs` select the transfer tool.
package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/nogproject/ecmwf/backend/internal/addons"
	"github.com/nogproject/ecmwf/backend/internal/ecfs"
	"github.com/nogproject/ecmwf/backend/internal/ectrans"
	"github.com/nogproject/ecmwf/backend/internal/registry"
	"github.com/nogproject/ecmwf/backend/internal/transfer"
)

const (
	SchemeECtrans = "ectrans"
	SchemeECfs    = "ecfs"
)

var ErrNotImplemented = errors.New("not implemented")
var ErrUnknownScheme = errors.New("unknown store scheme")

type Logger interface {
	Infow(msg string, kv ...interface{})
}

// `Remote` describes a file on the remote side.
type Remote struct {
	Path string
}

// `Store` is the per-scheme implementation behind a `Finder`.
type Store interface {
	Fullpath(r Remote) string
	Check(ctx context.Context, r Remote, opts transfer.Options) (bool, transfer.Extras, error)
	Get(ctx context.Context, r Remote, local string, opts transfer.Options) (bool, transfer.Extras, error)
	Put(ctx context.Context, local string, r Remote, opts transfer.Options) (bool, transfer.Extras, error)
	Delete(ctx context.Context, r Remote, opts transfer.Options) (bool, transfer.Extras, error)
}

type Factory func(set *addons.Set, lg Logger, hostname string) (Store, error)

// `Schemes` maps a scheme to its store factory.
var Schemes = registry.New[Factory]()

func init() {
	Schemes.Register(SchemeECtrans, registry.PriorityToolbox, newEctransStore)
	Schemes.Register(SchemeECfs, registry.PriorityToolbox, newEcfsStore)
}

// `Finder` accesses files on `Hostname` with the store of `Scheme`.
type Finder struct {
	Scheme   string
	Hostname string
	store    Store
}

func NewFinder(set *addons.Set, lg Logger, scheme, hostname string) (*Finder, error) {
	f, ok := Schemes.Resolve(scheme)
	if !ok {
		return nil, fmt.Errorf("%w `%s`", ErrUnknownScheme, scheme)
	}
	st, err := f(set, lg, hostname)
	if err != nil {
		return nil, err
	}
	return &Finder{Scheme: scheme, Hostname: hostname, store: st}, nil
}

func (f *Finder) Fullpath(r Remote) string {
	return f.store.Fullpath(r)
}

// `Locate()` returns where the remote file is, which is its full path.
func (f *Finder) Locate(r Remote) string {
	return f.store.Fullpath(r)
}

func (f *Finder) Check(
	ctx context.Context, r Remote, opts transfer.Options,
) (bool, transfer.Extras, error) {
	return f.store.Check(ctx, r, opts)
}

func (f *Finder) Get(
	ctx context.Context, r Remote, local string, opts transfer.Options,
) (bool, transfer.Extras, error) {
	return f.store.Get(ctx, r, local, opts)
}

func (f *Finder) Put(
	ctx context.Context, local string, r Remote, opts transfer.Options,
) (bool, transfer.Extras, error) {
	return f.store.Put(ctx, local, r, opts)
}

func (f *Finder) Delete(
	ctx context.Context, r Remote, opts transfer.Options,
) (bool, transfer.Extras, error) {
	return f.store.Delete(ctx, r, opts)
}

type ectransStore struct {
	hostname string
	tools    *ectrans.Tools
	lg       Logger
}

func newEctransStore(set *addons.Set, lg Logger, hostname string) (Store, error) {
	tools, err := set.ECtrans()
	if err != nil {
		return nil, err
	}
	return &ectransStore{hostname: hostname, tools: tools, lg: lg}, nil
}

func (s *ectransStore) Fullpath(r Remote) string {
	return r.Path
}

func (s *ectransStore) endpoints(opts transfer.Options) (string, string, error) {
	remote, err := s.tools.RemoteInit(opts.Remote, s.hostname)
	if err != nil {
		return "", "", err
	}
	gateway, err := s.tools.GatewayInit(opts.Gateway)
	if err != nil {
		return "", "", err
	}
	return gateway, remote, nil
}

func (s *ectransStore) Check(
	ctx context.Context, r Remote, opts transfer.Options,
) (bool, transfer.Extras, error) {
	return false, transfer.Extras{}, ErrNotImplemented
}

func (s *ectransStore) Get(
	ctx context.Context, r Remote, local string, opts transfer.Options,
) (bool, transfer.Extras, error) {
	x := opts.Extras()
	rpath := s.Fullpath(r)
	s.lg.Infow("ectrans get.", "remote", rpath, "local", local)
	gateway, remote, err := s.endpoints(opts)
	if err != nil {
		return false, x, err
	}
	ok, err := s.tools.Get(ctx, rpath, local, gateway, remote, opts.Pipeline)
	return ok, x, err
}

func (s *ectransStore) Put(
	ctx context.Context, local string, r Remote, opts transfer.Options,
) (bool, transfer.Extras, error) {
	x := opts.Extras()
	rpath := s.Fullpath(r)
	s.lg.Infow("ectrans put.", "remote", rpath, "local", local)
	gateway, remote, err := s.endpoints(opts)
	if err != nil {
		return false, x, err
	}
	ok, err := s.tools.Put(
		ctx, local, rpath, gateway, remote, opts.Pipeline, opts.EnforceSync,
	)
	return ok, x, err
}

func (s *ectransStore) Delete(
	ctx context.Context, r Remote, opts transfer.Options,
) (bool, transfer.Extras, error) {
	return false, transfer.Extras{}, ErrNotImplemented
}

// The ECFS store passes an empty flag list unless options are given, so
// that ECFS uses its own defaults.
type ecfsStore struct {
	tools *ecfs.Tools
	lg    Logger
}

func newEcfsStore(set *addons.Set, lg Logger, hostname string) (Store, error) {
	tools, err := set.ECfs()
	if err != nil {
		return nil, err
	}
	return &ecfsStore{tools: tools, lg: lg}, nil
}

func (s *ecfsStore) Fullpath(r Remote) string {
	return "ec:" + r.Path
}

func (s *ecfsStore) Check(
	ctx context.Context, r Remote, opts transfer.Options,
) (bool, transfer.Extras, error) {
	ok, err := s.tools.Test(ctx, s.Fullpath(r), opts.FlagsOrEmpty())
	return ok, transfer.Extras{}, err
}

// Store copies overwrite existing files unless the caller chooses flags.
func copyFlags(opts transfer.Options) []string {
	if opts.Options == nil {
		return []string{"o"}
	}
	return opts.Options
}

func (s *ecfsStore) Get(
	ctx context.Context, r Remote, local string, opts transfer.Options,
) (bool, transfer.Extras, error) {
	x := opts.Extras()
	ok, err := s.tools.Get(
		ctx, s.Fullpath(r), local, opts.Pipeline, copyFlags(opts),
	)
	return ok, x, err
}

func (s *ecfsStore) Put(
	ctx context.Context, local string, r Remote, opts transfer.Options,
) (bool, transfer.Extras, error) {
	x := opts.Extras()
	ok, err := s.tools.Put(
		ctx, local, s.Fullpath(r), opts.Pipeline, copyFlags(opts),
	)
	return ok, x, err
}

func (s *ecfsStore) Delete(
	ctx context.Context, r Remote, opts transfer.Options,
) (bool, transfer.Extras, error) {
	x := transfer.Extras{Fmt: opts.ResolvedFmt()}
	ok, err := s.tools.Rm(ctx, s.Fullpath(r), opts.FlagsOrEmpty())
	return ok, x, err
}
