// Package `archives` provides the ECMWF archives, selected by tube: `ecfs`
// for the ECFS archive on `ecgate.ecmwf.int` and `ecfs.ecmwf.int`, and
// `ectrans` for remote associations that are reached through `ectrans`.
package archives

import (
	"context"
	"errors"
	"fmt"

	"github.com/nogproject/ecmwf/backend/internal/addons"
	"github.com/nogproject/ecmwf/backend/internal/registry"
	"github.com/nogproject/ecmwf/backend/internal/transfer"
)

const (
	TubeECfs    = "ecfs"
	TubeECtrans = "ectrans"
)

var ErrNotImplemented = errors.New("not implemented")
var ErrUnknownTube = errors.New("unknown archive tube")

type Logger interface {
	Debugw(msg string, kv ...interface{})
	Infow(msg string, kv ...interface{})
}

// `Archive` is the interface of all archives.  Operations return whether
// they succeeded and the extras that they used.
type Archive interface {
	Tube() string
	Fullpath(item string) (string, error)
	PrestageInfo(ctx context.Context, item string, opts transfer.Options) (string, error)
	Check(ctx context.Context, item string, opts transfer.Options) (bool, transfer.Extras, error)
	List(ctx context.Context, item string, opts transfer.Options) ([]string, transfer.Extras, error)
	Retrieve(ctx context.Context, item, local string, opts transfer.Options) (bool, transfer.Extras, error)
	Insert(ctx context.Context, item, local string, opts transfer.Options) (bool, transfer.Extras, error)
	Delete(ctx context.Context, item string, opts transfer.Options) (bool, transfer.Extras, error)
}

// `Params` select an archive.  `Remote` and `Gateway` are instance defaults
// for the `ectrans` tube.
type Params struct {
	Tube    string
	Storage string
	Remote  string
	Gateway string
}

type Factory func(set *addons.Set, lg Logger, p Params) (Archive, error)

// `Tubes` maps a tube to its archive factory.
var Tubes = registry.New[Factory]()

func init() {
	Tubes.Register(TubeECfs, registry.PriorityDefault, newEcfsArchive)
	Tubes.Register(TubeECtrans, registry.PriorityDefault, newEctransArchive)
}

func New(set *addons.Set, lg Logger, p Params) (Archive, error) {
	f, ok := Tubes.Resolve(p.Tube)
	if !ok {
		return nil, fmt.Errorf("%w `%s`", ErrUnknownTube, p.Tube)
	}
	return f(set, lg, p)
}

func newEcfsArchive(set *addons.Set, lg Logger, p Params) (Archive, error) {
	tools, err := set.ECfs()
	if err != nil {
		return nil, err
	}
	return &Ecfs{Storage: p.Storage, tools: tools, lg: lg}, nil
}

func newEctransArchive(set *addons.Set, lg Logger, p Params) (Archive, error) {
	tools, err := set.ECtrans()
	if err != nil {
		return nil, err
	}
	return &Ectrans{
		Storage: p.Storage,
		Remote:  p.Remote,
		Gateway: p.Gateway,
		tools:   tools,
		cfg:     set.Config(),
		lg:      lg,
	}, nil
}
