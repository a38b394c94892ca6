// Package `addons` loads the ECMWF system addons into a `Set` that shares a
// shell, a site configuration, and a logger.  Kinds `ecfs` and `ectrans` are
// single addons; kind `ecmwf` is the group of both.
package addons

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nogproject/ecmwf/backend/internal/ecfs"
	"github.com/nogproject/ecmwf/backend/internal/ecmwfcli"
	"github.com/nogproject/ecmwf/backend/internal/ectrans"
	"github.com/nogproject/ecmwf/backend/internal/registry"
	"github.com/nogproject/ecmwf/backend/internal/shell"
	"github.com/nogproject/ecmwf/backend/internal/siteconfig"
)

const (
	KindECfs    = "ecfs"
	KindECtrans = "ectrans"
	GroupECMWF  = "ecmwf"
)

var ErrUnknownKind = errors.New("unknown addon kind")
var ErrNotLoaded = errors.New("addon not loaded")

type Logger interface {
	Debugw(msg string, kv ...interface{})
	Infow(msg string, kv ...interface{})
	Warnw(msg string, kv ...interface{})
}

// `Env` is what a factory needs to create an addon.
type Env struct {
	Sys shell.System
	Cfg siteconfig.Lookuper
	Lg  Logger
}

type Factory func(env Env) interface{}

var factories = registry.New[Factory]()
var groups = registry.New[[]string]()

func init() {
	RegisterFactory(KindECfs, registry.PriorityDefault, func(env Env) interface{} {
		return ecfs.New(ecmwfcli.NewECfs(env.Sys, env.Cfg, env.Lg), env.Lg)
	})
	RegisterFactory(KindECtrans, registry.PriorityDefault, func(env Env) interface{} {
		return ectrans.New(
			ecmwfcli.NewECtrans(env.Sys, env.Cfg, env.Lg), env.Cfg, env.Lg,
		)
	})
	RegisterGroup(GroupECMWF, registry.PriorityDefault, []string{
		KindECfs, KindECtrans,
	})
}

// `RegisterFactory()` adds a factory for `kind`.  A higher priority replaces
// the default addon.
func RegisterFactory(kind string, prio registry.Priority, f Factory) {
	factories.Register(kind, prio, f)
}

func RegisterGroup(kind string, prio registry.Priority, kinds []string) {
	groups.Register(kind, prio, kinds)
}

type Set struct {
	env    Env
	loaded map[string]interface{}
}

func NewSet(sys shell.System, cfg siteconfig.Lookuper, lg Logger) *Set {
	return &Set{
		env:    Env{Sys: sys, Cfg: cfg, Lg: lg},
		loaded: make(map[string]interface{}),
	}
}

func (s *Set) System() shell.System { return s.env.Sys }

func (s *Set) Config() siteconfig.Lookuper { return s.env.Cfg }

// `Load()` loads addons and addon groups.  Loading an addon twice keeps the
// first instance.
func (s *Set) Load(kinds ...string) error {
	for _, k := range kinds {
		if members, ok := groups.Resolve(k); ok {
			if err := s.Load(members...); err != nil {
				return err
			}
			continue
		}
		if _, ok := s.loaded[k]; ok {
			continue
		}
		f, ok := factories.Resolve(k)
		if !ok {
			return fmt.Errorf("%w `%s`", ErrUnknownKind, k)
		}
		s.loaded[k] = f(s.env)
		s.env.Lg.Debugw("Loaded addon.", "kind", k)
	}
	return nil
}

func (s *Set) IsLoaded(kind string) bool {
	_, ok := s.loaded[kind]
	return ok
}

// `Loaded()` returns the kinds of the loaded addons in sorted order.
func (s *Set) Loaded() []string {
	kinds := make([]string, 0, len(s.loaded))
	for k := range s.loaded {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func (s *Set) addon(kind string) (interface{}, error) {
	a, ok := s.loaded[kind]
	if !ok {
		return nil, fmt.Errorf("%w `%s`", ErrNotLoaded, kind)
	}
	return a, nil
}

func (s *Set) ECfs() (*ecfs.Tools, error) {
	a, err := s.addon(KindECfs)
	if err != nil {
		return nil, err
	}
	t, ok := a.(*ecfs.Tools)
	if !ok {
		return nil, fmt.Errorf("addon `%s` has type %T", KindECfs, a)
	}
	return t, nil
}

func (s *Set) ECtrans() (*ectrans.Tools, error) {
	a, err := s.addon(KindECtrans)
	if err != nil {
		return nil, err
	}
	t, ok := a.(*ectrans.Tools)
	if !ok {
		return nil, fmt.Errorf("addon `%s` has type %T", KindECtrans, a)
	}
	return t, nil
}
