// Package `providers` describes where data lives remotely at ECMWF.  Only the
// tubes `ectrans` and `ecfs` are available; the generic tubes are excluded.
package providers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/nogproject/ecmwf/backend/internal/addons"
	"github.com/nogproject/ecmwf/backend/internal/registry"
	"github.com/nogproject/ecmwf/backend/internal/stores"
)

var ErrTubeOutcast = errors.New("tube is not available at ECMWF")
var ErrUnknownTube = errors.New("unknown tube")

var outcasts = []string{"scp", "ftp", "rcp", "file", "symlink"}

// `Tubes` maps a tube to the store scheme that serves it.
var Tubes = registry.New[string]()

func init() {
	Tubes.Register("ectrans", registry.PriorityToolbox, stores.SchemeECtrans)
	Tubes.Register("ecfs", registry.PriorityToolbox, stores.SchemeECfs)
}

type Remote struct {
	Tube     string
	Hostname string
	Username string
	Path     string
	scheme   string
}

func NewRemote(tube, hostname, username, path string) (*Remote, error) {
	for _, o := range outcasts {
		if tube == o {
			return nil, fmt.Errorf("%w: `%s`", ErrTubeOutcast, tube)
		}
	}
	scheme, ok := Tubes.Resolve(tube)
	if !ok {
		return nil, fmt.Errorf("%w `%s`", ErrUnknownTube, tube)
	}
	return &Remote{
		Tube:     tube,
		Hostname: hostname,
		Username: username,
		Path:     path,
		scheme:   scheme,
	}, nil
}

// `URI()` renders `<tube>://[<user>@]<host>/<path>`.
func (r *Remote) URI() string {
	u := url.URL{
		Scheme: r.Tube,
		Host:   r.Hostname,
		Path:   "/" + strings.TrimPrefix(r.Path, "/"),
	}
	if r.Username != "" {
		u.User = url.User(r.Username)
	}
	return u.String()
}

// `StoreRemote()` is the path descriptor for the store.
func (r *Remote) StoreRemote() stores.Remote {
	return stores.Remote{Path: r.Path}
}

// `Finder()` returns the store that serves the remote.
func (r *Remote) Finder(set *addons.Set, lg stores.Logger) (*stores.Finder, error) {
	return stores.NewFinder(set, lg, r.scheme, r.Hostname)
}
