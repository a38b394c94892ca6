package providers_test

import (
	"errors"
	"testing"

	"github.com/nogproject/ecmwf/backend/internal/addons"
	"github.com/nogproject/ecmwf/backend/internal/providers"
	"github.com/nogproject/ecmwf/backend/internal/shell/shelltest"
	"github.com/nogproject/ecmwf/backend/pkg/mulog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcastTubes(t *testing.T) {
	for _, tube := range []string{"scp", "ftp", "rcp", "file", "symlink"} {
		_, err := providers.NewRemote(tube, "h", "", "/p")
		assert.True(t, errors.Is(err, providers.ErrTubeOutcast), tube)
	}
	_, err := providers.NewRemote("http", "h", "", "/p")
	assert.True(t, errors.Is(err, providers.ErrUnknownTube))
}

func TestURI(t *testing.T) {
	r, err := providers.NewRemote("ecfs", "ecfs.ecmwf.int", "", "u/x")
	require.NoError(t, err)
	assert.Equal(t, "ecfs://ecfs.ecmwf.int/u/x", r.URI())

	r, err = providers.NewRemote("ectrans", "hendrix", "max", "/a/b")
	require.NoError(t, err)
	assert.Equal(t, "ectrans://max@hendrix/a/b", r.URI())
	assert.Equal(t, "/a/b", r.StoreRemote().Path)
}

func TestFinder(t *testing.T) {
	set := addons.NewSet(shelltest.New(nil), nil, mulog.Discard{})
	require.NoError(t, set.Load(addons.GroupECMWF))

	r, err := providers.NewRemote("ecfs", "ecfs.ecmwf.int", "", "/u/x")
	require.NoError(t, err)
	fd, err := r.Finder(set, mulog.Discard{})
	require.NoError(t, err)
	assert.Equal(t, "ecfs", fd.Scheme)
	assert.Equal(t, "ec:/u/x", fd.Locate(r.StoreRemote()))
}
