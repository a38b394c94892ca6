package addons_test

import (
	"errors"
	"testing"

	"github.com/nogproject/ecmwf/backend/internal/addons"
	"github.com/nogproject/ecmwf/backend/internal/shell/shelltest"
	"github.com/nogproject/ecmwf/backend/pkg/mulog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGroup(t *testing.T) {
	set := addons.NewSet(shelltest.New(nil), nil, mulog.Discard{})
	assert.Empty(t, set.Loaded())

	_, err := set.ECfs()
	assert.True(t, errors.Is(err, addons.ErrNotLoaded))

	require.NoError(t, set.Load(addons.GroupECMWF))
	assert.Equal(t, []string{"ecfs", "ectrans"}, set.Loaded())

	ecfs, err := set.ECfs()
	require.NoError(t, err)
	assert.NotNil(t, ecfs)
	ectrans, err := set.ECtrans()
	require.NoError(t, err)
	assert.NotNil(t, ectrans)

	require.NoError(t, set.Load(addons.KindECfs))
	again, _ := set.ECfs()
	assert.Same(t, ecfs, again)
}

func TestLoadSingle(t *testing.T) {
	set := addons.NewSet(shelltest.New(nil), nil, mulog.Discard{})
	require.NoError(t, set.Load(addons.KindECtrans))
	assert.True(t, set.IsLoaded("ectrans"))
	assert.False(t, set.IsLoaded("ecfs"))
}

func TestLoadUnknown(t *testing.T) {
	set := addons.NewSet(shelltest.New(nil), nil, mulog.Discard{})
	err := set.Load("scp")
	assert.True(t, errors.Is(err, addons.ErrUnknownKind))
}
