package ectrans_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nogproject/ecmwf/backend/internal/compress"
	"github.com/nogproject/ecmwf/backend/internal/ecmwfcli"
	"github.com/nogproject/ecmwf/backend/internal/ectrans"
	"github.com/nogproject/ecmwf/backend/internal/shell/shelltest"
	"github.com/nogproject/ecmwf/backend/internal/siteconfig"
	"github.com/nogproject/ecmwf/backend/pkg/cmdline"
	"github.com/nogproject/ecmwf/backend/pkg/mulog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siteConfig() *siteconfig.Config {
	return siteconfig.New(map[string]map[string]string{
		"ectrans": {
			"gateway":                 "ecgb-gateway",
			"remote_default":          "meteo_default",
			"remote_hendrix.meteo.fr": "meteo_hendrix",
		},
	})
}

type fixture struct {
	sys   *shelltest.Fake
	store *shelltest.Store
	tools *ectrans.Tools
	dir   string
}

func newFixture(t *testing.T, cfg siteconfig.Lookuper) *fixture {
	sys := shelltest.New(nil)
	store := shelltest.NewStore()
	sys.Handler = store.Handle
	cli := ecmwfcli.NewECtrans(sys, cfg, mulog.Discard{})
	return &fixture{
		sys:   sys,
		store: store,
		tools: ectrans.New(cli, cfg, mulog.Discard{}),
		dir:   t.TempDir(),
	}
}

func TestGatewayRemoteInit(t *testing.T) {
	f := newFixture(t, siteConfig())

	gw, err := f.tools.GatewayInit("")
	require.NoError(t, err)
	assert.Equal(t, "ecgb-gateway", gw)
	gw, err = f.tools.GatewayInit("other")
	require.NoError(t, err)
	assert.Equal(t, "other", gw)

	cases := []struct {
		remote, storage, expected string
	}{
		{"", "hendrix.meteo.fr", "meteo_hendrix"},
		{"", "unknown_site", "meteo_default"},
		{"", "", "meteo_default"},
		{"explicit", "hendrix.meteo.fr", "explicit"},
	}
	for _, c := range cases {
		r, err := f.tools.RemoteInit(c.remote, c.storage)
		require.NoError(t, err)
		assert.Equal(t, c.expected, r, "storage %q", c.storage)
	}
}

func TestInitWithoutConfig(t *testing.T) {
	f := newFixture(t, siteconfig.New(nil))

	_, err := f.tools.GatewayInit("")
	var cerr *siteconfig.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "gateway", cerr.Key)

	_, err = f.tools.RemoteInit("", "unknown_site")
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "remote_unknown_site", cerr.Key)
}

func TestDefaultsInit(t *testing.T) {
	opts := ectrans.DefaultsInit(ectrans.Params{Sync: true})
	v, _ := opts.Get("priority")
	assert.Equal(t, []string{"80"}, v)
	v, _ = opts.Get("retryCnt")
	assert.Equal(t, []string{"0"}, v)
	assert.False(t, opts.Has("retryFrq"))
	assert.Equal(t, []string{"verbose", "overwrite"}, opts.Flags)

	opts = ectrans.DefaultsInit(ectrans.Params{})
	v, _ = opts.Get("priority")
	assert.Equal(t, []string{"30"}, v)
	v, _ = opts.Get("retryCnt")
	assert.Equal(t, []string{"72"}, v)
	v, _ = opts.Get("retryFrq")
	assert.Equal(t, []string{"600"}, v)

	extra := cmdline.Flags("verbose")
	extra.Set("priority", "99")
	opts = ectrans.DefaultsInit(ectrans.Params{
		Sync: true, Extra: extra, Disable: []string{"overwrite"},
	})
	v, _ = opts.Get("priority")
	assert.Equal(t, []string{"99"}, v)
	assert.Equal(t, []string{"verbose"}, opts.Flags)
	assert.False(t, extra.Has("retryCnt"), "extra must not change")
}

func TestRawPutArgv(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, siteConfig())
	src := filepath.Join(f.dir, "src")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	_, err := f.tools.RawPut(
		ctx, src, "/remote/dst", "gw", "rm", ectrans.Params{Sync: true},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"ectrans",
		"-priority", "80", "-retryCnt", "0",
		"-gateway", "gw", "-remote", "rm",
		"-source", src, "-target", "/remote/dst",
		"-verbose", "-overwrite", "-put",
	}, f.sys.Last())

	_, err = f.tools.RawPut(ctx, src, "/remote/dst", "gw", "rm", ectrans.Params{})
	require.NoError(t, err)
	assert.False(t, shelltest.HasFlag(f.sys.Last(), "put"))
	frq, _ := shelltest.ValueOf(f.sys.Last(), "retryFrq")
	assert.Equal(t, "600", frq)
}

func TestRawGetArgv(t *testing.T) {
	f := newFixture(t, siteConfig())
	f.store.Put("/remote/x", []byte("x"))
	dst := filepath.Join(f.dir, "x")

	ok, err := f.tools.RawGet(context.Background(), "/remote/x", dst, "gw", "rm")
	require.NoError(t, err)
	assert.True(t, ok)
	argv := f.sys.Last()
	assert.True(t, shelltest.HasFlag(argv, "get"))
	p, _ := shelltest.ValueOf(argv, "priority")
	assert.Equal(t, "80", p)
}

func TestPutRequiresRegularFile(t *testing.T) {
	f := newFixture(t, siteConfig())

	_, err := f.tools.Put(
		context.Background(), filepath.Join(f.dir, "missing"), "/r",
		"gw", "rm", nil, true,
	)
	var perr *os.PathError
	require.True(t, errors.As(err, &perr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Empty(t, f.sys.Calls())

	_, err = f.tools.Put(
		context.Background(), f.dir, "/r", "gw", "rm", nil, true,
	)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPutGetWithPipeline(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, siteConfig())
	z := compress.Zstd{}
	src := filepath.Join(f.dir, "obs.bufr")
	data := bytes.Repeat([]byte("abcdef"), 2000)
	require.NoError(t, os.WriteFile(src, data, 0644))

	ok, err := f.tools.Put(ctx, src, "/remote/obs.zst", "gw", "rm", z, false)
	require.NoError(t, err)
	assert.True(t, ok)
	packed, _ := f.store.Get("/remote/obs.zst")
	assert.Less(t, len(packed), len(data))

	dst := filepath.Join(f.dir, "back.bufr")
	require.NoError(t, os.WriteFile(dst, []byte("stale"), 0644))
	ok, err = f.tools.Get(ctx, "/remote/obs.zst", dst, "gw", "rm", z)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	ents, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Len(t, ents, 2, "intermediate files must be removed")
}

func TestGetRemovesExistingTarget(t *testing.T) {
	f := newFixture(t, siteConfig())
	f.store.Fail["ectrans"] = 1
	dst := filepath.Join(f.dir, "stale")
	require.NoError(t, os.WriteFile(dst, []byte("stale"), 0644))

	_, err := f.tools.Get(context.Background(), "/remote/x", dst, "gw", "rm", nil)
	require.Error(t, err)
	_, err = os.Stat(dst)
	assert.True(t, os.IsNotExist(err))
}

func TestGetWithPipelineTransferFailureRemovesIntermediate(t *testing.T) {
	f := newFixture(t, siteConfig())
	f.store.Put("/remote/obs.zst", []byte("obs"))
	f.store.Fail["ectrans"] = 1
	// The failing transfer leaves a partial target behind.
	f.sys.Handler = func(argv []string) (int, string) {
		if dst, ok := shelltest.ValueOf(argv, "target"); ok {
			_ = os.WriteFile(dst, []byte("partial"), 0644)
		}
		return f.store.Handle(argv)
	}
	dst := filepath.Join(f.dir, "obs.bufr")

	ok, err := f.tools.Get(
		context.Background(), "/remote/obs.zst", dst, "gw", "rm",
		compress.Zstd{},
	)
	require.Error(t, err)
	assert.False(t, ok)
	require.Len(t, f.sys.Calls(), 1)

	ents, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, ents)
}

func TestPutCompressionFailureRemovesIntermediate(t *testing.T) {
	f := newFixture(t, siteConfig())
	src := filepath.Join(f.dir, "src")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	_, err := f.tools.Put(
		context.Background(), src, "/r", "gw", "rm", failingPipeline{}, true,
	)
	require.Error(t, err)
	assert.Empty(t, f.sys.Calls())
	ents, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Len(t, ents, 1)
}

var errInduced = errors.New("induced failure")

// `failingPipeline` leaves a partial file behind before failing.
type failingPipeline struct{}

func (failingPipeline) Compress2File(src, dst string) error {
	_ = os.WriteFile(dst, []byte("partial"), 0644)
	return errInduced
}

func (failingPipeline) File2Uncompress(src, dst string) error {
	_ = os.WriteFile(dst, []byte("partial"), 0644)
	return errInduced
}
