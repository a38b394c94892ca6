package ecmwfcli_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nogproject/ecmwf/backend/internal/ecmwfcli"
	"github.com/nogproject/ecmwf/backend/internal/shell"
	"github.com/nogproject/ecmwf/backend/internal/shell/shelltest"
	"github.com/nogproject/ecmwf/backend/internal/siteconfig"
	"github.com/nogproject/ecmwf/backend/pkg/cmdline"
	"github.com/nogproject/ecmwf/backend/pkg/mulog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActualCommand(t *testing.T) {
	sys := shelltest.New(nil)
	cfg := siteconfig.New(map[string]map[string]string{
		"ecmwf": {"ectrans_command": "/opt/ectrans/bin/ectrans"},
	})

	ecfs := ecmwfcli.NewECfs(sys, cfg, mulog.Discard{})
	assert.Equal(t, "ecfs", ecfs.ActualCommand(""))
	assert.Equal(t, "ecp", ecfs.ActualCommand("ecp"))
	assert.True(t, ecfs.CommandInterface())

	ectrans := ecmwfcli.NewECtrans(sys, cfg, mulog.Discard{})
	assert.Equal(t, "/opt/ectrans/bin/ectrans", ectrans.ActualCommand(""))
	assert.False(t, ectrans.CommandInterface())

	none := ecmwfcli.NewECtrans(sys, nil, mulog.Discard{})
	assert.Equal(t, "ectrans", none.ActualCommand(""))
}

func TestCallSplitsCommandLine(t *testing.T) {
	ctx := context.Background()
	sys := shelltest.New(nil)
	cli := ecmwfcli.NewECtrans(sys, nil, mulog.Discard{})

	opts := cmdline.Flags("verbose")
	opts.Set("remote", "meteo")
	opts.Set("retry", "1", "2")
	ok, err := cli.Call(ctx, ecmwfcli.Request{
		Args:    []string{"pos"},
		Options: opts,
		Silent:  true,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	calls := sys.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{
		"ectrans", "-remote", "meteo", "-retry", "1", "2", "-verbose", "pos",
	}, calls[0].Argv)
	assert.Equal(t, shell.SpawnOptions{Fatal: true, Silent: true}, calls[0].Opts)
}

func TestCallFailure(t *testing.T) {
	ctx := context.Background()
	sys := shelltest.New(nil)
	sys.Handler = func([]string) (int, string) { return 1, "" }
	cli := ecmwfcli.NewECfs(sys, nil, mulog.Discard{})

	ok, err := cli.Call(ctx, ecmwfcli.Request{
		Command: "etest", Args: []string{"ec:/x"}, NonFatal: true,
	})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = cli.Call(ctx, ecmwfcli.Request{
		Command: "ecp", Args: []string{"a", "ec:/x"},
	})
	var xerr *shell.ExecutionError
	assert.True(t, errors.As(err, &xerr))
}

func TestCaptureReturnsOutput(t *testing.T) {
	sys := shelltest.New(nil)
	sys.Handler = func([]string) (int, string) { return 0, "a\nb\n" }
	cli := ecmwfcli.NewECfs(sys, nil, mulog.Discard{})

	out, err := cli.Capture(context.Background(), ecmwfcli.Request{
		Command: "els", Args: []string{"ec:/x"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", out)
}

func TestCallRejectsWhitespace(t *testing.T) {
	sys := shelltest.New(nil)
	cli := ecmwfcli.NewECfs(sys, nil, mulog.Discard{})

	_, err := cli.Call(context.Background(), ecmwfcli.Request{
		Command: "ecp", Args: []string{"a b", "ec:/x"},
	})
	assert.True(t, errors.Is(err, cmdline.ErrWhitespace))
	assert.Empty(t, sys.Calls())
}

func TestPrepareArguments(t *testing.T) {
	sys := shelltest.New(nil)
	ecfs := ecmwfcli.NewECfs(sys, nil, mulog.Discard{})

	p := ecfs.PrepareArguments([]string{
		"script", "ecp", "-o", "-k=v1,v2", "src", "dst",
	})
	assert.Equal(t, "ecp", p.Command)
	assert.Equal(t, []string{"src", "dst"}, p.Args)
	assert.True(t, p.Options.HasFlag("o"))
	vals, ok := p.Options.Get("k")
	require.True(t, ok)
	assert.Equal(t, []string{"v1", "v2"}, vals)

	req := ecmwfcli.RequestFromParsed(p)
	assert.Equal(t, "ecp", req.Command)

	ectrans := ecmwfcli.NewECtrans(sys, nil, mulog.Discard{})
	p = ectrans.PrepareArguments([]string{"script", "put", "x"})
	assert.Equal(t, "", p.Command)
	assert.Equal(t, []string{"put", "x"}, p.Args)
}
