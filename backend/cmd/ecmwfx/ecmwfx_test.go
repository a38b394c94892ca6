package main

import (
	"bytes"
	"testing"

	"github.com/nogproject/ecmwf/backend/pkg/cmdline"
	"github.com/nogproject/ecmwf/backend/pkg/mulog"
	"github.com/nogproject/ecmwf/backend/pkg/zap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintParsed(t *testing.T) {
	p := cmdline.Parse([]string{
		"ecfs", "ecp", "-o", "-k=v1,v2", "src", "dst",
	}, true)

	var buf bytes.Buffer
	require.NoError(t, printParsed(&buf, p))
	assert.Equal(t, ""+
		"program: ecfs\n"+
		"command: ecp\n"+
		"arg: src\n"+
		"arg: dst\n"+
		"flag: o\n"+
		"option: k=v1,v2\n"+
		"argv: ecfs -k=v1,v2 -o ecp src dst\n",
		buf.String(),
	)
}

func TestArgFlags(t *testing.T) {
	assert.Nil(t, argFlags(map[string]interface{}{"--flag": []string{}}))
	assert.Nil(t, argFlags(map[string]interface{}{}))
	assert.Equal(t,
		[]string{"o"},
		argFlags(map[string]interface{}{"--flag": []string{"o"}}),
	)
}

func TestToolSpecs(t *testing.T) {
	specs := toolSpecs("/opt/ectrans")
	assert.Len(t, specs, 7)
	assert.Equal(t, "etest", specs[0].Program)
	assert.Equal(t, "/opt/ectrans", specs[6].Program)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("prod:debug")
	require.NoError(t, err)
	assert.IsType(t, &zap.Logger{}, l)

	l, err = newLogger("mu")
	require.NoError(t, err)
	assert.Equal(t, mulog.Logger{}, l)

	for _, arg := range []string{"prod:loud", "verbose"} {
		_, err := newLogger(arg)
		assert.Error(t, err, arg)
	}
}
