package mulog_test

import (
	"bytes"
	"testing"

	"github.com/nogproject/ecmwf/backend/pkg/mulog"
	"github.com/stretchr/testify/require"
)

func TestPrinterLevels(t *testing.T) {
	var buf bytes.Buffer
	p := mulog.Printer{W: &buf}
	p.Debugw("hidden")
	p.Infow("Copied file.", "dst", "ec:/a/b")
	p.Warnw("Retry later.")
	require.Equal(t,
		"info: Copied file. [dst ec:/a/b]\nwarning: Retry later. []\n",
		buf.String(),
	)

	buf.Reset()
	p.Verbose = true
	p.Debugw("shown", "n", 1)
	require.Equal(t, "debug: shown [n 1]\n", buf.String())
}
