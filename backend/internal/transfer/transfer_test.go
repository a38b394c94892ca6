package transfer_test

import (
	"testing"

	"github.com/nogproject/ecmwf/backend/internal/compress"
	"github.com/nogproject/ecmwf/backend/internal/transfer"
	"github.com/stretchr/testify/assert"
)

func TestExtras(t *testing.T) {
	assert.Equal(t, transfer.Extras{Fmt: "foo"}, transfer.Options{}.Extras())

	z := compress.Zstd{Level: 3}
	x := transfer.Options{Fmt: "grib", Pipeline: z}.Extras()
	assert.Equal(t, "grib", x.Fmt)
	assert.Equal(t, z, x.Pipeline)
}

func TestFlagsOrEmpty(t *testing.T) {
	flags := transfer.Options{}.FlagsOrEmpty()
	assert.NotNil(t, flags)
	assert.Empty(t, flags)

	assert.Equal(
		t, []string{"n"}, transfer.Options{Options: []string{"n"}}.FlagsOrEmpty(),
	)
}
