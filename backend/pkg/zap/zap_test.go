package zap_test

import (
	"testing"

	"github.com/nogproject/ecmwf/backend/pkg/zap"
	"github.com/stretchr/testify/require"
)

func TestNewLevel(t *testing.T) {
	lg, err := zap.NewLevel("debug")
	require.NoError(t, err)
	require.NotNil(t, lg)

	_, err = zap.NewLevel("chatty")
	require.Error(t, err)
}
