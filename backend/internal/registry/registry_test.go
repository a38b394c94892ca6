package registry_test

import (
	"testing"

	"github.com/nogproject/ecmwf/backend/internal/registry"
	"github.com/stretchr/testify/assert"
)

func TestResolvePriority(t *testing.T) {
	r := registry.New[string]()
	_, ok := r.Resolve("ecfs")
	assert.False(t, ok)

	r.Register("ecfs", registry.PriorityToolbox, "toolbox")
	r.Register("ecfs", registry.PriorityDefault, "default")
	v, ok := r.Resolve("ecfs")
	assert.True(t, ok)
	assert.Equal(t, "toolbox", v)

	r.Register("ecfs", registry.PriorityToolbox, "later")
	v, _ = r.Resolve("ecfs")
	assert.Equal(t, "later", v)

	r.Register("ectrans", registry.PriorityNone, "x")
	assert.Equal(t, []string{"ecfs", "ectrans"}, r.Tags())
}
