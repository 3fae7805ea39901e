package ragengine_test

import (
	"testing"

	"github.com/andewx/ragengine"
	"github.com/andewx/ragengine/internal/vktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	drv := vktest.NewDriver(
		vktest.IntegratedGPU("igpu"),
		vktest.DiscreteGPU("gpu0"),
		vktest.DiscreteGPU("gpu1"),
	)

	reports, err := ragengine.Inspect(drv, testConfig(), nil)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, "igpu", reports[0].Properties.Name)
	assert.ErrorContains(t, reports[0].Reason, "device type is not allowed")
	assert.False(t, reports[0].Selected)

	assert.NoError(t, reports[1].Reason)
	assert.True(t, reports[1].Selected)

	assert.NoError(t, reports[2].Reason)
	assert.False(t, reports[2].Selected)
	assert.Equal(t, 2, reports[2].Index)
	assert.Equal(t, []string{"VK_KHR_swapchain"}, reports[2].Extensions)

	assert.Equal(t, []string{
		"CreateInstance", "CreateDebugMessenger", "DestroyDebugMessenger", "DestroyInstance",
	}, drv.Lifecycle())
	assert.Empty(t, drv.Live())
	assert.Zero(t, drv.Count("CreateDevice"))
}

func TestInspectNothingSuitable(t *testing.T) {
	drv := vktest.NewDriver(vktest.IntegratedGPU("igpu"))

	reports, err := ragengine.Inspect(drv, testConfig(), nil)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.False(t, reports[0].Selected)
	assert.Empty(t, drv.Live())
}

func TestInspectEnumerationError(t *testing.T) {
	drv := vktest.NewDriver()
	drv.EnumerateErr = &ragengine.DriverError{Op: "vkEnumeratePhysicalDevices", Result: -3}

	_, err := ragengine.Inspect(drv, testConfig(), nil)
	assert.ErrorIs(t, err, ragengine.ErrDriverCreationFailed)
	assert.Empty(t, drv.Live())
}
