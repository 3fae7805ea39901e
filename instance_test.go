package ragengine_test

import (
	"errors"
	"testing"

	"github.com/andewx/ragengine"
	"github.com/andewx/ragengine/internal/vktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInstanceWithDiagnostics(t *testing.T) {
	drv := vktest.NewDriver()
	cfg := testConfig()
	bridge := ragengine.NewDiagnosticsBridge(nil)

	instance, err := ragengine.CreateInstance(drv, window{"VK_KHR_surface", "VK_KHR_xcb_surface"}, cfg, bridge, nil)
	require.NoError(t, err)
	assert.Equal(t, vktest.InstanceHandle{ID: 1}, instance)

	info := drv.InstanceInfo()
	require.NotNil(t, info)
	assert.Equal(t, []string{ragengine.ValidationLayerName}, info.Layers)
	assert.Equal(t, []string{"VK_KHR_surface", "VK_KHR_xcb_surface", ragengine.DebugReportExtensionName}, info.Extensions)
	assert.Zero(t, info.Flags)

	require.NotNil(t, info.Diagnostics)
	assert.Equal(t, ragengine.SeverityAll, info.Diagnostics.Severities)
	assert.NotNil(t, info.Diagnostics.Callback)

	assert.Equal(t, "My Game", info.Application.AppName)
	assert.Equal(t, "RAGEngine", info.Application.EngineName)
	assert.Equal(t, ragengine.MakeVersion(1, 1, 0), info.Application.AppVersion)
	assert.Equal(t, ragengine.MakeVersion(1, 1, 0), info.Application.EngineVersion)
	assert.Equal(t, ragengine.MakeVersion(1, 4, 309), info.Application.APIVersion)
}

func TestCreateInstanceWithoutDiagnostics(t *testing.T) {
	drv := vktest.NewDriver()
	drv.Layers = nil
	cfg := testConfig()
	cfg.Diagnostics = false

	_, err := ragengine.CreateInstance(drv, window{"VK_KHR_surface"}, cfg, ragengine.NewDiagnosticsBridge(nil), nil)
	require.NoError(t, err)

	info := drv.InstanceInfo()
	assert.Empty(t, info.Layers)
	assert.Equal(t, []string{"VK_KHR_surface"}, info.Extensions)
	assert.Nil(t, info.Diagnostics)
	assert.Zero(t, drv.Count("InstanceLayers"))
}

func TestCreateInstanceUnsupportedLayer(t *testing.T) {
	drv := vktest.NewDriver()
	drv.Layers = []string{"VK_LAYER_LUNARG_api_dump"}

	_, err := ragengine.CreateInstance(drv, ragengine.Headless{}, testConfig(), ragengine.NewDiagnosticsBridge(nil), nil)
	assert.ErrorIs(t, err, ragengine.ErrUnsupportedLayer)
	assert.Zero(t, drv.Count("CreateInstance"))
}

func TestCreateInstanceReturnsDriverError(t *testing.T) {
	want := &ragengine.DriverError{Op: "vkCreateInstance", Result: -9}
	drv := vktest.NewDriver()
	drv.CreateInstanceErr = want

	instance, err := ragengine.CreateInstance(drv, ragengine.Headless{}, testConfig(), ragengine.NewDiagnosticsBridge(nil), nil)
	assert.Nil(t, instance)
	assert.Same(t, want, err)
	assert.ErrorIs(t, err, ragengine.ErrDriverCreationFailed)
}

func TestCreateInstanceInvalidIdentity(t *testing.T) {
	drv := vktest.NewDriver()
	cfg := testConfig()
	cfg.Identity.APIVersion = "latest"

	_, err := ragengine.CreateInstance(drv, ragengine.Headless{}, cfg, ragengine.NewDiagnosticsBridge(nil), nil)
	assert.ErrorIs(t, err, ragengine.ErrConfiguration)
	assert.Empty(t, drv.Calls())
}

var portabilityCases = []struct {
	name     string
	platform string
	loader   ragengine.Version
	want     bool
}{
	{"darwin at minimum", "darwin", ragengine.MakeVersion(1, 3, 216), true},
	{"darwin newer", "darwin", ragengine.MakeVersion(1, 4, 0), true},
	{"darwin too old", "darwin", ragengine.MakeVersion(1, 3, 215), false},
	{"ios newer", "ios", ragengine.MakeVersion(1, 3, 250), true},
	{"linux new loader", "linux", ragengine.MakeVersion(1, 4, 0), false},
	{"windows new loader", "windows", ragengine.MakeVersion(1, 4, 0), false},
}

func TestCreateInstancePortability(t *testing.T) {
	for _, tt := range portabilityCases {
		t.Run(tt.name, func(t *testing.T) {
			drv := vktest.NewDriver()
			drv.APIVersion = tt.loader
			cfg := testConfig()
			cfg.Platform = tt.platform
			log, buf := captureLogger()

			_, err := ragengine.CreateInstance(drv, window{"VK_KHR_surface"}, cfg, ragengine.NewDiagnosticsBridge(nil), log)
			require.NoError(t, err)

			info := drv.InstanceInfo()
			if tt.want {
				assert.Equal(t, []string{
					"VK_KHR_surface",
					ragengine.KhrGetPhysicalDeviceProperties2ExtensionName,
					ragengine.KhrPortabilityEnumerationExtensionName,
					ragengine.DebugReportExtensionName,
				}, info.Extensions)
				assert.Equal(t, ragengine.InstanceCreateEnumeratePortability, info.Flags)
				findRecord(t, buf, "enabling portability extensions")
			} else {
				assert.NotContains(t, info.Extensions, ragengine.KhrPortabilityEnumerationExtensionName)
				assert.NotContains(t, info.Extensions, ragengine.KhrGetPhysicalDeviceProperties2ExtensionName)
				assert.Zero(t, info.Flags)
			}
			if tt.platform != "darwin" && tt.platform != "ios" {
				assert.Zero(t, drv.Count("Version"))
			}
		})
	}
}

func TestCreateLogicalDevicePortability(t *testing.T) {
	for _, tt := range portabilityCases {
		t.Run(tt.name, func(t *testing.T) {
			gpu := vktest.DiscreteGPU("gpu0")
			gpu.Extensions = append(gpu.Extensions, ragengine.KhrPortabilitySubsetExtensionName)
			drv := vktest.NewDriver(gpu)
			drv.APIVersion = tt.loader
			cfg := testConfig()
			cfg.Platform = tt.platform

			_, _, err := ragengine.CreateLogicalDevice(drv, vktest.GPUHandle(0), ragengine.QueueFamilyIndices{}, cfg, nil)
			require.NoError(t, err)

			if tt.want {
				assert.Equal(t, []string{ragengine.KhrPortabilitySubsetExtensionName}, drv.DeviceInfo().Extensions)
			} else {
				assert.Empty(t, drv.DeviceInfo().Extensions)
			}
		})
	}
}

func TestPortabilityVersionError(t *testing.T) {
	drv := vktest.NewDriver()
	drv.VersionErr = errors.New("loader unavailable")
	cfg := testConfig()
	cfg.Platform = "darwin"

	_, err := ragengine.CreateInstance(drv, ragengine.Headless{}, cfg, ragengine.NewDiagnosticsBridge(nil), nil)
	assert.EqualError(t, err, "loader unavailable")
	assert.Zero(t, drv.Count("CreateInstance"))
}

func TestCreateInstanceWarnsOnMissingExtension(t *testing.T) {
	drv := vktest.NewDriver()
	log, buf := captureLogger()

	_, err := ragengine.CreateInstance(drv, window{"VK_KHR_wayland_surface"}, testConfig(), ragengine.NewDiagnosticsBridge(nil), log)
	require.NoError(t, err)

	rec := findRecord(t, buf, "requested instance extensions not reported by the driver")
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, []any{"VK_KHR_wayland_surface"}, rec["missing"])
}

func TestCreateInstanceLogsFailedExtensionQuery(t *testing.T) {
	drv := vktest.NewDriver()
	drv.ExtensionsErr = &ragengine.DriverError{Op: "vkEnumerateInstanceExtensionProperties", Result: -1}
	log, buf := captureLogger()

	_, err := ragengine.CreateInstance(drv, ragengine.Headless{}, testConfig(), ragengine.NewDiagnosticsBridge(nil), log)
	require.NoError(t, err)

	rec := findRecord(t, buf, "instance extension query failed")
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Contains(t, rec["error"], "vkEnumerateInstanceExtensionProperties")
	assert.Equal(t, 1, drv.Count("CreateInstance"))
}

func TestCreateLogicalDeviceLogsFailedExtensionQuery(t *testing.T) {
	drv := vktest.NewDriver(vktest.DiscreteGPU("gpu0"))
	drv.ExtensionsErr = &ragengine.DriverError{Op: "vkEnumerateDeviceExtensionProperties", Result: -1}
	cfg := testConfig()
	cfg.Platform = "darwin"
	log, buf := captureLogger()

	_, _, err := ragengine.CreateLogicalDevice(drv, vktest.GPUHandle(0), ragengine.QueueFamilyIndices{}, cfg, log)
	require.NoError(t, err)

	rec := findRecord(t, buf, "device extension query failed")
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, []string{ragengine.KhrPortabilitySubsetExtensionName}, drv.DeviceInfo().Extensions)
}
