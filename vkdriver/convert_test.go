package vkdriver

import (
	"testing"

	"github.com/andewx/ragengine"
	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestSafeStrings(t *testing.T) {
	assert.Equal(t, "VK_LAYER_KHRONOS_validation\x00", safeString("VK_LAYER_KHRONOS_validation"))
	assert.Equal(t, "a\x00", safeString("a\x00"))
	assert.Nil(t, safeStrings(nil))
	assert.Equal(t, []string{"a\x00", "b\x00"}, safeStrings([]string{"a", "b\x00"}))
}

func TestReportFlags(t *testing.T) {
	all := reportFlags(ragengine.SeverityAll,
		ragengine.CategoryGeneral|ragengine.CategoryValidation|ragengine.CategoryPerformance)
	for _, bit := range []vk.DebugReportFlagBits{
		vk.DebugReportErrorBit,
		vk.DebugReportWarningBit,
		vk.DebugReportPerformanceWarningBit,
		vk.DebugReportInformationBit,
		vk.DebugReportDebugBit,
	} {
		assert.NotZero(t, all&vk.DebugReportFlags(bit), "bit %#x", bit)
	}

	noPerf := reportFlags(ragengine.SeverityWarning, ragengine.CategoryValidation)
	assert.Equal(t, vk.DebugReportFlags(vk.DebugReportWarningBit), noPerf)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		flags    vk.DebugReportFlagBits
		severity ragengine.Severity
		category ragengine.Category
	}{
		{"error", vk.DebugReportErrorBit, ragengine.SeverityError, ragengine.CategoryValidation},
		{"error wins", vk.DebugReportErrorBit | vk.DebugReportInformationBit, ragengine.SeverityError, ragengine.CategoryValidation},
		{"warning", vk.DebugReportWarningBit, ragengine.SeverityWarning, ragengine.CategoryValidation},
		{"performance", vk.DebugReportPerformanceWarningBit, ragengine.SeverityWarning, ragengine.CategoryPerformance},
		{"info", vk.DebugReportInformationBit, ragengine.SeverityInfo, ragengine.CategoryGeneral},
		{"debug", vk.DebugReportDebugBit, ragengine.SeverityVerbose, ragengine.CategoryGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			severity, category := classify(vk.DebugReportFlags(tt.flags))
			assert.Equal(t, tt.severity, severity)
			assert.Equal(t, tt.category, category)
		})
	}
}

func TestDeviceType(t *testing.T) {
	assert.Equal(t, ragengine.DeviceTypeDiscreteGPU, deviceType(vk.PhysicalDeviceTypeDiscreteGpu))
	assert.Equal(t, ragengine.DeviceTypeIntegratedGPU, deviceType(vk.PhysicalDeviceTypeIntegratedGpu))
	assert.Equal(t, ragengine.DeviceTypeCPU, deviceType(vk.PhysicalDeviceTypeCpu))
	assert.Equal(t, ragengine.DeviceTypeOther, deviceType(vk.PhysicalDeviceTypeOther))
}

func TestQueueFlags(t *testing.T) {
	flags := queueFlags(vk.QueueFlags(vk.QueueGraphicsBit | vk.QueueTransferBit))
	assert.True(t, flags.Has(ragengine.QueueGraphics))
	assert.True(t, flags.Has(ragengine.QueueTransfer))
	assert.False(t, flags.Has(ragengine.QueueCompute))
}
