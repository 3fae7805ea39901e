package vkdriver

import (
	"strings"
	"unsafe"

	"github.com/andewx/ragengine"
	vk "github.com/vulkan-go/vulkan"
)

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

func newError(op string, ret vk.Result) error {
	return &ragengine.DriverError{
		Op:     op,
		Result: int32(ret),
		Err:    vk.Error(ret),
	}
}

// safeString returns s with the trailing NUL the C side expects.
func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func safeStrings(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = safeString(s)
	}
	return out
}

func deviceType(t vk.PhysicalDeviceType) ragengine.DeviceType {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return ragengine.DeviceTypeIntegratedGPU
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return ragengine.DeviceTypeDiscreteGPU
	case vk.PhysicalDeviceTypeVirtualGpu:
		return ragengine.DeviceTypeVirtualGPU
	case vk.PhysicalDeviceTypeCpu:
		return ragengine.DeviceTypeCPU
	default:
		return ragengine.DeviceTypeOther
	}
}

func queueFlags(flags vk.QueueFlags) ragengine.QueueFlags {
	var out ragengine.QueueFlags
	if flags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
		out |= ragengine.QueueGraphics
	}
	if flags&vk.QueueFlags(vk.QueueComputeBit) != 0 {
		out |= ragengine.QueueCompute
	}
	if flags&vk.QueueFlags(vk.QueueTransferBit) != 0 {
		out |= ragengine.QueueTransfer
	}
	if flags&vk.QueueFlags(vk.QueueSparseBindingBit) != 0 {
		out |= ragengine.QueueSparseBinding
	}
	return out
}

func bool32(b bool) vk.Bool32 {
	if b {
		return vk.Bool32(vk.True)
	}
	return vk.Bool32(vk.False)
}

func deviceFeatures(f ragengine.PhysicalDeviceFeatures) vk.PhysicalDeviceFeatures {
	return vk.PhysicalDeviceFeatures{
		GeometryShader:     bool32(f.GeometryShader),
		TessellationShader: bool32(f.TessellationShader),
		SamplerAnisotropy:  bool32(f.SamplerAnisotropy),
	}
}

// reportFlags translates a severity/category mask into debug report flags.
// Debug report has no categories of its own; performance messages are a
// separate warning bit.
func reportFlags(severities ragengine.Severity, categories ragengine.Category) vk.DebugReportFlags {
	var flags vk.DebugReportFlagBits
	if severities&ragengine.SeverityError != 0 {
		flags |= vk.DebugReportErrorBit
	}
	if severities&ragengine.SeverityWarning != 0 {
		flags |= vk.DebugReportWarningBit
		if categories&ragengine.CategoryPerformance != 0 {
			flags |= vk.DebugReportPerformanceWarningBit
		}
	}
	if severities&ragengine.SeverityInfo != 0 {
		flags |= vk.DebugReportInformationBit
	}
	if severities&ragengine.SeverityVerbose != 0 {
		flags |= vk.DebugReportDebugBit
	}
	return vk.DebugReportFlags(flags)
}

// classify picks the most severe bit set in flags.
func classify(flags vk.DebugReportFlags) (ragengine.Severity, ragengine.Category) {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return ragengine.SeverityError, ragengine.CategoryValidation
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		return ragengine.SeverityWarning, ragengine.CategoryValidation
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		return ragengine.SeverityWarning, ragengine.CategoryPerformance
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return ragengine.SeverityInfo, ragengine.CategoryGeneral
	default:
		return ragengine.SeverityVerbose, ragengine.CategoryGeneral
	}
}

func debugReportCreateInfo(info *ragengine.DebugMessengerCreateInfo, key unsafe.Pointer) *vk.DebugReportCallbackCreateInfo {
	return &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       reportFlags(info.Severities, info.Categories),
		PfnCallback: dispatchDebugReport,
		PUserData:   key,
	}
}

// chainDebugReport builds the C copy of the create info for an instance
// PNext chain. release frees it and must not run before vkCreateInstance
// returns.
func chainDebugReport(info *ragengine.DebugMessengerCreateInfo, key unsafe.Pointer) (next unsafe.Pointer, release func()) {
	ref, allocs := debugReportCreateInfo(info, key).PassRef()
	return unsafe.Pointer(ref), allocs.Free
}
