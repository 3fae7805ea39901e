package ragengine

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Opaque handles owned by a Driver implementation. The core never looks
// inside them; it only hands them back to the driver that issued them.
type (
	Instance       interface{}
	DebugMessenger interface{}
	PhysicalDevice interface{}
	Device         interface{}
	QueueHandle    interface{}
)

// Driver is the boundary to the graphics API. Every call is synchronous and
// either completes or fails before returning.
type Driver interface {
	// Version is the instance-level API version reported by the loader.
	Version() (Version, error)
	// InstanceLayers lists the names of the available instance layers.
	InstanceLayers() ([]string, error)
	// InstanceExtensions lists the names of the available instance extensions.
	InstanceExtensions() ([]string, error)
	CreateInstance(info *InstanceCreateInfo) (Instance, error)
	DestroyInstance(instance Instance)

	CreateDebugMessenger(instance Instance, info *DebugMessengerCreateInfo) (DebugMessenger, error)
	DestroyDebugMessenger(instance Instance, messenger DebugMessenger)

	// PhysicalDevices enumerates the physical devices in driver order.
	PhysicalDevices(instance Instance) ([]PhysicalDevice, error)
	PhysicalDeviceProperties(gpu PhysicalDevice) PhysicalDeviceProperties
	PhysicalDeviceFeatures(gpu PhysicalDevice) PhysicalDeviceFeatures
	// QueueFamilyProperties lists the queue families of gpu in index order.
	QueueFamilyProperties(gpu PhysicalDevice) []QueueFamilyProperties
	DeviceExtensions(gpu PhysicalDevice) ([]string, error)

	CreateDevice(gpu PhysicalDevice, info *DeviceCreateInfo) (Device, error)
	DeviceQueue(device Device, family, index uint32) QueueHandle
	DestroyDevice(device Device)
}

// Version is a packed API version in the Vulkan encoding.
type Version uint32

// MakeVersion packs major, minor and patch into a Version.
func MakeVersion(major, minor, patch uint32) Version {
	return Version(major<<22 | minor<<12 | patch)
}

func (v Version) Major() uint32 { return (uint32(v) >> 22) & 0x7f }
func (v Version) Minor() uint32 { return (uint32(v) >> 12) & 0x3ff }
func (v Version) Patch() uint32 { return uint32(v) & 0xfff }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// Semver returns v as a semantic version.
func (v Version) Semver() *semver.Version {
	return semver.New(uint64(v.Major()), uint64(v.Minor()), uint64(v.Patch()), "", "")
}

// AtLeast reports whether v is the same as or newer than min. The packed
// encoding orders the same way as major, minor, patch.
func (v Version) AtLeast(min Version) bool {
	return v >= min
}

// ParseVersion parses a "major.minor.patch" string. Missing components are zero.
func ParseVersion(s string) (Version, error) {
	sv, err := semver.NewVersion(s)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", s, err)
	}
	if sv.Major() > 0x7f || sv.Minor() > 0x3ff || sv.Patch() > 0xfff {
		return 0, fmt.Errorf("version %q does not fit the API version encoding", s)
	}
	return MakeVersion(uint32(sv.Major()), uint32(sv.Minor()), uint32(sv.Patch())), nil
}

// DeviceType is the class of a physical device.
type DeviceType uint32

const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

var deviceTypeNames = map[DeviceType]string{
	DeviceTypeOther:         "other",
	DeviceTypeIntegratedGPU: "integrated",
	DeviceTypeDiscreteGPU:   "discrete",
	DeviceTypeVirtualGPU:    "virtual",
	DeviceTypeCPU:           "cpu",
}

func (t DeviceType) String() string {
	if name, ok := deviceTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DeviceType(%d)", uint32(t))
}

// ParseDeviceType is the inverse of DeviceType.String.
func ParseDeviceType(name string) (DeviceType, error) {
	for t, n := range deviceTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown device type %q", name)
}

// QueueFlags describes the capabilities of a queue family.
type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

// Has reports whether every bit of want is set in f.
func (f QueueFlags) Has(want QueueFlags) bool {
	return f&want == want
}

// Severity of a driver diagnostic. Values are ordered so that a higher value
// is more severe, and they double as bits of a severity mask.
type Severity uint32

const (
	SeverityVerbose Severity = 0x0001
	SeverityInfo    Severity = 0x0010
	SeverityWarning Severity = 0x0100
	SeverityError   Severity = 0x1000

	SeverityAll = SeverityVerbose | SeverityInfo | SeverityWarning | SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityVerbose:
		return "verbose"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("Severity(%#x)", uint32(s))
}

// Category of a driver diagnostic; also usable as a mask.
type Category uint32

const (
	CategoryGeneral Category = 1 << iota
	CategoryValidation
	CategoryPerformance
)

func (c Category) String() string {
	switch c {
	case CategoryGeneral:
		return "general"
	case CategoryValidation:
		return "validation"
	case CategoryPerformance:
		return "performance"
	}
	return fmt.Sprintf("Category(%#x)", uint32(c))
}

// DiagnosticsCallback receives driver diagnostics. The return value asks the
// driver to abort the call that produced the message.
type DiagnosticsCallback func(severity Severity, category Category, message string) bool

// InstanceCreateFlags are passed through to instance creation.
type InstanceCreateFlags uint32

// InstanceCreateEnumeratePortability lets portability implementations show
// up in device enumeration.
const InstanceCreateEnumeratePortability InstanceCreateFlags = 0x00000001

// ApplicationInfo is the static identity handed to the driver.
type ApplicationInfo struct {
	AppName       string
	AppVersion    Version
	EngineName    string
	EngineVersion Version
	APIVersion    Version
}

type InstanceCreateInfo struct {
	Application ApplicationInfo
	Layers      []string
	Extensions  []string
	Flags       InstanceCreateFlags
	// Diagnostics, when set, is chained into the request so the driver
	// reports on instance creation itself.
	Diagnostics *DebugMessengerCreateInfo
}

type DebugMessengerCreateInfo struct {
	Severities Severity
	Categories Category
	Callback   DiagnosticsCallback
}

type PhysicalDeviceProperties struct {
	Name          string
	Type          DeviceType
	APIVersion    Version
	DriverVersion uint32
	VendorID      uint32
	DeviceID      uint32
}

// PhysicalDeviceFeatures is the subset of optional hardware features the
// bootstrap layer inspects or requests. The zero value requests nothing.
type PhysicalDeviceFeatures struct {
	GeometryShader     bool
	TessellationShader bool
	SamplerAnisotropy  bool
}

type QueueFamilyProperties struct {
	Flags QueueFlags
	Count uint32
}

type DeviceQueueCreateInfo struct {
	Family     uint32
	Priorities []float32
}

type DeviceCreateInfo struct {
	Queues     []DeviceQueueCreateInfo
	Layers     []string
	Extensions []string
	Features   PhysicalDeviceFeatures
}
