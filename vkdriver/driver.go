// Package vkdriver implements ragengine.Driver on top of vulkan-go.
package vkdriver

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/andewx/ragengine"
	vk "github.com/vulkan-go/vulkan"
)

// procAddr is the loader's vkGetInstanceProcAddr, kept for the entry points
// vulkan-go does not wrap.
var procAddr unsafe.Pointer

// Init loads the system Vulkan loader.
func Init() error {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return fmt.Errorf("vulkan loader not found: %w", err)
	}
	procAddr = loaderProcAddr()
	return vk.Init()
}

// InitWithProcAddr initializes the bindings from a vkGetInstanceProcAddr
// pointer, such as the one glfw exposes.
func InitWithProcAddr(getProcAddr unsafe.Pointer) error {
	if getProcAddr == nil {
		return errors.New("vulkan error: nil vkGetInstanceProcAddr")
	}
	vk.SetGetInstanceProcAddr(getProcAddr)
	procAddr = getProcAddr
	return vk.Init()
}

// Driver talks to the real Vulkan loader. Init or InitWithProcAddr must have
// succeeded before New is called.
type Driver struct {
	getProcAddr unsafe.Pointer

	mu sync.Mutex
	// Callback keys of the diagnostics chained into each instance and of
	// each debug report callback, released on destroy.
	chained map[vk.Instance]unsafe.Pointer
	reports map[vk.DebugReportCallback]unsafe.Pointer
}

var _ ragengine.Driver = (*Driver)(nil)

func New() *Driver {
	return &Driver{
		getProcAddr: procAddr,
		chained:     make(map[vk.Instance]unsafe.Pointer),
		reports:     make(map[vk.DebugReportCallback]unsafe.Pointer),
	}
}

// Version reports the loader version. Loaders without
// vkEnumerateInstanceVersion, or a driver built without a proc address,
// report 1.0.0.
func (d *Driver) Version() (ragengine.Version, error) {
	version, ret := instanceVersion(d.getProcAddr)
	if isError(ret) {
		return 0, newError("vkEnumerateInstanceVersion", ret)
	}
	return ragengine.Version(version), nil
}

func (d *Driver) InstanceLayers() (names []string, err error) {
	var count uint32
	ret := vk.EnumerateInstanceLayerProperties(&count, nil)
	if isError(ret) {
		return nil, newError("vkEnumerateInstanceLayerProperties", ret)
	}
	list := make([]vk.LayerProperties, count)
	ret = vk.EnumerateInstanceLayerProperties(&count, list)
	if isError(ret) {
		return nil, newError("vkEnumerateInstanceLayerProperties", ret)
	}
	for _, layer := range list {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

func (d *Driver) InstanceExtensions() (names []string, err error) {
	var count uint32
	ret := vk.EnumerateInstanceExtensionProperties("", &count, nil)
	if isError(ret) {
		return nil, newError("vkEnumerateInstanceExtensionProperties", ret)
	}
	list := make([]vk.ExtensionProperties, count)
	ret = vk.EnumerateInstanceExtensionProperties("", &count, list)
	if isError(ret) {
		return nil, newError("vkEnumerateInstanceExtensionProperties", ret)
	}
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

func (d *Driver) CreateInstance(info *ragengine.InstanceCreateInfo) (ragengine.Instance, error) {
	layers := safeStrings(info.Layers)
	extensions := safeStrings(info.Extensions)

	createInfo := vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			PApplicationName:   safeString(info.Application.AppName),
			ApplicationVersion: uint32(info.Application.AppVersion),
			PEngineName:        safeString(info.Application.EngineName),
			EngineVersion:      uint32(info.Application.EngineVersion),
			ApiVersion:         uint32(info.Application.APIVersion),
		},
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		Flags:                   vk.InstanceCreateFlags(info.Flags),
	}
	var key unsafe.Pointer
	if info.Diagnostics != nil {
		// Chained so the debug report also covers vkCreateInstance itself.
		key = registerCallback(info.Diagnostics.Callback)
		next, release := chainDebugReport(info.Diagnostics, key)
		defer release()
		createInfo.PNext = next
	}

	var instance vk.Instance
	ret := vk.CreateInstance(&createInfo, nil, &instance)
	if isError(ret) {
		unregisterCallback(key)
		return nil, newError("vkCreateInstance", ret)
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		unregisterCallback(key)
		return nil, fmt.Errorf("vulkan error: loading instance functions: %w", err)
	}
	if key != nil {
		d.mu.Lock()
		d.chained[instance] = key
		d.mu.Unlock()
	}
	return instance, nil
}

func (d *Driver) DestroyInstance(instance ragengine.Instance) {
	handle := instance.(vk.Instance)
	vk.DestroyInstance(handle, nil)

	d.mu.Lock()
	key := d.chained[handle]
	delete(d.chained, handle)
	d.mu.Unlock()
	unregisterCallback(key)
}

func (d *Driver) CreateDebugMessenger(instance ragengine.Instance, info *ragengine.DebugMessengerCreateInfo) (ragengine.DebugMessenger, error) {
	key := registerCallback(info.Callback)
	var callback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(instance.(vk.Instance), debugReportCreateInfo(info, key), nil, &callback)
	if isError(ret) {
		unregisterCallback(key)
		return nil, newError("vkCreateDebugReportCallbackEXT", ret)
	}
	d.mu.Lock()
	d.reports[callback] = key
	d.mu.Unlock()
	return callback, nil
}

func (d *Driver) DestroyDebugMessenger(instance ragengine.Instance, messenger ragengine.DebugMessenger) {
	callback := messenger.(vk.DebugReportCallback)
	if callback == vk.NullDebugReportCallback {
		return
	}
	vk.DestroyDebugReportCallback(instance.(vk.Instance), callback, nil)

	d.mu.Lock()
	key := d.reports[callback]
	delete(d.reports, callback)
	d.mu.Unlock()
	unregisterCallback(key)
}

func (d *Driver) PhysicalDevices(instance ragengine.Instance) ([]ragengine.PhysicalDevice, error) {
	var gpuCount uint32
	ret := vk.EnumeratePhysicalDevices(instance.(vk.Instance), &gpuCount, nil)
	if isError(ret) {
		return nil, newError("vkEnumeratePhysicalDevices", ret)
	}
	gpus := make([]vk.PhysicalDevice, gpuCount)
	ret = vk.EnumeratePhysicalDevices(instance.(vk.Instance), &gpuCount, gpus)
	if isError(ret) {
		return nil, newError("vkEnumeratePhysicalDevices", ret)
	}
	out := make([]ragengine.PhysicalDevice, 0, gpuCount)
	for _, gpu := range gpus[:gpuCount] {
		out = append(out, gpu)
	}
	return out, nil
}

func (d *Driver) PhysicalDeviceProperties(gpu ragengine.PhysicalDevice) ragengine.PhysicalDeviceProperties {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpu.(vk.PhysicalDevice), &props)
	props.Deref()
	return ragengine.PhysicalDeviceProperties{
		Name:          vk.ToString(props.DeviceName[:]),
		Type:          deviceType(props.DeviceType),
		APIVersion:    ragengine.Version(props.ApiVersion),
		DriverVersion: props.DriverVersion,
		VendorID:      props.VendorID,
		DeviceID:      props.DeviceID,
	}
}

func (d *Driver) PhysicalDeviceFeatures(gpu ragengine.PhysicalDevice) ragengine.PhysicalDeviceFeatures {
	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(gpu.(vk.PhysicalDevice), &features)
	features.Deref()
	return ragengine.PhysicalDeviceFeatures{
		GeometryShader:     features.GeometryShader == vk.True,
		TessellationShader: features.TessellationShader == vk.True,
		SamplerAnisotropy:  features.SamplerAnisotropy == vk.True,
	}
}

func (d *Driver) QueueFamilyProperties(gpu ragengine.PhysicalDevice) []ragengine.QueueFamilyProperties {
	var queueCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu.(vk.PhysicalDevice), &queueCount, nil)
	queueProperties := make([]vk.QueueFamilyProperties, queueCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu.(vk.PhysicalDevice), &queueCount, queueProperties)

	families := make([]ragengine.QueueFamilyProperties, 0, queueCount)
	for i := uint32(0); i < queueCount; i++ {
		queueProperties[i].Deref()
		families = append(families, ragengine.QueueFamilyProperties{
			Flags: queueFlags(queueProperties[i].QueueFlags),
			Count: queueProperties[i].QueueCount,
		})
	}
	return families
}

func (d *Driver) DeviceExtensions(gpu ragengine.PhysicalDevice) (names []string, err error) {
	var count uint32
	ret := vk.EnumerateDeviceExtensionProperties(gpu.(vk.PhysicalDevice), "", &count, nil)
	if isError(ret) {
		return nil, newError("vkEnumerateDeviceExtensionProperties", ret)
	}
	list := make([]vk.ExtensionProperties, count)
	ret = vk.EnumerateDeviceExtensionProperties(gpu.(vk.PhysicalDevice), "", &count, list)
	if isError(ret) {
		return nil, newError("vkEnumerateDeviceExtensionProperties", ret)
	}
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

func (d *Driver) CreateDevice(gpu ragengine.PhysicalDevice, info *ragengine.DeviceCreateInfo) (ragengine.Device, error) {
	queueInfos := make([]vk.DeviceQueueCreateInfo, 0, len(info.Queues))
	for _, q := range info.Queues {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: q.Family,
			QueueCount:       uint32(len(q.Priorities)),
			PQueuePriorities: q.Priorities,
		})
	}
	layers := safeStrings(info.Layers)
	extensions := safeStrings(info.Extensions)

	var device vk.Device
	ret := vk.CreateDevice(gpu.(vk.PhysicalDevice), &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{deviceFeatures(info.Features)},
	}, nil, &device)
	if isError(ret) {
		return nil, newError("vkCreateDevice", ret)
	}
	return device, nil
}

func (d *Driver) DeviceQueue(device ragengine.Device, family, index uint32) ragengine.QueueHandle {
	var queue vk.Queue
	vk.GetDeviceQueue(device.(vk.Device), family, index, &queue)
	return queue
}

func (d *Driver) DestroyDevice(device ragengine.Device) {
	dev := device.(vk.Device)
	vk.DeviceWaitIdle(dev)
	vk.DestroyDevice(dev, nil)
}
