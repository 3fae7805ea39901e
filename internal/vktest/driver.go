// Package vktest provides a scriptable, recording ragengine.Driver for tests.
package vktest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/andewx/ragengine"
)

// Handles issued by Driver.
type (
	InstanceHandle  struct{ ID int }
	MessengerHandle struct{ ID int }
	GPUHandle       int
	DeviceHandle    struct{ GPU GPUHandle }
	QueueHandle     struct{ Family, Index uint32 }
)

// GPU describes one fake physical device.
type GPU struct {
	Properties    ragengine.PhysicalDeviceProperties
	Features      ragengine.PhysicalDeviceFeatures
	QueueFamilies []ragengine.QueueFamilyProperties
	Extensions    []string
}

// DiscreteGPU is a device every default policy accepts: discrete, with
// geometry shaders and a single graphics family.
func DiscreteGPU(name string) GPU {
	return GPU{
		Properties: ragengine.PhysicalDeviceProperties{
			Name:       name,
			Type:       ragengine.DeviceTypeDiscreteGPU,
			APIVersion: ragengine.MakeVersion(1, 3, 250),
		},
		Features: ragengine.PhysicalDeviceFeatures{GeometryShader: true},
		QueueFamilies: []ragengine.QueueFamilyProperties{
			{Flags: ragengine.QueueGraphics | ragengine.QueueCompute | ragengine.QueueTransfer, Count: 16},
		},
		Extensions: []string{"VK_KHR_swapchain"},
	}
}

// IntegratedGPU is DiscreteGPU with the integrated device class.
func IntegratedGPU(name string) GPU {
	gpu := DiscreteGPU(name)
	gpu.Properties.Type = ragengine.DeviceTypeIntegratedGPU
	return gpu
}

// Driver implements ragengine.Driver in memory and records every call.
type Driver struct {
	APIVersion ragengine.Version
	Layers     []string
	Extensions []string
	GPUs       []GPU

	VersionErr         error
	CreateInstanceErr  error
	CreateMessengerErr error
	EnumerateErr       error
	ExtensionsErr      error
	CreateDeviceErr    error

	mu            sync.Mutex
	calls         []string
	nextID        int
	instanceInfo  *ragengine.InstanceCreateInfo
	messengerInfo *ragengine.DebugMessengerCreateInfo
	deviceInfo    *ragengine.DeviceCreateInfo
	live          map[string]bool
}

var _ ragengine.Driver = (*Driver)(nil)

// NewDriver returns a loader at version 1.3.250 with the validation layer
// installed and the given devices.
func NewDriver(gpus ...GPU) *Driver {
	return &Driver{
		APIVersion: ragengine.MakeVersion(1, 3, 250),
		Layers:     []string{ragengine.ValidationLayerName},
		Extensions: []string{
			"VK_KHR_surface",
			ragengine.DebugReportExtensionName,
			ragengine.KhrGetPhysicalDeviceProperties2ExtensionName,
			ragengine.KhrPortabilityEnumerationExtensionName,
		},
		GPUs: gpus,
	}
}

func (d *Driver) record(call string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, call)
}

// Calls returns the names of the methods called so far, in order.
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// Count returns how many times method was called.
func (d *Driver) Count(method string) int {
	n := 0
	for _, c := range d.Calls() {
		if c == method {
			n++
		}
	}
	return n
}

// Lifecycle returns only the Create* and Destroy* calls, in order.
func (d *Driver) Lifecycle() []string {
	var out []string
	for _, c := range d.Calls() {
		if strings.HasPrefix(c, "Create") || strings.HasPrefix(c, "Destroy") {
			out = append(out, c)
		}
	}
	return out
}

// Live reports the driver objects created and not yet destroyed.
func (d *Driver) Live() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	for k, ok := range d.live {
		if ok {
			out = append(out, k)
		}
	}
	return out
}

func (d *Driver) InstanceInfo() *ragengine.InstanceCreateInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.instanceInfo
}

func (d *Driver) MessengerInfo() *ragengine.DebugMessengerCreateInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.messengerInfo
}

func (d *Driver) DeviceInfo() *ragengine.DeviceCreateInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deviceInfo
}

func (d *Driver) track(key string, alive bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.live == nil {
		d.live = map[string]bool{}
	}
	if alive {
		d.live[key] = true
	} else {
		delete(d.live, key)
	}
}

func (d *Driver) id() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	return d.nextID
}

func (d *Driver) Version() (ragengine.Version, error) {
	d.record("Version")
	if d.VersionErr != nil {
		return 0, d.VersionErr
	}
	return d.APIVersion, nil
}

func (d *Driver) InstanceLayers() ([]string, error) {
	d.record("InstanceLayers")
	return append([]string(nil), d.Layers...), nil
}

func (d *Driver) InstanceExtensions() ([]string, error) {
	d.record("InstanceExtensions")
	if d.ExtensionsErr != nil {
		return nil, d.ExtensionsErr
	}
	return append([]string(nil), d.Extensions...), nil
}

func (d *Driver) CreateInstance(info *ragengine.InstanceCreateInfo) (ragengine.Instance, error) {
	d.record("CreateInstance")
	d.mu.Lock()
	d.instanceInfo = info
	d.mu.Unlock()
	if d.CreateInstanceErr != nil {
		return nil, d.CreateInstanceErr
	}
	h := InstanceHandle{ID: d.id()}
	d.track(fmt.Sprint("instance:", h.ID), true)
	return h, nil
}

func (d *Driver) DestroyInstance(instance ragengine.Instance) {
	d.record("DestroyInstance")
	d.track(fmt.Sprint("instance:", instance.(InstanceHandle).ID), false)
}

func (d *Driver) CreateDebugMessenger(instance ragengine.Instance, info *ragengine.DebugMessengerCreateInfo) (ragengine.DebugMessenger, error) {
	d.record("CreateDebugMessenger")
	d.mu.Lock()
	d.messengerInfo = info
	d.mu.Unlock()
	if d.CreateMessengerErr != nil {
		return nil, d.CreateMessengerErr
	}
	h := MessengerHandle{ID: d.id()}
	d.track(fmt.Sprint("messenger:", h.ID), true)
	return h, nil
}

func (d *Driver) DestroyDebugMessenger(instance ragengine.Instance, messenger ragengine.DebugMessenger) {
	d.record("DestroyDebugMessenger")
	d.track(fmt.Sprint("messenger:", messenger.(MessengerHandle).ID), false)
}

func (d *Driver) PhysicalDevices(instance ragengine.Instance) ([]ragengine.PhysicalDevice, error) {
	d.record("PhysicalDevices")
	if d.EnumerateErr != nil {
		return nil, d.EnumerateErr
	}
	out := make([]ragengine.PhysicalDevice, len(d.GPUs))
	for i := range d.GPUs {
		out[i] = GPUHandle(i)
	}
	return out, nil
}

func (d *Driver) gpu(h ragengine.PhysicalDevice) GPU {
	return d.GPUs[int(h.(GPUHandle))]
}

func (d *Driver) PhysicalDeviceProperties(gpu ragengine.PhysicalDevice) ragengine.PhysicalDeviceProperties {
	d.record("PhysicalDeviceProperties")
	return d.gpu(gpu).Properties
}

func (d *Driver) PhysicalDeviceFeatures(gpu ragengine.PhysicalDevice) ragengine.PhysicalDeviceFeatures {
	d.record("PhysicalDeviceFeatures")
	return d.gpu(gpu).Features
}

func (d *Driver) QueueFamilyProperties(gpu ragengine.PhysicalDevice) []ragengine.QueueFamilyProperties {
	d.record("QueueFamilyProperties")
	return append([]ragengine.QueueFamilyProperties(nil), d.gpu(gpu).QueueFamilies...)
}

func (d *Driver) DeviceExtensions(gpu ragengine.PhysicalDevice) ([]string, error) {
	d.record("DeviceExtensions")
	if d.ExtensionsErr != nil {
		return nil, d.ExtensionsErr
	}
	return append([]string(nil), d.gpu(gpu).Extensions...), nil
}

func (d *Driver) CreateDevice(gpu ragengine.PhysicalDevice, info *ragengine.DeviceCreateInfo) (ragengine.Device, error) {
	d.record("CreateDevice")
	d.mu.Lock()
	d.deviceInfo = info
	d.mu.Unlock()
	if d.CreateDeviceErr != nil {
		return nil, d.CreateDeviceErr
	}
	h := DeviceHandle{GPU: gpu.(GPUHandle)}
	d.track(fmt.Sprint("device:", int(h.GPU)), true)
	return h, nil
}

func (d *Driver) DeviceQueue(device ragengine.Device, family, index uint32) ragengine.QueueHandle {
	d.record("DeviceQueue")
	return QueueHandle{Family: family, Index: index}
}

func (d *Driver) DestroyDevice(device ragengine.Device) {
	d.record("DestroyDevice")
	d.track(fmt.Sprint("device:", int(device.(DeviceHandle).GPU)), false)
}
