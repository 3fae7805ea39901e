package ragengine

import "slices"

// Capability queries. These only read from the driver.

// HasLayer reports whether the named instance layer is installed.
func HasLayer(drv Driver, name string) (bool, error) {
	layers, err := drv.InstanceLayers()
	if err != nil {
		return false, err
	}
	return slices.Contains(layers, name), nil
}

// MissingInstanceExtensions returns the names in wanted that the driver does
// not report.
func MissingInstanceExtensions(drv Driver, wanted []string) ([]string, error) {
	actual, err := drv.InstanceExtensions()
	if err != nil {
		return nil, err
	}
	return missing(actual, wanted), nil
}

// MissingDeviceExtensions returns the names in wanted that gpu does not report.
func MissingDeviceExtensions(drv Driver, gpu PhysicalDevice, wanted []string) ([]string, error) {
	actual, err := drv.DeviceExtensions(gpu)
	if err != nil {
		return nil, err
	}
	return missing(actual, wanted), nil
}

// DeviceInfo is everything the capability query knows about one physical device.
type DeviceInfo struct {
	Index         int
	Handle        PhysicalDevice
	Properties    PhysicalDeviceProperties
	Features      PhysicalDeviceFeatures
	QueueFamilies []QueueFamilyProperties
	Extensions    []string
}

// DescribeDevices enumerates the physical devices of instance in driver order.
func DescribeDevices(drv Driver, instance Instance) ([]DeviceInfo, error) {
	gpus, err := drv.PhysicalDevices(instance)
	if err != nil {
		return nil, err
	}
	infos := make([]DeviceInfo, 0, len(gpus))
	for i, gpu := range gpus {
		exts, err := drv.DeviceExtensions(gpu)
		if err != nil {
			return nil, err
		}
		infos = append(infos, DeviceInfo{
			Index:         i,
			Handle:        gpu,
			Properties:    drv.PhysicalDeviceProperties(gpu),
			Features:      drv.PhysicalDeviceFeatures(gpu),
			QueueFamilies: drv.QueueFamilyProperties(gpu),
			Extensions:    exts,
		})
	}
	return infos, nil
}

func missing(actual, wanted []string) []string {
	var out []string
	for _, w := range wanted {
		if !slices.Contains(actual, w) {
			out = append(out, w)
		}
	}
	return out
}
