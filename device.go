package ragengine

import (
	"fmt"
	"log/slog"
)

// Suitability returns nil if gpu may be used, or the reason it may not.
type Suitability func(drv Driver, gpu PhysicalDevice) error

// DefaultSuitability builds the predicate described by policy. Criteria are
// checked in order (device type, geometry shader, queue families) and the
// first failure rejects the device.
func DefaultSuitability(policy DeviceConfig) (Suitability, error) {
	cfg := Config{Device: policy}
	allowed, err := cfg.allowedDeviceTypes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return func(drv Driver, gpu PhysicalDevice) error {
		props := drv.PhysicalDeviceProperties(gpu)
		if !deviceTypeAllowed(allowed, props.Type) {
			return &SuitabilityError{Device: props.Name, Reason: fmt.Errorf("%w: %s", errDeviceType, props.Type)}
		}
		if policy.RequireGeometryShader && !drv.PhysicalDeviceFeatures(gpu).GeometryShader {
			return &SuitabilityError{Device: props.Name, Reason: errGeometryShader}
		}
		if _, err := ResolveQueueFamilies(drv, gpu); err != nil {
			return &SuitabilityError{Device: props.Name, Reason: err}
		}
		return nil
	}, nil
}

func deviceTypeAllowed(allowed []DeviceType, t DeviceType) bool {
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}

// SelectPhysicalDevice returns the first device, in enumeration order, that
// passes suitable. Rejected devices are logged and skipped.
func SelectPhysicalDevice(drv Driver, instance Instance, suitable Suitability, log *slog.Logger) (PhysicalDevice, error) {
	log = orDefault(log)

	gpus, err := drv.PhysicalDevices(instance)
	if err != nil {
		return nil, err
	}
	for i, gpu := range gpus {
		name := drv.PhysicalDeviceProperties(gpu).Name
		if err := suitable(drv, gpu); err != nil {
			log.Warn("skipping physical device", "index", i, "name", name, "reason", err)
			continue
		}
		log.Info("selected physical device", "index", i, "name", name)
		return gpu, nil
	}
	return nil, fmt.Errorf("%w (%d candidates)", ErrNoSuitableDevice, len(gpus))
}

// CreateLogicalDevice creates the device on gpu with one graphics queue and
// returns that queue. No optional features are enabled.
func CreateLogicalDevice(drv Driver, gpu PhysicalDevice, indices QueueFamilyIndices, cfg *Config, log *slog.Logger) (Device, Queue, error) {
	log = orDefault(log)

	// Device creation is a separate driver call, so the portability
	// condition is evaluated again here.
	var extensions []string
	portability, err := portabilityEnabled(drv, cfg, log)
	if err != nil {
		return nil, Queue{}, err
	}
	if portability {
		extensions = append(extensions, KhrPortabilitySubsetExtensionName)
	}

	if len(extensions) > 0 {
		if missing, err := MissingDeviceExtensions(drv, gpu, extensions); err != nil {
			log.Debug("device extension query failed", "error", err)
		} else if len(missing) > 0 {
			log.Warn("requested device extensions not reported by the device", "missing", missing)
		}
	}

	info := &DeviceCreateInfo{
		Queues:     indices.queueCreateInfos(),
		Layers:     cfg.layers(),
		Extensions: extensions,
	}
	device, err := drv.CreateDevice(gpu, info)
	if err != nil {
		return nil, Queue{}, err
	}

	queue := Queue{
		Handle: drv.DeviceQueue(device, indices.Graphics, 0),
		Family: indices.Graphics,
		Index:  0,
	}
	log.Info("logical device created", "graphics_family", indices.Graphics, "extensions", extensions)
	return device, queue, nil
}
