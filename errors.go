package ragengine

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is the class of errors caused by a startup
	// configuration the driver cannot satisfy.
	ErrConfiguration = errors.New("configuration error")
	// ErrUnsupportedLayer is returned when diagnostics are requested but the
	// validation layer is not installed.
	ErrUnsupportedLayer = fmt.Errorf("%w: validation layers are not supported", ErrConfiguration)
	// ErrNoSuitableDevice is returned when no physical device passes the
	// suitability predicate.
	ErrNoSuitableDevice = errors.New("no suitable physical device found")
	// ErrMissingQueueFamily is returned when a device has no queue family
	// with a required capability.
	ErrMissingQueueFamily = errors.New("missing required queue family")
	// ErrDriverCreationFailed matches every *DriverError.
	ErrDriverCreationFailed = errors.New("driver creation failed")
	// ErrNotReady is returned by operations that need a fully constructed app.
	ErrNotReady = errors.New("application is not ready")
)

// DriverError carries the raw result code of a failed driver call.
type DriverError struct {
	Op     string
	Result int32
	// Err is the binding's own description of Result, if any.
	Err error
}

func (e *DriverError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vulkan error: %s: %v (%d)", e.Op, e.Err, e.Result)
	}
	return fmt.Sprintf("vulkan error: %s: result %d", e.Op, e.Result)
}

func (e *DriverError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDriverCreationFailed) match any driver failure.
func (e *DriverError) Is(target error) bool {
	return target == ErrDriverCreationFailed
}

// SuitabilityError explains why a physical device was rejected.
type SuitabilityError struct {
	Device string
	Reason error
}

func (e *SuitabilityError) Error() string {
	return fmt.Sprintf("physical device %q is not suitable: %v", e.Device, e.Reason)
}

func (e *SuitabilityError) Unwrap() error { return e.Reason }

var (
	errDeviceType     = errors.New("device type is not allowed")
	errGeometryShader = errors.New("missing geometry shader support")
)
