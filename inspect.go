package ragengine

import (
	"fmt"
	"log/slog"
)

// DeviceReport is the suitability verdict for one physical device.
type DeviceReport struct {
	DeviceInfo
	// Reason is nil when the device passes the predicate.
	Reason error
	// Selected marks the device SelectPhysicalDevice would pick.
	Selected bool
}

// Inspect creates a headless instance, reports every physical device against
// the configured suitability policy, and tears the instance down again.
func Inspect(drv Driver, cfg *Config, log *slog.Logger) (reports []DeviceReport, err error) {
	log = orDefault(log)

	suitable, err := DefaultSuitability(cfg.Device)
	if err != nil {
		return nil, err
	}

	bridge := NewDiagnosticsBridge(log.With("component", "diagnostics"))
	instance, err := CreateInstance(drv, Headless{}, cfg, bridge, log)
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	defer drv.DestroyInstance(instance)

	messenger, err := RegisterDiagnostics(drv, instance, cfg, bridge)
	if err != nil {
		return nil, fmt.Errorf("register diagnostics: %w", err)
	}
	if messenger != nil {
		defer drv.DestroyDebugMessenger(instance, messenger)
	}

	infos, err := DescribeDevices(drv, instance)
	if err != nil {
		return nil, fmt.Errorf("describe devices: %w", err)
	}

	selected := false
	for _, info := range infos {
		report := DeviceReport{DeviceInfo: info, Reason: suitable(drv, info.Handle)}
		if report.Reason == nil && !selected {
			report.Selected = true
			selected = true
		}
		reports = append(reports, report)
	}
	return reports, nil
}
