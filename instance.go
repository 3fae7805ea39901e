package ragengine

import (
	"fmt"
	"log/slog"
)

// DebugReportExtensionName is the diagnostics extension enabled together with
// the validation layer.
const DebugReportExtensionName = "VK_EXT_debug_report"

// CreateInstance negotiates layers and extensions and creates the instance.
// When cfg.Diagnostics is set the validation layer must be installed,
// otherwise ErrUnsupportedLayer is returned before the driver is asked to
// create anything. Driver failures are returned unchanged.
func CreateInstance(drv Driver, window Window, cfg *Config, bridge *DiagnosticsBridge, log *slog.Logger) (Instance, error) {
	log = orDefault(log)

	app, err := cfg.ApplicationInfo()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	if cfg.Diagnostics {
		ok, err := HasLayer(drv, cfg.ValidationLayer)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedLayer, cfg.ValidationLayer)
		}
	}

	extensions := append([]string(nil), window.RequiredInstanceExtensions()...)

	var flags InstanceCreateFlags
	portability, err := portabilityEnabled(drv, cfg, log)
	if err != nil {
		return nil, err
	}
	if portability {
		extensions = append(extensions,
			KhrGetPhysicalDeviceProperties2ExtensionName,
			KhrPortabilityEnumerationExtensionName,
		)
		flags |= InstanceCreateEnumeratePortability
	}

	if cfg.Diagnostics {
		extensions = append(extensions, DebugReportExtensionName)
	}

	if missing, err := MissingInstanceExtensions(drv, extensions); err != nil {
		log.Debug("instance extension query failed", "error", err)
	} else if len(missing) > 0 {
		log.Warn("requested instance extensions not reported by the driver", "missing", missing)
	}

	info := &InstanceCreateInfo{
		Application: app,
		Layers:      cfg.layers(),
		Extensions:  extensions,
		Flags:       flags,
	}
	debugInfo := bridge.CreateInfo()
	if cfg.Diagnostics {
		info.Diagnostics = debugInfo
	}

	log.Debug("creating instance",
		"app", app.AppName,
		"engine", app.EngineName,
		"api_version", app.APIVersion.String(),
		"layers", info.Layers,
		"extensions", info.Extensions,
	)
	instance, err := drv.CreateInstance(info)
	if err != nil {
		return nil, err
	}
	log.Info("instance created", "extensions", len(info.Extensions), "layers", len(info.Layers))
	return instance, nil
}
