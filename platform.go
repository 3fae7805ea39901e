package ragengine

import (
	"fmt"
	"log/slog"
)

// Portability extension names.
const (
	KhrGetPhysicalDeviceProperties2ExtensionName = "VK_KHR_get_physical_device_properties2"
	KhrPortabilityEnumerationExtensionName       = "VK_KHR_portability_enumeration"
	KhrPortabilitySubsetExtensionName            = "VK_KHR_portability_subset"
)

// platformNeedsPortability reports whether goos only reaches Vulkan through a
// portability layer such as MoltenVK.
func platformNeedsPortability(goos string) bool {
	return goos == "darwin" || goos == "ios"
}

// portabilityEnabled decides whether portability extensions are requested.
// The loader version is only queried on platforms that need portability.
// Both the decision and its inputs are logged.
func portabilityEnabled(drv Driver, cfg *Config, log *slog.Logger) (bool, error) {
	if !platformNeedsPortability(cfg.Platform) {
		log.Info("portability extensions not required", "platform", cfg.Platform)
		return false, nil
	}

	min, err := cfg.portabilityMinVersion()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	version, err := drv.Version()
	if err != nil {
		return false, err
	}

	enabled := version.AtLeast(min)
	if enabled {
		log.Info("enabling portability extensions",
			"platform", cfg.Platform,
			"loader_version", version.String(),
			"min_version", min.String(),
		)
	} else {
		log.Info("portability extensions not enabled, loader too old",
			"platform", cfg.Platform,
			"loader_version", version.String(),
			"min_version", min.String(),
		)
	}
	return enabled, nil
}
