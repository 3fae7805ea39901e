package ragengine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// ValidationLayerName is the Khronos validation layer.
	ValidationLayerName = "VK_LAYER_KHRONOS_validation"
	// DefaultPortabilityMinVersion is the first loader version that hides
	// portability drivers unless they are asked for explicitly.
	DefaultPortabilityMinVersion = "1.3.216"
)

// Config is the startup configuration of an App. It is read once, before
// instance creation, and never changes afterwards.
type Config struct {
	Identity Identity `yaml:"identity" toml:"identity"`

	// Diagnostics enables the validation layer, the diagnostics extension
	// and the diagnostics bridge.
	Diagnostics     bool   `yaml:"diagnostics" toml:"diagnostics"`
	ValidationLayer string `yaml:"validation_layer" toml:"validation_layer"`

	// PortabilityMinVersion is the loader version from which portability
	// extensions are requested on platforms that need them.
	PortabilityMinVersion string `yaml:"portability_min_version" toml:"portability_min_version"`
	// Platform is a GOOS value; defaults to the running one.
	Platform string `yaml:"platform" toml:"platform"`

	Device DeviceConfig `yaml:"device" toml:"device"`
	Window WindowConfig `yaml:"window" toml:"window"`
	Log    LogConfig    `yaml:"log" toml:"log"`
}

// Identity names the application and engine to the driver. Versions are
// "major.minor.patch" strings.
type Identity struct {
	AppName       string `yaml:"app_name" toml:"app_name"`
	AppVersion    string `yaml:"app_version" toml:"app_version"`
	EngineName    string `yaml:"engine_name" toml:"engine_name"`
	EngineVersion string `yaml:"engine_version" toml:"engine_version"`
	APIVersion    string `yaml:"api_version" toml:"api_version"`
}

// DeviceConfig is the physical device suitability policy.
type DeviceConfig struct {
	// AllowedTypes lists acceptable device classes by name
	// (discrete, integrated, virtual, cpu, other).
	AllowedTypes          []string `yaml:"allowed_types" toml:"allowed_types"`
	RequireGeometryShader bool     `yaml:"require_geometry_shader" toml:"require_geometry_shader"`
}

type WindowConfig struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Identity: Identity{
			AppName:       "My Game",
			AppVersion:    "1.1.0",
			EngineName:    "RAGEngine",
			EngineVersion: "1.1.0",
			APIVersion:    "1.4.309",
		},
		Diagnostics:           DefaultDiagnostics,
		ValidationLayer:       ValidationLayerName,
		PortabilityMinVersion: DefaultPortabilityMinVersion,
		Platform:              runtime.GOOS,
		Device: DeviceConfig{
			AllowedTypes:          []string{DeviceTypeDiscreteGPU.String()},
			RequireGeometryShader: true,
		},
		Window: WindowConfig{
			Title:  "",
			Width:  800,
			Height: 600,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig reads a YAML or TOML file, chosen by extension, over the
// defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field that is parsed later during startup, so that
// a bad file fails before the driver is touched.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.ApplicationInfo(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.portabilityMinVersion(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.allowedDeviceTypes(); err != nil {
		errs = append(errs, err)
	}
	if c.Diagnostics && c.ValidationLayer == "" {
		errs = append(errs, errors.New("diagnostics enabled without a validation layer"))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfiguration, errors.Join(errs...))
	}
	return nil
}

// ApplicationInfo parses the identity into the form handed to the driver.
func (c *Config) ApplicationInfo() (ApplicationInfo, error) {
	info := ApplicationInfo{
		AppName:    c.Identity.AppName,
		EngineName: c.Identity.EngineName,
	}
	var err error
	if info.AppVersion, err = ParseVersion(c.Identity.AppVersion); err != nil {
		return info, fmt.Errorf("app_version: %w", err)
	}
	if info.EngineVersion, err = ParseVersion(c.Identity.EngineVersion); err != nil {
		return info, fmt.Errorf("engine_version: %w", err)
	}
	if info.APIVersion, err = ParseVersion(c.Identity.APIVersion); err != nil {
		return info, fmt.Errorf("api_version: %w", err)
	}
	return info, nil
}

func (c *Config) portabilityMinVersion() (Version, error) {
	v, err := ParseVersion(c.PortabilityMinVersion)
	if err != nil {
		return 0, fmt.Errorf("portability_min_version: %w", err)
	}
	return v, nil
}

func (c *Config) allowedDeviceTypes() ([]DeviceType, error) {
	if len(c.Device.AllowedTypes) == 0 {
		return nil, errors.New("device.allowed_types: at least one device type is required")
	}
	types := make([]DeviceType, 0, len(c.Device.AllowedTypes))
	for _, name := range c.Device.AllowedTypes {
		t, err := ParseDeviceType(name)
		if err != nil {
			return nil, fmt.Errorf("device.allowed_types: %w", err)
		}
		types = append(types, t)
	}
	return types, nil
}

// layers is the layer list shared by instance and device creation.
func (c *Config) layers() []string {
	if c.Diagnostics {
		return []string{c.ValidationLayer}
	}
	return nil
}
