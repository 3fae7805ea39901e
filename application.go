package ragengine

import (
	"fmt"
	"log/slog"
)

// Window is the part of the windowing system the bootstrap layer needs: the
// instance extensions required to present to it.
type Window interface {
	RequiredInstanceExtensions() []string
}

// Headless is a Window with no presentation requirements.
type Headless struct{}

func (Headless) RequiredInstanceExtensions() []string { return nil }

// State is the lifecycle stage of an App.
type State int

const (
	Uninitialized State = iota
	ConnectionReady
	DeviceSelected
	DeviceReady
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case ConnectionReady:
		return "ConnectionReady"
	case DeviceSelected:
		return "DeviceSelected"
	case DeviceReady:
		return "DeviceReady"
	case Destroyed:
		return "Destroyed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// App owns every driver object created during startup and releases them in
// reverse order: device, diagnostics messenger, instance.
type App struct {
	drv      Driver
	cfg      *Config
	log      *slog.Logger
	bridge   *DiagnosticsBridge
	suitable Suitability

	state     State
	instance  Instance
	messenger DebugMessenger
	gpu       PhysicalDevice
	indices   QueueFamilyIndices
	device    Device
	queue     Queue
}

// NewApp returns an uninitialized App. A nil cfg means DefaultConfig.
func NewApp(drv Driver, cfg *Config, log *slog.Logger) *App {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log = orDefault(log)
	return &App{
		drv:    drv,
		cfg:    cfg,
		log:    log,
		bridge: NewDiagnosticsBridge(log.With("component", "diagnostics")),
	}
}

// Create builds an App for window and brings it to DeviceReady.
func Create(drv Driver, window Window, cfg *Config, log *slog.Logger) (*App, error) {
	app := NewApp(drv, cfg, log)
	if err := app.Create(window); err != nil {
		return nil, err
	}
	return app, nil
}

// SetSuitability replaces the physical device predicate. It must be called
// before Create.
func (a *App) SetSuitability(s Suitability) {
	a.suitable = s
}

// Create runs instance creation, diagnostics registration, device selection
// and logical device creation in that order. On failure everything created
// so far is released and the App is left Uninitialized.
func (a *App) Create(window Window) (err error) {
	if a.state != Uninitialized {
		return fmt.Errorf("create called in state %s", a.state)
	}
	defer func() {
		if err != nil {
			a.release()
			a.state = Uninitialized
		}
	}()

	suitable := a.suitable
	if suitable == nil {
		if suitable, err = DefaultSuitability(a.cfg.Device); err != nil {
			return err
		}
	}

	if a.instance, err = CreateInstance(a.drv, window, a.cfg, a.bridge, a.log); err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	if a.messenger, err = RegisterDiagnostics(a.drv, a.instance, a.cfg, a.bridge); err != nil {
		return fmt.Errorf("register diagnostics: %w", err)
	}
	a.state = ConnectionReady

	if a.gpu, err = SelectPhysicalDevice(a.drv, a.instance, suitable, a.log); err != nil {
		return fmt.Errorf("select physical device: %w", err)
	}
	if a.indices, err = ResolveQueueFamilies(a.drv, a.gpu); err != nil {
		return fmt.Errorf("resolve queue families: %w", err)
	}
	a.state = DeviceSelected

	if a.device, a.queue, err = CreateLogicalDevice(a.drv, a.gpu, a.indices, a.cfg, a.log); err != nil {
		return fmt.Errorf("create logical device: %w", err)
	}
	a.state = DeviceReady
	return nil
}

// RenderFrame renders one frame to window. There is no rendering yet, so it
// only checks that the App is ready.
func (a *App) RenderFrame(window Window) error {
	if a.state != DeviceReady {
		return fmt.Errorf("%w: %s", ErrNotReady, a.state)
	}
	return nil
}

// Destroy releases the device, the diagnostics messenger and the instance, in
// that order. Calling it again does nothing.
func (a *App) Destroy() {
	if a.state == Destroyed {
		return
	}
	a.release()
	a.state = Destroyed
	a.log.Info("application destroyed")
}

func (a *App) release() {
	if a.device != nil {
		a.drv.DestroyDevice(a.device)
		a.device = nil
		a.queue = Queue{}
	}
	a.gpu = nil
	if a.messenger != nil {
		a.drv.DestroyDebugMessenger(a.instance, a.messenger)
		a.messenger = nil
	}
	if a.instance != nil {
		a.drv.DestroyInstance(a.instance)
		a.instance = nil
	}
}

func (a *App) State() State { return a.state }
func (a *App) Config() *Config { return a.cfg }
func (a *App) Instance() Instance { return a.instance }
func (a *App) PhysicalDevice() PhysicalDevice { return a.gpu }
func (a *App) QueueFamilies() QueueFamilyIndices { return a.indices }
func (a *App) Device() Device { return a.device }
func (a *App) GraphicsQueue() Queue { return a.queue }
func (a *App) DiagnosticsEnabled() bool { return a.messenger != nil }
