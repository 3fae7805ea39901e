package ragengine

import (
	"context"
	"log/slog"
)

// DiagnosticsBridge routes driver diagnostics into a logger. The driver calls
// Handle from its own thread; the bridge holds nothing but the logger, which
// is safe for concurrent use.
type DiagnosticsBridge struct {
	log *slog.Logger
}

// NewDiagnosticsBridge returns a bridge logging to log, or to the default
// logger when log is nil.
func NewDiagnosticsBridge(log *slog.Logger) *DiagnosticsBridge {
	return &DiagnosticsBridge{log: orDefault(log)}
}

// Handle logs one diagnostic and always returns false: diagnostics never
// abort the driver call that produced them.
func (b *DiagnosticsBridge) Handle(severity Severity, category Category, message string) bool {
	var level slog.Level
	switch {
	case severity >= SeverityError:
		level = slog.LevelError
	case severity >= SeverityWarning:
		level = slog.LevelWarn
	case severity >= SeverityInfo:
		level = slog.LevelDebug
	default:
		level = LevelTrace
	}
	b.log.Log(context.Background(), level, message,
		"source", "vulkan",
		"category", category.String(),
	)
	return false
}

// CreateInfo is the messenger configuration used both chained into
// instance creation and for the persistent registration.
func (b *DiagnosticsBridge) CreateInfo() *DebugMessengerCreateInfo {
	return &DebugMessengerCreateInfo{
		Severities: SeverityAll,
		Categories: CategoryGeneral | CategoryValidation | CategoryPerformance,
		Callback:   b.Handle,
	}
}

// RegisterDiagnostics attaches the bridge to instance. With diagnostics off
// it registers nothing and returns a nil messenger.
func RegisterDiagnostics(drv Driver, instance Instance, cfg *Config, bridge *DiagnosticsBridge) (DebugMessenger, error) {
	if !cfg.Diagnostics {
		return nil, nil
	}
	messenger, err := drv.CreateDebugMessenger(instance, bridge.CreateInfo())
	if err != nil {
		return nil, err
	}
	bridge.log.Debug("diagnostics bridge registered")
	return messenger, nil
}
