//go:build ragdebug

package ragengine

// DefaultDiagnostics is the diagnostics setting of DefaultConfig.
const DefaultDiagnostics = true
