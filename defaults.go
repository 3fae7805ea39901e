//go:build !ragdebug

package ragengine

// DefaultDiagnostics is the diagnostics setting of DefaultConfig. Build with
// -tags ragdebug to turn it on.
const DefaultDiagnostics = false
