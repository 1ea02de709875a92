package bits

// Diagnostics receives locally-recovered decode failures and warnings —
// events that never escape the core as an error. The CLI wires its
// structured logger here (internal/logger); tests wire a recording stub.
type Diagnostics interface {
	Warn(event string, fields map[string]any)
}

// NopDiagnostics discards every event. It is the default when a caller
// constructs an Orchestrator without one.
type NopDiagnostics struct{}

func (NopDiagnostics) Warn(string, map[string]any) {}
