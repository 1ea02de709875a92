package logger

// Diagnostics adapts the package-level structured logger to any
// consumer that wants a Warn(event string, fields map[string]any)
// sink — satisfies internal/bits.Diagnostics without either package
// importing the other.
type Diagnostics struct{}

// NewDiagnostics returns a Diagnostics backed by the package logger.
func NewDiagnostics() Diagnostics { return Diagnostics{} }

func (Diagnostics) Warn(event string, fields map[string]any) {
	args := make([]any, 0, 2+2*len(fields))
	args = append(args, "event", event)
	for k, v := range fields {
		args = append(args, k, v)
	}
	Warn("bits diagnostic", args...)
}
