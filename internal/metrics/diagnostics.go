package metrics

// warnSink is the minimal interface internal/bits.Diagnostics requires;
// declared locally so this package does not import internal/bits.
type warnSink interface {
	Warn(event string, fields map[string]any)
}

// Diagnostics wraps another Diagnostics sink, incrementing the relevant
// counter for events the extraction pipeline cares about before
// forwarding to Next unchanged. Safe to use whether or not metrics are
// enabled, since every Observe* call is nil-receiver-safe.
type Diagnostics struct {
	Next warnSink
}

func (d Diagnostics) Warn(event string, fields map[string]any) {
	m := Get()
	switch event {
	case "carve_lost_bytes":
		if n, ok := fields["bytes"].(int); ok {
			m.ObserveLostBytes(n)
		}
	case "field_count_mismatch":
		m.ObserveFieldCountMismatch()
	}

	if d.Next != nil {
		d.Next.Warn(event, fields)
	}
}
