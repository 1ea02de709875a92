package metrics

import "testing"

func TestNilMetricsMethodsAreNoOps(t *testing.T) {
	var m *Metrics
	// None of these should panic on a nil receiver.
	m.ObserveJobParsed(true)
	m.ObserveJobParsed(false)
	m.ObserveFilesParsed(3)
	m.ObserveLostBytes(10)
	m.ObserveFieldCountMismatch()
}

func TestEnableInstallsMetricsAndHandler(t *testing.T) {
	// Other tests in this package call Enable() as well, so the state
	// before this call depends on test order; only the state after
	// Enable() (which always installs a fresh registry) is checked.
	m := Enable()
	if m == nil {
		t.Fatal("Enable() returned nil")
	}
	if !IsEnabled() {
		t.Error("expected IsEnabled() to be true after Enable()")
	}
	if Get() != m {
		t.Error("Get() should return the same instance Enable() returned")
	}
	if Handler() == nil {
		t.Error("expected a non-nil promhttp Handler once enabled")
	}
}

func TestObserveMethodsDoNotPanicWhenEnabled(t *testing.T) {
	m := Enable()
	m.ObserveJobParsed(true)
	m.ObserveJobParsed(false)
	m.ObserveFilesParsed(0)
	m.ObserveFilesParsed(5)
	m.ObserveLostBytes(0)
	m.ObserveLostBytes(7)
	m.ObserveFieldCountMismatch()
}
