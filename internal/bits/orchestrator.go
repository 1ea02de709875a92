package bits

import (
	"bytes"
	"fmt"
	"os"
)

// Orchestrator owns the clean and raw byte buffers for one artifact and
// the job delimiter chosen (or forced) for it. It is single-threaded,
// owns no other state, and is safe to discard at any point without side
// effects on the input.
type Orchestrator struct {
	diag Diagnostics

	cleanBytes []byte
	rawBytes   []byte

	delimiter      []byte
	delimiterForced bool
}

// NewOrchestrator constructs an empty Orchestrator. diag receives every
// locally-recovered decode failure and warning; pass NopDiagnostics{} to
// discard them.
func NewOrchestrator(diag Diagnostics) *Orchestrator {
	if diag == nil {
		diag = NopDiagnostics{}
	}
	return &Orchestrator{diag: diag}
}

// ForceDelimiter pins the job delimiter to the constant registered under
// tag, bypassing ChooseDelimiter's frequency-based selection. Returns an
// error if tag is not a known BITS format-version tag.
func (o *Orchestrator) ForceDelimiter(tag int) error {
	d, ok := JobDelimiters[tag]
	if !ok {
		return fmt.Errorf("bits: unknown job delimiter tag %d", tag)
	}
	o.delimiter = d
	o.delimiterForced = true
	return nil
}

// Ingest strips leading/trailing 0x00 padding from data and appends it
// to the clean or raw buffer.
func (o *Orchestrator) Ingest(data []byte, isClean bool) {
	data = stripZero(data)
	o.diag.Warn("ingest", map[string]any{"bytes": len(data), "clean": isClean})
	if isClean {
		o.cleanBytes = append(o.cleanBytes, data...)
	} else {
		o.rawBytes = append(o.rawBytes, data...)
	}
}

// ChooseDelimiter selects, among JobDelimiters, the candidate with the
// highest occurrence count across clean+raw bytes. Ties are broken
// toward the highest version tag by walking tags low to high so a later
// equal-or-greater count wins. If ForceDelimiter was called, this is a
// no-op. If every candidate occurs zero times, the delimiter stays
// undefined.
func (o *Orchestrator) ChooseDelimiter() {
	if o.delimiterForced {
		return
	}
	data := append(append([]byte{}, o.cleanBytes...), o.rawBytes...)

	var bestCount int
	var bestDelim []byte
	for _, tag := range JobDelimiterTags {
		d := JobDelimiters[tag]
		count := bytes.Count(data, d)
		if count >= bestCount {
			bestCount = count
			bestDelim = d
		}
	}
	if bestCount == 0 {
		o.delimiter = nil
		o.diag.Warn("delimiter_undefined", nil)
		return
	}
	o.delimiter = bestDelim
	o.diag.Warn("delimiter_selected", map[string]any{"count": bestCount})
}

// LoadFile reads path, attempts to parse it as a well-formed QUEUE, and
// ingests the result: the jobs block as clean and the remains block as
// raw on success, or the whole file as raw on failure. It then calls
// ChooseDelimiter. Only the I/O error escapes — a malformed queue is
// recovered locally.
func (o *Orchestrator) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	q, err := parseQueue(data)
	if err != nil {
		o.diag.Warn("queue_structure_invalid", map[string]any{"error": err.Error()})
		o.Ingest(data, false)
	} else {
		o.Ingest(q.jobs, true)
		o.Ingest(q.remains, false)
	}
	o.ChooseDelimiter()
	return nil
}

// Jobs returns the clean-path records followed by the carved records, in
// that order.
func (o *Orchestrator) Jobs() []Job {
	clean := parseCleanJobs(o.cleanBytes, o.delimiter, o.diag)
	carved := carveJobs(o.rawBytes, o.delimiter, o.diag)
	return append(clean, carved...)
}
