package logger

import (
	"log/slog"
)

// Standard field keys for structured logging, kept consistent across
// every log statement so aggregation and querying can rely on them.
const (
	KeyEvent      = "event"       // diagnostic event name from internal/bits
	KeyPath       = "path"        // input file or image path
	KeyOffset     = "offset"      // byte offset into an input
	KeyBytes      = "bytes"       // byte count
	KeyJobID      = "job_id"      // BITS job GUID
	KeyDelimiter  = "delimiter_tag"
	KeyDurationMs = "duration_ms" // operation duration in milliseconds
	KeyError      = "error"       // error message
	KeyCount      = "count"       // generic occurrence count
)

// Path returns a slog.Attr for a file or image path.
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Offset returns a slog.Attr for a byte offset.
func Offset(off int64) slog.Attr {
	return slog.Int64(KeyOffset, off)
}

// Bytes returns a slog.Attr for a byte count.
func Bytes(n int) slog.Attr {
	return slog.Int(KeyBytes, n)
}

// JobID returns a slog.Attr for a BITS job GUID.
func JobID(id string) slog.Attr {
	return slog.String(KeyJobID, id)
}

// DurationMs returns a slog.Attr for duration in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Count returns a slog.Attr for a generic occurrence count.
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}
