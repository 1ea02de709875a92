package sampler

import (
	"bytes"
	"io"
	"testing"
)

type readerAt struct{ data []byte }

func (r readerAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n := copy(p, r.data[off:])
	var err error
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}

func TestScanFindsPatternNearEnd(t *testing.T) {
	image := make([]byte, 4096)
	pattern := []byte("S-1-5-21-")
	copy(image[3000:], pattern)

	windows, err := Scan(readerAt{image}, int64(len(image)), pattern, 1)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(windows) == 0 {
		t.Fatal("expected at least one window")
	}
	found := false
	for _, w := range windows {
		if bytes.Contains(w.Data, pattern) {
			found = true
		}
	}
	if !found {
		t.Error("no window contains the pattern")
	}
}

func TestScanNoMatch(t *testing.T) {
	image := bytes.Repeat([]byte{0xAA}, 4096)
	windows, err := Scan(readerAt{image}, int64(len(image)), []byte("S-1-5-21-"), 1)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(windows) != 0 {
		t.Errorf("expected no windows, got %d", len(windows))
	}
}

func TestScanRejectsEmptyPattern(t *testing.T) {
	if _, err := Scan(readerAt{make([]byte, 10)}, 10, nil, 1); err == nil {
		t.Error("expected error for empty pattern")
	}
}

func TestScanRejectsNonPositiveRadiance(t *testing.T) {
	if _, err := Scan(readerAt{make([]byte, 10)}, 10, []byte("x"), 0); err == nil {
		t.Error("expected error for zero radiance")
	}
}

func TestScanWindowStartsClampedToZero(t *testing.T) {
	image := make([]byte, 2048)
	pattern := []byte(".tmp")
	copy(image[10:], pattern)

	windows, err := Scan(readerAt{image}, int64(len(image)), pattern, 4)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for _, w := range windows {
		if w.Offset < 0 {
			t.Errorf("window offset %d must not be negative", w.Offset)
		}
	}
}
