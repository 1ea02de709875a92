// Package sampler scans a raw disk image for a byte pattern and yields
// the surrounding window of bytes around each match, for feeding into
// the carving path when no well-formed queue file can be located on
// disk directly.
package sampler

import (
	"errors"
	"io"
)

const blockSize = 512

// Window is one candidate region of a disk image worth carving.
type Window struct {
	// Offset is the absolute byte offset of Data within the scanned
	// image.
	Offset int64
	Data   []byte
}

// Scan slides a dual 512-byte-block buffer across r looking for
// pattern. Every match grows a window radianceKiB before the match and
// extends past it in radianceKiB increments until a full increment
// contains no further occurrence of pattern, then yields that window.
// Overlapping windows are not merged; callers that care about
// duplicate carve results across windows dedupe downstream.
func Scan(r io.ReaderAt, size int64, pattern []byte, radianceKiB int) ([]Window, error) {
	if len(pattern) == 0 {
		return nil, errors.New("sampler: empty pattern")
	}
	if radianceKiB <= 0 {
		return nil, errors.New("sampler: radiance must be positive")
	}

	var windows []Window
	bufA := make([]byte, blockSize)
	bufB := make([]byte, blockSize)
	prev, cur := bufA, bufB

	var offset int64
	if _, err := readFull(r, prev, offset); err != nil {
		if errors.Is(err, io.EOF) {
			return windows, nil
		}
		return nil, err
	}
	offset += blockSize

	for offset < size {
		n, err := readFull(r, cur, offset)
		if n == 0 {
			break
		}
		window := append(append([]byte{}, prev...), cur[:n]...)

		searchFrom := blockSize - len(pattern)
		if searchFrom < 0 || offset == blockSize {
			searchFrom = 0
		}
		for localOffset := indexFrom(window, pattern, searchFrom); localOffset >= 0; localOffset = indexFrom(window, pattern, localOffset+1) {
			absOffset := offset - blockSize + int64(localOffset)
			start := absOffset - int64(radianceKiB)*1024
			if start < 0 {
				start = 0
			}
			data, werr := radianceRead(r, size, start, pattern, radianceKiB)
			if werr != nil {
				return nil, werr
			}
			windows = append(windows, Window{Offset: start, Data: data})
		}

		offset += int64(n)
		prev, cur = cur, prev

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}

	return windows, nil
}

// radianceRead reads forward from start: the first radianceKiB block
// plus one pattern length, then radianceKiB-sized increments, stopping
// as soon as an increment contains no further occurrence of pattern or
// the image ends.
func radianceRead(r io.ReaderAt, size int64, start int64, pattern []byte, radianceKiB int) ([]byte, error) {
	step := int64(radianceKiB) * 1024
	firstLen := step + int64(len(pattern))
	if start+firstLen > size {
		firstLen = size - start
	}
	first := make([]byte, firstLen)
	if _, err := readFull(r, first, start); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	rv := first
	pos := start + firstLen
	for {
		chunkLen := step
		if pos+chunkLen > size {
			chunkLen = size - pos
		}
		if chunkLen <= 0 {
			return rv, nil
		}
		chunk := make([]byte, chunkLen)
		n, err := readFull(r, chunk, pos)
		chunk = chunk[:n]
		if int64(n) < step {
			return append(rv, chunk...), nil
		}

		localOffset := lastIndex(chunk, pattern)
		if localOffset >= 0 {
			rv = append(rv, chunk[:localOffset+len(pattern)]...)
			pos += int64(localOffset + len(pattern))
		} else {
			return append(rv, chunk...), nil
		}
		if err != nil {
			return rv, nil
		}
	}
}

func readFull(r io.ReaderAt, buf []byte, offset int64) (int, error) {
	n, err := r.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, err
	}
	if n < len(buf) {
		return n, io.EOF
	}
	return n, nil
}

func indexFrom(data, pattern []byte, from int) int {
	if from >= len(data) {
		return -1
	}
	for i := from; i+len(pattern) <= len(data); i++ {
		if equalAt(data, pattern, i) {
			return i
		}
	}
	return -1
}

func lastIndex(data, pattern []byte) int {
	for i := len(data) - len(pattern); i >= 0; i-- {
		if equalAt(data, pattern, i) {
			return i
		}
	}
	return -1
}

func equalAt(data, pattern []byte, i int) bool {
	for j, b := range pattern {
		if data[i+j] != b {
			return false
		}
	}
	return true
}
