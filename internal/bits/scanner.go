package bits

import "bytes"

// split returns the maximal subslices of buf separated by delim,
// dropping any subslice that is empty after stripping leading/trailing
// 0x00 padding. Used identically by the queue, job and carve-section
// splitting steps.
func split(buf, delim []byte) [][]byte {
	if len(delim) == 0 {
		return nil
	}
	var kept [][]byte
	for _, chunk := range bytes.Split(buf, delim) {
		if len(stripZero(chunk)) == 0 {
			continue
		}
		kept = append(kept, chunk)
	}
	return kept
}

// stripZero trims leading and trailing 0x00 bytes.
func stripZero(b []byte) []byte {
	return bytes.Trim(b, "\x00")
}
