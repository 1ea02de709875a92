package bits

import (
	"bytes"
	"unicode/utf8"
)

// reverseCarveResult is the outcome of a reverseCarvePascalUTF16 scan:
// the fields it managed to recover, and — only when the *last attempted*
// field was found via an exact length-prefixed match — the unscanned
// prefix left in front of it.
type reverseCarveResult struct {
	values    map[string]string
	remaining []byte
	hasRemaining bool
}

// reverseCarvePascalUTF16 scans a byte region backward: given an ordered
// list of innermost-first field names, it scans in 2-byte (UTF-16
// -aligned) steps looking for a valid length-prefixed PascalUtf16 string
// ending at the end of the current data window. On success it binds the
// field, truncates data to the unscanned prefix, and moves on to the
// next field. On failure for a field, it falls back to interpreting the
// NUL-stripped tail as text — growing the tail until decoding fails —
// assigns that to the field if non-empty, and stops scanning any further
// fields. This UTF-8-on-UTF-16 fallback is a known mismatch, kept
// intentionally (see DESIGN.md).
func reverseCarvePascalUTF16(data []byte, fields ...string) reverseCarveResult {
	rv := reverseCarveResult{values: map[string]string{}}
	for _, field := range fields {
		found := false
		for i := len(data) - 4; i >= 0; i -= 2 {
			c := newCursor(data[i:])
			s, err := c.pascalUTF16()
			if err != nil {
				continue
			}
			rv.values[field] = s
			data = data[:i]
			rv.remaining = data
			rv.hasRemaining = true
			found = true
			break
		}
		if !found {
			rv.hasRemaining = false
			tailDecodeFallback(data, field, rv.values)
			break
		}
	}
	return rv
}

// tailDecodeFallback grows a NUL-stripped tail of data by 2 bytes at a
// time, assigning the largest tail that still decodes as valid UTF-8 to
// rv[field]. Stops growing on the first decode failure.
func tailDecodeFallback(data []byte, field string, rv map[string]string) {
	for j := 2; j < len(data); j += 2 {
		tail := data[len(data)-j:]
		text, ok := decodeUTF8NulStripped(tail)
		if !ok {
			return
		}
		if text != "" {
			rv[field] = text
		}
	}
}

// decodeUTF8NulStripped removes embedded NUL bytes and reports whether
// the remainder is valid UTF-8.
func decodeUTF8NulStripped(b []byte) (string, bool) {
	stripped := bytes.ReplaceAll(b, []byte{0}, nil)
	if !utf8.Valid(stripped) {
		return "", false
	}
	return string(stripped), true
}
