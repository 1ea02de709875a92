// Package bits implements the core BITS (Background Intelligent Transfer
// Service) queue parser and carver. It decodes qmgr*.dat queue files and
// reconstructs job records from arbitrarily corrupted or raw bytes.
package bits

// Container framing markers. All are 16 bytes, compared byte for byte —
// never interpreted as integers.
var (
	FileHeader  = []byte{0x13, 0xF7, 0x2B, 0xC8, 0x40, 0x99, 0x12, 0x4A, 0x9F, 0x1A, 0x3A, 0xAE, 0xBD, 0x89, 0x4E, 0xEA}
	QueueHeader = []byte{0x47, 0x44, 0x5F, 0x00, 0xA9, 0xBD, 0xBA, 0x44, 0x98, 0x51, 0xC4, 0x7B, 0xB6, 0xC0, 0x7A, 0xCE}
	XferHeader  = []byte{0x36, 0xDA, 0x56, 0x77, 0x6F, 0x51, 0x5A, 0x43, 0xAC, 0xAC, 0x44, 0xA2, 0x48, 0xFF, 0xF3, 0x4D}
)

// XferDelimiter separates individual file transfers inside a job's
// file-transfer section.
var XferDelimiter = []byte{0x03, 0x00, 0x00, 0x00}

// JobDelimiterTags orders the known job delimiters by BITS format-version
// tag, lowest first, so that a tie in occurrence count during delimiter
// selection is broken toward the highest tag deterministically.
var JobDelimiterTags = []int{1, 2, 3, 4}

// JobDelimiters maps a BITS format-version tag to its 16-byte job
// delimiter constant. Tags are for diagnostics only; the parser never
// reports which version a file came from, only which delimiter matched
// most often.
var JobDelimiters = map[int][]byte{
	1: {0x93, 0x36, 0x20, 0x35, 0xA0, 0x0C, 0x10, 0x4A, 0x84, 0xF3, 0xB1, 0x7E, 0x7B, 0x49, 0x9C, 0xD7},
	2: {0x10, 0x13, 0x70, 0xC8, 0x36, 0x53, 0xB3, 0x41, 0x83, 0xE5, 0x81, 0x55, 0x7F, 0x36, 0x1B, 0x87},
	3: {0x8C, 0x93, 0xEA, 0x64, 0x03, 0x0F, 0x68, 0x40, 0xB4, 0x6F, 0xF9, 0x7F, 0xE5, 0x1D, 0x4D, 0xCD},
	4: {0xB3, 0x46, 0xED, 0x3D, 0x3B, 0x10, 0xF9, 0x44, 0xBC, 0x2F, 0xE8, 0x37, 0x8B, 0xD3, 0x19, 0x86},
}

// VersionHints maps a host-version index to the Windows NT release that
// shipped it. Informational only — bitsqmgr never uses it to pick a
// decode strategy.
var VersionHints = map[int]string{
	0: "NT 5.1", // Windows XP / Windows Server 2003
	1: "NT 5.2", // Windows XP x64 / Windows Server 2003 R2
	2: "NT 6.0", // Windows Vista / Windows Server 2008
	3: "NT 6.1", // Windows 7 / Windows Server 2008 R2
	4: "NT 6.2", // Windows 8 / Windows Server 2012
	5: "NT 6.3", // Windows 8.1 / Windows Server 2012 R2
}

// sidMarker and tmpMarker are the UTF-16LE anchor patterns the deep-carve
// heuristic searches for when nothing else in a section parses cleanly.
var (
	sidMarker = []byte("S\x00-\x001\x00-\x00")
	tmpMarker = []byte(".\x00t\x00m\x00p\x00")
)

// metadataPadBytes is the pad between other_time0 and other_time1 in the
// METADATA struct. Fixed at 14 for BITS as seen on Windows NT 5.1–6.3;
// versions outside that range may use a different pad and would need this
// parameterized per caller (see DESIGN.md).
const metadataPadBytes = 14
