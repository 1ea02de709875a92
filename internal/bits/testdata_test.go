package bits

import (
	"bytes"
	"encoding/binary"
)

// This file provides byte-building helpers shared by the core package's
// tests — a small DSL for assembling well-formed and corrupted BITS
// queue fragments without a real qmgr*.dat sample on disk.

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// pascalUTF16Bytes encodes s as a length-prefixed UTF-16LE string.
func pascalUTF16Bytes(s string) []byte {
	var buf bytes.Buffer
	units := utf16Encode(s)
	buf.Write(u32(uint32(len(units))))
	for _, u := range units {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], u)
		buf.Write(b[:])
	}
	return buf.Bytes()
}

func utf16Encode(s string) []uint16 {
	var out []uint16
	for _, r := range s {
		if r > 0xFFFF {
			r -= 0x10000
			out = append(out, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
			continue
		}
		out = append(out, uint16(r))
	}
	return out
}

// testGUIDBytes returns 16 arbitrary but fixed bytes standing in for a
// little-endian-on-disk GUID.
func testGUIDBytes() []byte {
	return []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10}
}

// buildControlPart0 encodes a CONTROL_PART_0 struct.
func buildControlPart0(jobType, priority, state uint32) []byte {
	var buf bytes.Buffer
	buf.Write(u32(jobType))
	buf.Write(u32(priority))
	buf.Write(u32(state))
	buf.Write(u32(0)) // pad
	buf.Write(testGUIDBytes())
	return buf.Bytes()
}

// buildControlPart1 encodes a CONTROL_PART_1 struct.
func buildControlPart1(sid string, flags uint32) []byte {
	var buf bytes.Buffer
	buf.Write(pascalUTF16Bytes(sid))
	buf.Write(u32(flags))
	return buf.Bytes()
}

// buildControl encodes a full CONTROL struct (without the access-token
// terminating XferHeader, which callers append separately).
func buildControl(name, desc, cmd, args, sid string, flags uint32, accessToken []byte) []byte {
	var buf bytes.Buffer
	// jobType=1 (upload) rather than 0: a leading zero-valued field would
	// be stripped as padding by Ingest, corrupting the record's framing.
	buf.Write(buildControlPart0(1, 2, 0))
	buf.Write(pascalUTF16Bytes(name))
	buf.Write(pascalUTF16Bytes(desc))
	buf.Write(pascalUTF16Bytes(cmd))
	buf.Write(pascalUTF16Bytes(args))
	buf.Write(buildControlPart1(sid, flags))
	buf.Write(accessToken)
	return buf.Bytes()
}

// buildFilePart0 encodes a FILE_PART_0 struct.
func buildFilePart0(downloadSize, transferSize uint64, drive, volGUID string) []byte {
	var buf bytes.Buffer
	buf.Write(u64(downloadSize))
	buf.Write(u64(transferSize))
	buf.WriteByte(0)
	buf.Write(pascalUTF16Bytes(drive))
	buf.Write(pascalUTF16Bytes(volGUID))
	return buf.Bytes()
}

// buildFile encodes a full FILE struct. destFn must decode to something
// containing "X:" for the ':' realignment to find the same prefix a real
// BITS record would (the decoder seeks backward from the first ':').
func buildFile(destFn, srcFn, tmpFn string, downloadSize, transferSize uint64, drive, volGUID string) []byte {
	var buf bytes.Buffer
	buf.Write(pascalUTF16Bytes(destFn))
	buf.Write(pascalUTF16Bytes(srcFn))
	buf.Write(pascalUTF16Bytes(tmpFn))
	buf.Write(buildFilePart0(downloadSize, transferSize, drive, volGUID))
	return buf.Bytes()
}

// buildError encodes an ERROR struct.
func buildError(code uint64, s1, s2, s3, s4 uint32) []byte {
	var buf bytes.Buffer
	buf.Write(u64(code))
	buf.Write(u32(s1))
	buf.Write(u32(s2))
	buf.Write(u32(s3))
	buf.Write(u32(s4))
	buf.WriteByte(0)
	return buf.Bytes()
}

// buildMetadata encodes a full METADATA struct with zero errors and the
// given tick counts for the five FILETIME fields.
func buildMetadata(ctime, mtime, other0, other1, other2 uint64) []byte {
	var buf bytes.Buffer
	buf.Write(u32(0)) // error_count
	buf.Write(u32(0)) // transient_error_count
	buf.Write(u32(0)) // retry_delay
	buf.Write(u32(0)) // timeout
	buf.Write(u64(ctime))
	buf.Write(u64(mtime))
	buf.Write(u64(other0))
	buf.Write(make([]byte, metadataPadBytes))
	buf.Write(u64(other1))
	buf.Write(u64(other2))
	return buf.Bytes()
}

// buildJob encodes a full well-formed JOB: CONTROL, XferHeader,
// file_count, files (XferDelimiter-joined FILE records), XferHeader,
// METADATA.
func buildJob(control []byte, fileCount uint32, files [][]byte, metadata []byte) []byte {
	var buf bytes.Buffer
	buf.Write(control)
	buf.Write(XferHeader)
	buf.Write(u32(fileCount))
	for i, f := range files {
		if i > 0 {
			buf.Write(XferDelimiter)
		}
		buf.Write(f)
	}
	buf.Write(XferHeader)
	buf.Write(metadata)
	return buf.Bytes()
}

// buildQueue encodes a full well-formed QUEUE container around jobsBlob,
// with empty header/unknown/remains fields.
func buildQueue(jobCount uint32, jobsBlob []byte) []byte {
	var buf bytes.Buffer
	buf.Write(FileHeader)
	buf.Write(QueueHeader)
	buf.Write(u32(jobCount))
	buf.Write(jobsBlob)
	buf.Write(QueueHeader)
	buf.Write(FileHeader)
	return buf.Bytes()
}

type recordingDiag struct {
	events []string
}

func (d *recordingDiag) Warn(event string, fields map[string]any) {
	d.events = append(d.events, event)
}
