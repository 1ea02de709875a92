package bits

import (
	"bytes"
	"encoding/binary"
)

// carveJobs is the heuristic carving pipeline end to end: queue fragment
// split, job fragment split, section split and reverse-order
// classification, and the carver output filter. Its guiding principle is
// to preserve every field the input still witnesses and drop only
// records that witness nothing.
func carveJobs(raw []byte, delimiter []byte, diag Diagnostics) []Job {
	var jobs []Job
	for _, queueCandidate := range split(raw, QueueHeader) {
		var jobFragments [][]byte
		if delimiter == nil {
			jobFragments = [][]byte{queueCandidate}
		} else {
			jobFragments = split(queueCandidate, delimiter)
		}
		for _, fragment := range jobFragments {
			job, lostBytes := carveSections(fragment)
			if lostBytes > 0 {
				diag.Warn("carve_lost_bytes", map[string]any{"bytes": lostBytes})
			}
			if !job.anyPopulated() || job.isTrivial() {
				continue
			}
			job.Carved = true
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// carveSections splits a job fragment on XferHeader into sections and
// classifies each one tail-to-head, since the tail (metadata) is the
// section most likely to still be structurally intact.
func carveSections(jobData []byte) (Job, int) {
	sections := split(jobData, XferHeader)
	var job Job
	lostBytes := 0
	for i := len(sections) - 1; i >= 0; i-- {
		section := sections[i]
		if tryTransfersInto(section, &job) {
			continue
		}
		if tryMetadataInto(section, &job) {
			continue
		}
		if deepCarveInto(section, &job) {
			continue
		}
		lostBytes += len(section)
	}
	return job, lostBytes
}

// tryTransfersInto reads file_count from the first 4
// bytes, and if the section is plausibly sized for that many FILE
// records, decode up to file_count of them starting at offset 4. A
// decode failure shifts the offset by one byte and retries; sixteen
// consecutive shifts without a successful decode give up on the
// section. Recovered records with every field zero/empty are dropped.
// Adopts {file_count, files} only if at least one FILE was recovered.
func tryTransfersInto(section []byte, job *Job) bool {
	if len(section) < 4 {
		return false
	}
	fileCount := binary.LittleEndian.Uint32(section[:4])
	if !(uint64(fileCount)*37 < uint64(len(section))) {
		return false
	}
	var files []File
	offset := 4
	shifts := 0
	for len(files) < int(fileCount) && offset < len(section) {
		f, n, err := decodeFileWithOffset(newCursor(section[offset:]))
		if err != nil {
			offset++
			shifts++
			if shifts == 16 {
				break
			}
			continue
		}
		shifts = 0
		if f.anyPopulated() {
			files = append(files, f)
		}
		offset += n
	}
	if len(files) == 0 {
		return false
	}
	job.FileCount = fileCount
	job.HasFileCount = true
	job.Files = files
	return true
}

// tryMetadataInto decodes the section in full as METADATA and merges its
// fields into job on success.
func tryMetadataInto(section []byte, job *Job) bool {
	meta, err := decodeMetadata(newCursor(section))
	if err != nil {
		return false
	}
	job.ErrorCount = meta.errorCount
	job.HasErrorCount = true
	job.Errors = meta.errors
	job.TransientErrorCount = meta.transientErrorCount
	job.HasTransientErrorCount = true
	job.RetryDelay = meta.retryDelay
	job.HasRetryDelay = true
	job.Timeout = meta.timeout
	job.HasTimeout = true
	job.CTime = meta.ctime
	job.MTime = meta.mtime
	job.OtherTime0 = meta.otherTime0
	job.OtherTime1 = meta.otherTime1
	job.OtherTime2 = meta.otherTime2
	return true
}

// deepCarveInto is the heuristic last resort: trim a leading FileHeader
// if present, then look for the SID or ".tmp" UTF-16LE anchors and pivot
// a control- or files-section deep carve around whichever is found.
func deepCarveInto(section []byte, job *Job) bool {
	data := section
	if bytes.HasPrefix(data, FileHeader) {
		data = data[len(FileHeader):]
	}
	if sidIdx := bytes.Index(data, sidMarker); sidIdx >= 0 {
		return controlDeepCarveInto(data, sidIdx-4, job)
	}
	if tmpIdx := bytes.Index(data, tmpMarker); tmpIdx >= 0 {
		return filesDeepCarveInto(data, tmpIdx+10, job)
	}
	return false
}

// clampPivot keeps a pivot offset within [0, len(data)]. The source
// computes the pivot as sid_index-4, which Python silently turns into a
// negative (wraparound) slice index when the SID sits in the buffer's
// first four bytes; clamping to zero here is a deliberate, documented
// deviation (see DESIGN.md) that avoids slicing the wrong end of the
// buffer instead of reproducing that corner case.
func clampPivot(pivot, length int) int {
	if pivot < 0 {
		return 0
	}
	if pivot > length {
		return length
	}
	return pivot
}

// controlDeepCarveInto carves a control section from its tail backward:
// args, cmd, desc, name in that order, then — if exactly 32 bytes of
// unscanned prefix remain — CONTROL_PART_0, and separately
// CONTROL_PART_1 from the bytes at and after the pivot.
func controlDeepCarveInto(data []byte, pivot int, job *Job) bool {
	pivot = clampPivot(pivot, len(data))
	partial := data[:pivot]
	remains := data[pivot:]

	rc := reverseCarvePascalUTF16(partial, "args", "cmd", "desc", "name")
	found := false
	if v, ok := rc.values["args"]; ok {
		job.Args = v
		found = true
	}
	if v, ok := rc.values["cmd"]; ok {
		job.Cmd = v
		found = true
	}
	if v, ok := rc.values["desc"]; ok {
		job.Desc = v
		found = true
	}
	if v, ok := rc.values["name"]; ok {
		job.Name = v
		found = true
	}
	if rc.hasRemaining && len(rc.remaining) == 32 {
		if p0, err := decodeControlPart0(newCursor(rc.remaining)); err == nil {
			job.JobID = p0.jobID
			job.Type = p0.jobType
			job.HasType = true
			job.Priority = p0.priority
			job.HasPriority = true
			job.State = p0.state
			job.HasState = true
			found = true
		}
	}
	if p1, err := decodeControlPart1(newCursor(remains)); err == nil {
		job.SID = p1.sid
		job.Flags = p1.flags
		job.HasFlags = true
		found = true
	}
	return found
}

// filesDeepCarveInto carves a single File's tmp_fn/src_fn/dest_fn from
// the tail of the "partial" half, then tries FILE_PART_0 against the
// "remains" half to complete that first File, and keeps decoding
// further FILE records from whatever remains after it.
func filesDeepCarveInto(data []byte, pivot int, job *Job) bool {
	pivot = clampPivot(pivot, len(data))
	partial := data[:pivot]
	remains := data[pivot:]

	rc := reverseCarvePascalUTF16(partial, "tmp_fn", "src_fn", "dest_fn")
	if len(rc.values) == 0 {
		return false
	}
	file0 := File{}
	if v, ok := rc.values["tmp_fn"]; ok {
		file0.TmpFn = v
	}
	if v, ok := rc.values["src_fn"]; ok {
		file0.SrcFn = v
	}
	if v, ok := rc.values["dest_fn"]; ok {
		file0.DestFn = v
	}
	files := []File{file0}

	if p0, err := decodeFilePart0(newCursor(remains)); err == nil {
		files[0].DownloadSize = p0.downloadSize
		files[0].TransferSize = p0.transferSize
		files[0].Drive = p0.drive
		files[0].VolGUID = p0.volGUID
		remains = remains[p0.offset:]

		for len(remains) > 0 {
			f, n, err := decodeFileWithOffset(newCursor(remains))
			if err != nil {
				break
			}
			files = append(files, f)
			remains = remains[n:]
		}
	}

	job.Files = files
	job.FileCount = uint32(len(files))
	job.HasFileCount = true
	return true
}
