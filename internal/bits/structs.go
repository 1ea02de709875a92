package bits

// This file implements fixed-layout struct decoders built by composing
// the cursor primitives. Each decoder is a pure function over a *cursor
// returning a typed value (or a *StructError carrying the offset and
// expected shape).

type controlPart0 struct {
	jobType  JobType
	priority JobPriority
	state    JobState
	jobID    string
}

// decodeControlPart0 reads type:u32, priority:u32, state:u32, _pad:u32,
// job_id:GUID.
func decodeControlPart0(c *cursor) (controlPart0, error) {
	start := c.pos
	jobType, err := c.u32le()
	if err != nil {
		return controlPart0{}, newStructError("CONTROL_PART_0", start, err)
	}
	priority, err := c.u32le()
	if err != nil {
		return controlPart0{}, newStructError("CONTROL_PART_0", start, err)
	}
	state, err := c.u32le()
	if err != nil {
		return controlPart0{}, newStructError("CONTROL_PART_0", start, err)
	}
	if _, err := c.u32le(); err != nil { // padding
		return controlPart0{}, newStructError("CONTROL_PART_0", start, err)
	}
	id, err := c.guid()
	if err != nil {
		return controlPart0{}, newStructError("CONTROL_PART_0", start, err)
	}
	return controlPart0{
		jobType:  JobType(jobType),
		priority: JobPriority(priority),
		state:    JobState(state),
		jobID:    id,
	}, nil
}

type controlPart1 struct {
	sid   string
	flags JobFlags
}

// decodeControlPart1 reads sid:PascalUtf16, flags:u32.
func decodeControlPart1(c *cursor) (controlPart1, error) {
	start := c.pos
	sid, err := c.pascalUTF16()
	if err != nil {
		return controlPart1{}, newStructError("CONTROL_PART_1", start, err)
	}
	flags, err := c.u32le()
	if err != nil {
		return controlPart1{}, newStructError("CONTROL_PART_1", start, err)
	}
	return controlPart1{sid: sid, flags: JobFlags(flags)}, nil
}

type control struct {
	controlPart0
	name, desc, cmd, args string
	controlPart1
	accessToken []byte
}

// decodeControl reads CONTROL_PART_0, name/desc/cmd/args as PascalUtf16,
// CONTROL_PART_1, then an access_token delimited by XferHeader (left
// unconsumed so the caller can assert it next).
func decodeControl(c *cursor) (control, error) {
	start := c.pos
	p0, err := decodeControlPart0(c)
	if err != nil {
		return control{}, err
	}
	name, err := c.pascalUTF16()
	if err != nil {
		return control{}, newStructError("CONTROL", start, err)
	}
	desc, err := c.pascalUTF16()
	if err != nil {
		return control{}, newStructError("CONTROL", start, err)
	}
	cmd, err := c.pascalUTF16()
	if err != nil {
		return control{}, newStructError("CONTROL", start, err)
	}
	args, err := c.pascalUTF16()
	if err != nil {
		return control{}, newStructError("CONTROL", start, err)
	}
	p1, err := decodeControlPart1(c)
	if err != nil {
		return control{}, err
	}
	token, err := c.delimited(XferHeader)
	if err != nil {
		return control{}, newStructError("CONTROL", start, err)
	}
	return control{
		controlPart0: p0,
		name:         name,
		desc:         desc,
		cmd:          cmd,
		args:         args,
		controlPart1: p1,
		accessToken:  token,
	}, nil
}

type filePart0 struct {
	downloadSize OptionalUint64
	transferSize OptionalUint64
	drive        string
	volGUID      string
	offset       int // cursor position after the struct; carving uses this
}

// unknownSizeSentinel is the all-bits-set u64 BITS uses to mean "unknown"
// for a transfer size.
const unknownSizeSentinel = ^uint64(0)

func optionalSize(v uint64) OptionalUint64 {
	if v == unknownSizeSentinel {
		return OptionalUint64{Unknown: true}
	}
	return OptionalUint64{Value: v, Present: true}
}

// decodeFilePart0 reads download_size:u64, transfer_size:u64, a byte,
// drive:PascalUtf16, vol_guid:PascalUtf16, and records the offset
// reached — the pseudo-field carving needs to know how far it advanced.
func decodeFilePart0(c *cursor) (filePart0, error) {
	start := c.pos
	dl, err := c.u64le()
	if err != nil {
		return filePart0{}, newStructError("FILE_PART_0", start, err)
	}
	xfer, err := c.u64le()
	if err != nil {
		return filePart0{}, newStructError("FILE_PART_0", start, err)
	}
	if _, err := c.u8(); err != nil {
		return filePart0{}, newStructError("FILE_PART_0", start, err)
	}
	drive, err := c.pascalUTF16()
	if err != nil {
		return filePart0{}, newStructError("FILE_PART_0", start, err)
	}
	vol, err := c.pascalUTF16()
	if err != nil {
		return filePart0{}, newStructError("FILE_PART_0", start, err)
	}
	return filePart0{
		downloadSize: optionalSize(dl),
		transferSize: optionalSize(xfer),
		drive:        drive,
		volGUID:      vol,
		offset:       c.pos,
	}, nil
}

// decodeFile realigns to the dest_fn length prefix (6 bytes before the
// first ASCII ':' byte, which sits immediately after the drive-letter
// "X:\..." path's leading length), then reads dest_fn/src_fn/tmp_fn as
// PascalUtf16 followed by FILE_PART_0. This mirrors the source's
// DelimitedField(b':') + Seek(-6) realignment exactly.
func decodeFile(c *cursor) (File, error) {
	start := c.pos
	if _, err := c.delimited([]byte{':'}); err != nil {
		return File{}, newStructError("FILE", start, err)
	}
	c.pos -= 6
	if c.pos < start {
		return File{}, newStructError("FILE", start, ErrShortInput)
	}
	dest, err := c.pascalUTF16()
	if err != nil {
		return File{}, newStructError("FILE", start, err)
	}
	src, err := c.pascalUTF16()
	if err != nil {
		return File{}, newStructError("FILE", start, err)
	}
	tmp, err := c.pascalUTF16()
	if err != nil {
		return File{}, newStructError("FILE", start, err)
	}
	p0, err := decodeFilePart0(c)
	if err != nil {
		return File{}, err
	}
	return File{
		DestFn:       dest,
		SrcFn:        src,
		TmpFn:        tmp,
		DownloadSize: p0.downloadSize,
		TransferSize: p0.transferSize,
		Drive:        p0.drive,
		VolGUID:      p0.volGUID,
	}, nil
}

// decodeFileWithOffset re-derives the cursor offset consumed by decodeFile, used
// by the carver to advance past a successfully carved File without
// re-threading filePart0.offset through the exported File type.
func decodeFileWithOffset(c *cursor) (File, int, error) {
	start := c.pos
	f, err := decodeFile(c)
	if err != nil {
		return File{}, 0, err
	}
	return f, c.pos - start, nil
}

// decodeError reads code:u64, stat1..stat4:u32, then a padding byte.
func decodeError(c *cursor) (Error, error) {
	start := c.pos
	code, err := c.u64le()
	if err != nil {
		return Error{}, newStructError("ERROR", start, err)
	}
	s1, err := c.u32le()
	if err != nil {
		return Error{}, newStructError("ERROR", start, err)
	}
	s2, err := c.u32le()
	if err != nil {
		return Error{}, newStructError("ERROR", start, err)
	}
	s3, err := c.u32le()
	if err != nil {
		return Error{}, newStructError("ERROR", start, err)
	}
	s4, err := c.u32le()
	if err != nil {
		return Error{}, newStructError("ERROR", start, err)
	}
	if _, err := c.u8(); err != nil {
		return Error{}, newStructError("ERROR", start, err)
	}
	return Error{Code: code, Stat1: s1, Stat2: s2, Stat3: s3, Stat4: s4}, nil
}

type metadata struct {
	errorCount             uint32
	errors                 []Error
	transientErrorCount    uint32
	retryDelay             uint32
	timeout                uint32
	ctime, mtime           OptionalTime
	otherTime0             OptionalTime
	otherTime1, otherTime2 OptionalTime
}

// decodeMetadata reads error_count:u32, errors[error_count], then the
// retry/timeout counters and five FILETIMEs separated by a fixed
// metadataPadBytes pad (see DESIGN.md for the chosen pad width).
func decodeMetadata(c *cursor) (metadata, error) {
	start := c.pos
	errCount, err := c.u32le()
	if err != nil {
		return metadata{}, newStructError("METADATA", start, err)
	}
	errs := make([]Error, 0, errCount)
	for i := uint32(0); i < errCount; i++ {
		e, err := decodeError(c)
		if err != nil {
			return metadata{}, newStructError("METADATA", start, err)
		}
		errs = append(errs, e)
	}
	transientCount, err := c.u32le()
	if err != nil {
		return metadata{}, newStructError("METADATA", start, err)
	}
	retryDelay, err := c.u32le()
	if err != nil {
		return metadata{}, newStructError("METADATA", start, err)
	}
	timeout, err := c.u32le()
	if err != nil {
		return metadata{}, newStructError("METADATA", start, err)
	}
	ctime, err := optionalFileTime(c)
	if err != nil {
		return metadata{}, newStructError("METADATA", start, err)
	}
	mtime, err := optionalFileTime(c)
	if err != nil {
		return metadata{}, newStructError("METADATA", start, err)
	}
	other0, err := optionalFileTime(c)
	if err != nil {
		return metadata{}, newStructError("METADATA", start, err)
	}
	if _, err := c.bytesN(metadataPadBytes); err != nil {
		return metadata{}, newStructError("METADATA", start, err)
	}
	other1, err := optionalFileTime(c)
	if err != nil {
		return metadata{}, newStructError("METADATA", start, err)
	}
	other2, err := optionalFileTime(c)
	if err != nil {
		return metadata{}, newStructError("METADATA", start, err)
	}
	return metadata{
		errorCount:          errCount,
		errors:              errs,
		transientErrorCount: transientCount,
		retryDelay:          retryDelay,
		timeout:             timeout,
		ctime:               ctime,
		mtime:               mtime,
		otherTime0:          other0,
		otherTime1:          other1,
		otherTime2:          other2,
	}, nil
}

// optionalFileTime decodes a FILETIME and wraps it as always-present;
// carving paths that never witness a timestamp simply omit the call and
// leave an OptionalTime zero value.
func optionalFileTime(c *cursor) (OptionalTime, error) {
	t, err := c.fileTime()
	if err != nil {
		return OptionalTime{}, err
	}
	return OptionalTime{Value: t, Present: true}, nil
}

// decodeJob reads CONTROL, const XferHeader, file_count:u32,
// files:DelimitedField(XferHeader), const XferHeader, METADATA — the
// full well-formed job layout. The file-transfers bytes are returned
// unsplit; the caller re-splits them on XferDelimiter and decodes each
// one.
func decodeJob(data []byte) (Job, []byte, error) {
	c := newCursor(data)
	ctrl, err := decodeControl(c)
	if err != nil {
		return Job{}, nil, err
	}
	if err := c.expect(XferHeader); err != nil {
		return Job{}, nil, newStructError("JOB", c.pos, err)
	}
	fileCount, err := c.u32le()
	if err != nil {
		return Job{}, nil, newStructError("JOB", c.pos, err)
	}
	filesBlob, err := c.delimited(XferHeader)
	if err != nil {
		return Job{}, nil, newStructError("JOB", c.pos, err)
	}
	if err := c.expect(XferHeader); err != nil {
		return Job{}, nil, newStructError("JOB", c.pos, err)
	}
	meta, err := decodeMetadata(c)
	if err != nil {
		return Job{}, nil, err
	}

	job := Job{
		JobID:       ctrl.jobID,
		Type:        ctrl.jobType,
		HasType:     true,
		Priority:    ctrl.priority,
		HasPriority: true,
		State:       ctrl.state,
		HasState:    true,
		Name:        ctrl.name,
		Desc:        ctrl.desc,
		Cmd:         ctrl.cmd,
		Args:        ctrl.args,
		SID:         ctrl.sid,
		Flags:       ctrl.flags,
		HasFlags:    true,
		AccessToken: ctrl.accessToken,

		FileCount:    fileCount,
		HasFileCount: true,

		ErrorCount:    meta.errorCount,
		HasErrorCount: true,
		Errors:        meta.errors,

		TransientErrorCount:    meta.transientErrorCount,
		HasTransientErrorCount: true,
		RetryDelay:             meta.retryDelay,
		HasRetryDelay:          true,
		Timeout:                meta.timeout,
		HasTimeout:             true,

		CTime:      meta.ctime,
		MTime:      meta.mtime,
		OtherTime0: meta.otherTime0,
		OtherTime1: meta.otherTime1,
		OtherTime2: meta.otherTime2,
	}
	return job, filesBlob, nil
}
