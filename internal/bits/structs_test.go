package bits

import "testing"

func TestDecodeControlPart0(t *testing.T) {
	data := buildControlPart0(uint32(JobTypeUpload), uint32(JobPriorityHigh), uint32(JobStateTransferring))
	p0, err := decodeControlPart0(newCursor(data))
	if err != nil {
		t.Fatalf("decodeControlPart0() error: %v", err)
	}
	if p0.jobType != JobTypeUpload || p0.priority != JobPriorityHigh || p0.state != JobStateTransferring {
		t.Fatalf("decodeControlPart0() = %+v", p0)
	}
	if p0.jobID == "" {
		t.Fatalf("decodeControlPart0() jobID empty")
	}
}

func TestDecodeFilePart0UnknownSize(t *testing.T) {
	data := buildFilePart0(unknownSizeSentinel, 100, "C:", "{guid}")
	p0, err := decodeFilePart0(newCursor(data))
	if err != nil {
		t.Fatalf("decodeFilePart0() error: %v", err)
	}
	if p0.downloadSize.Present {
		t.Fatalf("decodeFilePart0() download_size present for sentinel value")
	}
	if !p0.downloadSize.Unknown {
		t.Fatalf("decodeFilePart0() download_size should be marked Unknown for the BITS sentinel")
	}
	if !p0.transferSize.Present || p0.transferSize.Value != 100 {
		t.Fatalf("decodeFilePart0() transfer_size = %+v; want {100 true}", p0.transferSize)
	}
	if p0.drive != "C:" || p0.volGUID != "{guid}" {
		t.Fatalf("decodeFilePart0() drive/volGUID = %q/%q", p0.drive, p0.volGUID)
	}
}

func TestDecodeFileRealignment(t *testing.T) {
	data := buildFile(`C:\Windows\Temp\dest.tmp`, `C:\source\file.bin`, `C:\Windows\Temp\dest.tmp`, 1000, 1000, "C:", "{11111111-2222-3333-4444-555555555555}")
	f, err := decodeFile(newCursor(data))
	if err != nil {
		t.Fatalf("decodeFile() error: %v", err)
	}
	if f.DestFn != `C:\Windows\Temp\dest.tmp` {
		t.Fatalf("decodeFile() DestFn = %q", f.DestFn)
	}
	if f.SrcFn != `C:\source\file.bin` {
		t.Fatalf("decodeFile() SrcFn = %q", f.SrcFn)
	}
	if !f.DownloadSize.Present || f.DownloadSize.Value != 1000 {
		t.Fatalf("decodeFile() DownloadSize = %+v", f.DownloadSize)
	}
}

func TestDecodeErrorStruct(t *testing.T) {
	data := buildError(0x80190194, 1, 2, 3, 4)
	e, err := decodeError(newCursor(data))
	if err != nil {
		t.Fatalf("decodeError() error: %v", err)
	}
	if e.Code != 0x80190194 || e.Stat1 != 1 || e.Stat4 != 4 {
		t.Fatalf("decodeError() = %+v", e)
	}
}

func TestDecodeMetadataRoundTrip(t *testing.T) {
	data := buildMetadata(1, 2, 3, 4, 5)
	m, err := decodeMetadata(newCursor(data))
	if err != nil {
		t.Fatalf("decodeMetadata() error: %v", err)
	}
	if !m.ctime.Present || !m.ctime.Value.Equal(epoch1601.Add(100)) {
		t.Fatalf("decodeMetadata() ctime = %+v", m.ctime)
	}
	if m.errorCount != 0 || len(m.errors) != 0 {
		t.Fatalf("decodeMetadata() errors = %+v", m.errors)
	}
}

func TestDecodeMetadataZeroFileTime(t *testing.T) {
	// S6: a FILETIME of exactly 0 decodes to the FILETIME epoch, not an
	// absent value — "never recovered" and "recovered as zero" are
	// distinguished solely by Present, which decodeMetadata always sets.
	data := buildMetadata(0, 0, 0, 0, 0)
	m, err := decodeMetadata(newCursor(data))
	if err != nil {
		t.Fatalf("decodeMetadata() error: %v", err)
	}
	if !m.ctime.Present {
		t.Fatalf("decodeMetadata() ctime.Present = false; want true for a zero-tick FILETIME")
	}
	if !m.ctime.Value.Equal(epoch1601) {
		t.Fatalf("decodeMetadata() ctime = %v; want epoch", m.ctime.Value)
	}
}

func TestDecodeJobWellFormed(t *testing.T) {
	control := buildControl("my job", "a description", "", "", "S-1-5-21-1-2-3-1001", 1, []byte("token-bytes"))
	file := buildFile(`C:\Windows\Temp\dest.tmp`, `http://example.invalid/file`, `C:\Windows\Temp\dest.tmp`, 2048, 2048, "C:", "{guid}")
	metadata := buildMetadata(10, 20, 30, 40, 50)
	data := buildJob(control, 1, [][]byte{file}, metadata)

	job, filesBlob, err := decodeJob(data)
	if err != nil {
		t.Fatalf("decodeJob() error: %v", err)
	}
	if job.Name != "my job" || job.Desc != "a description" {
		t.Fatalf("decodeJob() Name/Desc = %q/%q", job.Name, job.Desc)
	}
	if job.SID != "S-1-5-21-1-2-3-1001" {
		t.Fatalf("decodeJob() SID = %q", job.SID)
	}
	if job.FileCount != 1 {
		t.Fatalf("decodeJob() FileCount = %d; want 1", job.FileCount)
	}
	if len(filesBlob) == 0 {
		t.Fatalf("decodeJob() filesBlob empty")
	}
	files := split(filesBlob, XferDelimiter)
	if len(files) != 1 {
		t.Fatalf("split(filesBlob) = %d chunks; want 1", len(files))
	}
	f, err := decodeFile(newCursor(files[0]))
	if err != nil {
		t.Fatalf("decodeFile(filesBlob chunk) error: %v", err)
	}
	if f.DownloadSize.Value != 2048 {
		t.Fatalf("decodeFile(filesBlob chunk) DownloadSize = %+v", f.DownloadSize)
	}
}
