package bits

import (
	"fmt"
	"time"
)

// JobType is the BITS job transfer direction, decoded from a 32-bit field.
type JobType uint32

const (
	JobTypeDownload    JobType = 0
	JobTypeUpload      JobType = 1
	JobTypeUploadReply JobType = 2
)

func (t JobType) String() string {
	switch t {
	case JobTypeDownload:
		return "download"
	case JobTypeUpload:
		return "upload"
	case JobTypeUploadReply:
		return "upload_reply"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}

// JobPriority is the BITS transfer priority, decoded from a 32-bit field.
type JobPriority uint32

const (
	JobPriorityForeground JobPriority = 0
	JobPriorityHigh       JobPriority = 1
	JobPriorityNormal     JobPriority = 2
	JobPriorityLow        JobPriority = 3
)

func (p JobPriority) String() string {
	switch p {
	case JobPriorityForeground:
		return "foreground"
	case JobPriorityHigh:
		return "high"
	case JobPriorityNormal:
		return "normal"
	case JobPriorityLow:
		return "low"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(p))
	}
}

// JobState is the BITS job lifecycle state, decoded from a 32-bit field.
type JobState uint32

const (
	JobStateQueued         JobState = 0
	JobStateConnecting     JobState = 1
	JobStateTransferring   JobState = 2
	JobStateSuspended      JobState = 3
	JobStateError          JobState = 4
	JobStateTransientError JobState = 5
	JobStateTransferred    JobState = 6
	JobStateAcknowledged   JobState = 7
	JobStateCancelled      JobState = 8
)

func (s JobState) String() string {
	switch s {
	case JobStateQueued:
		return "queued"
	case JobStateConnecting:
		return "connecting"
	case JobStateTransferring:
		return "transferring"
	case JobStateSuspended:
		return "suspended"
	case JobStateError:
		return "error"
	case JobStateTransientError:
		return "transient_error"
	case JobStateTransferred:
		return "transferred"
	case JobStateAcknowledged:
		return "acknowledged"
	case JobStateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(s))
	}
}

// JobFlags is the BITS notification-bit combination, decoded from a
// 32-bit field. Values are the bitwise-OR of BG_NOTIFY_* constants as
// BITS itself defines them; bitsqmgr only names the combinations the
// original format actually emits.
type JobFlags uint32

const (
	FlagJobTransferred                     JobFlags = 1
	FlagJobError                           JobFlags = 2
	FlagJobTransferredOrError              JobFlags = 3
	FlagDisable                            JobFlags = 4
	FlagJobTransferredAndDisable           JobFlags = 5
	FlagJobErrorAndDisable                 JobFlags = 6
	FlagJobTransferredOrErrorAndDisable    JobFlags = 7
	FlagJobModification                    JobFlags = 8
	FlagFileTransferred                    JobFlags = 16
)

func (f JobFlags) String() string {
	switch f {
	case FlagJobTransferred:
		return "BG_NOTIFY_JOB_TRANSFERRED"
	case FlagJobError:
		return "BG_NOTIFY_JOB_ERROR"
	case FlagJobTransferredOrError:
		return "BG_NOTIFY_JOB_TRANSFERRED_BG_NOTIFY_JOB_ERROR"
	case FlagDisable:
		return "BG_NOTIFY_DISABLE"
	case FlagJobTransferredAndDisable:
		return "BG_NOTIFY_JOB_TRANSFERRED_BG_NOTIFY_DISABLE"
	case FlagJobErrorAndDisable:
		return "BG_NOTIFY_JOB_ERROR_BG_NOTIFY_DISABLE"
	case FlagJobTransferredOrErrorAndDisable:
		return "BG_NOTIFY_JOB_TRANSFERRED_BG_NOTIFY_JOB_ERROR_BG_NOTIFY_DISABLE"
	case FlagJobModification:
		return "BG_NOTIFY_JOB_MODIFICATION"
	case FlagFileTransferred:
		return "BG_NOTIFY_FILE_TRANSFERRED"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(f))
	}
}

// OptionalUint64 carries a 64-bit size alongside whether it was ever
// populated. The carver frequently recovers a File record without ever
// witnessing its size fields, and the all-bits-set sentinel BITS itself
// uses for "unknown size" is a third, distinct case: the field was
// decoded, its value is just not a real size. Unknown marks that case
// separately from Present so a consumer can tell "never recovered"
// apart from "recovered, and BITS says it doesn't know".
type OptionalUint64 struct {
	Value   uint64
	Present bool
	Unknown bool
}

// OptionalTime carries a decoded FILETIME alongside whether the field
// was recovered at all, mirroring OptionalUint64's reasoning.
type OptionalTime struct {
	Value   time.Time
	Present bool
}

// Error is one BITS job error record.
type Error struct {
	Code  uint64
	Stat1 uint32
	Stat2 uint32
	Stat3 uint32
	Stat4 uint32
}

// File is one file transfer within a Job.
type File struct {
	DestFn       string
	SrcFn        string
	TmpFn        string
	DownloadSize OptionalUint64
	TransferSize OptionalUint64
	Drive        string
	VolGUID      string
}

// anyPopulated reports whether at least one field of the File carries
// information recovered from the input, used by the carver's
// "drop only records that witness nothing" output filter.
func (f File) anyPopulated() bool {
	return f.DestFn != "" || f.SrcFn != "" || f.TmpFn != "" ||
		f.DownloadSize.Present || f.DownloadSize.Unknown ||
		f.TransferSize.Present || f.TransferSize.Unknown ||
		f.Drive != "" || f.VolGUID != ""
}

// Job is one BITS transfer job record, the unit bitsqmgr yields.
type Job struct {
	JobID       string
	Type        JobType
	HasType     bool
	Priority    JobPriority
	HasPriority bool
	State       JobState
	HasState    bool
	Name        string
	Desc        string
	Cmd         string
	Args        string
	SID         string
	Flags       JobFlags
	HasFlags    bool
	AccessToken []byte

	FileCount    uint32
	HasFileCount bool
	Files        []File

	ErrorCount    uint32
	HasErrorCount bool
	Errors        []Error

	TransientErrorCount    uint32
	HasTransientErrorCount bool
	RetryDelay             uint32
	HasRetryDelay          bool
	Timeout                uint32
	HasTimeout             bool

	CTime      OptionalTime
	MTime      OptionalTime
	OtherTime0 OptionalTime
	OtherTime1 OptionalTime
	OtherTime2 OptionalTime

	Carved bool
}

// anyPopulated reports whether at least one top-level field of the Job
// carries recovered information — the carver output filter requires this
// before a carved record is yielded.
func (j Job) anyPopulated() bool {
	if j.JobID != "" || j.HasType || j.HasPriority || j.HasState {
		return true
	}
	if j.Name != "" || j.Desc != "" || j.Cmd != "" || j.Args != "" || j.SID != "" {
		return true
	}
	if j.HasFlags || len(j.AccessToken) > 0 {
		return true
	}
	if j.HasFileCount || len(j.Files) > 0 {
		return true
	}
	if j.HasErrorCount || len(j.Errors) > 0 {
		return true
	}
	if j.HasTransientErrorCount || j.HasRetryDelay || j.HasTimeout {
		return true
	}
	if j.CTime.Present || j.MTime.Present || j.OtherTime0.Present ||
		j.OtherTime1.Present || j.OtherTime2.Present {
		return true
	}
	return false
}

// isTrivial reports whether a carved job is "a single file record with
// every field zero" — never yielded by the output filter, even though
// its presence flags alone might say otherwise (e.g. a FileCount of 1
// with a wholly-empty File).
func (j Job) isTrivial() bool {
	if len(j.Files) != 1 {
		return false
	}
	if j.Files[0].anyPopulated() {
		return false
	}
	// a trivial single-file job is only "nothing witnessed" when no
	// other top-level field carries information either.
	trivial := j
	trivial.Files = nil
	trivial.HasFileCount = false
	return !trivial.anyPopulated()
}
