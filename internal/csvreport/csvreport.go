// Package csvreport flattens a BITS job stream into the fixed-column CSV
// format operators and downstream tooling expect: one row per file
// transfer, with job-level fields repeated across every file row and a
// single empty-file row for jobs that carry no files at all.
package csvreport

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/marmos91/bitsqmgr/internal/bits"
)

// columns is the fixed, ordered column set. Column order and the
// default value substituted for an absent field are load-bearing:
// existing downstream reports parse this CSV positionally.
var columns = []string{
	"job_id", "name", "desc", "type", "priority", "sid", "state",
	"cmd", "args", "file_count", "file_id", "dest_fn", "src_fn",
	"tmp_fn", "download_size", "transfer_size", "drive", "vol_guid",
	"ctime", "mtime", "other_time0", "other_time1", "other_time2",
	"carved",
}

// Write streams one CSV row per file transfer in jobs, in order, with
// a header row first.
func Write(w io.Writer, jobs []bits.Job) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, j := range jobs {
		for _, row := range flatten(j) {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// flatten produces one row per File in j, or a single row with empty
// file columns when j has no files.
func flatten(j bits.Job) [][]string {
	if len(j.Files) == 0 {
		return [][]string{row(j, bits.File{}, 0)}
	}
	rows := make([][]string, len(j.Files))
	for i, f := range j.Files {
		rows[i] = row(j, f, i)
	}
	return rows
}

func row(j bits.Job, f bits.File, fileID int) []string {
	return []string{
		j.JobID,
		j.Name,
		j.Desc,
		optionalEnum(j.HasType, j.Type.String()),
		optionalEnum(j.HasPriority, j.Priority.String()),
		j.SID,
		optionalEnum(j.HasState, j.State.String()),
		j.Cmd,
		j.Args,
		strconv.FormatUint(uint64(j.FileCount), 10),
		strconv.Itoa(fileID),
		f.DestFn,
		f.SrcFn,
		f.TmpFn,
		optionalSize(f.DownloadSize),
		optionalSize(f.TransferSize),
		f.Drive,
		f.VolGUID,
		optionalTimestamp(j.CTime),
		optionalTimestamp(j.MTime),
		optionalTimestamp(j.OtherTime0),
		optionalTimestamp(j.OtherTime1),
		optionalTimestamp(j.OtherTime2),
		strconv.FormatBool(j.Carved),
	}
}

func optionalEnum(present bool, rendered string) string {
	if !present {
		return ""
	}
	return rendered
}

// optionalSize renders a size field as -1 when the field was never
// recovered, empty when BITS itself recorded the all-bits-set "unknown
// size" sentinel, and the decimal value otherwise. These are distinct
// cases: one is a parsing gap, the other is the source data saying it
// doesn't know.
func optionalSize(v bits.OptionalUint64) string {
	if v.Unknown {
		return ""
	}
	if !v.Present {
		return "-1"
	}
	return strconv.FormatUint(v.Value, 10)
}

func optionalTimestamp(v bits.OptionalTime) string {
	if !v.Present {
		return ""
	}
	return v.Value.UTC().Format(time.RFC3339)
}
