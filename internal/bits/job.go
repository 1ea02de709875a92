package bits

// parseCleanJobs is the deterministic clean-path job parser. It splits
// clean on delimiter, decodes each chunk as a JOB, re-splits its
// file-transfers blob on XferDelimiter, and decodes each sub-chunk as a
// FILE — silently dropping file sub-chunks that fail to decode. A
// fileCount mismatch is reported to diag but does not suppress the
// record.
func parseCleanJobs(clean []byte, delimiter []byte, diag Diagnostics) []Job {
	if len(clean) == 0 || len(delimiter) == 0 {
		return nil
	}
	var jobs []Job
	for _, chunk := range split(clean, delimiter) {
		job, filesBlob, err := decodeJob(chunk)
		if err != nil {
			diag.Warn("job_decode_failed", map[string]any{
				"bytes": len(chunk),
				"error": err.Error(),
			})
			continue
		}
		var files []File
		for _, fileChunk := range split(filesBlob, XferDelimiter) {
			f, err := decodeFile(newCursor(fileChunk))
			if err != nil {
				diag.Warn("file_decode_failed", map[string]any{
					"bytes": len(fileChunk),
					"error": err.Error(),
				})
				continue
			}
			files = append(files, f)
		}
		job.Files = files
		if uint32(len(files)) != job.FileCount {
			diag.Warn("field_count_mismatch", map[string]any{
				"job_id":   job.JobID,
				"expected": job.FileCount,
				"found":    len(files),
			})
		}
		jobs = append(jobs, job)
	}
	return jobs
}
