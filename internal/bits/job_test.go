package bits

import "testing"

func TestParseCleanJobsSingleJob(t *testing.T) {
	control := buildControl("single job", "", "", "", "S-1-5-21-1-2-3-1001", 0, nil)
	file := buildFile(`C:\dest.tmp`, `http://example.invalid/a`, `C:\dest.tmp`, 10, 10, "C:", "{guid}")
	metadata := buildMetadata(1, 2, 3, 4, 5)
	jobBytes := buildJob(control, 1, [][]byte{file}, metadata)

	diag := &recordingDiag{}
	jobs := parseCleanJobs(jobBytes, JobDelimiters[1], diag)
	if len(jobs) != 1 {
		t.Fatalf("parseCleanJobs() returned %d jobs; want 1", len(jobs))
	}
	job := jobs[0]
	if job.Name != "single job" {
		t.Fatalf("parseCleanJobs() Name = %q", job.Name)
	}
	if len(job.Files) != 1 || job.Files[0].DownloadSize.Value != 10 {
		t.Fatalf("parseCleanJobs() Files = %+v", job.Files)
	}
	for _, e := range diag.events {
		if e == "field_count_mismatch" {
			t.Fatalf("parseCleanJobs() unexpected field_count_mismatch for a well-formed job")
		}
	}
}

func TestParseCleanJobsTwoJobsSplitOnDelimiter(t *testing.T) {
	delim := JobDelimiters[2]
	control1 := buildControl("job one", "", "", "", "S-1-5-21-1-2-3-1001", 0, nil)
	file1 := buildFile(`C:\a.tmp`, `http://example.invalid/a`, `C:\a.tmp`, 1, 1, "C:", "{guid}")
	job1 := buildJob(control1, 1, [][]byte{file1}, buildMetadata(1, 1, 1, 1, 1))

	control2 := buildControl("job two", "", "", "", "S-1-5-21-1-2-3-1002", 0, nil)
	file2 := buildFile(`C:\b.tmp`, `http://example.invalid/b`, `C:\b.tmp`, 2, 2, "C:", "{guid}")
	job2 := buildJob(control2, 1, [][]byte{file2}, buildMetadata(2, 2, 2, 2, 2))

	clean := append(append(append([]byte{}, job1...), delim...), job2...)

	diag := &recordingDiag{}
	jobs := parseCleanJobs(clean, delim, diag)
	if len(jobs) != 2 {
		t.Fatalf("parseCleanJobs() returned %d jobs; want 2", len(jobs))
	}
	names := map[string]bool{jobs[0].Name: true, jobs[1].Name: true}
	if !names["job one"] || !names["job two"] {
		t.Fatalf("parseCleanJobs() names = %v; want job one and job two", names)
	}
}

func TestParseCleanJobsFieldCountMismatch(t *testing.T) {
	control := buildControl("mismatched job", "", "", "", "S-1-5-21-1-2-3-1001", 0, nil)
	file := buildFile(`C:\dest.tmp`, `http://example.invalid/a`, `C:\dest.tmp`, 10, 10, "C:", "{guid}")
	// fileCount claims 2 but only one FILE record is actually present.
	jobBytes := buildJob(control, 2, [][]byte{file}, buildMetadata(1, 2, 3, 4, 5))

	diag := &recordingDiag{}
	jobs := parseCleanJobs(jobBytes, JobDelimiters[1], diag)
	if len(jobs) != 1 {
		t.Fatalf("parseCleanJobs() returned %d jobs; want 1", len(jobs))
	}
	found := false
	for _, e := range diag.events {
		if e == "field_count_mismatch" {
			found = true
		}
	}
	if !found {
		t.Fatalf("parseCleanJobs() diag events = %v; want field_count_mismatch", diag.events)
	}
}

func TestParseCleanJobsEmptyInput(t *testing.T) {
	if jobs := parseCleanJobs(nil, JobDelimiters[1], NopDiagnostics{}); jobs != nil {
		t.Fatalf("parseCleanJobs(nil) = %v; want nil", jobs)
	}
}
