package bits

import "testing"

func TestParseQueueWellFormed(t *testing.T) {
	jobsBlob := []byte("job-bytes-here")
	data := buildQueue(1, jobsBlob)
	q, err := parseQueue(data)
	if err != nil {
		t.Fatalf("parseQueue() error: %v", err)
	}
	if q.jobCount != 1 {
		t.Fatalf("parseQueue() jobCount = %d; want 1", q.jobCount)
	}
	if string(q.jobs) != string(jobsBlob) {
		t.Fatalf("parseQueue() jobs = %q; want %q", q.jobs, jobsBlob)
	}
	if len(q.remains) != 0 {
		t.Fatalf("parseQueue() remains = %q; want empty", q.remains)
	}
}

func TestParseQueueWithRemains(t *testing.T) {
	data := append(buildQueue(0, nil), []byte("trailing junk")...)
	q, err := parseQueue(data)
	if err != nil {
		t.Fatalf("parseQueue() error: %v", err)
	}
	if string(q.remains) != "trailing junk" {
		t.Fatalf("parseQueue() remains = %q; want %q", q.remains, "trailing junk")
	}
}

func TestParseQueueMalformed(t *testing.T) {
	_, err := parseQueue([]byte("not a queue file at all"))
	if err == nil {
		t.Fatalf("parseQueue() on garbage: want error, got nil")
	}
	if _, ok := err.(*QueueStructureError); !ok {
		t.Fatalf("parseQueue() error type = %T; want *QueueStructureError", err)
	}
}

func TestParseQueueTruncatedAfterHeader(t *testing.T) {
	_, err := parseQueue(FileHeader)
	if _, ok := err.(*QueueStructureError); !ok {
		t.Fatalf("parseQueue() on truncated input error type = %T; want *QueueStructureError", err)
	}
}
