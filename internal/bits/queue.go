package bits

// QueueStructureError means the input is not a well-formed queue
// container. Recovered locally — the orchestrator falls back to
// treating the whole file as raw carving input.
type QueueStructureError struct{ Err error }

func (e *QueueStructureError) Error() string {
	return "bits: not a well-formed queue: " + e.Err.Error()
}
func (e *QueueStructureError) Unwrap() error { return e.Err }

type queueFile struct {
	jobCount uint32
	jobs     []byte
	remains  []byte
}

// parseQueue decodes the entire input as one QUEUE container —
// header:DelimitedField(FileHeader), const FileHeader, const
// QueueHeader, job_count:u32, jobs:DelimitedField(QueueHeader), const
// QueueHeader, unknown:DelimitedField(FileHeader), const FileHeader,
// remains:rest. On any failure it returns a *QueueStructureError; the
// caller treats the whole input as raw in that case.
func parseQueue(data []byte) (queueFile, error) {
	c := newCursor(data)
	if _, err := c.delimited(FileHeader); err != nil {
		return queueFile{}, &QueueStructureError{err}
	}
	if err := c.expect(FileHeader); err != nil {
		return queueFile{}, &QueueStructureError{err}
	}
	if err := c.expect(QueueHeader); err != nil {
		return queueFile{}, &QueueStructureError{err}
	}
	jobCount, err := c.u32le()
	if err != nil {
		return queueFile{}, &QueueStructureError{err}
	}
	jobs, err := c.delimited(QueueHeader)
	if err != nil {
		return queueFile{}, &QueueStructureError{err}
	}
	if err := c.expect(QueueHeader); err != nil {
		return queueFile{}, &QueueStructureError{err}
	}
	if _, err := c.delimited(FileHeader); err != nil {
		return queueFile{}, &QueueStructureError{err}
	}
	if err := c.expect(FileHeader); err != nil {
		return queueFile{}, &QueueStructureError{err}
	}
	remains := c.rest()
	return queueFile{jobCount: jobCount, jobs: jobs, remains: remains}, nil
}
