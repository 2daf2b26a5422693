package constants

// JobStatus is the canonical status for rows in grade_job.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued       JobStatus = "QUEUED"        // accepted, not started
	JobStatusRunning      JobStatus = "RUNNING"       // in progress
	JobStatusFeedbackOK   JobStatus = "FEEDBACK_OK"   // stage 1 completed (raw feedback received)
	JobStatusStructuredOK JobStatus = "STRUCTURED_OK" // stage 2 completed (records validated)
	JobStatusFailed       JobStatus = "FAILED"        // terminal failure
)
