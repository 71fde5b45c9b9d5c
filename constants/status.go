package constants

// JobStatus is the canonical status for rows in translation_jobs.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusQueued    JobStatus = "QUEUED"  // accepted by the worker, not started
	JobStatusRunning   JobStatus = "RUNNING" // in progress
	JobStatusSucceeded JobStatus = "SUCCEEDED"
	JobStatusFailed    JobStatus = "FAILED" // terminal failure
)

// JobKind distinguishes image and text requests in the ledger.
type JobKind string

const (
	JobKindImage JobKind = "IMAGE"
	JobKindText  JobKind = "TEXT"
)
