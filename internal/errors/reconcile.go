package errors

var (
	ErrSweepInProgress = &DomainError{
		Code:    "SWEEP_IN_PROGRESS",
		Message: "a reconciliation sweep for this job is already running",
	}
	ErrUnknownJob = &DomainError{
		Code:    "UNKNOWN_JOB",
		Message: "unknown reconciliation job",
	}
)
