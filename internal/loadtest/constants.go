package loadtest

import "time"

// Defaults for a load run.
const (
	DefaultJobs         = 200
	DefaultWorkers      = 8
	DefaultTimeout      = 10 * time.Second
	DefaultPollInterval = 50 * time.Millisecond
	DefaultDeadline     = 2 * time.Minute

	maxResponseBytes = 16 << 20
)
