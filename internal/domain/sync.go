package domain

// SyncState is the synchronizer's coarse lifecycle state.
type SyncState string

const (
	SyncIdle    SyncState = "idle"
	SyncRunning SyncState = "running"
)

// SyncOutcome classifies one finished sync cycle. A single task error can
// only degrade the cycle to PartiallyFailed; there is no terminal failure.
type SyncOutcome string

const (
	SyncSkippedOffline  SyncOutcome = "skipped_offline"
	SyncSkippedBusy     SyncOutcome = "skipped_busy"
	SyncCompleted       SyncOutcome = "completed"
	SyncPartiallyFailed SyncOutcome = "partially_failed"
)

// SyncReport summarizes one sync cycle.
type SyncReport struct {
	Outcome    SyncOutcome
	TaskErrors map[string]error
	Upserted   int
}
