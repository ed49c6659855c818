package domain

import "time"

type CycleOutcome string

const (
	OutcomeCommitted CycleOutcome = "committed"
	OutcomeEmpty     CycleOutcome = "empty"
)

// CycleResult summarizes one completed collection cycle.
type CycleResult struct {
	ExecID     string
	StartedAt  time.Time
	Outcome    CycleOutcome
	Committed  int
	Rejected   int
	// PerSource holds the number of accepted records per source name,
	// including zeroes for sources that failed.
	PerSource map[string]int
}
