package history

import (
	"time"

	"curator/internal/report"
)

// Run is one stored organizer invocation.
type Run struct {
	ID            string
	Mode          string
	RuleFile      string
	Status        report.RunStatus
	ExitCode      int
	TotalLines    int
	DurationTicks int64
	Counts        map[report.Kind]int
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// Succeeded mirrors the run summary derivation for stored runs.
func (r *Run) Succeeded() bool {
	return r.Status == report.StatusCompleted && r.ExitCode == 0 && r.Counts[report.KindError] == 0
}
