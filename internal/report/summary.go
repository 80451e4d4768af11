package report

// RunStatus is the terminal state of one organizer invocation.
type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
	StatusCancelled RunStatus = "cancelled"
)

// RunSummary aggregates one organizer invocation. It is mutated incrementally
// while the process runs and copied by value once the process terminates; the
// frozen copy handed to callers is never mutated again.
type RunSummary struct {
	Counts        map[Kind]int
	TotalLines    int
	ExitCode      int
	DurationTicks int64
	Status        RunStatus
}

// NewRunSummary returns an empty summary in the running state.
func NewRunSummary() *RunSummary {
	return &RunSummary{
		Counts: make(map[Kind]int),
		Status: StatusRunning,
	}
}

// Observe folds one record into the summary.
func (s *RunSummary) Observe(rec ActionRecord) {
	s.TotalLines++
	s.Counts[rec.Kind]++
}

// Count returns the number of records observed for a kind.
func (s *RunSummary) Count(kind Kind) int {
	return s.Counts[kind]
}

// Succeeded reports whether the run exited cleanly and produced no error
// records. A non-zero exit code alone is not surfaced as a hard failure; it is
// reported here instead.
func (s *RunSummary) Succeeded() bool {
	return s.Status == StatusCompleted && s.ExitCode == 0 && s.Counts[KindError] == 0
}

// Clone returns an independent copy of the summary.
func (s *RunSummary) Clone() RunSummary {
	out := *s
	out.Counts = make(map[Kind]int, len(s.Counts))
	for kind, count := range s.Counts {
		out.Counts[kind] = count
	}
	return out
}
