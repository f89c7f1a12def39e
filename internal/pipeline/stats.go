package pipeline

import "time"

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total     int
	Current   int
	Succeeded int
	Failed    int
	Planned   int // Dry-run only.
	BytesSent int64
	Elapsed   time.Duration
}

// Attempted returns the number of files that reached the upload client.
func (s *RunStats) Attempted() int {
	return s.Succeeded + s.Failed
}
