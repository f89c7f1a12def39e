package runlog

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// Delta is what one read pass recovered from the log.
type Delta struct {
	Entries   []Entry
	Malformed int   // Complete blocks that failed to parse.
	Offset    int64 // Where the next pass should start.
	Pending   int   // Bytes of a trailing partial record left for the next pass.
}

// ReadDelta reads complete records appended since offset. A file shorter
// than offset is treated as replaced and read from the start.
func ReadDelta(path string, offset int64) (Delta, error) {
	f, err := os.Open(path)
	if err != nil {
		return Delta{}, fmt.Errorf("open run log: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return Delta{}, fmt.Errorf("stat run log: %w", err)
	}
	if offset < 0 || fi.Size() < offset {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return Delta{}, fmt.Errorf("seek run log: %w", err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return Delta{}, fmt.Errorf("read run log: %w", err)
	}

	blocks, rest := Split(string(data))
	d := Delta{Offset: offset + int64(len(data)-len(rest)), Pending: len(rest)}
	for _, b := range blocks {
		e, err := ParseRecord(b)
		if err != nil {
			d.Malformed++
			continue
		}
		d.Entries = append(d.Entries, e)
	}
	return d, nil
}

// DomainCount tallies outcomes for one domain.
type DomainCount struct {
	Succeeded int
	Failed    int
}

// Summary is a run reconstructed from log entries.
type Summary struct {
	Total       int
	Succeeded   int
	Failed      int
	PerDomain   map[string]DomainCount
	FailedFiles []string
	VideoIDs    []string
}

// Domains returns the domains in the summary, sorted.
func (s Summary) Domains() []string {
	out := make([]string, 0, len(s.PerDomain))
	for d := range s.PerDomain {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Summarize folds entries into a Summary.
func Summarize(entries []Entry) Summary {
	s := Summary{PerDomain: make(map[string]DomainCount)}
	for _, e := range entries {
		s.Total++
		dc := s.PerDomain[e.Domain]
		if e.Succeeded() {
			s.Succeeded++
			dc.Succeeded++
			if e.VideoID != "" {
				s.VideoIDs = append(s.VideoIDs, e.VideoID)
			}
		} else {
			s.Failed++
			dc.Failed++
			s.FailedFiles = append(s.FailedFiles, e.FileName)
		}
		s.PerDomain[e.Domain] = dc
	}
	return s
}
