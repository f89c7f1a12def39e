// Package progress implements the line-oriented progress protocol shared with
// the external monitor. Directives are recognized by a fixed prefix so they can
// be interleaved with ordinary prose on the same stream.
package progress

import (
	"strconv"
	"strings"
)

// Protocol prefixes and the completion sentinel.
const (
	PrefixTotal   = "[PROGRESS_TOTAL]"
	PrefixCurrent = "[PROGRESS_CURRENT]"
	PrefixSuccess = "[PROGRESS_SUCCESS]"
	Sentinel      = "[UPLOAD_FINISHED]"
)

// LineWriter writes one complete line. *logging.Logger satisfies it via Raw.
type LineWriter interface {
	Raw(line string)
}

// Reporter emits protocol lines. There is no failure directive:
// a failure is the absence of a success line for an index.
type Reporter struct {
	w LineWriter
}

// NewReporter returns a Reporter writing through w.
func NewReporter(w LineWriter) *Reporter {
	return &Reporter{w: w}
}

// Total announces the number of files in the run. Emit once, first.
func (r *Reporter) Total(n int) { r.w.Raw(PrefixTotal + strconv.Itoa(n)) }

// Current announces the 1-based index about to be uploaded.
func (r *Reporter) Current(i int) { r.w.Raw(PrefixCurrent + strconv.Itoa(i)) }

// Success announces that index i of n was classified successful.
func (r *Reporter) Success(i, n int) {
	r.w.Raw(PrefixSuccess + strconv.Itoa(i) + "|" + strconv.Itoa(n))
}

// Done writes the completion sentinel. It must be the last line of output.
func (r *Reporter) Done() { r.w.Raw(Sentinel) }

// EventType identifies a parsed protocol line.
type EventType int

const (
	EventTotal EventType = iota + 1
	EventCurrent
	EventSuccess
	EventFinished
)

// Event is one parsed protocol line. Index and Total are set as the
// directive carries them.
type Event struct {
	Type  EventType
	Index int
	Total int
}

// ParseLine recognizes a protocol line. Prose and malformed directives
// return false.
func ParseLine(line string) (Event, bool) {
	line = strings.TrimRight(line, "\r\n")
	switch {
	case line == Sentinel:
		return Event{Type: EventFinished}, true
	case strings.HasPrefix(line, PrefixTotal):
		n, err := strconv.Atoi(strings.TrimPrefix(line, PrefixTotal))
		if err != nil || n < 0 {
			return Event{}, false
		}
		return Event{Type: EventTotal, Total: n}, true
	case strings.HasPrefix(line, PrefixCurrent):
		i, err := strconv.Atoi(strings.TrimPrefix(line, PrefixCurrent))
		if err != nil || i < 1 {
			return Event{}, false
		}
		return Event{Type: EventCurrent, Index: i}, true
	case strings.HasPrefix(line, PrefixSuccess):
		idx, total, ok := strings.Cut(strings.TrimPrefix(line, PrefixSuccess), "|")
		if !ok {
			return Event{}, false
		}
		i, err1 := strconv.Atoi(idx)
		n, err2 := strconv.Atoi(total)
		if err1 != nil || err2 != nil || i < 1 || i > n {
			return Event{}, false
		}
		return Event{Type: EventSuccess, Index: i, Total: n}, true
	}
	return Event{}, false
}

// State folds events into what a monitor would display.
type State struct {
	Total     int
	Current   int
	Succeeded []int
	Finished  bool
}

// Apply folds one event into s.
func (s *State) Apply(ev Event) {
	switch ev.Type {
	case EventTotal:
		s.Total = ev.Total
	case EventCurrent:
		s.Current = ev.Index
	case EventSuccess:
		s.Succeeded = append(s.Succeeded, ev.Index)
	case EventFinished:
		s.Finished = true
	}
}
