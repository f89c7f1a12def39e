package runlog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status literals. The misspelling is part of the on-disk format that
// existing monitors match on.
const (
	StatusSuccess = "Upload Succes"
	StatusFailed  = "FAILED"
)

// Record delimiters and field keys.
const (
	DashRule    = "----------------------------------------"
	EqualsRule  = "========================================"
	DebugPrefix = "DEBUG "
	TimeLayout  = "2006-01-02 15:04:05"

	keyDomain   = "Domain"
	keyVideoID  = "Video ID"
	keyFile     = "File"
	keyDate     = "Date"
	keyStatus   = "Status"
	keyResponse = "Server Response"

	noVideoID = "N/A"
)

var (
	// ErrIncompleteRecord is returned for a block missing a required field.
	ErrIncompleteRecord = errors.New("incomplete log record")
	// ErrUnknownStatus is returned when Status is neither literal.
	ErrUnknownStatus = errors.New("unknown record status")
)

// Entry is one persisted attempt.
type Entry struct {
	Domain         string
	VideoID        string // Empty when the server assigned none.
	FileName       string
	Time           time.Time
	Status         string
	ServerResponse string // Failures only.
}

// Succeeded reports whether the entry records a successful upload.
func (e Entry) Succeeded() bool { return e.Status == StatusSuccess }

var flattener = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func oneLine(s string) string { return flattener.Replace(s) }

// Format renders e as a complete record. debug, when non-empty, becomes the
// leading diagnostic line.
func Format(e Entry, debug string) string {
	var b strings.Builder
	if debug != "" {
		b.WriteString(DebugPrefix + oneLine(debug) + "\n")
	}
	id := e.VideoID
	if id == "" {
		id = noVideoID
	}
	field(&b, keyDomain, e.Domain)
	field(&b, keyVideoID, id)
	field(&b, keyFile, e.FileName)
	field(&b, keyDate, e.Time.Format(TimeLayout))
	field(&b, keyStatus, e.Status)
	if e.Status != StatusSuccess {
		field(&b, keyResponse, e.ServerResponse)
	}
	b.WriteString(DashRule + "\n")
	b.WriteString(EqualsRule + "\n\n")
	return b.String()
}

func field(b *strings.Builder, key, value string) {
	b.WriteString(key + ": " + oneLine(value) + "\n")
}

// ParseRecord parses one block produced by [Split]. The DEBUG line and the
// rule lines are ignored.
func ParseRecord(block string) (Entry, error) {
	var (
		e    Entry
		seen = map[string]bool{}
	)
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line == DashRule || line == EqualsRule || strings.HasPrefix(line, DebugPrefix) {
			continue
		}
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			// "Key:" with an empty value.
			key, ok = strings.CutSuffix(line, ":")
			if !ok {
				continue
			}
		}
		switch key {
		case keyDomain:
			e.Domain = value
		case keyVideoID:
			if value != noVideoID {
				e.VideoID = value
			}
		case keyFile:
			e.FileName = value
		case keyDate:
			t, err := time.ParseInLocation(TimeLayout, value, time.Local)
			if err != nil {
				return Entry{}, fmt.Errorf("%w: bad date %q", ErrIncompleteRecord, value)
			}
			e.Time = t
		case keyStatus:
			e.Status = value
		case keyResponse:
			e.ServerResponse = value
		default:
			continue
		}
		seen[key] = true
	}
	for _, k := range []string{keyDomain, keyFile, keyDate, keyStatus} {
		if !seen[k] {
			return Entry{}, fmt.Errorf("%w: missing %s", ErrIncompleteRecord, k)
		}
	}
	if e.Status != StatusSuccess && e.Status != StatusFailed {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownStatus, e.Status)
	}
	return e, nil
}

// Split cuts text into complete records. A record ends at its equals rule
// line plus an optional blank line; anything after the last complete record
// is returned as rest.
func Split(text string) (records []string, rest string) {
	marker := "\n" + EqualsRule + "\n"
	for {
		i := strings.Index(text, marker)
		if i < 0 {
			return records, text
		}
		end := i + len(marker)
		if end < len(text) && text[end] == '\n' {
			end++
		}
		records = append(records, text[:end])
		text = text[end:]
	}
}
