package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/backmassage/batchupload/internal/upload"
)

// Writer appends records to the run log. It implements [upload.Recorder].
type Writer struct {
	mu   sync.Mutex
	f    *os.File
	path string
	now  func() time.Time
}

// Open opens path for appending, creating it if absent.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	return &Writer{f: f, path: path, now: time.Now}, nil
}

// Path returns the file the writer appends to.
func (w *Writer) Path() string { return w.path }

// Append writes one complete record with a single write and syncs it, so a
// record is on disk before the next one starts.
func (w *Writer) Append(e Entry, debug string) error {
	rec := Format(e, debug)
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.f.WriteString(rec); err != nil {
		return fmt.Errorf("append run log: %w", err)
	}
	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("sync run log: %w", err)
	}
	return nil
}

// Record builds the entry for one attempt and appends it.
func (w *Writer) Record(job upload.Job, res upload.Result) error {
	return w.Append(EntryFor(job, res, w.now()), DebugLine(job, res))
}

// Close syncs and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return multierr.Append(w.f.Sync(), w.f.Close())
}

// EntryFor maps an upload result onto a log entry.
func EntryFor(job upload.Job, res upload.Result, at time.Time) Entry {
	e := Entry{
		Domain:   job.Target.Domain(),
		VideoID:  res.ServerID,
		FileName: filepath.Base(job.FilePath),
		Time:     at,
		Status:   StatusFailed,
	}
	if res.Success {
		e.Status = StatusSuccess
		return e
	}
	e.ServerResponse = res.ErrorMessage
	if e.ServerResponse == "" {
		e.ServerResponse = res.RawResponse
	}
	return e
}

type debugDump struct {
	File   string `json:"file"`
	Target string `json:"target"`
	upload.Result
}

// DebugLine renders the single-line diagnostic dump written before a record.
func DebugLine(job upload.Job, res upload.Result) string {
	b, err := json.Marshal(debugDump{File: job.FilePath, Target: job.Target.BaseURL, Result: res})
	if err != nil {
		return fmt.Sprintf("%+v", res)
	}
	return string(b)
}
