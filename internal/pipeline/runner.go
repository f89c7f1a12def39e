package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/batchupload/internal/config"
	"github.com/backmassage/batchupload/internal/display"
	"github.com/backmassage/batchupload/internal/logging"
	"github.com/backmassage/batchupload/internal/naming"
	"github.com/backmassage/batchupload/internal/progress"
	"github.com/backmassage/batchupload/internal/upload"
)

const maxProseName = 80

// Uploader performs one upload. *upload.Client implements it.
type Uploader interface {
	Upload(ctx context.Context, job upload.Job) upload.Result
}

// Options is the resolved, read-only run configuration.
type Options struct {
	SourceDir       string
	Targets         []config.Target
	Description     string
	UploadDelay     time.Duration
	DeleteOnSuccess bool
	DryRun          bool
	RunLog          string

	// TitleFunc derives the upload title from a path. Defaults to naming.Title.
	TitleFunc func(path string) string
}

// OptionsFromConfig builds run options from a validated config and its
// resolved targets.
func OptionsFromConfig(cfg *config.Config, targets []config.Target) Options {
	return Options{
		SourceDir:       cfg.SourceDir,
		Targets:         targets,
		Description:     cfg.Description,
		UploadDelay:     time.Duration(cfg.UploadDelay) * time.Second,
		DeleteOnSuccess: cfg.DeleteOnSuccess,
		DryRun:          cfg.DryRun,
		RunLog:          cfg.RunLog,
	}
}

// Deps are the collaborators of a run.
type Deps struct {
	Log      *logging.Logger
	Uploader Uploader
	Recorder upload.Recorder // Receives every result the uploader did not record itself.

	// Sleep blocks between uploads. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration)
}

// Run is the top-level batch entry point. It uploads every discovered file
// sequentially and returns aggregate stats. The completion sentinel is
// always the last line written, whatever path the run takes.
func Run(ctx context.Context, opts Options, deps Deps) RunStats {
	var stats RunStats
	start := time.Now()
	rep := progress.NewReporter(deps.Log)
	defer rep.Done()

	if opts.TitleFunc == nil {
		opts.TitleFunc = naming.Title
	}
	if deps.Sleep == nil {
		deps.Sleep = sleep
	}

	if len(opts.Targets) == 0 {
		deps.Log.Warn("No upload targets configured, nothing to do")
		return stats
	}

	files, err := Discover(opts.SourceDir)
	if err != nil {
		deps.Log.Error("File discovery failed: %v", err)
		return stats
	}
	if len(files) == 0 {
		deps.Log.Warn("No video files found in %s, nothing to do", opts.SourceDir)
		return stats
	}

	stats.Total = len(files)
	logBatchHeader(opts, deps.Log, &stats)

	if opts.DryRun {
		PrintPlan(deps.Log, files, opts.Targets, opts.TitleFunc)
		stats.Planned = len(files)
		logSummary(opts, deps.Log, &stats)
		return stats
	}

	rep.Total(stats.Total)
	for i, path := range files {
		if ctx.Err() != nil {
			deps.Log.Warn("Interrupted")
			break
		}
		stats.Current = i + 1

		processFile(ctx, opts, deps, rep, &stats, i, path)

		if opts.UploadDelay > 0 && i < len(files)-1 {
			deps.Log.Info("Waiting %s before next upload", display.FormatElapsed(opts.UploadDelay))
			deps.Sleep(ctx, opts.UploadDelay)
		}
	}

	stats.Elapsed = time.Since(start)
	logSummary(opts, deps.Log, &stats)
	return stats
}

// processFile handles one file: assign target → upload → record → apply
// the success or failure policy. Nothing escapes it; a panic is turned into
// a recorded failure.
func processFile(
	ctx context.Context,
	opts Options,
	deps Deps,
	rep *progress.Reporter,
	stats *RunStats,
	index int,
	path string,
) {
	base := display.Truncate(filepath.Base(path), maxProseName)
	job := upload.Job{
		FilePath:    path,
		Target:      opts.Targets[index%len(opts.Targets)],
		Description: opts.Description,
	}
	settled := false

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		deps.Log.Error("Unexpected error while processing %s: %v", base, r)
		if settled {
			return
		}
		res := upload.Result{Failure: upload.FailureTransport, ErrorMessage: fmt.Sprintf("Unexpected error: %v", r)}
		record(deps, job, res)
		stats.Failed++
		moveToFailed(opts, deps.Log, path)
		deps.Log.Blank()
	}()

	rep.Current(index + 1)
	job.Title = opts.TitleFunc(path)
	deps.Log.Info("[%d/%d] Uploading %s -> %s", index+1, stats.Total, base, job.Target.Domain())
	deps.Log.Debug("Title: %q", job.Title)

	res := deps.Uploader.Upload(ctx, job)
	if !res.Recorded {
		record(deps, job, res)
	}
	settled = true

	if res.Success {
		stats.Succeeded++
		stats.BytesSent += res.BytesSent
		deps.Log.Success("Uploaded %s (video ID %s)", base, res.ServerID)
		rep.Success(index+1, stats.Total)
		if opts.DeleteOnSuccess {
			if err := os.Remove(path); err != nil {
				deps.Log.Warn("Uploaded but could not delete %s: %v", base, err)
			} else {
				deps.Log.Info("Deleted %s", base)
			}
		}
	} else {
		stats.Failed++
		deps.Log.Error("Upload failed: %s", res.ErrorMessage)
		moveToFailed(opts, deps.Log, path)
	}
	deps.Log.Blank()
}

func record(deps Deps, job upload.Job, res upload.Result) {
	if deps.Recorder == nil {
		return
	}
	if err := deps.Recorder.Record(job, res); err != nil {
		deps.Log.Warn("Cannot write run log: %v", err)
	}
}

// moveToFailed moves path into the failed subdirectory, keeping its name.
// Errors are reported and otherwise ignored.
func moveToFailed(opts Options, log *logging.Logger, path string) {
	dir := filepath.Join(opts.SourceDir, FailedDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn("Cannot create %s: %v", dir, err)
		return
	}
	name := filepath.Base(path)
	if err := os.Rename(path, filepath.Join(dir, name)); err != nil {
		log.Warn("Cannot move %s to %s: %v", display.Truncate(name, maxProseName), FailedDir, err)
		return
	}
	log.Info("Moved to %s/%s", FailedDir, display.Truncate(name, maxProseName))
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// --- Logging helpers ---

func logBatchHeader(opts Options, log *logging.Logger, stats *RunStats) {
	log.Info("Run %s", uuid.NewString())
	log.Info("Found %d files in %s", stats.Total, opts.SourceDir)
	log.Info("Targets: %d (round robin)", len(opts.Targets))
	for i, t := range opts.Targets {
		cat := "none"
		if t.CategoryID > 0 {
			cat = fmt.Sprint(t.CategoryID)
		}
		log.Info("  [%d] %s (user %s, category %s)", i+1, t.Domain(), t.User, cat)
	}
	if opts.UploadDelay > 0 {
		log.Info("Delay between uploads: %s", display.FormatElapsed(opts.UploadDelay))
	}
	if opts.DeleteOnSuccess {
		log.Info("Uploaded files will be deleted")
	} else {
		log.Info("Uploaded files will be kept")
	}
	if opts.RunLog != "" && !opts.DryRun {
		log.Info("Run log: %s", opts.RunLog)
	}
	if opts.DryRun {
		log.Warn("DRY RUN")
	}
	log.Blank()
}

func logSummary(opts Options, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	if opts.DryRun {
		log.Info("Done: %d planned (dry run, nothing uploaded)", stats.Planned)
		return
	}
	log.Info("Done: %d uploaded, %d failed", stats.Succeeded, stats.Failed)
	log.Info("Summary report:")
	log.Info("  Total files processed: %d of %d", stats.Attempted(), stats.Total)
	log.Info("  Data sent: %s", display.FormatBytes(stats.BytesSent))
	log.Info("  Elapsed: %s", display.FormatElapsed(stats.Elapsed))
	if stats.Failed > 0 {
		log.Warn("  Failed files were moved to %s", filepath.Join(opts.SourceDir, FailedDir))
	}
}
