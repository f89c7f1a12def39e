// Package check provides the --check diagnostics: source directory, run log
// location and reachability of every configured upload target.
package check

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/backmassage/batchupload/internal/config"
	"github.com/backmassage/batchupload/internal/pipeline"
)

// ProbeTimeout bounds each target reachability request.
const ProbeTimeout = 10 * time.Second

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the --check flow and returns the number of problems found.
// It is informational: nothing is uploaded and no log record is written.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger, hc *http.Client) int {
	if hc == nil {
		hc = &http.Client{Timeout: ProbeTimeout}
	}
	log.Info("=== System Check ===")

	problems := 0
	if !checkSource(cfg, log) {
		problems++
	}
	if !checkRunLog(cfg, log) {
		problems++
	}

	targets, skipped, err := cfg.ResolveTargets()
	for _, i := range skipped {
		log.Warn("Target #%d has no URL, ignored", i+1)
	}
	if err != nil {
		log.Error("Targets: %v", err)
		return problems + 1
	}
	for _, t := range targets {
		if !checkTarget(ctx, hc, t, log) {
			problems++
		}
	}

	if problems == 0 {
		log.Success("All checks passed")
	} else {
		log.Warn("%d problem(s) found", problems)
	}
	return problems
}

// checkSource verifies the source directory exists and counts candidates.
func checkSource(cfg *config.Config, log Logger) bool {
	if cfg.SourceDir == "" {
		log.Warn("Source directory: not set")
		return true
	}
	files, err := pipeline.Discover(cfg.SourceDir)
	if err != nil {
		log.Error("Source directory %s: %v", cfg.SourceDir, err)
		return false
	}
	log.Success("Source directory %s: %d video file(s)", cfg.SourceDir, len(files))
	return true
}

// checkRunLog verifies the run log's directory exists.
func checkRunLog(cfg *config.Config, log Logger) bool {
	dir := filepath.Dir(cfg.RunLog)
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		log.Error("Run log directory %s does not exist", dir)
		return false
	}
	log.Success("Run log: %s", cfg.RunLog)
	return true
}

// checkTarget issues a GET against the target's base URL. Any HTTP response
// counts as reachable; only transport errors fail.
func checkTarget(ctx context.Context, hc *http.Client, t config.Target, log Logger) bool {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	status, err := probe(ctx, hc, t.BaseURL)
	if err != nil {
		log.Error("Target %s unreachable: %v", t.Domain(), err)
		return false
	}
	if status >= http.StatusInternalServerError {
		log.Warn("Target %s reachable (HTTP %d)", t.Domain(), status)
	} else {
		log.Success("Target %s reachable (HTTP %d)", t.Domain(), status)
	}
	return true
}

func probe(ctx context.Context, hc *http.Client, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
