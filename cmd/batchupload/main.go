// Command batchupload is the entrypoint for the batch video uploader CLI.
// It parses flags, validates config, and either runs the target check
// (--check), prints a run log summary (summary), or uploads the source
// directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/backmassage/batchupload/internal/check"
	"github.com/backmassage/batchupload/internal/config"
	"github.com/backmassage/batchupload/internal/display"
	"github.com/backmassage/batchupload/internal/logging"
	"github.com/backmassage/batchupload/internal/pipeline"
	"github.com/backmassage/batchupload/internal/runlog"
	"github.com/backmassage/batchupload/internal/upload"
)

// version and commit are set at build time via -ldflags.
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code. A completed run exits 0 even when some
// uploads failed; failures are reported in the run log and on stdout.
func run(args []string) int {
	if len(args) > 0 && args[0] == "summary" {
		return runSummary(args[1:], os.Stdout)
	}

	// 1. Load config from defaults, .env, config file and CLI flags.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, args, version); err != nil {
		fmt.Fprintf(os.Stderr, "batchupload: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "batchupload: %v\n", err)
		return 1
	}

	log := logging.NewLogger(&cfg)
	display.PrintBanner(os.Stdout)
	ctx := context.Background()

	// 2. If the user asked for a check, run it and exit.
	if cfg.CheckOnly {
		if check.RunCheck(ctx, &cfg, log, nil) > 0 {
			return 1
		}
		return 0
	}

	// 3. Resolve targets. An empty target list is a clean no-op run.
	targets, skipped, err := cfg.ResolveTargets()
	for _, i := range skipped {
		log.Warn("Target #%d has no URL, ignored", i+1)
	}
	if err != nil && !errors.Is(err, config.ErrNoTargets) {
		fmt.Fprintf(os.Stderr, "batchupload: %v\n", err)
		return 1
	}

	log.Info("=== batchupload v%s (%s) ===", version, commit)
	log.Info("Source: %s", cfg.SourceDir)
	log.Blank()

	// 4. Open the run log. Dry runs and runs without targets never write it.
	var rec upload.Recorder
	var rl *runlog.Writer
	if !cfg.DryRun && len(targets) > 0 {
		rl, err = runlog.Open(cfg.RunLog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "batchupload: %v\n", err)
			return 1
		}
		rec = rl
	}

	// 5. Upload. Run prints the completion sentinel last, so nothing may be
	// written to stdout after it returns.
	pipeline.Run(ctx, pipeline.OptionsFromConfig(&cfg, targets), pipeline.Deps{
		Log:      log,
		Uploader: upload.NewClient(rec),
		Recorder: rec,
	})

	if rl != nil {
		if err := rl.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "batchupload: %v\n", err)
		}
	}
	return 0
}
