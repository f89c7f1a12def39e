package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/backmassage/batchupload/internal/config"
	"github.com/backmassage/batchupload/internal/display"
	"github.com/backmassage/batchupload/internal/runlog"
	"github.com/backmassage/batchupload/internal/term"
)

const maxSummaryName = 60

// runSummary implements "batchupload summary": it reads the run log from an
// offset and prints what happened plus the offset for the next pass.
func runSummary(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("log", config.DefaultConfig().RunLog, "run log file to read")
	offset := fs.Int64("offset", 0, "byte offset to start reading from")
	noColor := fs.Bool("no-color", false, "disable colored output")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	mode := config.ColorAuto
	if *noColor {
		mode = config.ColorNever
	}
	term.Configure(mode)

	d, err := runlog.ReadDelta(*path, *offset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "batchupload: %v\n", err)
		return 1
	}
	printSummary(out, runlog.Summarize(d.Entries), d)
	return 0
}

func printSummary(out io.Writer, s runlog.Summary, d runlog.Delta) {
	fmt.Fprintf(out, "Records:  %d\n", s.Total)
	fmt.Fprintf(out, "Uploaded: %s\n", term.Green.Render(fmt.Sprint(s.Succeeded)))
	fmt.Fprintf(out, "Failed:   %s\n", term.Red.Render(fmt.Sprint(s.Failed)))
	for _, dom := range s.Domains() {
		c := s.PerDomain[dom]
		fmt.Fprintf(out, "  %s: %d uploaded, %d failed\n", dom, c.Succeeded, c.Failed)
	}
	if len(s.FailedFiles) > 0 {
		fmt.Fprintln(out, "Failed files:")
		for _, f := range s.FailedFiles {
			fmt.Fprintf(out, "  %s\n", display.Truncate(f, maxSummaryName))
		}
	}
	if d.Malformed > 0 {
		fmt.Fprintf(out, "%s\n", term.Yellow.Render(fmt.Sprintf("Skipped %d malformed record(s)", d.Malformed)))
	}
	if d.Pending > 0 {
		fmt.Fprintf(out, "Partial record pending: %d bytes\n", d.Pending)
	}
	fmt.Fprintf(out, "Next offset: %d\n", d.Offset)
}
