package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/backmassage/batchupload/internal/config"
	"github.com/backmassage/batchupload/internal/display"
	"github.com/backmassage/batchupload/internal/logging"
)

const maxNameWidth = 50

type planRow struct {
	Name   string
	Size   string
	Target string
	Title  string
}

// PrintPlan prints the dry-run table: which file goes to which target and
// under which title. Nothing is uploaded.
func PrintPlan(log *logging.Logger, files []string, targets []config.Target, title func(string) string) {
	rows := make([]planRow, len(files))
	for i, path := range files {
		size := "?"
		if fi, err := os.Stat(path); err == nil {
			size = display.FormatBytes(fi.Size())
		}
		rows[i] = planRow{
			Name:   display.Truncate(filepath.Base(path), maxNameWidth),
			Size:   size,
			Target: targets[i%len(targets)].Domain(),
			Title:  title(path),
		}
	}

	nameW, sizeW, targetW := runewidth.StringWidth("File"), len("Size"), len("Target")
	for _, r := range rows {
		nameW = max(nameW, runewidth.StringWidth(r.Name))
		sizeW = max(sizeW, len(r.Size))
		targetW = max(targetW, runewidth.StringWidth(r.Target))
	}

	header := fmt.Sprintf("  %s  %s  %s  %s",
		pad("File", nameW), pad("Size", sizeW), pad("Target", targetW), "Title")
	log.Raw(header)
	log.Raw("  " + strings.Repeat("─", runewidth.StringWidth(header)-2))
	for _, r := range rows {
		log.Raw(fmt.Sprintf("  %s  %s  %s  %s",
			pad(r.Name, nameW), pad(r.Size, sizeW), pad(r.Target, targetW), r.Title))
	}
	log.Blank()
}

// pad right-pads s to width terminal cells. fmt's %-*s counts bytes, which
// misaligns names with wide runes.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
