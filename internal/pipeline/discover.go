package pipeline

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/backmassage/batchupload/internal/upload"
)

// FailedDir is the subdirectory that failed uploads are moved into.
const FailedDir = "failed"

// Discover lists the video files directly inside dir, sorted by name for a
// deterministic upload order. Subdirectories (including FailedDir) are not
// entered.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if upload.IsVideo(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
