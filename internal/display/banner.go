package display

import (
	"fmt"
	"io"

	"github.com/backmassage/batchupload/internal/term"
)

const banner = ` ___      _      _    _   _      _              _
| _ ) __ _| |_ __| |_ | | | |_ __| |___  __ _ __| |
| _ \/ _` + "`" + ` |  _/ _| ' \| |_| | '_ \ / _ \/ _` + "`" + ` / _` + "`" + ` |
|___/\__,_|\__\__|_||_|\___/| .__/_\___/\__,_\__,_|
                            |_|`

// PrintBanner writes the ASCII art banner to w; magenta when colors are on.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, term.Magenta.Render(banner))
}
