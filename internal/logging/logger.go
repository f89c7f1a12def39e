// Package logging provides the leveled prose logger. Every line goes to one
// writer (stdout in production) so the human narrative and the progress
// protocol lines stay in a single ordered stream.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/batchupload/internal/config"
	"github.com/backmassage/batchupload/internal/display"
	"github.com/backmassage/batchupload/internal/term"
)

// Logger provides leveled, optionally colored prose logging.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	now     func() time.Time
}

// NewLogger configures colors from cfg and returns a Logger writing to stdout.
func NewLogger(cfg *config.Config) *Logger {
	term.Configure(cfg.ColorMode)
	return New(os.Stdout, cfg.Verbose)
}

// New returns a Logger writing to out. Colors follow the current term state.
func New(out io.Writer, verbose bool) *Logger {
	return &Logger{out: out, verbose: verbose, now: time.Now}
}

// line writes one prose line. Control characters in text are flattened so
// interpolated file names and server replies can never forge a protocol line.
func (l *Logger) line(level string, style lipgloss.Style, text string) {
	text = display.SingleLine(text)
	ts := l.now().Format("2006-01-02 15:04:05")
	tag := "[" + level + "]"
	if term.Enabled() {
		tag = style.Render(tag)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, ts+" "+tag+" "+text+"\n")
}

// Raw writes line unprefixed. Protocol lines use it so they are serialized
// with prose and recognizable by their own prefix. Control characters are
// flattened like prose.
func (l *Logger) Raw(line string) {
	line = display.SingleLine(line)
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, line+"\n")
}

// Blank writes an empty separator line.
func (l *Logger) Blank() { l.Raw("") }

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", term.Blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", term.Green, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", term.Yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red).
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.Red, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.line("DEBUG", term.Cyan, fmt.Sprintf(format, args...))
}
