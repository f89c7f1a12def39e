package naming

import (
	"path/filepath"
	"regexp"
	"strings"
)

var sepReplacer = strings.NewReplacer(".", " ", "_", " ")

// sepsToSpaces replaces dots and underscores with spaces.
func sepsToSpaces(s string) string { return sepReplacer.Replace(s) }

// reBrackets matches square-bracket groups like [SubGroup] or [1080p].
var reBrackets = regexp.MustCompile(`\[[^\]]*\]`)

// stripBrackets removes all [bracketed] content.
func stripBrackets(s string) string {
	return strings.TrimSpace(reBrackets.ReplaceAllString(s, ""))
}

// Title is the default title hook: the file's base name without extension,
// bracket groups removed, dots and underscores turned into spaces, and runs
// of whitespace collapsed. Falls back to the raw stem if nothing is left.
func Title(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	s := stripBrackets(stem)
	s = sepsToSpaces(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, " -")
	if s == "" {
		return stem
	}
	return s
}
