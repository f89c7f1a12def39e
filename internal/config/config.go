// Package config holds runtime configuration: defaults, the .env and JSON
// file layers, CLI flag parsing, validation, and target resolution.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Sentinel errors returned by Validate and ResolveTargets.
var (
	ErrNoTargets          = errors.New("no upload targets configured")
	ErrMissingCredentials = errors.New("target has no resolved user/pass")
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// TargetConfig is one entry of the configured target list. Empty fields
// inherit the global defaults in [Config].
type TargetConfig struct {
	URL        string `json:"url"`
	User       string `json:"user,omitempty"`
	Pass       string `json:"pass,omitempty"`
	CategoryID int    `json:"category_id,omitempty"`
}

// Target is a fully resolved upload endpoint. It is built once by
// [Config.ResolveTargets] and never modified during a run.
type Target struct {
	BaseURL    string // Absolute origin, no trailing slash.
	User       string
	Pass       string
	CategoryID int // 0 = unset.
}

// Domain returns the host[:port] of the target with the scheme stripped.
func (t Target) Domain() string {
	return Domain(t.BaseURL)
}

// Domain strips the scheme and any path from a base URL.
func Domain(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		s := baseURL
		if i := strings.Index(s, "://"); i >= 0 {
			s = s[i+3:]
		}
		if i := strings.Index(s, "/"); i >= 0 {
			s = s[:i]
		}
		return s
	}
	return u.Host
}

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then the env layer, the JSON file layer and finally [ParseFlags].
type Config struct {
	// Source (positional arg or "source_dir").
	SourceDir string

	// Global defaults merged under every target.
	User        string
	Pass        string
	CategoryID  int
	Description string

	// Ordered target list.
	Targets []TargetConfig

	// Behavior.
	UploadDelay     int  // Seconds between consecutive uploads. Default: 0.
	DeleteOnSuccess bool // Remove the source file after a successful upload.
	DryRun          bool
	CheckOnly       bool

	// Files.
	ConfigFile string // Optional JSON config path.
	EnvFile    string // Optional .env path. Default: ".env" (missing is fine).
	RunLog     string // Structured append-only run log. Default: "upload_log.txt".

	// Display.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
}

// DefaultConfig returns a Config with the baseline defaults applied before
// any other layer.
func DefaultConfig() Config {
	return Config{
		UploadDelay:     0,
		DeleteOnSuccess: false,
		EnvFile:         ".env",
		RunLog:          "upload_log.txt",
		ColorMode:       ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// NormalizeBaseURL trims whitespace and trailing slashes from a target URL.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// Validate checks enum and range fields. When not in CheckOnly mode it also
// requires a source directory.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}
	if c.UploadDelay < 0 {
		return fmt.Errorf("upload delay must be >= 0 (got %d)", c.UploadDelay)
	}
	if c.CategoryID < 0 {
		return fmt.Errorf("category id must be >= 0 (got %d)", c.CategoryID)
	}
	if strings.TrimSpace(c.RunLog) == "" {
		return errors.New("run log path must not be empty")
	}
	if c.CheckOnly {
		return nil
	}
	if c.SourceDir == "" {
		return errors.New("need a source directory (positional arg or source_dir)")
	}
	return nil
}

// ResolveTargets merges each configured target over the global defaults and
// returns the immutable target list for the run. Entries with an empty URL
// are skipped and their indexes returned in skipped. An empty result is
// ErrNoTargets; callers treat it as a clean "nothing to do" condition.
func (c *Config) ResolveTargets() (targets []Target, skipped []int, err error) {
	for i, tc := range c.Targets {
		base := NormalizeBaseURL(tc.URL)
		if base == "" {
			skipped = append(skipped, i)
			continue
		}
		t := Target{
			BaseURL:    base,
			User:       firstNonEmpty(tc.User, c.User),
			Pass:       firstNonEmpty(tc.Pass, c.Pass),
			CategoryID: c.CategoryID,
		}
		if tc.CategoryID > 0 {
			t.CategoryID = tc.CategoryID
		}
		if t.User == "" || t.Pass == "" {
			return nil, skipped, fmt.Errorf("%w: %s", ErrMissingCredentials, base)
		}
		targets = append(targets, t)
	}
	if len(targets) == 0 {
		return nil, skipped, ErrNoTargets
	}
	return targets, skipped, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
