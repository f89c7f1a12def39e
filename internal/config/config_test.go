package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/media/upload", "/media/upload"},
		{"single trailing slash", "/media/upload/", "/media/upload"},
		{"multiple trailing slashes", "/media/upload///", "/media/upload"},
		{"root path", "/", "/"},
		{"relative path", "videos", "videos"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://videos.example.com", "videos.example.com"},
		{"http://10.0.0.5:8080", "10.0.0.5:8080"},
		{"https://videos.example.com/sub/path", "videos.example.com"},
		{"videos.example.com", "videos.example.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Domain(tt.in), tt.in)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults with source", func(c *Config) {}, false},
		{"bad color mode", func(c *Config) { c.ColorMode = "rainbow" }, true},
		{"negative delay", func(c *Config) { c.UploadDelay = -1 }, true},
		{"negative category", func(c *Config) { c.CategoryID = -3 }, true},
		{"empty run log", func(c *Config) { c.RunLog = " " }, true},
		{"missing source", func(c *Config) { c.SourceDir = "" }, true},
		{"check only skips source", func(c *Config) { c.SourceDir = ""; c.CheckOnly = true }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.SourceDir = "/in"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveTargets_MergesOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.User = "global"
	cfg.Pass = "secret"
	cfg.CategoryID = 4
	cfg.Targets = []TargetConfig{
		{URL: "https://a.example.com/"},
		{URL: ""},
		{URL: "https://b.example.com", User: "bob", CategoryID: 9},
	}

	targets, skipped, err := cfg.ResolveTargets()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, skipped)
	require.Len(t, targets, 2)

	assert.Equal(t, Target{BaseURL: "https://a.example.com", User: "global", Pass: "secret", CategoryID: 4}, targets[0])
	assert.Equal(t, Target{BaseURL: "https://b.example.com", User: "bob", Pass: "secret", CategoryID: 9}, targets[1])
}

func TestResolveTargets_Empty(t *testing.T) {
	cfg := DefaultConfig()
	_, _, err := cfg.ResolveTargets()
	assert.ErrorIs(t, err, ErrNoTargets)

	cfg.Targets = []TargetConfig{{URL: "  "}}
	_, skipped, err := cfg.ResolveTargets()
	assert.ErrorIs(t, err, ErrNoTargets)
	assert.Equal(t, []int{0}, skipped)
}

func TestResolveTargets_MissingCredentials(t *testing.T) {
	cfg := DefaultConfig()
	cfg.User = "u"
	cfg.Targets = []TargetConfig{{URL: "https://a.example.com"}}
	_, _, err := cfg.ResolveTargets()
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"source_dir": "/srv/videos/",
		"upload_delay": 30,
		"delete_after_upload": true,
		"user": "admin",
		"pass": "pw",
		"targets": ["https://a.example.com", {"url": "https://b.example.com", "category_id": 2}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg := DefaultConfig()
	cfg.Description = "kept"
	require.NoError(t, LoadFile(&cfg, path))

	assert.Equal(t, "/srv/videos", cfg.SourceDir)
	assert.Equal(t, 30, cfg.UploadDelay)
	assert.True(t, cfg.DeleteOnSuccess)
	assert.Equal(t, "admin", cfg.User)
	assert.Equal(t, "kept", cfg.Description, "absent fields must not override")
	assert.Equal(t, "upload_log.txt", cfg.RunLog)
	require.Len(t, cfg.Targets, 2)
	assert.Equal(t, "https://a.example.com", cfg.Targets[0].URL)
	assert.Equal(t, 2, cfg.Targets[1].CategoryID)
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"targets": [42]}`), 0o644))

	cfg := DefaultConfig()
	assert.Error(t, LoadFile(&cfg, path))
	assert.Error(t, LoadFile(&cfg, filepath.Join(dir, "missing.json")))
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("BATCHUPLOAD_USER=fromfile\nBATCHUPLOAD_CATEGORY=7\n"), 0o644))
	t.Setenv(EnvPass, "fromenv")
	t.Setenv(EnvUser, "")
	t.Setenv(EnvCategory, "")
	// godotenv does not override variables that are already set, even to "".
	require.NoError(t, os.Unsetenv(EnvUser))
	require.NoError(t, os.Unsetenv(EnvCategory))

	cfg := DefaultConfig()
	require.NoError(t, LoadEnv(&cfg, path))
	assert.Equal(t, "fromfile", cfg.User)
	assert.Equal(t, "fromenv", cfg.Pass)
	assert.Equal(t, 7, cfg.CategoryID)
}

func TestLoadEnv_MissingFileIsFine(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, LoadEnv(&cfg, filepath.Join(t.TempDir(), "nope.env")))
}

func TestParseFlags_Layering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{"source_dir": "/from/file", "upload_delay": 5, "user": "u", "pass": "p",
		"targets": ["https://file.example.com"]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg := DefaultConfig()
	args := []string{
		"--env", filepath.Join(dir, "absent.env"),
		"-C", path,
		"--delay", "12",
		"-t", "https://flag-a.example.com",
		"--target", "https://flag-b.example.com",
		"--no-color",
		"/from/flag/",
	}
	require.NoError(t, ParseFlags(&cfg, args, "test"))

	assert.Equal(t, "/from/flag", cfg.SourceDir)
	assert.Equal(t, 12, cfg.UploadDelay)
	assert.Equal(t, "u", cfg.User)
	assert.Equal(t, ColorNever, cfg.ColorMode)
	require.Len(t, cfg.Targets, 2)
	assert.Equal(t, "https://flag-a.example.com", cfg.Targets[0].URL)
}

func TestParseFlags_FileOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"source_dir": "/from/file", "upload_delay": 5}`), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, []string{"--env", "", "--config", path}, "test"))
	assert.Equal(t, "/from/file", cfg.SourceDir)
	assert.Equal(t, 5, cfg.UploadDelay, "unset --delay must not clobber the file value")
}

func TestParseFlags_DeleteOnSuccessFalseOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"delete_after_upload": true}`), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, ParseFlags(&cfg, []string{"--env", "", "--config", path}, "test"))
	assert.True(t, cfg.DeleteOnSuccess)

	cfg = DefaultConfig()
	args := []string{"--env", "", "--config", path, "--delete-on-success=false"}
	require.NoError(t, ParseFlags(&cfg, args, "test"))
	assert.False(t, cfg.DeleteOnSuccess)
}

func TestParseFlags_TooManyArgs(t *testing.T) {
	cfg := DefaultConfig()
	err := ParseFlags(&cfg, []string{"--env", "", "a", "b"}, "test")
	assert.Error(t, err)
}

func TestDefaultConfig_SaneDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UploadDelay != 0 {
		t.Errorf("default UploadDelay = %d, want 0", cfg.UploadDelay)
	}
	if cfg.DeleteOnSuccess {
		t.Error("default DeleteOnSuccess should be false")
	}
	if cfg.RunLog != "upload_log.txt" {
		t.Errorf("default RunLog = %q", cfg.RunLog)
	}
	if cfg.ColorMode != ColorAuto {
		t.Errorf("default ColorMode = %q, want %q", cfg.ColorMode, ColorAuto)
	}
}
