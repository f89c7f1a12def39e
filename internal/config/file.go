package config

// This file implements the two layers applied between DefaultConfig and the
// CLI flags: the .env layer (credentials) and the JSON config file.

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read after the .env file is loaded. Variables that
// are already set in the process environment win over the file.
const (
	EnvUser     = "BATCHUPLOAD_USER"
	EnvPass     = "BATCHUPLOAD_PASS"
	EnvCategory = "BATCHUPLOAD_CATEGORY"
)

// LoadEnv loads path into the process environment (a missing file is not an
// error) and copies the BATCHUPLOAD_* variables into cfg.
func LoadEnv(cfg *Config, path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}
	if v := os.Getenv(EnvUser); v != "" {
		cfg.User = v
	}
	if v := os.Getenv(EnvPass); v != "" {
		cfg.Pass = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCategory)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be a whole number (got %q)", EnvCategory, v)
		}
		cfg.CategoryID = n
	}
	return nil
}

// fileConfig mirrors the JSON config file. Pointer fields distinguish
// "absent" from zero values so the file only overrides what it names.
type fileConfig struct {
	SourceDir         *string        `json:"source_dir"`
	UploadDelay       *int           `json:"upload_delay"`
	DeleteAfterUpload *bool          `json:"delete_after_upload"`
	User              *string        `json:"user"`
	Pass              *string        `json:"pass"`
	CategoryID        *int           `json:"category_id"`
	Description       *string        `json:"description"`
	LogFile           *string        `json:"log_file"`
	Targets           []TargetConfig `json:"targets"`
}

// LoadFile reads the JSON config at path and applies every field it sets.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.SourceDir != nil {
		cfg.SourceDir = NormalizeDirArg(*fc.SourceDir)
	}
	if fc.UploadDelay != nil {
		cfg.UploadDelay = *fc.UploadDelay
	}
	if fc.DeleteAfterUpload != nil {
		cfg.DeleteOnSuccess = *fc.DeleteAfterUpload
	}
	if fc.User != nil {
		cfg.User = *fc.User
	}
	if fc.Pass != nil {
		cfg.Pass = *fc.Pass
	}
	if fc.CategoryID != nil {
		cfg.CategoryID = *fc.CategoryID
	}
	if fc.Description != nil {
		cfg.Description = *fc.Description
	}
	if fc.LogFile != nil {
		cfg.RunLog = *fc.LogFile
	}
	if fc.Targets != nil {
		cfg.Targets = fc.Targets
	}
	return nil
}

// UnmarshalJSON accepts either a bare URL string or an object.
func (t *TargetConfig) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = TargetConfig{URL: s}
		return nil
	}
	type plain TargetConfig
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("target must be a URL string or an object: %w", err)
	}
	*t = TargetConfig(p)
	return nil
}
