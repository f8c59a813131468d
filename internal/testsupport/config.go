// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"inspira/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ProjectsDir = filepath.Join(base, "projects")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.Bind = "127.0.0.1:0"
	cfg.TTS.APIKey = "test"
	cfg.Transcription.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithDrive enables Drive mirroring on the test config.
func WithDrive(credentials, folderID string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Drive.Enabled = true
		cfg.Drive.CredentialsFile = credentials
		cfg.Drive.RootFolderID = folderID
	}
}
