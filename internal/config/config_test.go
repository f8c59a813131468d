package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inspira/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.TTS.VoiceID != "cwIsrQsWEVTols6slKYN" {
		t.Fatalf("unexpected default voice: %q", cfg.TTS.VoiceID)
	}
	if cfg.Segmentation.GroupSizeWords != 3 || cfg.Segmentation.IntervalSeconds != 4.0 {
		t.Fatalf("unexpected segmentation defaults: %+v", cfg.Segmentation)
	}
	if cfg.Transcription.Format != "segments" {
		t.Fatalf("unexpected transcription format: %q", cfg.Transcription.Format)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
bind = "127.0.0.1:8080"

[tts]
base_url = "https://tts.example.com/v1/"
stability = 0.5

[transcription]
format = "SRT"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.Bind != "127.0.0.1:8080" {
		t.Fatalf("bind not honored: %q", cfg.Paths.Bind)
	}
	if cfg.TTS.BaseURL != "https://tts.example.com/v1" {
		t.Fatalf("base url not trimmed: %q", cfg.TTS.BaseURL)
	}
	if cfg.Transcription.Format != "srt" {
		t.Fatalf("format not lowercased: %q", cfg.Transcription.Format)
	}
	// Untouched sections keep defaults.
	if cfg.TTS.ModelID != "eleven_multilingual_v2" {
		t.Fatalf("model default lost: %q", cfg.TTS.ModelID)
	}
}

func TestLoadRejectsBadFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[transcription]\nformat = \"vtt\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unsupported transcription format")
	}
}

func TestLoadRejectsDriveWithoutCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[drive]\nenabled = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error when drive enabled without credentials")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "")
	t.Setenv("ELEVEN_API_KEY", "from-env")
	t.Setenv("PORT", "9999")
	dir := t.TempDir()
	t.Setenv("AUDIO_DIR", dir)

	cfg, _, _, err := config.Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TTS.APIKey != "from-env" {
		t.Fatalf("ELEVEN_API_KEY not applied: %q", cfg.TTS.APIKey)
	}
	if cfg.Paths.Bind != "0.0.0.0:9999" {
		t.Fatalf("PORT not applied: %q", cfg.Paths.Bind)
	}
	if cfg.Paths.ProjectsDir != dir {
		t.Fatalf("AUDIO_DIR not applied: %q", cfg.Paths.ProjectsDir)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[segmentation]") {
		t.Fatal("sample config missing segmentation section")
	}
	// The sample must itself be loadable.
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
