package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	ProjectsDir string `toml:"projects_dir"`
	LogDir      string `toml:"log_dir"`
	Bind        string `toml:"bind"`
}

// TTS contains ElevenLabs speech synthesis settings.
type TTS struct {
	APIKey          string  `toml:"api_key"`
	BaseURL         string  `toml:"base_url"`
	VoiceID         string  `toml:"voice_id"`
	ModelID         string  `toml:"model_id"`
	Stability       float64 `toml:"stability"`
	SimilarityBoost float64 `toml:"similarity_boost"`
	Style           float64 `toml:"style"`
	SpeakerBoost    bool    `toml:"speaker_boost"`
	TimeoutSeconds  int     `toml:"timeout_seconds"`
	RetryAttempts   int     `toml:"retry_attempts"`
}

// Transcription contains OpenAI Whisper settings.
type Transcription struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	Format         string `toml:"format"` // "segments" or "srt"
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Segmentation contains resync engine tuning.
type Segmentation struct {
	GroupSizeWords  int     `toml:"group_size_words"`
	IntervalSeconds float64 `toml:"interval_seconds"`
}

// Prompts contains illustration prompt generation and table settings.
type Prompts struct {
	StylePrefix    string `toml:"style_prefix"`
	NegativePrompt string `toml:"negative_prompt"`
	AspectRatio    string `toml:"aspect_ratio"`
	ChatModel      string `toml:"chat_model"`
}

// Images contains image association settings.
type Images struct {
	EmbeddingModel string `toml:"embedding_model"`
	// Strategy is "embedding" or "fingerprint". Embedding association needs
	// the transcription API key; fingerprint works offline.
	Strategy string `toml:"strategy"`
}

// Drive contains Google Drive mirroring settings.
type Drive struct {
	Enabled         bool   `toml:"enabled"`
	CredentialsFile string `toml:"credentials_file"`
	RootFolderID    string `toml:"root_folder_id"`
}

// Assembly contains video assembly settings.
type Assembly struct {
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for inspirad.
//
// Sections by subsystem:
//   - Paths: projects root, logs, HTTP bind address
//   - TTS: ElevenLabs voice and retry settings
//   - Transcription: Whisper model and response format
//   - Segmentation: caption group size and illustration interval
//   - Prompts: prompt table boilerplate and chat model
//   - Images: association strategy
//   - Drive: Google Drive mirroring
//   - Assembly: ffmpeg invocation
//   - Logging: format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	TTS           TTS           `toml:"tts"`
	Transcription Transcription `toml:"transcription"`
	Segmentation  Segmentation  `toml:"segmentation"`
	Prompts       Prompts       `toml:"prompts"`
	Images        Images        `toml:"images"`
	Drive         Drive         `toml:"drive"`
	Assembly      Assembly      `toml:"assembly"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/inspira/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file.
// A missing file is not an error: defaults plus environment overrides apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// applyEnv layers the environment variables the original deployment used on
// top of file values. Environment wins over file so Render-style deployments
// keep working without a config file at all.
func (c *Config) applyEnv() {
	if v := firstEnv("ELEVENLABS_API_KEY", "ELEVEN_API_KEY"); v != "" {
		c.TTS.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Transcription.APIKey = v
	}
	if v := os.Getenv("AUDIO_DIR"); v != "" {
		c.Paths.ProjectsDir = v
	}
	if v := os.Getenv("GOOGLE_DRIVE_FOLDER_ID"); v != "" {
		c.Drive.RootFolderID = v
	}
	if v := os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"); v != "" {
		c.Drive.CredentialsFile = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Paths.Bind = fmt.Sprintf("0.0.0.0:%d", port)
		}
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("inspira.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon needs at startup.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ProjectsDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath resolves ~ and relative segments into an absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && pathValue[1] == '/' {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
