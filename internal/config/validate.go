package config

import (
	"fmt"
	"strings"
)

// normalize expands paths and fills zero values with defaults.
func (c *Config) normalize() error {
	var err error
	if c.Paths.ProjectsDir, err = expandPath(valueOr(c.Paths.ProjectsDir, defaultProjectsDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(valueOr(c.Paths.LogDir, defaultLogDir)); err != nil {
		return err
	}
	if c.Drive.CredentialsFile != "" {
		if c.Drive.CredentialsFile, err = expandPath(c.Drive.CredentialsFile); err != nil {
			return err
		}
	}

	c.Paths.Bind = valueOr(c.Paths.Bind, defaultBind)
	c.TTS.BaseURL = strings.TrimRight(valueOr(c.TTS.BaseURL, defaultTTSBaseURL), "/")
	c.TTS.VoiceID = valueOr(c.TTS.VoiceID, defaultVoiceID)
	c.TTS.ModelID = valueOr(c.TTS.ModelID, defaultTTSModel)
	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultTTSTimeout
	}
	if c.TTS.RetryAttempts <= 0 {
		c.TTS.RetryAttempts = defaultRetryAttempts
	}

	c.Transcription.Model = valueOr(c.Transcription.Model, defaultWhisperModel)
	c.Transcription.Format = strings.ToLower(valueOr(c.Transcription.Format, defaultTranscriptionFormat))
	if c.Transcription.TimeoutSeconds <= 0 {
		c.Transcription.TimeoutSeconds = defaultTranscriptionTimeout
	}

	if c.Segmentation.GroupSizeWords <= 0 {
		c.Segmentation.GroupSizeWords = defaultGroupSizeWords
	}
	if c.Segmentation.IntervalSeconds <= 0 {
		c.Segmentation.IntervalSeconds = defaultIntervalSeconds
	}

	c.Prompts.StylePrefix = valueOr(c.Prompts.StylePrefix, defaultStylePrefix)
	c.Prompts.NegativePrompt = valueOr(c.Prompts.NegativePrompt, defaultNegative)
	c.Prompts.AspectRatio = valueOr(c.Prompts.AspectRatio, defaultAspectRatio)
	c.Prompts.ChatModel = valueOr(c.Prompts.ChatModel, defaultChatModel)

	c.Images.EmbeddingModel = valueOr(c.Images.EmbeddingModel, defaultEmbeddingModel)
	c.Images.Strategy = strings.ToLower(valueOr(c.Images.Strategy, defaultImageStrategy))

	c.Assembly.FFmpegBinary = valueOr(c.Assembly.FFmpegBinary, defaultFFmpegBinary)
	if c.Assembly.TimeoutSeconds <= 0 {
		c.Assembly.TimeoutSeconds = defaultAssemblyTimeout
	}

	c.Logging.Format = valueOr(c.Logging.Format, defaultLogFormat)
	c.Logging.Level = valueOr(c.Logging.Level, defaultLogLevel)
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	switch c.Transcription.Format {
	case "segments", "srt":
	default:
		return fmt.Errorf("transcription.format: unsupported value %q (want segments or srt)", c.Transcription.Format)
	}
	switch c.Images.Strategy {
	case "embedding", "fingerprint":
	default:
		return fmt.Errorf("images.strategy: unsupported value %q (want embedding or fingerprint)", c.Images.Strategy)
	}
	if c.TTS.Stability < 0 || c.TTS.Stability > 1 {
		return fmt.Errorf("tts.stability: %v out of range [0, 1]", c.TTS.Stability)
	}
	if c.TTS.SimilarityBoost < 0 || c.TTS.SimilarityBoost > 1 {
		return fmt.Errorf("tts.similarity_boost: %v out of range [0, 1]", c.TTS.SimilarityBoost)
	}
	if c.TTS.Style < 0 || c.TTS.Style > 1 {
		return fmt.Errorf("tts.style: %v out of range [0, 1]", c.TTS.Style)
	}
	if c.Drive.Enabled {
		if strings.TrimSpace(c.Drive.CredentialsFile) == "" {
			return fmt.Errorf("drive.credentials_file: required when drive.enabled is true")
		}
		if strings.TrimSpace(c.Drive.RootFolderID) == "" {
			return fmt.Errorf("drive.root_folder_id: required when drive.enabled is true")
		}
	}
	return nil
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
