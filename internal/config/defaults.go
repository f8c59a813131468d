package config

const (
	defaultProjectsDir = "~/.local/share/inspira/projects"
	defaultLogDir      = "~/.local/share/inspira/logs"
	defaultBind        = "0.0.0.0:3000"

	// Voice constants carried over from the production pipeline.
	defaultVoiceID         = "cwIsrQsWEVTols6slKYN"
	defaultTTSModel        = "eleven_multilingual_v2"
	defaultTTSBaseURL      = "https://api.elevenlabs.io/v1"
	defaultStability       = 0.60
	defaultSimilarityBoost = 0.90
	defaultStyle           = 0.15
	defaultTTSTimeout      = 60
	defaultRetryAttempts   = 3

	defaultWhisperModel         = "whisper-1"
	defaultTranscriptionFormat  = "segments"
	defaultTranscriptionTimeout = 60

	defaultGroupSizeWords  = 3
	defaultIntervalSeconds = 4.0

	defaultStylePrefix = "traditional watercolor, soft brush strokes, muted earth tones, gentle lighting"
	defaultNegative    = "blurry, low quality, distorted hands, extra fingers, deformed anatomy, text, watermark, signature"
	defaultAspectRatio = "ASPECT_9_16"
	defaultChatModel   = "gpt-4o-mini"

	defaultEmbeddingModel = "text-embedding-3-small"
	defaultImageStrategy  = "embedding"

	defaultFFmpegBinary    = "ffmpeg"
	defaultAssemblyTimeout = 600

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectsDir: defaultProjectsDir,
			LogDir:      defaultLogDir,
			Bind:        defaultBind,
		},
		TTS: TTS{
			BaseURL:         defaultTTSBaseURL,
			VoiceID:         defaultVoiceID,
			ModelID:         defaultTTSModel,
			Stability:       defaultStability,
			SimilarityBoost: defaultSimilarityBoost,
			Style:           defaultStyle,
			SpeakerBoost:    true,
			TimeoutSeconds:  defaultTTSTimeout,
			RetryAttempts:   defaultRetryAttempts,
		},
		Transcription: Transcription{
			Model:          defaultWhisperModel,
			Format:         defaultTranscriptionFormat,
			TimeoutSeconds: defaultTranscriptionTimeout,
		},
		Segmentation: Segmentation{
			GroupSizeWords:  defaultGroupSizeWords,
			IntervalSeconds: defaultIntervalSeconds,
		},
		Prompts: Prompts{
			StylePrefix:    defaultStylePrefix,
			NegativePrompt: defaultNegative,
			AspectRatio:    defaultAspectRatio,
			ChatModel:      defaultChatModel,
		},
		Images: Images{
			EmbeddingModel: defaultEmbeddingModel,
			Strategy:       defaultImageStrategy,
		},
		Assembly: Assembly{
			FFmpegBinary:   defaultFFmpegBinary,
			TimeoutSeconds: defaultAssemblyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
