package whisper

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"inspira/internal/config"
	"inspira/internal/segment"
	"inspira/internal/services"
	"inspira/internal/subtitle"
)

// FormatSegments requests per-segment timestamps; FormatSRT requests an
// SRT document and parses it locally.
const (
	FormatSegments = "segments"
	FormatSRT      = "srt"
)

// Transcriber is the slice of the OpenAI client the service depends on.
type Transcriber interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// Result carries the transcription output in both shapes the pipeline
// consumes.
type Result struct {
	Segments []segment.Segment
	Language string
	Text     string
}

type Client struct {
	cfg config.Transcription
	api Transcriber
}

type Option func(*Client)

// WithTranscriber replaces the OpenAI-backed transcriber, for tests.
func WithTranscriber(api Transcriber) Option {
	return func(c *Client) { c.api = api }
}

func NewClient(cfg config.Transcription, opts ...Option) *Client {
	client := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(client)
	}
	if client.api == nil && strings.TrimSpace(cfg.APIKey) != "" {
		client.api = openai.NewClient(cfg.APIKey)
	}
	return client
}

// Transcribe sends the audio file at path to the transcription API and
// returns validated, ordered segments. The configured format selects the
// response shape; both converge on the same Result.
func (c *Client) Transcribe(ctx context.Context, path string) (*Result, error) {
	if c.api == nil {
		return nil, services.Wrap(services.ErrConfiguration, "transcription", "transcribe", "OPENAI_API_KEY not set", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "transcription", "transcribe", fmt.Sprintf("audio file %s", path), err)
	}

	if c.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	req := openai.AudioRequest{
		Model:    c.cfg.Model,
		FilePath: path,
	}
	switch c.cfg.Format {
	case FormatSRT:
		req.Format = openai.AudioResponseFormatSRT
	default:
		req.Format = openai.AudioResponseFormatVerboseJSON
		req.TimestampGranularities = []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
		}
	}

	resp, err := c.api.CreateTranscription(ctx, req)
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "transcription", "transcribe", "whisper request failed", err)
	}

	result := &Result{Language: resp.Language, Text: strings.TrimSpace(resp.Text)}
	if c.cfg.Format == FormatSRT {
		segs, err := subtitle.ParseString(resp.Text)
		if err != nil {
			return nil, services.Wrap(services.ErrUpstream, "transcription", "transcribe", "parse srt response", err)
		}
		result.Segments = segs
	} else {
		result.Segments = make([]segment.Segment, 0, len(resp.Segments))
		for _, s := range resp.Segments {
			text := strings.TrimSpace(s.Text)
			if text == "" {
				continue
			}
			result.Segments = append(result.Segments, segment.Segment{Start: s.Start, End: s.End, Text: text})
		}
	}

	if err := segment.ValidateAll(result.Segments); err != nil {
		return nil, services.Wrap(services.ErrUpstream, "transcription", "transcribe", "invalid segments in response", err)
	}
	if result.Text == "" {
		result.Text = joinText(result.Segments)
	}
	return result, nil
}

func joinText(segs []segment.Segment) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}
