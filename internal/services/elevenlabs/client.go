// Package elevenlabs wraps the ElevenLabs text-to-speech HTTP API.
//
// The client retries transient failures with exponential backoff and, once
// the styled payload has exhausted its attempts, falls back to an identical
// payload with the style weight omitted. Some voices reject the style
// parameter outright; the fallback keeps those projects voiced.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"inspira/internal/config"
	"inspira/internal/services"
)

// SynthesisError reports an exhausted synthesis request with the last
// upstream status and body.
type SynthesisError struct {
	StatusCode int
	Body       string
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("tts synthesis failed: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Client talks to the ElevenLabs streaming synthesis endpoint.
type Client struct {
	cfg        config.TTS
	httpClient *http.Client
	sleeper    func(context.Context, time.Duration) error
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleeper overrides how backoff sleeps are performed (useful for tests).
func WithSleeper(sleeper func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleeper = sleeper
		}
	}
}

// NewClient constructs a TTS client from configuration.
func NewClient(cfg config.TTS, opts ...Option) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		sleeper:    sleepContext,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type voiceSettings struct {
	Stability       float64  `json:"stability"`
	SimilarityBoost float64  `json:"similarity_boost"`
	Style           *float64 `json:"style,omitempty"`
	UseSpeakerBoost bool     `json:"use_speaker_boost"`
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize converts text to MP3 bytes using voiceID (or the configured
// default when empty). The caller persists the returned audio.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrValidation, "tts", "synthesize", "text required", nil)
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tts", "synthesize", "ELEVENLABS_API_KEY not set", nil)
	}
	if voiceID == "" {
		voiceID = c.cfg.VoiceID
	}

	styled, err := c.attemptVariant(ctx, text, voiceID, true)
	if err == nil {
		return styled, nil
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	// Styled payload exhausted its retries; try once more without style.
	plain, err := c.attemptVariant(ctx, text, voiceID, false)
	if err == nil {
		return plain, nil
	}
	return nil, err
}

// attemptVariant runs the full retry loop for one payload variant.
func (c *Client) attemptVariant(ctx context.Context, text, voiceID string, withStyle bool) ([]byte, error) {
	attempts := c.cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			if err := c.sleeper(ctx, backoff); err != nil {
				return nil, err
			}
		}
		audio, err := c.sendOnce(ctx, text, voiceID, withStyle)
		if err == nil {
			return audio, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, services.Wrap(services.ErrUpstream, "tts", "synthesize",
		fmt.Sprintf("with_style=%v exhausted %d attempts", withStyle, attempts), lastErr)
}

func (c *Client) sendOnce(ctx context.Context, text, voiceID string, withStyle bool) ([]byte, error) {
	payload := synthesisRequest{
		Text:    text,
		ModelID: c.cfg.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       c.cfg.Stability,
			SimilarityBoost: c.cfg.SimilarityBoost,
			UseSpeakerBoost: c.cfg.SpeakerBoost,
		},
	}
	if withStyle {
		style := c.cfg.Style
		payload.VoiceSettings.Style = &style
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s/stream", c.cfg.BaseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("xi-api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SynthesisError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if len(body) == 0 {
		return nil, &SynthesisError{StatusCode: resp.StatusCode, Body: "empty audio body"}
	}
	return body, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
