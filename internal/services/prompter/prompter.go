// Package prompter turns transcript buckets into illustration prompts and
// a short narrative description using the OpenAI chat API.
package prompter

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"inspira/internal/config"
	"inspira/internal/segment"
	"inspira/internal/services"
)

// Chatter is the slice of the OpenAI client the service depends on.
type Chatter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Client struct {
	cfg config.Prompts
	api Chatter
}

type Option func(*Client)

// WithChatter replaces the OpenAI-backed chat client, for tests.
func WithChatter(api Chatter) Option {
	return func(c *Client) { c.api = api }
}

func NewClient(cfg config.Prompts, apiKey string, opts ...Option) *Client {
	client := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(client)
	}
	if client.api == nil && strings.TrimSpace(apiKey) != "" {
		client.api = openai.NewClient(apiKey)
	}
	return client
}

const promptSystem = "You write short visual scene descriptions for an illustrator. " +
	"For each numbered line of narration you receive, answer with one line in the same order: " +
	"a concrete visual scene, no dialogue, no numbering, no quotes. " +
	"Answer in the same language as the narration."

const descriptionSystem = "You write clear and concise video descriptions. " +
	"Write in the same language as the transcription, two sentences at most, " +
	"warm and direct, no hashtags."

// ScenePrompts asks the chat model for one illustration prompt per bucket.
// When the chat API is not configured the bucket text itself is used, so the
// pipeline still produces a usable prompt table offline.
func (c *Client) ScenePrompts(ctx context.Context, buckets []segment.Bucket) ([]string, error) {
	if len(buckets) == 0 {
		return nil, services.Wrap(services.ErrValidation, "prompter", "scenes", "no buckets", nil)
	}
	if c.api == nil {
		return fallbackPrompts(buckets), nil
	}

	var sb strings.Builder
	for i, b := range buckets {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, b.Text)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: promptSystem},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
	})
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "prompter", "scenes", "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, services.Wrap(services.ErrUpstream, "prompter", "scenes", "empty chat response", nil)
	}

	lines := splitLines(resp.Choices[0].Message.Content)
	if len(lines) != len(buckets) {
		// Model merged or padded lines; the bucket text is always usable.
		return fallbackPrompts(buckets), nil
	}
	return lines, nil
}

// Description summarizes the full transcript for the artifact bundle.
func (c *Client) Description(ctx context.Context, transcript string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", services.Wrap(services.ErrValidation, "prompter", "description", "empty transcript", nil)
	}
	if c.api == nil {
		return transcript, nil
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: descriptionSystem},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	})
	if err != nil {
		return "", services.Wrap(services.ErrUpstream, "prompter", "description", "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", services.Wrap(services.ErrUpstream, "prompter", "description", "empty chat response", nil)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) model() string {
	if c.cfg.ChatModel != "" {
		return c.cfg.ChatModel
	}
	return openai.GPT4oMini
}

func fallbackPrompts(buckets []segment.Bucket) []string {
	prompts := make([]string, len(buckets))
	for i, b := range buckets {
		prompts[i] = b.Text
	}
	return prompts
}

func splitLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
