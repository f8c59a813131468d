// Package artifact serializes the per-project deliverables handed to the
// external image generator: the illustration prompt table, and the plain-text
// video description.
package artifact

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"inspira/internal/segment"
)

// ErrRowCountMismatch marks a prompt table request whose prompt list does not
// line up one-to-one with the illustration buckets. The check runs before any
// byte is written; a mismatch never leaves a partial file behind.
var ErrRowCountMismatch = errors.New("prompt count does not match bucket count")

// promptTableHeader is the fixed column set expected by the batch tool.
var promptTableHeader = []string{
	"PROMPT", "VISIBILITY", "ASPECT_RATIO", "MAGIC_PROMPT", "MODEL",
	"SEED_NUMBER", "RENDERING", "NEGATIVE_PROMPT", "STYLE", "COLOR_PALETTE",
}

// TableConfig carries the fixed row values reused across every prompt.
type TableConfig struct {
	StylePrefix    string
	NegativePrompt string
	Visibility     string
	AspectRatio    string
	MagicPrompt    string
	Model          string
	SeedNumber     string
	Rendering      string
	Style          string
	ColorPalette   string
}

// DefaultTableConfig returns the row constants used by the stock pipeline.
func DefaultTableConfig() TableConfig {
	return TableConfig{
		StylePrefix: "traditional watercolor, soft brush strokes, muted earth tones, gentle lighting",
		NegativePrompt: "blurry, low quality, distorted hands, extra fingers, deformed anatomy, " +
			"text, watermark, signature",
		Visibility:   "PRIVATE",
		AspectRatio:  "ASPECT_9_16",
		MagicPrompt:  "OFF",
		Model:        "V_2",
		SeedNumber:   "",
		Rendering:    "TURBO",
		Style:        "AUTO",
		ColorPalette: "",
	}
}

// WritePromptTable writes one CSV row per illustration bucket. The PROMPT
// field is "<offset seconds> - <style prefix> <prompt>" with the offset
// rounded to whole seconds only here, at serialization time.
func WritePromptTable(path string, buckets []segment.Bucket, prompts []string, cfg TableConfig) error {
	if len(buckets) != len(prompts) {
		return fmt.Errorf("%w: %d buckets, %d prompts", ErrRowCountMismatch, len(buckets), len(prompts))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create prompt table: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(promptTableHeader); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for i, bucket := range buckets {
		row := []string{
			FormatPrompt(bucket.Time, cfg.StylePrefix, prompts[i]),
			cfg.Visibility,
			cfg.AspectRatio,
			cfg.MagicPrompt,
			cfg.Model,
			cfg.SeedNumber,
			cfg.Rendering,
			cfg.NegativePrompt,
			cfg.Style,
			cfg.ColorPalette,
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush prompt table: %w", err)
	}
	return f.Close()
}

// FormatPrompt builds the composite PROMPT cell for one illustration.
func FormatPrompt(offsetSeconds float64, stylePrefix, prompt string) string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(stylePrefix); s != "" {
		parts = append(parts, s)
	}
	if p := strings.TrimSpace(prompt); p != "" {
		parts = append(parts, p)
	}
	return fmt.Sprintf("%d - %s", int(offsetSeconds+0.5), strings.Join(parts, " "))
}
