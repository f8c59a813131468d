package assemble

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"inspira/internal/config"
	"inspira/internal/segment"
	"inspira/internal/services"
)

// Slide is one image held on screen for a duration.
type Slide struct {
	Image    string
	Duration float64
}

// Plan is everything ffmpeg needs to cut the video.
type Plan struct {
	Slides       []Slide
	AudioFile    string
	SubtitleFile string
	Output       string
}

type commandRunner func(ctx context.Context, name string, args ...string) error

type Assembler struct {
	cfg config.Assembly
	run commandRunner
}

type Option func(*Assembler)

// WithCommandRunner replaces process execution, for tests.
func WithCommandRunner(run commandRunner) Option {
	return func(a *Assembler) { a.run = run }
}

func New(cfg config.Assembly, opts ...Option) *Assembler {
	asm := &Assembler{cfg: cfg}
	for _, opt := range opts {
		opt(asm)
	}
	if asm.run == nil {
		asm.run = runCommand
	}
	return asm
}

// BuildPlan times one slide per bucket: each image holds until the next
// bucket starts, and the last one until the narration ends.
func BuildPlan(buckets []segment.Bucket, imagePaths []string, totalDuration float64) ([]Slide, error) {
	if len(buckets) == 0 {
		return nil, services.Wrap(services.ErrValidation, "assemble", "plan", "no buckets", nil)
	}
	if len(imagePaths) != len(buckets) {
		return nil, services.Wrap(services.ErrValidation, "assemble", "plan",
			fmt.Sprintf("%d images for %d buckets", len(imagePaths), len(buckets)), nil)
	}
	if totalDuration <= buckets[len(buckets)-1].Time {
		return nil, services.Wrap(services.ErrValidation, "assemble", "plan", "duration ends before last bucket", nil)
	}

	slides := make([]Slide, len(buckets))
	for i, bucket := range buckets {
		end := totalDuration
		if i+1 < len(buckets) {
			end = buckets[i+1].Time
		}
		slides[i] = Slide{Image: imagePaths[i], Duration: end - bucket.Time}
	}
	return slides, nil
}

// Assemble renders the plan to plan.Output. The concat list is written next
// to the output file and removed afterwards.
func (a *Assembler) Assemble(ctx context.Context, plan Plan) error {
	if len(plan.Slides) == 0 {
		return services.Wrap(services.ErrValidation, "assemble", "render", "no slides", nil)
	}
	if plan.AudioFile == "" || plan.Output == "" {
		return services.Wrap(services.ErrValidation, "assemble", "render", "audio and output paths required", nil)
	}

	if a.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(a.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	listPath := strings.TrimSuffix(plan.Output, filepath.Ext(plan.Output)) + "_concat.txt"
	if err := writeConcatList(listPath, plan.Slides); err != nil {
		return err
	}
	defer os.Remove(listPath)

	if err := a.run(ctx, a.binary(), buildArgs(listPath, plan)...); err != nil {
		return services.Wrap(services.ErrUpstream, "assemble", "render", "ffmpeg failed", err)
	}
	return nil
}

func (a *Assembler) binary() string {
	if a.cfg.FFmpegBinary != "" {
		return a.cfg.FFmpegBinary
	}
	return "ffmpeg"
}

func buildArgs(listPath string, plan Plan) []string {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-i", plan.AudioFile,
	}

	filters := []string{
		"scale=1080:1920:force_original_aspect_ratio=decrease",
		"pad=1080:1920:(ow-iw)/2:(oh-ih)/2",
	}
	if plan.SubtitleFile != "" {
		filters = append(filters, "subtitles="+escapeFilterPath(plan.SubtitleFile))
	}

	args = append(args,
		"-vf", strings.Join(filters, ","),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-r", "30",
		"-c:a", "aac",
		"-shortest",
		plan.Output,
	)
	return args
}

// writeConcatList emits ffmpeg concat demuxer input. The final image is
// repeated without a duration so ffmpeg holds it to the end of the audio.
func writeConcatList(path string, slides []Slide) error {
	var buf bytes.Buffer
	buf.WriteString("ffconcat version 1.0\n")
	for _, slide := range slides {
		fmt.Fprintf(&buf, "file '%s'\n", escapeConcatPath(slide.Image))
		fmt.Fprintf(&buf, "duration %.3f\n", slide.Duration)
	}
	fmt.Fprintf(&buf, "file '%s'\n", escapeConcatPath(slides[len(slides)-1].Image))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}

func escapeConcatPath(path string) string {
	return strings.ReplaceAll(path, "'", `'\''`)
}

// escapeFilterPath quotes a path for use inside an ffmpeg filter argument.
func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, `\`, `\\`)
	path = strings.ReplaceAll(path, ":", `\:`)
	path = strings.ReplaceAll(path, "'", `\'`)
	return path
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, tail(msg, 400))
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
