package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"inspira/internal/artifact"
	"inspira/internal/assemble"
	"inspira/internal/config"
	"inspira/internal/images"
	"inspira/internal/language"
	"inspira/internal/logging"
	"inspira/internal/project"
	"inspira/internal/segment"
	"inspira/internal/services"
	"inspira/internal/services/whisper"
	"inspira/internal/slug"
	"inspira/internal/subtitle"
)

// Synthesizer produces narration audio from text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}

// Transcriber converts a narration file into timed segments.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (*whisper.Result, error)
}

// Prompter produces illustration prompts and descriptions.
type Prompter interface {
	ScenePrompts(ctx context.Context, buckets []segment.Bucket) ([]string, error)
	Description(ctx context.Context, transcript string) (string, error)
}

// ImageAssociator pairs prompts with uploaded images.
type ImageAssociator interface {
	Associate(ctx context.Context, prompts, imagePaths []string) ([]images.Choice, error)
}

// VideoAssembler renders a plan to the output file.
type VideoAssembler interface {
	Assemble(ctx context.Context, plan assemble.Plan) error
}

// Mirror archives artifacts after completion.
type Mirror interface {
	Enabled() bool
	MirrorProject(ctx context.Context, name string, paths ...string) (string, error)
}

// Pipeline coordinates stage execution for projects. A slug can only run
// one stage at a time; concurrent requests for the same slug are rejected.
type Pipeline struct {
	cfg    *config.Config
	store  *project.Store
	logger *slog.Logger
	hub    *Hub

	tts      Synthesizer
	stt      Transcriber
	prompter Prompter
	assoc    ImageAssociator
	asm      VideoAssembler
	mirror   Mirror

	mu      sync.Mutex
	running map[string]struct{}
}

type Deps struct {
	Store      *project.Store
	Logger     *slog.Logger
	Hub        *Hub
	TTS        Synthesizer
	Whisper    Transcriber
	Prompter   Prompter
	Associator ImageAssociator
	Assembler  VideoAssembler
	Mirror     Mirror
}

func New(cfg *config.Config, deps Deps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	hub := deps.Hub
	if hub == nil {
		hub = NewHub()
	}
	return &Pipeline{
		cfg:      cfg,
		store:    deps.Store,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		hub:      hub,
		tts:      deps.TTS,
		stt:      deps.Whisper,
		prompter: deps.Prompter,
		assoc:    deps.Associator,
		asm:      deps.Assembler,
		mirror:   deps.Mirror,
		running:  make(map[string]struct{}),
	}
}

// Hub exposes the event hub for websocket subscribers.
func (p *Pipeline) Hub() *Hub {
	return p.hub
}

// Store exposes the underlying project store for read-only queries.
func (p *Pipeline) Store() *project.Store {
	return p.store
}

// VoiceResult reports the narration stage outcome.
type VoiceResult struct {
	Project   *project.Project
	AudioFile string
}

// Voice creates a project from the text and synthesizes its narration.
// The project slug is derived from the text, so re-submitting the same
// narration resumes the existing project and re-records its audio.
func (p *Pipeline) Voice(ctx context.Context, text, voiceID string) (*VoiceResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "voice", "text required", nil)
	}

	name := slug.Make(text, 60)
	release, err := p.acquire(name)
	if err != nil {
		return nil, err
	}
	defer release()

	proj, err := p.store.Create(ctx, name, text, voiceID)
	if err != nil {
		return nil, err
	}

	audio, err := p.tts.Synthesize(ctx, text, voiceID)
	if err != nil {
		return nil, p.fail(ctx, proj, "voice", err)
	}

	layout := p.store.Layout(name)
	audioPath := layout.AudioFile()
	if err := os.WriteFile(audioPath, audio, 0o644); err != nil {
		return nil, p.fail(ctx, proj, "voice", fmt.Errorf("write narration: %w", err))
	}

	proj.AudioFile = audioPath
	proj.Status = project.StatusVoiced
	if err := p.store.Update(ctx, proj); err != nil {
		return nil, err
	}
	p.advance(proj, "voice", "narration synthesized")
	return &VoiceResult{Project: proj, AudioFile: audioPath}, nil
}

// TranscribeResult reports the transcription stage outcome.
type TranscribeResult struct {
	Project  *project.Project
	Segments []segment.Segment
	Duration float64
}

// Transcribe runs speech recognition over the project narration, regroups
// the transcript into fixed word-count segments, and writes the SRT and
// plain transcript artifacts.
func (p *Pipeline) Transcribe(ctx context.Context, name string) (*TranscribeResult, error) {
	release, err := p.acquire(name)
	if err != nil {
		return nil, err
	}
	defer release()

	proj, err := p.store.GetBySlug(ctx, name)
	if err != nil {
		return nil, err
	}
	layout := p.store.Layout(name)
	audioPath, err := layout.LocateAudio()
	if err != nil {
		return nil, err
	}

	result, err := p.stt.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, p.fail(ctx, proj, "transcribe", err)
	}

	groupSize := p.cfg.Segmentation.GroupSizeWords
	if groupSize <= 0 {
		groupSize = segment.DefaultGroupSize
	}
	fine, err := segment.ResegmentByWordCount(result.Segments, groupSize)
	if err != nil {
		return nil, p.fail(ctx, proj, "transcribe", err)
	}

	if err := subtitle.WriteFile(layout.SubtitleFile(), fine); err != nil {
		return nil, p.fail(ctx, proj, "transcribe", err)
	}
	if err := artifact.WriteTranscript(layout.TranscriptFile(), result.Segments); err != nil {
		return nil, p.fail(ctx, proj, "transcribe", err)
	}

	lang := result.Language
	if lang == "" {
		lang = language.Detect(result.Text)
	}

	proj.SubtitleFile = layout.SubtitleFile()
	proj.TranscriptTXT = layout.TranscriptFile()
	proj.Language = lang
	proj.Status = project.StatusTranscribed
	if err := p.store.Update(ctx, proj); err != nil {
		return nil, err
	}
	p.advance(proj, "transcribe", fmt.Sprintf("%d segments", len(fine)))
	return &TranscribeResult{
		Project:  proj,
		Segments: fine,
		Duration: segment.TotalDuration(fine),
	}, nil
}

// BundleResult reports the artifact bundling outcome.
type BundleResult struct {
	Project     *project.Project
	Rows        int
	PromptTable string
	Description string
}

// BundleOptions carries caller-supplied overrides for the bundle stage.
// Zero values mean "generate it".
type BundleOptions struct {
	Interval    float64
	Prompts     []string
	Description string
}

// Bundle groups the subtitle timeline into illustration buckets, generates
// one prompt per bucket plus a description, and writes the CSV bundle.
// Callers may supply their own prompts (one per bucket) and description.
func (p *Pipeline) Bundle(ctx context.Context, name string, opts BundleOptions) (*BundleResult, error) {
	release, err := p.acquire(name)
	if err != nil {
		return nil, err
	}
	defer release()

	proj, err := p.store.GetBySlug(ctx, name)
	if err != nil {
		return nil, err
	}
	layout := p.store.Layout(name)
	srtPath, err := layout.LocateSubtitle()
	if err != nil {
		return nil, err
	}
	segments, err := subtitle.ParseFile(srtPath)
	if err != nil {
		return nil, p.fail(ctx, proj, "bundle", err)
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = p.cfg.Segmentation.IntervalSeconds
	}
	if interval <= 0 {
		interval = segment.DefaultInterval
	}
	buckets, err := segment.BucketByInterval(segments, interval)
	if err != nil {
		return nil, p.fail(ctx, proj, "bundle", err)
	}

	prompts := opts.Prompts
	switch {
	case len(prompts) == 0:
		prompts, err = p.prompter.ScenePrompts(ctx, buckets)
		if err != nil {
			return nil, p.fail(ctx, proj, "bundle", err)
		}
	case len(prompts) != len(buckets):
		return nil, services.Wrap(services.ErrValidation, "pipeline", "bundle",
			fmt.Sprintf("%d prompts supplied for %d buckets", len(prompts), len(buckets)), nil)
	}

	tableCfg := p.tableConfig()
	if err := artifact.WritePromptTable(layout.PromptTable(), buckets, prompts, tableCfg); err != nil {
		return nil, p.fail(ctx, proj, "bundle", err)
	}

	description := strings.TrimSpace(opts.Description)
	if description == "" {
		description, err = p.prompter.Description(ctx, proj.Text)
		if err != nil {
			return nil, p.fail(ctx, proj, "bundle", err)
		}
	}
	if err := artifact.WriteDescription(layout.DescriptionFile(), description); err != nil {
		return nil, p.fail(ctx, proj, "bundle", err)
	}

	proj.PromptTable = layout.PromptTable()
	proj.Description = layout.DescriptionFile()
	proj.Status = project.StatusBundled
	if err := p.store.Update(ctx, proj); err != nil {
		return nil, err
	}
	p.advance(proj, "bundle", fmt.Sprintf("%d prompt rows", len(buckets)))
	return &BundleResult{
		Project:     proj,
		Rows:        len(buckets),
		PromptTable: layout.PromptTable(),
		Description: layout.DescriptionFile(),
	}, nil
}

// ImportResult reports how imported images map onto the prompt buckets.
type ImportResult struct {
	Count  int
	Used   []string
	Reused []string
}

// ImportImages records that illustration images are available for the
// project and previews the prompt association, naming which images will be
// used once and which will be repeated. Without a subtitle timeline yet,
// every image counts as used.
func (p *Pipeline) ImportImages(ctx context.Context, name string) (*ImportResult, error) {
	release, err := p.acquire(name)
	if err != nil {
		return nil, err
	}
	defer release()

	proj, err := p.store.GetBySlug(ctx, name)
	if err != nil {
		return nil, err
	}
	layout := p.store.Layout(name)
	imported, err := layout.Images()
	if err != nil {
		return nil, err
	}
	if len(imported) == 0 {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "images", "no images found in archive", nil)
	}

	result := &ImportResult{Count: len(imported)}
	if buckets, bucketsErr := p.projectBuckets(layout); bucketsErr == nil && len(buckets) > 0 {
		prompts := make([]string, len(buckets))
		for i, bucket := range buckets {
			prompts[i] = bucket.Text
		}
		choices, assocErr := p.assoc.Associate(ctx, prompts, imported)
		if assocErr != nil {
			return nil, p.fail(ctx, proj, "images", assocErr)
		}
		seen := make(map[string]struct{})
		for _, choice := range choices {
			base := filepath.Base(choice.Path)
			if choice.Reused {
				result.Reused = append(result.Reused, base)
				continue
			}
			if _, dup := seen[base]; !dup {
				seen[base] = struct{}{}
				result.Used = append(result.Used, base)
			}
		}
	} else {
		for _, path := range imported {
			result.Used = append(result.Used, filepath.Base(path))
		}
	}

	proj.Status = project.StatusImaged
	if err := p.store.Update(ctx, proj); err != nil {
		return nil, err
	}
	p.advance(proj, "images", fmt.Sprintf("%d images imported", len(imported)))
	return result, nil
}

// projectBuckets rebuilds the illustration buckets from the stored SRT.
func (p *Pipeline) projectBuckets(layout project.Layout) ([]segment.Bucket, error) {
	srtPath, err := layout.LocateSubtitle()
	if err != nil {
		return nil, err
	}
	segments, err := subtitle.ParseFile(srtPath)
	if err != nil {
		return nil, err
	}
	interval := p.cfg.Segmentation.IntervalSeconds
	if interval <= 0 {
		interval = segment.DefaultInterval
	}
	return segment.BucketByInterval(segments, interval)
}

// AssembleResult reports the video assembly outcome.
type AssembleResult struct {
	Project   *project.Project
	VideoFile string
	Used      int
	Reused    int
}

// Assemble matches images to prompt buckets, renders the final video, and
// mirrors the artifact bundle when Drive is configured.
func (p *Pipeline) Assemble(ctx context.Context, name string) (*AssembleResult, error) {
	release, err := p.acquire(name)
	if err != nil {
		return nil, err
	}
	defer release()

	proj, err := p.store.GetBySlug(ctx, name)
	if err != nil {
		return nil, err
	}
	layout := p.store.Layout(name)
	audioPath, err := layout.LocateAudio()
	if err != nil {
		return nil, err
	}
	srtPath, err := layout.LocateSubtitle()
	if err != nil {
		return nil, err
	}
	segments, err := subtitle.ParseFile(srtPath)
	if err != nil {
		return nil, p.fail(ctx, proj, "assemble", err)
	}

	interval := p.cfg.Segmentation.IntervalSeconds
	if interval <= 0 {
		interval = segment.DefaultInterval
	}
	buckets, err := segment.BucketByInterval(segments, interval)
	if err != nil {
		return nil, p.fail(ctx, proj, "assemble", err)
	}

	pool, err := layout.Images()
	if err != nil {
		return nil, err
	}
	prompts := make([]string, len(buckets))
	for i, bucket := range buckets {
		prompts[i] = bucket.Text
	}
	choices, err := p.assoc.Associate(ctx, prompts, pool)
	if err != nil {
		return nil, p.fail(ctx, proj, "assemble", err)
	}

	paths := make([]string, len(choices))
	reused := 0
	for i, choice := range choices {
		paths[i] = choice.Path
		if choice.Reused {
			reused++
		}
	}

	total := segment.TotalDuration(segments)
	if last := buckets[len(buckets)-1].Time; total <= last {
		// Collision advancement can push the bucket grid past the audio;
		// ffmpeg -shortest trims the overhang.
		total = last + interval
	}
	slides, err := assemble.BuildPlan(buckets, paths, total)
	if err != nil {
		return nil, p.fail(ctx, proj, "assemble", err)
	}
	plan := assemble.Plan{
		Slides:       slides,
		AudioFile:    audioPath,
		SubtitleFile: srtPath,
		Output:       layout.VideoFile(),
	}
	if err := p.asm.Assemble(ctx, plan); err != nil {
		return nil, p.fail(ctx, proj, "assemble", err)
	}

	proj.VideoFile = plan.Output
	proj.Status = project.StatusCompleted
	if err := p.store.Update(ctx, proj); err != nil {
		return nil, err
	}
	p.advance(proj, "assemble", "video rendered")

	if p.mirror != nil && p.mirror.Enabled() {
		folderID, err := p.mirror.MirrorProject(ctx, name,
			proj.AudioFile, proj.SubtitleFile, proj.TranscriptTXT,
			proj.PromptTable, proj.Description, proj.VideoFile)
		if err != nil {
			p.logger.Warn("drive mirroring failed", "slug", name, logging.Error(err))
		} else if folderID != "" {
			proj.DriveFolderID = folderID
			if err := p.store.Update(ctx, proj); err != nil {
				return nil, err
			}
		}
	}

	return &AssembleResult{
		Project:   proj,
		VideoFile: plan.Output,
		Used:      len(choices) - reused,
		Reused:    reused,
	}, nil
}

func (p *Pipeline) tableConfig() artifact.TableConfig {
	cfg := artifact.DefaultTableConfig()
	if p.cfg.Prompts.StylePrefix != "" {
		cfg.StylePrefix = p.cfg.Prompts.StylePrefix
	}
	if p.cfg.Prompts.NegativePrompt != "" {
		cfg.NegativePrompt = p.cfg.Prompts.NegativePrompt
	}
	if p.cfg.Prompts.AspectRatio != "" {
		cfg.AspectRatio = p.cfg.Prompts.AspectRatio
	}
	return cfg
}

// acquire takes the per-slug run lock without blocking.
func (p *Pipeline) acquire(name string) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.running[name]; busy {
		return nil, services.Wrap(services.ErrConflict, "pipeline", "lock",
			fmt.Sprintf("project %s already has a stage running", name), nil)
	}
	p.running[name] = struct{}{}
	return func() {
		p.mu.Lock()
		delete(p.running, name)
		p.mu.Unlock()
	}, nil
}

// fail records the failure on the project and returns the original error.
func (p *Pipeline) fail(ctx context.Context, proj *project.Project, stage string, err error) error {
	p.logger.Error("stage failed", "slug", proj.Slug, "stage", stage, logging.Error(err))
	if storeErr := p.store.SetError(ctx, proj.ID, err.Error()); storeErr != nil {
		p.logger.Error("record failure", "slug", proj.Slug, logging.Error(storeErr))
	}
	p.hub.Publish(Event{Slug: proj.Slug, Stage: stage, Status: project.StatusFailed, Message: err.Error()})
	return err
}

func (p *Pipeline) advance(proj *project.Project, stage, message string) {
	p.logger.Info("stage complete", "slug", proj.Slug, "stage", stage, "status", string(proj.Status))
	p.hub.Publish(Event{Slug: proj.Slug, Stage: stage, Status: proj.Status, Message: message})
}
