package images

import (
	"context"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"inspira/internal/config"
	"inspira/internal/services"
	"inspira/internal/textutil"
)

// Choice pairs a prompt with the image selected for it. Reused marks images
// that were assigned more than once because the pool ran out.
type Choice struct {
	Prompt string
	Path   string
	Score  float64
	Reused bool
}

// Embedder is the slice of the OpenAI client used for embedding similarity.
type Embedder interface {
	CreateEmbeddings(ctx context.Context, request openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

const (
	StrategyEmbedding   = "embedding"
	StrategyFingerprint = "fingerprint"
)

type Associator struct {
	cfg config.Images
	api Embedder
}

type Option func(*Associator)

// WithEmbedder replaces the OpenAI-backed embedder, for tests.
func WithEmbedder(api Embedder) Option {
	return func(a *Associator) { a.api = api }
}

func NewAssociator(cfg config.Images, apiKey string, opts ...Option) *Associator {
	assoc := &Associator{cfg: cfg}
	for _, opt := range opts {
		opt(assoc)
	}
	if assoc.api == nil && strings.TrimSpace(apiKey) != "" && cfg.Strategy != StrategyFingerprint {
		assoc.api = openai.NewClient(apiKey)
	}
	return assoc
}

// Associate assigns one image to each prompt, in prompt order. Each image is
// used at most once until the pool is exhausted; overflow prompts then cycle
// through the already-chosen images by modulo index and are flagged as
// reused. Scores come from embedding cosine similarity when available,
// otherwise from token-fingerprint similarity of the file names.
func (a *Associator) Associate(ctx context.Context, prompts, imagePaths []string) ([]Choice, error) {
	if len(prompts) == 0 {
		return nil, services.Wrap(services.ErrValidation, "images", "associate", "no prompts", nil)
	}
	if len(imagePaths) == 0 {
		return nil, services.Wrap(services.ErrValidation, "images", "associate", "no images to associate", nil)
	}

	scores, err := a.scoreMatrix(ctx, prompts, imagePaths)
	if err != nil {
		return nil, err
	}

	used := make([]bool, len(imagePaths))
	chosen := make([]int, 0, len(imagePaths))
	choices := make([]Choice, len(prompts))
	for i := range prompts {
		if len(chosen) == len(imagePaths) {
			// Pool exhausted: recycle the chosen images in assignment order.
			j := chosen[(i-len(chosen))%len(chosen)]
			choices[i] = Choice{
				Prompt: prompts[i],
				Path:   imagePaths[j],
				Score:  scores[i][j],
				Reused: true,
			}
			continue
		}
		best := -1
		bestScore := 0.0
		for j := range imagePaths {
			if used[j] {
				continue
			}
			if best == -1 || scores[i][j] > bestScore {
				bestScore = scores[i][j]
				best = j
			}
		}
		used[best] = true
		chosen = append(chosen, best)
		choices[i] = Choice{
			Prompt: prompts[i],
			Path:   imagePaths[best],
			Score:  bestScore,
		}
	}
	return choices, nil
}

func (a *Associator) scoreMatrix(ctx context.Context, prompts, imagePaths []string) ([][]float64, error) {
	if a.api != nil {
		scores, err := a.embeddingScores(ctx, prompts, imagePaths)
		if err == nil {
			return scores, nil
		}
		// Embedding failure degrades to local fingerprints rather than
		// failing the whole association step.
	}
	return fingerprintScores(prompts, imagePaths), nil
}

func (a *Associator) embeddingScores(ctx context.Context, prompts, imagePaths []string) ([][]float64, error) {
	input := make([]string, 0, len(prompts)+len(imagePaths))
	input = append(input, prompts...)
	for _, path := range imagePaths {
		input = append(input, textutil.NameText(path))
	}

	model := openai.EmbeddingModel(a.cfg.EmbeddingModel)
	if a.cfg.EmbeddingModel == "" {
		model = openai.SmallEmbedding3
	}
	resp, err := a.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: input,
		Model: model,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "images", "embed", "embedding request failed", err)
	}
	if len(resp.Data) != len(input) {
		return nil, services.Wrap(services.ErrUpstream, "images", "embed", "embedding count mismatch", nil)
	}

	promptVecs := make([][]float32, len(prompts))
	for i := range prompts {
		promptVecs[i] = resp.Data[i].Embedding
	}
	imageVecs := make([][]float32, len(imagePaths))
	for j := range imagePaths {
		imageVecs[j] = resp.Data[len(prompts)+j].Embedding
	}

	scores := make([][]float64, len(prompts))
	for i := range prompts {
		scores[i] = make([]float64, len(imagePaths))
		for j := range imagePaths {
			scores[i][j] = cosine(promptVecs[i], imageVecs[j])
		}
	}
	return scores, nil
}

func fingerprintScores(prompts, imagePaths []string) [][]float64 {
	promptFPs := make([]*textutil.Fingerprint, len(prompts))
	for i, prompt := range prompts {
		promptFPs[i] = textutil.NewFingerprint(prompt)
	}
	imageFPs := make([]*textutil.Fingerprint, len(imagePaths))
	for j, path := range imagePaths {
		imageFPs[j] = textutil.NewFingerprint(textutil.NameText(path))
	}

	scores := make([][]float64, len(prompts))
	for i := range prompts {
		scores[i] = make([]float64, len(imagePaths))
		for j := range imagePaths {
			scores[i][j] = textutil.CosineSimilarity(promptFPs[i], imageFPs[j])
		}
	}
	return scores
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
