package images_test

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"inspira/internal/config"
	"inspira/internal/images"
	"inspira/internal/services"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) CreateEmbeddings(_ context.Context, request openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	if f.err != nil {
		return openai.EmbeddingResponse{}, f.err
	}
	req, ok := request.(openai.EmbeddingRequest)
	if !ok {
		return openai.EmbeddingResponse{}, errors.New("unexpected request type")
	}
	inputs := req.Input.([]string)
	resp := openai.EmbeddingResponse{}
	for i, text := range inputs {
		vec, ok := f.vectors[text]
		if !ok {
			vec = []float32{0, 0, 1}
		}
		resp.Data = append(resp.Data, openai.Embedding{Index: i, Embedding: vec})
	}
	return resp, nil
}

func TestAssociateEmbeddingGreedy(t *testing.T) {
	fake := &fakeEmbedder{vectors: map[string][]float32{
		"uma cruz ao amanhecer": {1, 0, 0},
		"mãos unidas em oração": {0, 1, 0},
		"cruz amanhecer":        {0.9, 0.1, 0},
		"maos oracao":           {0.1, 0.9, 0},
	}}
	assoc := images.NewAssociator(config.Images{Strategy: images.StrategyEmbedding}, "key", images.WithEmbedder(fake))

	choices, err := assoc.Associate(context.Background(),
		[]string{"uma cruz ao amanhecer", "mãos unidas em oração"},
		[]string{"/img/cruz amanhecer.png", "/img/maos oracao.png"})
	if err != nil {
		t.Fatalf("Associate: %v", err)
	}
	if choices[0].Path != "/img/cruz amanhecer.png" {
		t.Fatalf("unexpected first choice %+v", choices[0])
	}
	if choices[1].Path != "/img/maos oracao.png" {
		t.Fatalf("unexpected second choice %+v", choices[1])
	}
	for _, c := range choices {
		if c.Reused {
			t.Fatalf("no image should be reused: %+v", c)
		}
		if c.Score <= 0 {
			t.Fatalf("expected positive score: %+v", c)
		}
	}
}

func TestAssociateReusesWhenPoolExhausted(t *testing.T) {
	assoc := images.NewAssociator(config.Images{Strategy: images.StrategyFingerprint}, "")

	prompts := []string{"cruz dourada campo", "cruz dourada campo", "cruz dourada campo"}
	choices, err := assoc.Associate(context.Background(), prompts, []string{"/img/cruz dourada.png"})
	if err != nil {
		t.Fatalf("Associate: %v", err)
	}
	if len(choices) != 3 {
		t.Fatalf("expected 3 choices, got %d", len(choices))
	}
	if choices[0].Reused {
		t.Fatal("first assignment should not be flagged as reuse")
	}
	if !choices[1].Reused || !choices[2].Reused {
		t.Fatalf("expected reuse flags after exhaustion: %+v", choices[1:])
	}
	for _, c := range choices {
		if c.Path != "/img/cruz dourada.png" {
			t.Fatalf("unexpected path %q", c.Path)
		}
	}
}

func TestAssociateCyclesChosenImagesAfterExhaustion(t *testing.T) {
	assoc := images.NewAssociator(config.Images{Strategy: images.StrategyFingerprint}, "")

	prompts := []string{
		"nascer do sol dourado sobre o mar",
		"igreja de pedra na colina",
		"nascer do sol dourado sobre o mar",
		"igreja de pedra na colina",
	}
	pool := []string{"/img/nascer do sol mar.png", "/img/igreja pedra colina.png"}
	choices, err := assoc.Associate(context.Background(), prompts, pool)
	if err != nil {
		t.Fatalf("Associate: %v", err)
	}
	if choices[0].Path != pool[0] || choices[1].Path != pool[1] {
		t.Fatalf("unexpected first-pass assignments: %+v", choices[:2])
	}
	// Overflow prompts walk the chosen list in order, not best-match.
	if choices[2].Path != choices[0].Path || choices[3].Path != choices[1].Path {
		t.Fatalf("expected modulo cycle over chosen images: %+v", choices[2:])
	}
	if !choices[2].Reused || !choices[3].Reused {
		t.Fatalf("expected reuse flags on cycled choices: %+v", choices[2:])
	}
}

func TestAssociateFingerprintMatching(t *testing.T) {
	assoc := images.NewAssociator(config.Images{Strategy: images.StrategyFingerprint}, "")

	choices, err := assoc.Associate(context.Background(),
		[]string{"montanha nevada ao sol", "oceano calmo azul"},
		[]string{"/img/oceano azul.jpg", "/img/montanha nevada.jpg"})
	if err != nil {
		t.Fatalf("Associate: %v", err)
	}
	if choices[0].Path != "/img/montanha nevada.jpg" {
		t.Fatalf("unexpected match for mountain prompt: %+v", choices[0])
	}
	if choices[1].Path != "/img/oceano azul.jpg" {
		t.Fatalf("unexpected match for ocean prompt: %+v", choices[1])
	}
}

func TestAssociateEmbeddingFailureFallsBack(t *testing.T) {
	fake := &fakeEmbedder{err: errors.New("quota")}
	assoc := images.NewAssociator(config.Images{}, "key", images.WithEmbedder(fake))

	choices, err := assoc.Associate(context.Background(),
		[]string{"montanha nevada"},
		[]string{"/img/montanha nevada.jpg"})
	if err != nil {
		t.Fatalf("Associate should fall back, got %v", err)
	}
	if choices[0].Path != "/img/montanha nevada.jpg" {
		t.Fatalf("unexpected choice %+v", choices[0])
	}
}

func TestAssociateValidation(t *testing.T) {
	assoc := images.NewAssociator(config.Images{}, "")

	if _, err := assoc.Associate(context.Background(), nil, []string{"/img/a.png"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty prompts, got %v", err)
	}
	if _, err := assoc.Associate(context.Background(), []string{"p"}, nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty images, got %v", err)
	}
}
