package textutil_test

import (
	"testing"

	"inspira/internal/textutil"
)

func TestCosineSimilarityIdenticalText(t *testing.T) {
	a := textutil.NewFingerprint("watercolor mountain sunrise")
	b := textutil.NewFingerprint("watercolor mountain sunrise")
	if got := textutil.CosineSimilarity(a, b); got < 0.999 {
		t.Fatalf("expected similarity ~1.0, got %f", got)
	}
}

func TestCosineSimilarityDisjointText(t *testing.T) {
	a := textutil.NewFingerprint("watercolor mountain sunrise")
	b := textutil.NewFingerprint("neon cyberpunk alley")
	if got := textutil.CosineSimilarity(a, b); got != 0 {
		t.Fatalf("expected similarity 0, got %f", got)
	}
}

func TestCosineSimilarityNilFingerprint(t *testing.T) {
	a := textutil.NewFingerprint("watercolor")
	if got := textutil.CosineSimilarity(a, nil); got != 0 {
		t.Fatalf("expected 0 for nil fingerprint, got %f", got)
	}
	if fp := textutil.NewFingerprint("!!! ..."); fp != nil {
		t.Fatalf("expected nil fingerprint for punctuation-only text, got %d tokens", fp.TokenCount())
	}
}

func TestCosineSimilarityPartialOverlapOrdering(t *testing.T) {
	prompt := textutil.NewFingerprint("a shepherd guiding sheep through green hills")
	close := textutil.NewFingerprint("shepherd sheep hills")
	far := textutil.NewFingerprint("city skyline at night")
	if textutil.CosineSimilarity(prompt, close) <= textutil.CosineSimilarity(prompt, far) {
		t.Fatal("expected overlapping text to score higher than disjoint text")
	}
}

func TestNameText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/tmp/imgs/shepherd_green-hills.png", "shepherd green hills"},
		{"sunrise.over.sea.jpg", "sunrise over sea"},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		if got := textutil.NameText(tc.in); got != tc.want {
			t.Errorf("NameText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := textutil.SanitizeToken("Deus é Fiel!"); got != "deus___fiel" {
		t.Errorf("unexpected token %q", got)
	}
	if got := textutil.SanitizeToken("   "); got != "unknown" {
		t.Errorf("expected unknown for blank input, got %q", got)
	}
}
