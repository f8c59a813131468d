package slug_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"inspira/internal/slug"
)

var fallbackPattern = regexp.MustCompile(`^\d{8}-\d{6}-[0-9a-f]{6}$`)

func TestMakeStripsAccentsAndPunctuation(t *testing.T) {
	if got := slug.Make("Deus é fiel!!!", 30); got != "deus_e_fiel" {
		t.Fatalf("expected deus_e_fiel, got %q", got)
	}
}

func TestMakeCollapsesWhitespace(t *testing.T) {
	if got := slug.Make("  A   fé  que   move ", 30); got != "a_fe_que_move" {
		t.Fatalf("unexpected slug %q", got)
	}
}

func TestMakeTruncates(t *testing.T) {
	got := slug.Make("palavras de esperanca para comecar bem o dia", 30)
	if len(got) > 30 {
		t.Fatalf("slug exceeds limit: %q (%d chars)", got, len(got))
	}
	if !strings.HasPrefix(got, "palavras_de_esperanca") {
		t.Fatalf("unexpected prefix: %q", got)
	}
}

func TestMakeCharset(t *testing.T) {
	inputs := []string{
		"Hello, World!",
		"Ünïcödé ẽverywhere",
		"tabs\tand\nnewlines",
		"UPPER lower 123",
	}
	valid := regexp.MustCompile(`^[a-z0-9_]+$`)
	for _, in := range inputs {
		got := slug.Make(in, 30)
		if !valid.MatchString(got) {
			t.Errorf("Make(%q) = %q contains invalid characters", in, got)
		}
	}
}

func TestMakeEmptyInputFallsBack(t *testing.T) {
	for _, in := range []string{"", "!!!", "¿¿¿ --- ???"} {
		got := slug.Make(in, 30)
		if !fallbackPattern.MatchString(got) {
			t.Errorf("Make(%q) = %q does not match fallback pattern", in, got)
		}
	}
}

func TestFallbackFormat(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	got := slug.Fallback(now)
	if !strings.HasPrefix(got, "20250314-092653-") {
		t.Fatalf("unexpected fallback prefix: %q", got)
	}
	if !fallbackPattern.MatchString(got) {
		t.Fatalf("fallback %q does not match pattern", got)
	}
}

func TestMakeDeterministicCollision(t *testing.T) {
	// Same normalized text maps to the same slug; this is resume-by-slug
	// behavior, not an accident.
	a := slug.Make("Deus e Fiel", 30)
	b := slug.Make("deus É fiel?", 30)
	if a != b {
		t.Fatalf("expected identical slugs, got %q and %q", a, b)
	}
}
