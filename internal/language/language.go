// Package language detects the language of transcribed narration so it can
// be recorded alongside the project.
package language

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// The detector model is expensive to build, so it is shared and lazy.
var (
	once     sync.Once
	detector lingua.LanguageDetector
)

// Candidate languages for the narration corpus. Restricting the set keeps
// detection fast and avoids spurious matches on short transcripts.
var candidates = []lingua.Language{
	lingua.Portuguese,
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.Italian,
	lingua.German,
}

// Detect returns the lowercase English name of the detected language, or
// empty when the text is blank or no candidate is confident enough.
func Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	once.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			Build()
	})
	lang, ok := detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.String())
}
