// Package slug derives filesystem-safe project identifiers from free text.
//
// Slugs are transliterated to ASCII, stripped of punctuation, lowercased, and
// truncated. Input that normalizes to nothing falls back to a timestamped
// identifier so a project directory can always be created. Two texts that
// normalize identically map to the same slug on purpose: re-submitting the
// same narration resumes the same project.
package slug

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultLimit is the default maximum slug length in characters.
const DefaultLimit = 30

// stripMarks removes diacritical marks after canonical decomposition, so
// "é" becomes "e" rather than being dropped.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make derives a slug from text, truncated to limit characters. A
// non-positive limit uses DefaultLimit. Empty or punctuation-only input
// yields a fallback of the form "20060102-150405-a1b2c3".
func Make(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultLimit
	}

	ascii, _, err := transform.String(stripMarks, text)
	if err != nil {
		ascii = text
	}

	var b strings.Builder
	b.Grow(len(ascii))
	space := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			space = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			space = false
		case unicode.IsSpace(r):
			if b.Len() > 0 && !space {
				b.WriteByte('_')
				space = true
			}
		}
	}

	out := strings.Trim(b.String(), "_")
	if out == "" {
		return Fallback(time.Now().UTC())
	}
	if len(out) > limit {
		out = strings.Trim(out[:limit], "_")
		if out == "" {
			return Fallback(time.Now().UTC())
		}
	}
	return out
}

// Fallback builds the timestamped identifier used when text yields no slug:
// UTC timestamp plus the first six hex characters of a random UUID.
func Fallback(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s-%s", now.Format("20060102-150405"), suffix)
}
