package textutil

import (
	"path/filepath"
	"strings"
)

// punctuationReplacer turns common filename punctuation into spaces so that
// image names tokenize the same way as the prompts they were generated from.
var punctuationReplacer = strings.NewReplacer(
	"_", " ",
	"-", " ",
	".", " ",
	",", " ",
	"(", " ",
	")", " ",
	"[", " ",
	"]", " ",
)

// NameText extracts matchable text from an image path: the base name without
// extension, punctuation replaced by spaces, trimmed.
func NameText(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSpace(punctuationReplacer.Replace(base))
}

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased, digits and hyphens/underscores are kept, everything
// else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
