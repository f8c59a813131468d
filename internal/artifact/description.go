package artifact

import (
	"fmt"
	"os"
	"strings"

	"inspira/internal/segment"
)

// WriteDescription writes the caller-composed description as trimmed UTF-8
// plain text. No templating happens here.
func WriteDescription(path, text string) error {
	if err := os.WriteFile(path, []byte(strings.TrimSpace(text)), 0o644); err != nil {
		return fmt.Errorf("write description: %w", err)
	}
	return nil
}

// WriteTranscript dumps one line of plain text per coarse segment, the same
// companion file the subtitle generator has always produced next to the SRT.
func WriteTranscript(path string, segments []segment.Segment) error {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(strings.TrimSpace(seg.Text))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
