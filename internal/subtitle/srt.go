// Package subtitle serializes and parses SubRip caption files.
//
// Timestamps use the SRT comma millisecond separator. Milliseconds are
// truncated, never rounded, when writing, so a parse of written output
// reproduces the source times within one millisecond.
package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"inspira/internal/segment"
)

// Write serializes segments as SubRip blocks: a 1-based index line, a
// "start --> end" line, the text, and a blank separator line.
func Write(w io.Writer, segments []segment.Segment) error {
	if err := segment.ValidateAll(segments); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for i, seg := range segments {
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n",
			i+1,
			FormatTimestamp(seg.Start),
			FormatTimestamp(seg.End),
			strings.TrimSpace(seg.Text),
		)
	}
	return bw.Flush()
}

// WriteFile writes the subtitle track to path.
func WriteFile(path string, segments []segment.Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create srt: %w", err)
	}
	if err := Write(f, segments); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Parse reads a SubRip document into segments. Blocks are separated by blank
// lines; a well-formed block has an index line, an arrow line, and at least
// one text line. Blocks with fewer than three lines are skipped.
func Parse(r io.Reader) ([]segment.Segment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	return ParseString(string(data))
}

// ParseString parses SubRip content from a string.
func ParseString(content string) ([]segment.Segment, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	blocks := strings.Split(strings.TrimSpace(content), "\n\n")

	var out []segment.Segment
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			continue
		}
		start, end, err := parseArrowLine(lines[1])
		if err != nil {
			continue
		}
		out = append(out, segment.Segment{
			Start: start,
			End:   end,
			Text:  strings.TrimSpace(strings.Join(lines[2:], "\n")),
		})
	}
	return out, nil
}

// ParseFile parses the SubRip file at path.
func ParseFile(path string) ([]segment.Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open srt: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm with milliseconds
// truncated.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(seconds * 1000)
	h := millis / 3_600_000
	m := (millis % 3_600_000) / 60_000
	s := (millis % 60_000) / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func parseArrowLine(line string) (float64, float64, error) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	start, err := ParseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimestamp(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ParseTimestamp converts an SRT timestamp to total seconds. A period
// millisecond separator is tolerated.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
