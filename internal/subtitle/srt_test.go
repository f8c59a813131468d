package subtitle_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inspira/internal/segment"
	"inspira/internal/subtitle"
)

func TestFormatTimestampTruncates(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00,000"},
		{1.3339, "00:00:01,333"},
		{61.5, "00:01:01,500"},
		{3661.0019, "01:01:01,001"},
	}
	for _, tc := range cases {
		if got := subtitle.FormatTimestamp(tc.in); got != tc.want {
			t.Errorf("FormatTimestamp(%f) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := subtitle.ParseTimestamp("01:02:03,456")
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	want := 1*3600 + 2*60 + 3 + 0.456
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %f, want %f", got, want)
	}

	if _, err := subtitle.ParseTimestamp("not a time"); err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
}

func TestWriteBlockFormat(t *testing.T) {
	segs := []segment.Segment{
		{Start: 0, End: 1.5, Text: "primeira linha"},
		{Start: 1.5, End: 3, Text: "segunda linha"},
	}
	var sb strings.Builder
	if err := subtitle.Write(&sb, segs); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\nprimeira linha\n\n" +
		"2\n00:00:01,500 --> 00:00:03,000\nsegunda linha\n\n"
	if sb.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", sb.String(), want)
	}
}

func TestRoundTripWithinOneMillisecond(t *testing.T) {
	segs := []segment.Segment{
		{Start: 0.1234, End: 2.9876, Text: "um"},
		{Start: 3.5, End: 7.77777, Text: "dois"},
		{Start: 8, End: 12.000999, Text: "três"},
	}
	var sb strings.Builder
	if err := subtitle.Write(&sb, segs); err != nil {
		t.Fatalf("Write: %v", err)
	}
	parsed, err := subtitle.ParseString(sb.String())
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(parsed) != len(segs) {
		t.Fatalf("expected %d segments, got %d", len(segs), len(parsed))
	}
	for i := range segs {
		if parsed[i].Text != segs[i].Text {
			t.Errorf("segment %d text: got %q, want %q", i, parsed[i].Text, segs[i].Text)
		}
		// Truncation loses up to 1ms and never gains time.
		for _, pair := range [][2]float64{
			{segs[i].Start, parsed[i].Start},
			{segs[i].End, parsed[i].End},
		} {
			delta := pair[0] - pair[1]
			if delta < 0 || delta >= 0.001 {
				t.Errorf("segment %d timestamp drift %f out of [0, 1ms)", i, delta)
			}
		}
	}
}

func TestParseSkipsMalformedBlocks(t *testing.T) {
	content := "1\n00:00:00,000 --> 00:00:01,000\nvalid\n\n" +
		"garbage\n\n" +
		"3\nnot-a-timestamp\ntext\n\n" +
		"4\n00:00:02,000 --> 00:00:03,000\nalso valid\n"
	segs, err := subtitle.ParseString(content)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("expected 2 valid segments, got %d", len(segs))
	}
	if segs[0].Text != "valid" || segs[1].Text != "also valid" {
		t.Fatalf("unexpected texts: %q %q", segs[0].Text, segs[1].Text)
	}
}

func TestParseMultilineText(t *testing.T) {
	content := "1\n00:00:00,000 --> 00:00:02,000\nline one\nline two\n"
	segs, err := subtitle.ParseString(content)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(segs) != 1 || segs[0].Text != "line one\nline two" {
		t.Fatalf("unexpected parse result: %#v", segs)
	}
}

func TestWriteFileAndParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legenda.srt")
	segs := []segment.Segment{{Start: 0, End: 1, Text: "olá"}}
	if err := subtitle.WriteFile(path, segs); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
	parsed, err := subtitle.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(parsed) != 1 || parsed[0].Text != "olá" {
		t.Fatalf("unexpected parse result: %#v", parsed)
	}
}

func TestWriteRejectsInvalidSegments(t *testing.T) {
	var sb strings.Builder
	err := subtitle.Write(&sb, []segment.Segment{{Start: 2, End: 1, Text: "x"}})
	if err == nil {
		t.Fatal("expected error for end < start")
	}
	if sb.Len() != 0 {
		t.Fatalf("expected no output on validation failure, got %q", sb.String())
	}
}
