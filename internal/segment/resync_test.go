package segment_test

import (
	"math"
	"strings"
	"testing"

	"inspira/internal/segment"
)

const epsilon = 1e-9

func TestResegmentByWordCountExample(t *testing.T) {
	coarse := []segment.Segment{{Start: 0, End: 2, Text: "hello world foo"}}
	out, err := segment.ResegmentByWordCount(coarse, 2)
	if err != nil {
		t.Fatalf("ResegmentByWordCount: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(out))
	}
	if out[0].Text != "hello world" || out[1].Text != "foo" {
		t.Fatalf("unexpected group texts: %q %q", out[0].Text, out[1].Text)
	}
	if math.Abs(out[0].Start-0) > epsilon || math.Abs(out[0].End-1) > epsilon {
		t.Fatalf("group 0 bounds: [%f, %f]", out[0].Start, out[0].End)
	}
	if math.Abs(out[1].Start-1) > epsilon || math.Abs(out[1].End-2) > epsilon {
		t.Fatalf("group 1 bounds: [%f, %f]", out[1].Start, out[1].End)
	}
}

func TestResegmentPreservesTextAndDuration(t *testing.T) {
	coarse := []segment.Segment{
		{Start: 0, End: 3.7, Text: "one two three four five six seven"},
		{Start: 3.7, End: 5.2, Text: "eight nine"},
		{Start: 5.2, End: 9, Text: "ten eleven twelve thirteen"},
	}
	out, err := segment.ResegmentByWordCount(coarse, 3)
	if err != nil {
		t.Fatalf("ResegmentByWordCount: %v", err)
	}

	var rejoined []string
	for _, seg := range out {
		rejoined = append(rejoined, seg.Text)
	}
	var original []string
	for _, seg := range coarse {
		original = append(original, strings.Join(strings.Fields(seg.Text), " "))
	}
	if strings.Join(rejoined, " ") != strings.Join(original, " ") {
		t.Fatalf("text not preserved:\n got %q\nwant %q",
			strings.Join(rejoined, " "), strings.Join(original, " "))
	}

	var groupSum float64
	for _, seg := range out {
		groupSum += seg.Duration()
	}
	var coarseSum float64
	for _, seg := range coarse {
		coarseSum += seg.Duration()
	}
	if math.Abs(groupSum-coarseSum) > 1e-6 {
		t.Fatalf("duration not preserved: got %f, want %f", groupSum, coarseSum)
	}
}

func TestResegmentSkipsEmptySegments(t *testing.T) {
	coarse := []segment.Segment{
		{Start: 0, End: 1, Text: "   "},
		{Start: 1, End: 2, Text: "only words here"},
	}
	out, err := segment.ResegmentByWordCount(coarse, 4)
	if err != nil {
		t.Fatalf("ResegmentByWordCount: %v", err)
	}
	if len(out) != 1 || out[0].Text != "only words here" {
		t.Fatalf("unexpected output: %#v", out)
	}
}

func TestResegmentShortFinalGroup(t *testing.T) {
	coarse := []segment.Segment{{Start: 0, End: 5, Text: "a b c d e"}}
	out, err := segment.ResegmentByWordCount(coarse, 2)
	if err != nil {
		t.Fatalf("ResegmentByWordCount: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(out))
	}
	if out[2].Text != "e" {
		t.Fatalf("expected short final group %q, got %q", "e", out[2].Text)
	}
}

func TestResegmentRejectsInvalidSegment(t *testing.T) {
	coarse := []segment.Segment{{Start: 2, End: 2, Text: "backwards"}}
	if _, err := segment.ResegmentByWordCount(coarse, 3); err == nil {
		t.Fatal("expected error for end <= start")
	}
}

func TestBucketByIntervalExample(t *testing.T) {
	coarse := []segment.Segment{
		{Start: 0, End: 0.5, Text: "first"},
		{Start: 1, End: 1.5, Text: "second"},
		{Start: 5, End: 5.5, Text: "third"},
	}
	buckets, err := segment.BucketByInterval(coarse, 4)
	if err != nil {
		t.Fatalf("BucketByInterval: %v", err)
	}
	want := []float64{0, 4, 8}
	if len(buckets) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(buckets))
	}
	for i, b := range buckets {
		if math.Abs(b.Time-want[i]) > epsilon {
			t.Errorf("bucket %d: got time %f, want %f", i, b.Time, want[i])
		}
	}
}

func TestBucketByIntervalUniqueAssignments(t *testing.T) {
	coarse := []segment.Segment{
		{Start: 0, End: 1, Text: "a"},
		{Start: 0.2, End: 1.2, Text: "b"},
		{Start: 0.4, End: 1.4, Text: "c"},
		{Start: 0.6, End: 1.6, Text: "d"},
	}
	buckets, err := segment.BucketByInterval(coarse, 3)
	if err != nil {
		t.Fatalf("BucketByInterval: %v", err)
	}
	if len(buckets) != len(coarse) {
		t.Fatalf("expected one bucket per segment, got %d", len(buckets))
	}
	seen := map[float64]bool{}
	for _, b := range buckets {
		if seen[b.Time] {
			t.Fatalf("bucket time %f assigned twice", b.Time)
		}
		seen[b.Time] = true
	}
}

func TestBucketByIntervalEmptyInput(t *testing.T) {
	buckets, err := segment.BucketByInterval(nil, 4)
	if err != nil {
		t.Fatalf("BucketByInterval: %v", err)
	}
	if buckets != nil {
		t.Fatalf("expected nil for empty input, got %#v", buckets)
	}
}

func TestTotalDuration(t *testing.T) {
	coarse := []segment.Segment{
		{Start: 0, End: 2, Text: "a"},
		{Start: 2, End: 7.5, Text: "b"},
	}
	if got := segment.TotalDuration(coarse); got != 7.5 {
		t.Fatalf("expected 7.5, got %f", got)
	}
}
