package segment

import (
	"math"
	"strings"
)

// DefaultGroupSize is the word-group size used for caption resegmentation.
const DefaultGroupSize = 3

// DefaultInterval is the illustration bucket interval in seconds.
const DefaultInterval = 4.0

// ResegmentByWordCount splits each coarse segment's text into consecutive
// groups of groupSize words and distributes the segment's time interval
// proportionally across the groups. The last group of a segment may be
// shorter; a segment with no words contributes nothing. Output segments are
// ordered globally across the whole transcript.
func ResegmentByWordCount(coarse []Segment, groupSize int) ([]Segment, error) {
	if groupSize <= 0 {
		groupSize = DefaultGroupSize
	}
	if err := ValidateAll(coarse); err != nil {
		return nil, err
	}

	var out []Segment
	for _, seg := range coarse {
		words := strings.Fields(seg.Text)
		if len(words) == 0 {
			continue
		}
		groups := (len(words) + groupSize - 1) / groupSize
		duration := seg.Duration()
		for i := 0; i < groups; i++ {
			lo := i * groupSize
			hi := lo + groupSize
			if hi > len(words) {
				hi = len(words)
			}
			out = append(out, Segment{
				Start: seg.Start + duration*float64(i)/float64(groups),
				End:   seg.Start + duration*float64(i+1)/float64(groups),
				Text:  strings.Join(words[lo:hi], " "),
			})
		}
	}
	return out, nil
}

// Bucket is one illustration slot: a representative timestamp and the text
// of the coarse segment assigned to it. Fine-grained start/end are discarded
// deliberately; the prompt table wants one offset per illustration, not a
// caption track.
type Bucket struct {
	Time float64
	Text string
}

// BucketByInterval assigns each coarse segment (in order) to the time bucket
// whose start is closest to the segment's own start. A bucket already claimed
// by an earlier segment advances the assignment to the next free bucket at
// interval increments, extending past the transcript end when needed, so no
// two segments ever share a bucket. A heavily clustered transcript can drift
// late segments well past their real timestamps; that is the accepted cost of
// one-prompt-per-bucket output.
func BucketByInterval(coarse []Segment, interval float64) ([]Bucket, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if err := ValidateAll(coarse); err != nil {
		return nil, err
	}
	if len(coarse) == 0 {
		return nil, nil
	}

	duration := TotalDuration(coarse)
	slots := int(math.Ceil(duration / interval))
	if slots < 1 {
		slots = 1
	}
	claimed := make(map[int]bool, slots)

	out := make([]Bucket, 0, len(coarse))
	for _, seg := range coarse {
		idx := int(math.Round(seg.Start / interval))
		for claimed[idx] {
			idx++
		}
		claimed[idx] = true
		out = append(out, Bucket{
			Time: float64(idx) * interval,
			Text: strings.TrimSpace(seg.Text),
		})
	}
	return out, nil
}
