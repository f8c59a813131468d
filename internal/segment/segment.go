// Package segment models timed transcript spans and re-buckets them for
// caption tracks and illustration pacing.
//
// Coarse segments come from the transcription service. Two resync policies
// exist: fixed word-count grouping produces a fine-grained caption track, and
// fixed-interval bucketing spreads illustration prompts evenly through the
// narration. All timestamps are floating-point seconds; rounding to whole
// seconds happens only when artifacts are serialized.
package segment

import (
	"errors"
	"fmt"
)

// ErrInvalidSegment marks input segments that violate the start < end
// invariant.
var ErrInvalidSegment = errors.New("invalid segment")

// Segment is one timed span of transcript text.
type Segment struct {
	Start float64 `json:"inicio"`
	End   float64 `json:"fim"`
	Text  string  `json:"texto"`
}

// Duration returns the span length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Validate checks the start < end invariant.
func (s Segment) Validate() error {
	if s.End <= s.Start {
		return fmt.Errorf("%w: start=%.3f end=%.3f", ErrInvalidSegment, s.Start, s.End)
	}
	return nil
}

// ValidateAll checks every segment in the list.
func ValidateAll(segments []Segment) error {
	for i, seg := range segments {
		if err := seg.Validate(); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return nil
}

// TotalDuration returns the maximum end time across segments, or 0 for an
// empty list.
func TotalDuration(segments []Segment) float64 {
	var max float64
	for _, seg := range segments {
		if seg.End > max {
			max = seg.End
		}
	}
	return max
}
