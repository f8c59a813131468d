// Package whisper transcribes synthesized narration audio through the
// OpenAI transcription API and normalizes the result into timed segments.
package whisper
