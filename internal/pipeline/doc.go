// Package pipeline drives a project through its stages: narration,
// transcription, artifact bundling, image association, and video assembly.
// Each stage persists its outcome to the project store and publishes a
// progress event.
package pipeline
