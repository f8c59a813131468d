package project

import "time"

// Status represents the lifecycle of a project.
type Status string

const (
	StatusPending     Status = "pending"
	StatusVoiced      Status = "voiced"
	StatusTranscribed Status = "transcribed"
	StatusBundled     Status = "bundled"
	StatusImaged      Status = "imaged"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusVoiced,
	StatusTranscribed,
	StatusBundled,
	StatusImaged,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	_, ok := statusSet[s]
	return ok
}

// Terminal reports whether no further stage will run for this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Project represents one narrated video job persisted in SQLite. Artifact
// paths are filled in as the pipeline advances.
type Project struct {
	ID            int64
	Slug          string
	Text          string
	Status        Status
	Language      string
	VoiceID       string
	AudioFile     string
	SubtitleFile  string
	TranscriptTXT string
	PromptTable   string
	Description   string
	VideoFile     string
	DriveFolderID string
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InFlight reports whether the project is between creation and a terminal
// state, which makes it a candidate for "current project" resolution.
func (p *Project) InFlight() bool {
	return p != nil && !p.Status.Terminal()
}
