package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"inspira/internal/services"
)

// Layout describes the on-disk directory structure of one project:
//
//	<root>/<slug>/audio      narration mp3
//	<root>/<slug>/csv        prompt table, subtitles, description, transcript
//	<root>/<slug>/downloads  uploaded images and the assembled video
type Layout struct {
	Root string
	Slug string
}

// Layout returns the directory layout for a slug under the store's root.
func (s *Store) Layout(slug string) Layout {
	return Layout{Root: s.root, Slug: slug}
}

func (l Layout) Dir() string          { return filepath.Join(l.Root, l.Slug) }
func (l Layout) AudioDir() string     { return filepath.Join(l.Root, l.Slug, "audio") }
func (l Layout) CSVDir() string       { return filepath.Join(l.Root, l.Slug, "csv") }
func (l Layout) DownloadsDir() string { return filepath.Join(l.Root, l.Slug, "downloads") }

func (l Layout) AudioFile() string      { return filepath.Join(l.AudioDir(), l.Slug+".mp3") }
func (l Layout) SubtitleFile() string   { return filepath.Join(l.CSVDir(), l.Slug+".srt") }
func (l Layout) TranscriptFile() string { return filepath.Join(l.CSVDir(), l.Slug+".txt") }
func (l Layout) PromptTable() string    { return filepath.Join(l.CSVDir(), l.Slug+".csv") }
func (l Layout) DescriptionFile() string {
	return filepath.Join(l.CSVDir(), l.Slug+"_descricao.txt")
}
func (l Layout) VideoFile() string { return filepath.Join(l.DownloadsDir(), l.Slug+".mp4") }

// Ensure creates the project directory tree.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.AudioDir(), l.CSVDir(), l.DownloadsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// LocateAudio returns the narration file path, failing when it is missing.
func (l Layout) LocateAudio() (string, error) {
	return l.locate(l.AudioFile(), "narration audio")
}

// LocateSubtitle returns the SRT path, failing when it is missing.
func (l Layout) LocateSubtitle() (string, error) {
	return l.locate(l.SubtitleFile(), "subtitle file")
}

// LocatePromptTable returns the prompt CSV path, failing when it is missing.
func (l Layout) LocatePromptTable() (string, error) {
	return l.locate(l.PromptTable(), "prompt table")
}

func (l Layout) locate(path, what string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", services.Wrap(services.ErrNotFound, "project", "locate",
				fmt.Sprintf("%s for %s", what, l.Slug), nil)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return path, nil
}

// Images lists image files in the downloads directory in name order.
func (l Layout) Images() ([]string, error) {
	entries, err := os.ReadDir(l.DownloadsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read downloads dir: %w", err)
	}
	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg", ".webp":
			images = append(images, filepath.Join(l.DownloadsDir(), entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}
