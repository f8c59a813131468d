package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"inspira/internal/config"
	"inspira/internal/services"
)

// Store manages project persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	root string
}

// Open initializes or connects to the project database under the log
// directory and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "inspira.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, root: cfg.Paths.ProjectsDir}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create inserts a new pending project and lays out its directories. An
// existing slug is resumed instead of rejected: the narration text and voice
// are refreshed on the same row and the lifecycle restarts at pending, so
// re-submitting a narration never forks a second project.
func (s *Store) Create(ctx context.Context, slug, text, voiceID string) (*Project, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, services.Wrap(services.ErrValidation, "project", "create", "slug required", nil)
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO projects (slug, text, status, voice_id, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		slug,
		text,
		StatusPending,
		nullableString(voiceID),
		timestamp,
		timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return s.resume(ctx, slug, text, voiceID)
		}
		return nil, fmt.Errorf("insert project: %w", err)
	}

	if err := s.Layout(slug).Ensure(); err != nil {
		return nil, fmt.Errorf("project layout: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// resume rewinds an existing project row to pending with fresh narration
// input. Artifact paths are left in place; the stages overwrite them as the
// re-run progresses.
func (s *Store) resume(ctx context.Context, slug, text, voiceID string) (*Project, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE projects
         SET text = ?, voice_id = ?, status = ?, error_message = NULL, updated_at = ?
         WHERE slug = ?`,
		text,
		nullableString(voiceID),
		StatusPending,
		timestamp,
		slug,
	)
	if err != nil {
		return nil, fmt.Errorf("resume project: %w", err)
	}
	if err := s.Layout(slug).Ensure(); err != nil {
		return nil, fmt.Errorf("project layout: %w", err)
	}
	return s.GetBySlug(ctx, slug)
}

// GetByID fetches a project by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	proj, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "project", "get", fmt.Sprintf("project id %d", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return proj, nil
}

// GetBySlug fetches a project by slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE slug = ?`, slug)
	proj, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "project", "get", fmt.Sprintf("project %s", slug), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get project by slug: %w", err)
	}
	return proj, nil
}

// Update persists changes to an existing project.
func (s *Store) Update(ctx context.Context, proj *Project) error {
	if proj == nil {
		return errors.New("project is nil")
	}
	if !proj.Status.Valid() {
		return services.Wrap(services.ErrValidation, "project", "update", fmt.Sprintf("unknown status %q", proj.Status), nil)
	}
	proj.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE projects
         SET text = ?, status = ?, language = ?, voice_id = ?, audio_file = ?,
             subtitle_file = ?, transcript_txt = ?, prompt_table = ?, description = ?,
             video_file = ?, drive_folder_id = ?, error_message = ?, updated_at = ?
         WHERE id = ?`,
		proj.Text,
		proj.Status,
		nullableString(proj.Language),
		nullableString(proj.VoiceID),
		nullableString(proj.AudioFile),
		nullableString(proj.SubtitleFile),
		nullableString(proj.TranscriptTXT),
		nullableString(proj.PromptTable),
		nullableString(proj.Description),
		nullableString(proj.VideoFile),
		nullableString(proj.DriveFolderID),
		nullableString(proj.ErrorMessage),
		proj.UpdatedAt.Format(time.RFC3339Nano),
		proj.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// SetStatus transitions a project to the given status, clearing any prior
// error message on non-failed transitions.
func (s *Store) SetStatus(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return services.Wrap(services.ErrValidation, "project", "set status", fmt.Sprintf("unknown status %q", status), nil)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	var err error
	if status == StatusFailed {
		_, err = s.db.ExecContext(ctx,
			`UPDATE projects SET status = ?, updated_at = ? WHERE id = ?`,
			status, now, id)
	} else {
		_, err = s.db.ExecContext(ctx,
			`UPDATE projects SET status = ?, error_message = NULL, updated_at = ? WHERE id = ?`,
			status, now, id)
	}
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

// SetError marks a project failed and records the failure message.
func (s *Store) SetError(ctx context.Context, id int64, message string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE projects SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		StatusFailed,
		message,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("set error: %w", err)
	}
	return nil
}

// List returns projects filtered by status set, newest first, or all
// projects when no status is provided.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Project, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + projectColumns + ` FROM projects`
	orderClause := ` ORDER BY created_at DESC`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, proj)
	}
	return projects, rows.Err()
}

// ResolveCurrent returns the single in-flight project. With none it returns
// ErrNotFound; with more than one, ErrAmbiguous, and the caller must name a
// slug explicitly.
func (s *Store) ResolveCurrent(ctx context.Context) (*Project, error) {
	inFlight, err := s.List(ctx,
		StatusPending, StatusVoiced, StatusTranscribed, StatusBundled, StatusImaged)
	if err != nil {
		return nil, err
	}
	switch len(inFlight) {
	case 0:
		return nil, services.Wrap(services.ErrNotFound, "project", "resolve", "no project in progress", nil)
	case 1:
		return inFlight[0], nil
	default:
		slugs := make([]string, len(inFlight))
		for i, p := range inFlight {
			slugs[i] = p.Slug
		}
		return nil, services.Wrap(services.ErrAmbiguous, "project", "resolve",
			fmt.Sprintf("multiple projects in progress (%s), name one", strings.Join(slugs, ", ")), nil)
	}
}

// Stats returns a count of projects grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM projects GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("project stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Remove deletes a project row by slug. Files on disk are left in place.
func (s *Store) Remove(ctx context.Context, slug string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE slug = ?`, slug)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

const projectColumns = "id, slug, text, status, language, voice_id, audio_file, subtitle_file, transcript_txt, prompt_table, description, video_file, drive_folder_id, error_message, created_at, updated_at"

func scanProject(scanner interface{ Scan(dest ...any) error }) (*Project, error) {
	var (
		id            int64
		slug          string
		text          string
		statusStr     string
		lang          sql.NullString
		voiceID       sql.NullString
		audioFile     sql.NullString
		subtitleFile  sql.NullString
		transcriptTXT sql.NullString
		promptTable   sql.NullString
		description   sql.NullString
		videoFile     sql.NullString
		driveFolderID sql.NullString
		errorMessage  sql.NullString
		createdRaw    string
		updatedRaw    string
	)

	if err := scanner.Scan(
		&id,
		&slug,
		&text,
		&statusStr,
		&lang,
		&voiceID,
		&audioFile,
		&subtitleFile,
		&transcriptTXT,
		&promptTable,
		&description,
		&videoFile,
		&driveFolderID,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	proj := &Project{
		ID:            id,
		Slug:          slug,
		Text:          text,
		Status:        Status(statusStr),
		Language:      lang.String,
		VoiceID:       voiceID.String,
		AudioFile:     audioFile.String,
		SubtitleFile:  subtitleFile.String,
		TranscriptTXT: transcriptTXT.String,
		PromptTable:   promptTable.String,
		Description:   description.String,
		VideoFile:     videoFile.String,
		DriveFolderID: driveFolderID.String,
		ErrorMessage:  errorMessage.String,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		proj.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		proj.UpdatedAt = updated
	}
	return proj, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
