// Package drive mirrors finished project artifacts to Google Drive.
package drive

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"inspira/internal/config"
	"inspira/internal/services"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Service uploads artifacts into a per-project folder under the configured
// root. A nil Service (mirroring disabled) is safe to call.
type Service struct {
	cfg config.Drive
	api *gdrive.Service
}

// New builds a Drive client from the configured service-account file.
// Returns nil when mirroring is disabled.
func New(ctx context.Context, cfg config.Drive) (*Service, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.CredentialsFile == "" || cfg.RootFolderID == "" {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "init",
			"credentials_file and root_folder_id required", nil)
	}
	api, err := gdrive.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(gdrive.DriveScope),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "init", "build drive client", err)
	}
	return &Service{cfg: cfg, api: api}, nil
}

// Enabled reports whether mirroring is active.
func (s *Service) Enabled() bool {
	return s != nil && s.api != nil
}

// EnsureFolder finds or creates a folder named after the project under the
// configured root and returns its id.
func (s *Service) EnsureFolder(ctx context.Context, name string) (string, error) {
	if !s.Enabled() {
		return "", nil
	}
	query := fmt.Sprintf("name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false",
		escapeQuery(name), s.cfg.RootFolderID, folderMimeType)
	list, err := s.api.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", services.Wrap(services.ErrUpstream, "drive", "ensure folder", "list folders", err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	folder, err := s.api.Files.Create(&gdrive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{s.cfg.RootFolderID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", services.Wrap(services.ErrUpstream, "drive", "ensure folder", "create folder", err)
	}
	return folder.Id, nil
}

// UploadFile puts one local file into the given folder, replacing nothing:
// repeated uploads create new revisions of new files, which is acceptable
// for an append-only archive.
func (s *Service) UploadFile(ctx context.Context, folderID, path string) (string, error) {
	if !s.Enabled() {
		return "", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "drive", "upload", path, err)
	}
	defer f.Close()

	meta := &gdrive.File{
		Name:    filepath.Base(path),
		Parents: []string{folderID},
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	call := s.api.Files.Create(meta).Fields("id").Context(ctx)
	if contentType != "" {
		call = call.Media(f, googleapi.ContentType(contentType))
	} else {
		call = call.Media(f)
	}
	created, err := call.Do()
	if err != nil {
		return "", services.Wrap(services.ErrUpstream, "drive", "upload", filepath.Base(path), err)
	}
	return created.Id, nil
}

// MirrorProject uploads every named artifact, skipping blanks and files
// that do not exist locally. The folder id is returned for persistence.
func (s *Service) MirrorProject(ctx context.Context, name string, paths ...string) (string, error) {
	if !s.Enabled() {
		return "", nil
	}
	folderID, err := s.EnsureFolder(ctx, name)
	if err != nil {
		return "", err
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		if _, err := s.UploadFile(ctx, folderID, path); err != nil {
			return folderID, err
		}
	}
	return folderID, nil
}

func escapeQuery(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}
