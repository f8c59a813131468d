package server

import (
	"net/http"
	"path/filepath"
	"strings"
)

// handleStatic serves project artifacts by URL convention: the slug is
// embedded in the artifact file name (/audio/<slug>.mp3, /csv/<slug>.srt,
// /downloads/<slug>.mp4), or given as a directory for raw downloads
// (/downloads/<slug>/<file>).
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.writeErro(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	trimmed := strings.TrimPrefix(r.URL.Path, "/")
	kind, rest, ok := strings.Cut(trimmed, "/")
	if !ok || rest == "" || strings.Contains(rest, "..") {
		s.writeErro(w, http.StatusNotFound, "arquivo não encontrado")
		return
	}

	var slug, file string
	if dir, name, nested := strings.Cut(rest, "/"); nested {
		slug, file = dir, name
	} else {
		slug, file = slugFromArtifact(rest), rest
	}
	if slug == "" || strings.Contains(file, "/") {
		s.writeErro(w, http.StatusNotFound, "arquivo não encontrado")
		return
	}

	layout := s.store.Layout(slug)
	var dir string
	switch kind {
	case "audio":
		dir = layout.AudioDir()
	case "csv":
		dir = layout.CSVDir()
	case "downloads":
		dir = layout.DownloadsDir()
	default:
		s.writeErro(w, http.StatusNotFound, "arquivo não encontrado")
		return
	}

	http.ServeFile(w, r, filepath.Join(dir, file))
}

// slugFromArtifact strips the artifact suffixes our layout appends.
func slugFromArtifact(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.TrimSuffix(name, "_descricao")
	return name
}
