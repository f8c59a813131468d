package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"inspira/internal/project"
)

type projectView struct {
	Slug        string `json:"slug"`
	Status      string `json:"status"`
	Language    string `json:"language,omitempty"`
	Error       string `json:"error,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	DriveFolder string `json:"drive_folder,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErro(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	counts := make(map[string]int, len(stats))
	total := 0
	for status, count := range stats {
		counts[string(status)] = count
		total += count
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"total":    total,
		"projetos": counts,
	})
}

func (s *Server) handleProjetos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErro(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	projects, err := s.store.List(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	views := make([]projectView, 0, len(projects))
	for _, proj := range projects {
		views = append(views, toView(proj))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"projetos": views})
}

func toView(proj *project.Project) projectView {
	view := projectView{
		Slug:      proj.Slug,
		Status:    string(proj.Status),
		Language:  proj.Language,
		Error:     proj.ErrorMessage,
		CreatedAt: proj.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: proj.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if proj.VideoFile != "" {
		view.VideoURL = "/downloads/" + proj.Slug + ".mp4"
	}
	if proj.DriveFolderID != "" {
		view.DriveFolder = "https://drive.google.com/drive/folders/" + proj.DriveFolderID
	}
	return view
}

// handleEventos streams pipeline stage events over a websocket. The client
// receives one JSON object per event until it disconnects.
func (s *Server) handleEventos(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := s.pipe.Hub().Subscribe()
	defer cancel()

	// Reader goroutine notices the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
