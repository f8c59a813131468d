package server

import (
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"inspira/internal/pipeline"
	"inspira/internal/services"
)

type falarRequest struct {
	Texto   string `json:"texto"`
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
}

func (s *Server) handleFalar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErro(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	var req falarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	texto := strings.TrimSpace(req.Texto)
	if texto == "" {
		texto = strings.TrimSpace(req.Text)
	}
	if texto == "" {
		s.writeErro(w, http.StatusBadRequest, "Campo 'texto' obrigatório")
		return
	}

	result, err := s.pipe.Voice(r.Context(), texto, req.VoiceID)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"slug":      result.Project.Slug,
		"audio_url": "/audio/" + result.Project.Slug + ".mp3",
	})
}

type transcreverRequest struct {
	AudioURL string `json:"audio_url"`
	Slug     string `json:"slug"`
}

type transcricaoRow struct {
	Inicio float64 `json:"inicio"`
	Fim    float64 `json:"fim"`
	Texto  string  `json:"texto"`
}

func (s *Server) handleTranscrever(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErro(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	var req transcreverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	name, err := s.resolveSlug(r, req.Slug, req.AudioURL)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	result, err := s.pipe.Transcribe(r.Context(), name)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	rows := make([]transcricaoRow, len(result.Segments))
	for i, seg := range result.Segments {
		rows[i] = transcricaoRow{
			Inicio: round2(seg.Start),
			Fim:    round2(seg.End),
			Texto:  seg.Text,
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"duracao_total": round2(result.Duration),
		"transcricao":   rows,
	})
}

type gerarCSVRequest struct {
	Slug      string   `json:"slug"`
	Intervalo float64  `json:"intervalo"`
	Prompts   []string `json:"prompts"`
	Descricao string   `json:"descricao"`
}

func (s *Server) handleGerarCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErro(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	var req gerarCSVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	name, err := s.resolveSlug(r, req.Slug, "")
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	result, err := s.pipe.Bundle(r.Context(), name, pipeline.BundleOptions{
		Interval:    req.Intervalo,
		Prompts:     req.Prompts,
		Description: req.Descricao,
	})
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"linhas":        result.Rows,
		"csv_url":       "/csv/" + name + ".csv",
		"srt_url":       "/csv/" + name + ".srt",
		"descricao_url": "/csv/" + name + "_descricao.txt",
	})
}

const maxZipBytes = 200 << 20

func (s *Server) handleUploadZip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErro(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	if err := r.ParseMultipartForm(maxZipBytes); err != nil {
		s.writeErro(w, http.StatusBadRequest, "formulário multipart inválido")
		return
	}
	name, err := s.resolveSlug(r, r.FormValue("slug"), "")
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	file, _, err := formFile(r, "arquivo", "file")
	if err != nil {
		s.writeErro(w, http.StatusBadRequest, "Campo 'arquivo' obrigatório")
		return
	}
	defer file.Close()

	layout := s.store.Layout(name)
	extracted, err := extractImages(file, layout.DownloadsDir())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if extracted == 0 {
		s.writeErro(w, http.StatusBadRequest, "nenhuma imagem encontrada no zip")
		return
	}

	result, err := s.pipe.ImportImages(r.Context(), name)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"imagens":      result.Count,
		"usadas":       orEmpty(result.Used),
		"reutilizadas": orEmpty(result.Reused),
	})
}

type montarVideoRequest struct {
	Slug string `json:"slug"`
}

func (s *Server) handleMontarVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErro(w, http.StatusMethodNotAllowed, "método não permitido")
		return
	}
	var req montarVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	name, err := s.resolveSlug(r, req.Slug, "")
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	result, err := s.pipe.Assemble(r.Context(), name)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	payload := map[string]any{
		"video_url":    "/downloads/" + name + ".mp4",
		"usadas":       result.Used,
		"reutilizadas": result.Reused,
	}
	if result.Project.DriveFolderID != "" {
		payload["drive_folder"] = "https://drive.google.com/drive/folders/" + result.Project.DriveFolderID
	}
	s.writeJSON(w, http.StatusOK, payload)
}

// resolveSlug picks the target project: an explicit slug wins, then a slug
// embedded in an audio URL, then the single in-flight project.
func (s *Server) resolveSlug(r *http.Request, explicit, audioURL string) (string, error) {
	if name := strings.TrimSpace(explicit); name != "" {
		return name, nil
	}
	if audioURL != "" {
		base := path.Base(audioURL)
		if name := strings.TrimSuffix(base, ".mp3"); name != "" && name != base {
			return name, nil
		}
		return "", services.Wrap(services.ErrValidation, "server", "resolve",
			"audio_url não aponta para um mp3 do projeto", nil)
	}
	proj, err := s.store.ResolveCurrent(r.Context())
	if err != nil {
		return "", err
	}
	return proj.Slug, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func formFile(r *http.Request, names ...string) (multipart.File, string, error) {
	var lastErr error
	for _, name := range names {
		file, header, err := r.FormFile(name)
		if err == nil {
			return file, header.Filename, nil
		}
		lastErr = err
	}
	return nil, "", lastErr
}
