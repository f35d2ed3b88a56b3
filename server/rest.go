package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/AltairaLabs/BackdropKit/background"
	"github.com/AltairaLabs/BackdropKit/logger"
	backdropmetrics "github.com/AltairaLabs/BackdropKit/metrics/prometheus"
	"github.com/AltairaLabs/BackdropKit/version"
)

// backgroundEntry is one custom background in the enumeration response.
type backgroundEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// setBackgroundRequest is the POST /background body. The field is named
// "type" for compatibility with existing clients of the streaming frontend.
type setBackgroundRequest struct {
	Type string `json:"type"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "BackdropKit real-time background replacement server",
		"version": version.GetVersion(),
		"endpoints": map[string]string{
			"websocket":   "/ws",
			"backgrounds": "/backgrounds",
			"health":      "/health",
			"metrics":     "/metrics",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"connections": s.conns.Count(),
	})
}

// handleBackgrounds enumerates selectable ids. "current" reports the
// process-wide default; per-connection selection lives in each session.
func (s *Server) handleBackgrounds(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"backgrounds": s.backgrounds.IDs(),
		"current":     s.DefaultBackground(),
	})
}

func (s *Server) handleBackgroundsList(w http.ResponseWriter, _ *http.Request) {
	predefined := make([]string, 0)
	for _, b := range s.backgrounds.List(background.KindProcedural) {
		predefined = append(predefined, b.ID)
	}
	predefined = append(predefined, background.IDBlur, background.IDNone)

	custom := make([]backgroundEntry, 0)
	for _, b := range s.backgrounds.List(background.KindCustom) {
		custom = append(custom, backgroundEntry{
			ID:   b.ID,
			Name: b.Label,
			Type: string(background.KindCustom),
			URL:  b.URL,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"predefined": predefined,
		"custom":     custom,
		"current":    s.DefaultBackground(),
	})
}

// handleSetBackground validates and updates the process-wide default. Same
// validation contract as the in-band background-change message.
func (s *Server) handleSetBackground(w http.ResponseWriter, r *http.Request) {
	var req setBackgroundRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, s.maxBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "background type is required")
		return
	}

	if !s.SetDefaultBackground(req.Type) {
		backdropmetrics.RecordBackgroundChange(backdropmetrics.StatusError)
		writeError(w, http.StatusBadRequest, "invalid background type: "+req.Type)
		return
	}

	backdropmetrics.RecordBackgroundChange(backdropmetrics.StatusSuccess)
	logger.InfoContext(r.Context(), "default background changed", "background", req.Type)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Background changed to " + req.Type,
		"success": true,
	})
}

// handleUpload ingests a custom background. It accepts a multipart form with
// a "file" part, or a raw image body with a Content-Type header.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodySize)

	data, declaredType, err := readUpload(r)
	if err != nil {
		backdropmetrics.RecordUpload(backdropmetrics.StatusError)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bg, err := s.store.Ingest(data, declaredType)
	if err != nil {
		backdropmetrics.RecordUpload(backdropmetrics.StatusError)
		logger.UploadResult("", len(data), err)

		status := http.StatusInternalServerError
		if errors.Is(err, background.ErrNotAnImage) || errors.Is(err, background.ErrInvalidImage) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	backdropmetrics.RecordUpload(backdropmetrics.StatusSuccess)
	backdropmetrics.SetBackgroundCount(s.backgrounds.Len())
	logger.UploadResult(bg.ID, len(data), nil)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Background uploaded successfully",
		"background_id": bg.ID,
		"filename":      path.Base(bg.URL),
		"url":           bg.URL,
		"success":       true,
	})
}

// readUpload extracts the image bytes and declared media type from either a
// multipart form or a raw request body.
func readUpload(r *http.Request) (data []byte, declaredType string, err error) {
	contentType := r.Header.Get("Content-Type")

	if file, header, formErr := r.FormFile("file"); formErr == nil {
		defer func() { _ = file.Close() }()
		data, err = io.ReadAll(file)
		if err != nil {
			return nil, "", errors.New("failed to read uploaded file")
		}
		return data, partMediaType(header), nil
	}

	data, err = io.ReadAll(r.Body)
	if err != nil {
		return nil, "", errors.New("failed to read request body")
	}
	if len(data) == 0 {
		return nil, "", errors.New("request carries no file")
	}
	return data, contentType, nil
}

// partMediaType returns the declared type of a multipart file part.
func partMediaType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return ""
}
