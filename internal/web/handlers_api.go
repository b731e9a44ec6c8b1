package web

// handlers_api.go serves the JSON API. It exposes the same pipeline as the
// pages: every call re-imports the stored bytes.

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/explorer/internal/core"
)

// UploadResponse describes a successfully imported file.
type UploadResponse struct {
	UploadID       string                `json:"upload_id"`
	FileName       string                `json:"file_name"`
	Format         core.Format           `json:"format"`
	Size           int                   `json:"size"`
	CreatedAt      time.Time             `json:"created_at"`
	Rows           int                   `json:"rows"`
	Columns        []core.Column         `json:"columns"`
	NumericColumns core.NumericColumnSet `json:"numeric_columns"`
}

// ViewResponse is the JSON model of one tab.
type ViewResponse struct {
	UploadResponse
	View *core.View `json:"view"`
}

// StatusResponse reports import concurrency and store occupancy.
type StatusResponse struct {
	core.UploadLimiterStatus
	StoredUploads int `json:"stored_uploads"`
}

func uploadResponse(state core.State) UploadResponse {
	return UploadResponse{
		UploadID:       state.Upload.ID.String(),
		FileName:       state.Upload.FileName,
		Format:         state.Upload.Format,
		Size:           state.Upload.Size,
		CreatedAt:      state.Upload.CreatedAt,
		Rows:           state.Table.NumRows(),
		Columns:        state.Table.Columns(),
		NumericColumns: state.Numeric,
	}
}

// handleAPIUpload imports the uploaded file and returns its description.
func (s *Server) handleAPIUpload(w http.ResponseWriter, r *http.Request) {
	name, data, err := s.readUploadedFile(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	state, err := s.service.Upload(r.Context(), name, data)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse(state))
}

// handleAPIView returns the view model of the selected tab.
func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	tab := core.ParseTab(r.URL.Query().Get("tab"))

	state, view, err := s.service.View(r.Context(), chi.URLParam(r, "uploadID"), tab)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, ViewResponse{UploadResponse: uploadResponse(state), View: view})
}

// handleAPIRemove discards a stored upload.
func (s *Server) handleAPIRemove(w http.ResponseWriter, r *http.Request) {
	_, removed := s.service.Remove(r.Context(), chi.URLParam(r, "uploadID"))
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

// handleUploadStatus reports the import limiter state.
func (s *Server) handleUploadStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		UploadLimiterStatus: s.service.UploadLimiterStatus(),
		StoredUploads:       s.service.StoredUploads(),
	})
}
