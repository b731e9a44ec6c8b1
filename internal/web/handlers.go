package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/explorer/internal/core"
	"github.com/JonMunkholm/explorer/internal/logging"
	"github.com/JonMunkholm/explorer/internal/web/templates"
)

// handleIndex renders the Idle page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIdle(w, r, core.Idle(nil), http.StatusOK)
}

// handleUpload imports the uploaded file and redirects to its Overview.
// Failures re-render the Idle page with the error.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
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

	http.Redirect(w, r, viewURL(state.Upload.ID.String(), core.TabOverview), http.StatusSeeOther)
}

// handleView renders the selected tab of a stored upload.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")
	tab := core.ParseTab(r.URL.Query().Get("tab"))

	state, view, err := s.service.View(r.Context(), uploadID, tab)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := templates.LoadedPage(templates.LoadedParams{
		Upload:      *state.Upload,
		View:        view,
		MaxFileSize: s.cfg.Upload.MaxFileSize,
	})
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render loaded page", "error", err)
	}
}

// handleRemove discards a stored upload and returns to the Idle page.
func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	s.service.Remove(r.Context(), chi.URLParam(r, "uploadID"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func viewURL(uploadID string, tab core.Tab) string {
	return "/view/" + uploadID + "?tab=" + string(tab)
}
