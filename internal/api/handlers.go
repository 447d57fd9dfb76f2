package api

import (
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"plexbrowse/internal/library"
)

const Version = "0.2.0"

const maxRefreshBody = 64 << 10

var validate = validator.New()

type Handler struct {
	library *library.Service
	static  fs.FS
	logger  zerolog.Logger
}

func NewHandler(svc *library.Service, static fs.FS, logger zerolog.Logger) *Handler {
	return &Handler{
		library: svc,
		static:  static,
		logger:  logger,
	}
}

// Index serves the browser UI.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, h.static, "index.html")
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.library.Sections(r.Context())
	if err != nil {
		h.upstreamError(w, err, "failed to list sections")
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

func (h *Handler) GetSectionItems(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "id")

	items, err := h.library.SectionItems(r.Context(), sectionID)
	if err != nil {
		h.upstreamError(w, err, "failed to list section items", "section_id", sectionID)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) GetShowSeasons(w http.ResponseWriter, r *http.Request) {
	showID := chi.URLParam(r, "id")

	seasons, err := h.library.ShowSeasons(r.Context(), showID)
	if err != nil {
		h.upstreamError(w, err, "failed to list seasons", "show_id", showID)
		return
	}
	writeJSON(w, http.StatusOK, seasons)
}

func (h *Handler) GetSeasonEpisodes(w http.ResponseWriter, r *http.Request) {
	seasonID := chi.URLParam(r, "id")

	episodes, err := h.library.SeasonEpisodes(r.Context(), seasonID)
	if err != nil {
		h.upstreamError(w, err, "failed to list episodes", "season_id", seasonID)
		return
	}
	writeJSON(w, http.StatusOK, episodes)
}

// Refresh asks Plex to rescan a section. An empty body is treated like {}.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRefreshBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var req RefreshRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	req.SectionID = strings.TrimSpace(req.SectionID)
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "section_id is required")
		return
	}

	if err := h.library.Refresh(r.Context(), req.SectionID, req.Path); err != nil {
		h.upstreamError(w, err, "failed to trigger refresh", "section_id", req.SectionID)
		return
	}

	writeJSON(w, http.StatusOK, ActionResponse{
		Success: true,
		Message: "Refresh triggered successfully",
	})
}

func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.library.ClearCache()
	writeJSON(w, http.StatusOK, ActionResponse{
		Success: true,
		Message: "Cache cleared",
	})
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.library.CacheStats())
}

// upstreamError logs a failed upstream call and answers 500 with its text.
func (h *Handler) upstreamError(w http.ResponseWriter, err error, msg string, fields ...string) {
	event := h.logger.Error().Err(err)
	for i := 0; i+1 < len(fields); i += 2 {
		event = event.Str(fields[i], fields[i+1])
	}
	event.Msg(msg)

	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
