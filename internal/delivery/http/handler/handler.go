package handler

import (
	"encoding/json"
	"net/http"

	"github.com/user/maps-scraper/internal/delivery/http/response"
	"github.com/user/maps-scraper/internal/entity"
	"github.com/user/maps-scraper/internal/repository"
	"go.uber.org/zap"
)

// RunSource exposes the outcomes of the queries run by this process.
type RunSource interface {
	Outcomes() []entity.QueryOutcome
}

type Handler struct {
	runs   RunSource
	stats  repository.ListingStats
	logger *zap.Logger
}

// NewHandler accepts a nil stats when no database is configured.
func NewHandler(runs RunSource, stats repository.ListingStats, logger *zap.Logger) *Handler {
	return &Handler{
		runs:   runs,
		stats:  stats,
		logger: logger,
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	resp := response.RunsResponse{Runs: []response.RunResponse{}}
	if h.runs != nil {
		for _, o := range h.runs.Outcomes() {
			resp.Runs = append(resp.Runs, response.NewRunResponse(o))
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if h.stats == nil {
		h.writeJSONError(w, "Listing storage is not configured", http.StatusServiceUnavailable)
		return
	}

	counts, err := h.stats.CountByCategory(r.Context())
	if err != nil {
		h.logger.Error("failed to count listings by category", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.CategoriesResponse{Categories: counts}
	if resp.Categories == nil {
		resp.Categories = []entity.CategoryCount{}
	}
	for _, c := range counts {
		resp.Total += c.Listings
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
