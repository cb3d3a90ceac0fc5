package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/TeamPulse-Labs/Rebalance/internal/recommend"
	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

type SuggestionsHandler struct {
	store       store.Store
	recommender *recommend.Recommender
}

func NewSuggestionsHandler(s store.Store, tunables recommend.Tunables, logger *slog.Logger) *SuggestionsHandler {
	return &SuggestionsHandler{
		store:       s,
		recommender: recommend.New(tunables, logger),
	}
}

// Fresh handles GET /api/v1/suggestions: a live recomputation from the
// current snapshots, bypassing the advisor's persisted run.
func (h *SuggestionsHandler) Fresh(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.ListStudents(r.Context(), store.StudentFilter{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	tasks, err := h.store.ListTasks(r.Context(), store.TaskFilter{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	suggestions := h.recommender.Suggest(students, tasks)
	if suggestions == nil {
		suggestions = []recommend.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// Latest handles GET /api/v1/suggestions/latest: the snapshot persisted
// by the most recent advisor run.
func (h *SuggestionsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = n
	}

	suggestions, err := h.store.ListLatestSuggestions(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if suggestions == nil {
		suggestions = []*store.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}
