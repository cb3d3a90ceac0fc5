package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TeamPulse-Labs/Rebalance/internal/advisor"
	"github.com/TeamPulse-Labs/Rebalance/internal/config"
	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

type AdminHandler struct {
	store   store.Store
	advisor *advisor.Advisor
	cfg     *config.Config
}

func NewAdminHandler(s store.Store, a *advisor.Advisor, cfg *config.Config) *AdminHandler {
	return &AdminHandler{store: s, advisor: a, cfg: cfg}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Weights exposes the live recommender tunables and blend weight sets.
func (h *AdminHandler) Weights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"suggest_threshold":        h.cfg.Recommend.SuggestThreshold,
		"preferred_bonus":          h.cfg.Recommend.PreferredBonus,
		"avoided_penalty":          h.cfg.Recommend.AvoidedPenalty,
		"blend_with_assessment":    h.cfg.Scoring.BlendWithAssessment,
		"blend_without_assessment": h.cfg.Scoring.BlendWithoutAssessment,
	})
}

type StudentOverview struct {
	ID          uuid.UUID `json:"student_id"`
	Name        string    `json:"name"`
	Load        float64   `json:"load"`
	Motivation  float64   `json:"motivation"`
	Danger      float64   `json:"danger"`
	ActiveTasks int       `json:"active_tasks"`
	Muted       bool      `json:"muted"`
}

// Overview lists every student with their derived scores and mute state.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.ListStudents(r.Context(), store.StudentFilter{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var overviews []StudentOverview
	for _, s := range students {
		active, _ := h.store.GetActiveTasksForStudent(r.Context(), s.ID)
		overviews = append(overviews, StudentOverview{
			ID:          s.ID,
			Name:        s.Name,
			Load:        s.Load,
			Motivation:  s.Motivation,
			Danger:      s.Danger,
			ActiveTasks: len(active),
			Muted:       h.advisor.IsMuted(s.ID),
		})
	}
	if overviews == nil {
		overviews = []StudentOverview{}
	}
	writeJSON(w, http.StatusOK, overviews)
}

// Mute suppresses suggestions for one student's tasks.
func (h *AdminHandler) Mute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid student id"})
		return
	}
	h.advisor.Mute(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "muted", "student": id.String()})
}

func (h *AdminHandler) Unmute(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid student id"})
		return
	}
	h.advisor.Unmute(id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "unmuted", "student": id.String()})
}
