package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TeamPulse-Labs/Rebalance/internal/advisor"
	"github.com/TeamPulse-Labs/Rebalance/internal/scoring"
	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

type SkillsHandler struct {
	store   store.Store
	advisor *advisor.Advisor
}

func NewSkillsHandler(s store.Store, a *advisor.Advisor) *SkillsHandler {
	return &SkillsHandler{store: s, advisor: a}
}

// GetAll handles GET /api/v1/students/{id}/skills and returns scores
// and confidence for every category.
func (h *SkillsHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	student, ok := h.lookupStudent(w, r)
	if !ok {
		return
	}

	eval, err := h.advisor.EvaluateStudent(r.Context(), student)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student_id": student.ID,
		"scores":     eval.Scores,
		"confidence": eval.Confidence,
	})
}

// GetOne handles GET /api/v1/students/{id}/skills/{category}.
func (h *SkillsHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	student, ok := h.lookupStudent(w, r)
	if !ok {
		return
	}

	category := scoring.Category(chi.URLParam(r, "category"))
	if !scoring.KnownCategory(string(category)) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown category"})
		return
	}

	eval, err := h.advisor.EvaluateStudent(r.Context(), student)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student_id": student.ID,
		"category":   category,
		"score":      eval.Scores[category],
		"confidence": eval.Confidence[category],
		"breakdown":  eval.Breakdown[category],
	})
}

func (h *SkillsHandler) lookupStudent(w http.ResponseWriter, r *http.Request) (*store.Student, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid student id"})
		return nil, false
	}
	student, err := h.store.GetStudent(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	if student == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "student not found"})
		return nil, false
	}
	return student, true
}
