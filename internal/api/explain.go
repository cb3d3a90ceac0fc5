package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TeamPulse-Labs/Rebalance/internal/advisor"
	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

type ExplainHandler struct {
	store   store.Store
	advisor *advisor.Advisor
}

func NewExplainHandler(s store.Store, a *advisor.Advisor) *ExplainHandler {
	return &ExplainHandler{store: s, advisor: a}
}

// Explain returns the full per-category scoring breakdown for a student.
// GET /api/v1/scoring/explain/{student_id}
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "student_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid student_id"})
		return
	}

	student, err := h.store.GetStudent(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if student == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "student not found"})
		return
	}

	eval, err := h.advisor.EvaluateStudent(r.Context(), student)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student_id":       student.ID,
		"personality_code": student.PersonalityCode,
		"scores":           eval.Scores,
		"confidence":       eval.Confidence,
		"breakdown":        eval.Breakdown,
	})
}
