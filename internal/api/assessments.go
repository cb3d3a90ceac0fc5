package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TeamPulse-Labs/Rebalance/internal/advisor"
	"github.com/TeamPulse-Labs/Rebalance/internal/scoring"
	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

type AssessmentsHandler struct {
	store   store.Store
	advisor *advisor.Advisor
}

func NewAssessmentsHandler(s store.Store, a *advisor.Advisor) *AssessmentsHandler {
	return &AssessmentsHandler{store: s, advisor: a}
}

type UpsertAssessmentRequest struct {
	Category   string  `json:"category"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// Upsert handles POST /api/v1/students/{id}/assessments. One row per
// student and category; repeat submissions overwrite.
func (h *AssessmentsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid student id"})
		return
	}

	var req UpsertAssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !scoring.KnownCategory(req.Category) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category"})
		return
	}
	if req.Score < 1 || req.Score > 5 || req.Confidence < 1 || req.Confidence > 5 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "score and confidence must be 1-5"})
		return
	}

	student, err := h.store.GetStudent(r.Context(), studentID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if student == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "student not found"})
		return
	}

	assessment := &store.SelfAssessment{
		StudentID:  studentID,
		Category:   req.Category,
		Score:      req.Score,
		Confidence: req.Confidence,
	}
	if err := h.store.UpsertSelfAssessment(r.Context(), assessment); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if h.advisor != nil {
		h.advisor.InvalidateStudent(studentID)
	}
	writeJSON(w, http.StatusCreated, assessment)
}

// List handles GET /api/v1/students/{id}/assessments.
func (h *AssessmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid student id"})
		return
	}

	assessments, err := h.store.ListSelfAssessments(r.Context(), studentID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if assessments == nil {
		assessments = []*store.SelfAssessment{}
	}
	writeJSON(w, http.StatusOK, assessments)
}
