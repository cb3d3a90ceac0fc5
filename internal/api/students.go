package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

type StudentsHandler struct {
	store store.Store
}

func NewStudentsHandler(s store.Store) *StudentsHandler {
	return &StudentsHandler{store: s}
}

type CreateStudentRequest struct {
	Name            string   `json:"name"`
	PersonalityCode string   `json:"personality_code,omitempty"`
	TeamID          string   `json:"team_id"`
	Motivation      *float64 `json:"motivation,omitempty"`
}

func (h *StudentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" || req.TeamID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and team_id required"})
		return
	}
	teamID, err := uuid.Parse(req.TeamID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid team_id"})
		return
	}
	team, err := h.store.GetTeam(r.Context(), teamID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if team == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "team not found"})
		return
	}

	motivation := 3.0
	if req.Motivation != nil {
		if *req.Motivation < 1 || *req.Motivation > 5 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "motivation must be 1-5"})
			return
		}
		motivation = *req.Motivation
	}

	student := &store.Student{
		Name:            req.Name,
		PersonalityCode: req.PersonalityCode,
		TeamID:          teamID,
		Load:            1.0,
		Motivation:      motivation,
		Danger:          1.0,
	}
	if err := h.store.CreateStudent(r.Context(), student); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.StudentFilter{}
	if t := r.URL.Query().Get("team_id"); t != "" {
		id, err := uuid.Parse(t)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid team_id"})
			return
		}
		filter.TeamID = &id
	}

	students, err := h.store.ListStudents(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if students == nil {
		students = []*store.Student{}
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *StudentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	student, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *StudentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	student, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var patch struct {
		Name              *string  `json:"name"`
		PersonalityCode   *string  `json:"personality_code"`
		Motivation        *float64 `json:"motivation"`
		PreferredPartners []string `json:"preferred_partners"`
		AvoidedPartners   []string `json:"avoided_partners"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if patch.Name != nil {
		student.Name = *patch.Name
	}
	if patch.PersonalityCode != nil {
		student.PersonalityCode = *patch.PersonalityCode
	}
	if patch.Motivation != nil {
		if *patch.Motivation < 1 || *patch.Motivation > 5 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "motivation must be 1-5"})
			return
		}
		student.Motivation = *patch.Motivation
	}
	if patch.PreferredPartners != nil {
		ids, err := parseUUIDs(patch.PreferredPartners)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid partner id"})
			return
		}
		student.PreferredPartners = ids
	}
	if patch.AvoidedPartners != nil {
		ids, err := parseUUIDs(patch.AvoidedPartners)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid partner id"})
			return
		}
		student.AvoidedPartners = ids
	}

	if err := h.store.UpdateStudent(r.Context(), student); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *StudentsHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}

	team := &store.Team{Name: req.Name}
	if err := h.store.CreateTeam(r.Context(), team); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

func (h *StudentsHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.store.ListTeams(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if teams == nil {
		teams = []*store.Team{}
	}
	writeJSON(w, http.StatusOK, teams)
}

func (h *StudentsHandler) lookup(w http.ResponseWriter, r *http.Request) (*store.Student, bool) {
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
