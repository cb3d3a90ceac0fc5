package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TeamPulse-Labs/Rebalance/internal/pulse"
	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

type TasksHandler struct {
	store store.Store
	pulse pulse.Client
}

func NewTasksHandler(s store.Store, p pulse.Client) *TasksHandler {
	return &TasksHandler{store: s, pulse: p}
}

type CreateTaskRequest struct {
	Title          string     `json:"title"`
	Category       string     `json:"category"`
	Difficulty     int        `json:"difficulty,omitempty"`
	Assignees      []string   `json:"assignees,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	Source         string     `json:"source,omitempty"`
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Title == "" || req.Category == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title and category required"})
		return
	}
	if req.Difficulty == 0 {
		req.Difficulty = 3
	}
	if req.Difficulty < 1 || req.Difficulty > 5 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "difficulty must be 1-5"})
		return
	}

	assignees, err := parseUUIDs(req.Assignees)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assignee id"})
		return
	}

	task := &store.Task{
		Title:          req.Title,
		Category:       req.Category,
		Difficulty:     req.Difficulty,
		Status:         store.StatusPending,
		Assignees:      assignees,
		EstimatedHours: req.EstimatedHours,
		Deadline:       req.Deadline,
		Source:         req.Source,
	}
	if err := h.store.CreateTask(r.Context(), task); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = pulse.PublishTaskCreated(h.pulse, taskEvent(task))
	writeJSON(w, http.StatusCreated, task)
}

func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.TaskFilter{
		Category: r.URL.Query().Get("category"),
		Source:   r.URL.Query().Get("source"),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := store.TaskStatus(s)
		filter.Status = &status
	}
	if a := r.URL.Query().Get("assignee"); a != "" {
		id, err := uuid.Parse(a)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assignee id"})
			return
		}
		filter.Assignee = &id
	}

	tasks, err := h.store.ListTasks(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if tasks == nil {
		tasks = []*store.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	task, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var patch struct {
		Title          *string    `json:"title"`
		Category       *string    `json:"category"`
		Difficulty     *int       `json:"difficulty"`
		Assignees      []string   `json:"assignees"`
		EstimatedHours *float64   `json:"estimated_hours"`
		Deadline       *time.Time `json:"deadline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.Difficulty != nil {
		if *patch.Difficulty < 1 || *patch.Difficulty > 5 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "difficulty must be 1-5"})
			return
		}
		task.Difficulty = *patch.Difficulty
	}
	if patch.Assignees != nil {
		assignees, err := parseUUIDs(patch.Assignees)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid assignee id"})
			return
		}
		task.Assignees = assignees
	}
	if patch.EstimatedHours != nil {
		task.EstimatedHours = patch.EstimatedHours
	}
	if patch.Deadline != nil {
		task.Deadline = patch.Deadline
	}

	if err := h.store.UpdateTask(r.Context(), task); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = pulse.PublishTaskUpdated(h.pulse, taskEvent(task))
	writeJSON(w, http.StatusOK, task)
}

func (h *TasksHandler) Start(w http.ResponseWriter, r *http.Request) {
	task, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if task.Status != store.StatusPending {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "task is not pending"})
		return
	}

	now := time.Now()
	task.Status = store.StatusInProgress
	task.StartedAt = &now

	if err := h.store.UpdateTask(r.Context(), task); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = pulse.PublishTaskUpdated(h.pulse, taskEvent(task))
	writeJSON(w, http.StatusOK, task)
}

func (h *TasksHandler) Complete(w http.ResponseWriter, r *http.Request) {
	task, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if task.Status == store.StatusCompleted {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "task already completed"})
		return
	}

	now := time.Now()
	task.Status = store.StatusCompleted
	task.CompletedAt = &now
	if task.StartedAt == nil {
		task.StartedAt = &now
	}

	if err := h.store.UpdateTask(r.Context(), task); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = pulse.PublishTaskUpdated(h.pulse, taskEvent(task))
	writeJSON(w, http.StatusOK, task)
}

// Reassign moves a task to a new owner, typically applying a suggestion.
// POST /api/v1/tasks/{id}/reassign
func (h *TasksHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	task, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if task.Status == store.StatusCompleted {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "task already completed"})
		return
	}

	var body struct {
		ToStudentID string `json:"to_student_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	toID, err := uuid.Parse(body.ToStudentID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid to_student_id"})
		return
	}

	student, err := h.store.GetStudent(r.Context(), toID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if student == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "student not found"})
		return
	}

	// New owner replaces the old; remaining assignees keep helping.
	assignees := []uuid.UUID{toID}
	if len(task.Assignees) > 1 {
		for _, id := range task.Assignees[1:] {
			if id != toID {
				assignees = append(assignees, id)
			}
		}
	}
	task.Assignees = assignees

	if err := h.store.UpdateTask(r.Context(), task); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = pulse.PublishTaskUpdated(h.pulse, taskEvent(task))
	writeJSON(w, http.StatusOK, task)
}

func (h *TasksHandler) lookup(w http.ResponseWriter, r *http.Request) (*store.Task, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid task id"})
		return nil, false
	}
	task, err := h.store.GetTask(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return nil, false
	}
	if task == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return nil, false
	}
	return task, true
}

func taskEvent(task *store.Task) pulse.TaskChangedEvent {
	return pulse.TaskChangedEvent{
		TaskID:   task.ID.String(),
		Status:   string(task.Status),
		Assignee: task.Assignee().String(),
		Category: task.Category,
	}
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
