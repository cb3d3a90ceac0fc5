package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Task is a unit of team work. Tasks are created by import tooling and
// edited over HTTP; the scoring engine treats them as read-only snapshots.
type Task struct {
	ID         uuid.UUID  `json:"task_id"`
	Title      string     `json:"title"`
	Category   string     `json:"category"`
	Difficulty int        `json:"difficulty"` // 1-5
	Status     TaskStatus `json:"status"`

	// Assignment. First assignee is the current owner.
	Assignees []uuid.UUID `json:"assignees,omitempty"`

	// Effort
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`

	// Schedule
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`

	// Metadata
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Assignee returns the current owner, or uuid.Nil when unassigned.
func (t *Task) Assignee() uuid.UUID {
	if len(t.Assignees) == 0 {
		return uuid.Nil
	}
	return t.Assignees[0]
}

type TaskFilter struct {
	Status   *TaskStatus
	Category string
	Assignee *uuid.UUID
	Source   string
	Limit    int
	Offset   int
}

// Student carries the externally maintained state the engine scores
// against. Load, motivation and danger are stored snapshots; the advisor
// refreshes them from the engine's derived values.
type Student struct {
	ID              uuid.UUID `json:"student_id"`
	Name            string    `json:"name"`
	PersonalityCode string    `json:"personality_code,omitempty"` // 4-letter type, may be empty
	TeamID          uuid.UUID `json:"team_id"`

	Load       float64 `json:"load"`       // 1-5
	Motivation float64 `json:"motivation"` // 1-5
	Danger     float64 `json:"danger"`     // 1-5 attrition risk

	// Per-category skill snapshot (1-5), keyed by category name.
	Skills map[string]float64 `json:"skills,omitempty"`

	PreferredPartners []uuid.UUID `json:"preferred_partners,omitempty"`
	AvoidedPartners   []uuid.UUID `json:"avoided_partners,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Skill returns the stored skill for a category, 0 when unknown.
func (s *Student) Skill(category string) float64 {
	if s.Skills == nil {
		return 0
	}
	return s.Skills[category]
}

type StudentFilter struct {
	TeamID *uuid.UUID
	Limit  int
	Offset int
}

type Team struct {
	ID        uuid.UUID `json:"team_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SelfAssessment is a student's own rating for one skill category.
// Score and Confidence both use the 1-5 input scale; the blender
// normalizes confidence into a weight.
type SelfAssessment struct {
	ID         uuid.UUID `json:"id"`
	StudentID  uuid.UUID `json:"student_id"`
	Category   string    `json:"category"`
	Score      float64   `json:"score"`      // 1-5
	Confidence float64   `json:"confidence"` // 1-5
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Suggestion is a persisted snapshot of one reassignment suggestion from
// an advisor run. Fresh API computations bypass this table.
type Suggestion struct {
	ID         uuid.UUID `json:"id"`
	TaskID     uuid.UUID `json:"task_id"`
	TaskTitle  string    `json:"task_title"`
	FromID     uuid.UUID `json:"from_student_id"`
	FromName   string    `json:"from_name"`
	ToID       uuid.UUID `json:"to_student_id"`
	ToName     string    `json:"to_name"`
	Reason     string    `json:"reason"`
	Priority   string    `json:"priority"` // high, medium, low
	Score      int       `json:"score"`    // 0-100
	ComputedAt time.Time `json:"computed_at"`
	CreatedAt  time.Time `json:"created_at"`
}

type Stats struct {
	TotalStudents    int     `json:"total_students"`
	TotalTeams       int     `json:"total_teams"`
	TasksPending     int     `json:"tasks_pending"`
	TasksInProgress  int     `json:"tasks_in_progress"`
	TasksCompleted   int     `json:"tasks_completed"`
	OpenSuggestions  int     `json:"open_suggestions"`
	AvgStudentLoad   float64 `json:"avg_student_load"`
	AvgStudentDanger float64 `json:"avg_student_danger"`
}

type Store interface {
	CreateTask(ctx context.Context, task *Task) error
	GetTask(ctx context.Context, id uuid.UUID) (*Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task) error

	GetActiveTasksForStudent(ctx context.Context, studentID uuid.UUID) ([]*Task, error)

	CreateStudent(ctx context.Context, s *Student) error
	GetStudent(ctx context.Context, id uuid.UUID) (*Student, error)
	ListStudents(ctx context.Context, filter StudentFilter) ([]*Student, error)
	UpdateStudent(ctx context.Context, s *Student) error

	CreateTeam(ctx context.Context, team *Team) error
	GetTeam(ctx context.Context, id uuid.UUID) (*Team, error)
	ListTeams(ctx context.Context) ([]*Team, error)

	UpsertSelfAssessment(ctx context.Context, a *SelfAssessment) error
	ListSelfAssessments(ctx context.Context, studentID uuid.UUID) ([]*SelfAssessment, error)

	// ReplaceSuggestions swaps the stored snapshot for a new advisor run.
	ReplaceSuggestions(ctx context.Context, computedAt time.Time, suggestions []*Suggestion) error
	ListLatestSuggestions(ctx context.Context, limit int) ([]*Suggestion, error)

	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}
