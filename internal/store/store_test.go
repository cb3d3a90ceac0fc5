package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestTaskStatusValues(t *testing.T) {
	statuses := []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}
	expected := []string{"pending", "in_progress", "completed"}
	for i, s := range statuses {
		if string(s) != expected[i] {
			t.Errorf("expected %s, got %s", expected[i], s)
		}
	}
}

func TestTaskAssignee(t *testing.T) {
	task := Task{}
	if task.Assignee() != uuid.Nil {
		t.Error("expected uuid.Nil for unassigned task")
	}

	owner := uuid.New()
	helper := uuid.New()
	task.Assignees = []uuid.UUID{owner, helper}
	if task.Assignee() != owner {
		t.Error("expected first assignee to be the owner")
	}
}

func TestStudentSkill(t *testing.T) {
	s := Student{}
	if got := s.Skill("development"); got != 0 {
		t.Errorf("expected 0 for nil skills map, got %v", got)
	}

	s.Skills = map[string]float64{"development": 4.2}
	if got := s.Skill("development"); got != 4.2 {
		t.Errorf("expected 4.2, got %v", got)
	}
	if got := s.Skill("design"); got != 0 {
		t.Errorf("expected 0 for unrated category, got %v", got)
	}
}

func TestTaskFilterDefaults(t *testing.T) {
	f := TaskFilter{}
	if f.Limit != 0 {
		t.Errorf("expected 0 default limit, got %d", f.Limit)
	}
	if f.Status != nil {
		t.Error("expected nil status filter")
	}
	if f.Assignee != nil {
		t.Error("expected nil assignee filter")
	}
}
