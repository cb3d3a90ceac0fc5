package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

var loadNow = time.Date(2026, 4, 6, 12, 0, 0, 0, time.UTC)

func activeTask(difficulty int, estimatedHours *float64, deadline *time.Time) *store.Task {
	return &store.Task{
		ID:             uuid.New(),
		Category:       string(Execution),
		Difficulty:     difficulty,
		Status:         store.StatusInProgress,
		EstimatedHours: estimatedHours,
		Deadline:       deadline,
	}
}

func TestTieredLoadEmpty(t *testing.T) {
	if got := (TieredLoad{}).Estimate(nil, loadNow); got != 1.0 {
		t.Errorf("expected 1.0 for no active tasks, got %f", got)
	}
}

func TestTieredLoadCountTiers(t *testing.T) {
	tests := []struct {
		count int
		want  float64
	}{
		{1, 1.5},
		{3, 2.0},
		{5, 2.5},
		{7, 3.0},
		{10, 3.5},
	}

	for _, tt := range tests {
		var tasks []*store.Task
		for i := 0; i < tt.count; i++ {
			tasks = append(tasks, activeTask(3, nil, nil))
		}
		// difficulty mean is 3, below every difficulty tier
		got := (TieredLoad{}).Estimate(tasks, loadNow)
		if math.Abs(got-tt.want) > 0.001 {
			t.Errorf("count %d: expected %f, got %f", tt.count, tt.want, got)
		}
	}
}

func TestTieredLoadAllTiers(t *testing.T) {
	overdue := loadNow.AddDate(0, 0, -2)
	var tasks []*store.Task
	for i := 0; i < 10; i++ {
		tasks = append(tasks, activeTask(5, float64Ptr(4), &overdue))
	}

	// 1.0 + 2.5 (count) + 1.0 (40h) + 0.5 (difficulty 5) + 1.0 (overdue)
	// = 6.0, clamped to 5.0
	if got := (TieredLoad{}).Estimate(tasks, loadNow); got != 5.0 {
		t.Errorf("expected clamp at 5.0, got %f", got)
	}
}

func TestTieredLoadHoursAndOverdueTiers(t *testing.T) {
	soon := loadNow.AddDate(0, 0, 5)
	past := loadNow.AddDate(0, 0, -1)
	tasks := []*store.Task{
		activeTask(4, float64Ptr(12), &past),
		activeTask(4, float64Ptr(10), &soon),
	}

	// 1.0 + 0.5 (count) + 0.5 (22h) + 0.3 (mean difficulty 4) + 0.4 (1 overdue) = 2.7
	if got := (TieredLoad{}).Estimate(tasks, loadNow); math.Abs(got-2.7) > 0.001 {
		t.Errorf("expected 2.7, got %f", got)
	}
}

func TestWeightedLoadEmpty(t *testing.T) {
	if got := (WeightedLoad{}).Estimate(nil, loadNow); got != 1.0 {
		t.Errorf("expected 1.0 for no active tasks, got %f", got)
	}
}

func TestWeightedLoadOverdueShortTask(t *testing.T) {
	past := loadNow.AddDate(0, 0, -1)
	tasks := []*store.Task{activeTask(5, float64Ptr(4), &past)}

	// difficulty 5, time weight capped at 2.0 (half-day task), urgency
	// 2.0 (overdue): 20. count multiplier 1.05 -> 21/40 -> 1 + 4*0.525 = 3.1
	if got := (WeightedLoad{}).Estimate(tasks, loadNow); math.Abs(got-3.1) > 0.001 {
		t.Errorf("expected 3.1, got %f", got)
	}
}

func TestWeightedLoadUrgencyTiers(t *testing.T) {
	tests := []struct {
		name     string
		deadline time.Time
		want     float64
	}{
		{"overdue", loadNow.AddDate(0, 0, -1), 2.0},
		{"under a day", loadNow.Add(6 * time.Hour), 1.8},
		{"under 3 days", loadNow.AddDate(0, 0, 2), 1.5},
		{"under a week", loadNow.AddDate(0, 0, 5), 1.2},
		{"far out", loadNow.AddDate(0, 1, 0), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := activeTask(3, nil, &tt.deadline)
			if got := urgencyMultiplier(task, loadNow); got != tt.want {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestWeightedLoadCeiling(t *testing.T) {
	past := loadNow.AddDate(0, 0, -3)
	var tasks []*store.Task
	for i := 0; i < 12; i++ {
		tasks = append(tasks, activeTask(5, float64Ptr(2), &past))
	}

	if got := (WeightedLoad{}).Estimate(tasks, loadNow); got != 5.0 {
		t.Errorf("expected ceiling clamp at 5.0, got %f", got)
	}
}

func TestLoadStrategiesAreDeterministic(t *testing.T) {
	soon := loadNow.AddDate(0, 0, 2)
	tasks := []*store.Task{
		activeTask(4, float64Ptr(16), &soon),
		activeTask(2, nil, nil),
	}

	for _, s := range []LoadStrategy{TieredLoad{}, WeightedLoad{}} {
		a := s.Estimate(tasks, loadNow)
		b := s.Estimate(tasks, loadNow)
		if a != b {
			t.Errorf("%T: expected identical results, got %f and %f", s, a, b)
		}
		if a < 1.0 || a > 5.0 {
			t.Errorf("%T: score %f out of [1,5]", s, a)
		}
	}
}

func TestEstimateDangerNeutral(t *testing.T) {
	if got := EstimateDanger(1.0, 3.0, nil, loadNow); got != 1.0 {
		t.Errorf("expected danger 1.0, got %f", got)
	}
}

func TestEstimateDangerOverloadedUnmotivated(t *testing.T) {
	// 1.0 + (4.8-3) + (3-1.2)*0.8 = 4.24 -> 4.2
	if got := EstimateDanger(4.8, 1.2, nil, loadNow); math.Abs(got-4.2) > 0.001 {
		t.Errorf("expected danger 4.2, got %f", got)
	}
}

func TestEstimateDangerOverdueBump(t *testing.T) {
	past := loadNow.AddDate(0, 0, -1)
	tasks := []*store.Task{
		activeTask(3, nil, &past),
		activeTask(3, nil, &past),
	}

	// 1.0 + 0.7 (2 overdue) = 1.7
	if got := EstimateDanger(1.0, 3.0, tasks, loadNow); math.Abs(got-1.7) > 0.001 {
		t.Errorf("expected danger 1.7, got %f", got)
	}
}
