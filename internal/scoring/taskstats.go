package scoring

import (
	"math"

	"github.com/google/uuid"

	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

// TaskStats bundles the three history-derived signals for a single
// (student, category) pair. Every signal sits at the neutral 3.0 when
// the data behind it is missing; the Has* flags tell the blender which
// signals are real.
type TaskStats struct {
	CompletionRate float64 `json:"completion_rate"`
	Difficulty     float64 `json:"difficulty"`
	Speed          float64 `json:"speed"`

	TotalCount     int  `json:"total_count"`
	CompletedCount int  `json:"completed_count"`
	HasDifficulty  bool `json:"has_difficulty"`
	HasSpeed       bool `json:"has_speed"`
}

// AggregateTaskStats computes completion-rate, difficulty-adaptation and
// speed-efficiency scores for one student and category over a task
// snapshot.
func AggregateTaskStats(studentID uuid.UUID, category Category, tasks []*store.Task) TaskStats {
	stats := TaskStats{
		CompletionRate: neutralScore,
		Difficulty:     neutralScore,
		Speed:          neutralScore,
	}

	var mine []*store.Task
	for _, t := range tasks {
		if t.Category == string(category) && assignedTo(t, studentID) {
			mine = append(mine, t)
		}
	}
	if len(mine) == 0 {
		return stats
	}
	stats.TotalCount = len(mine)

	var completed []*store.Task
	for _, t := range mine {
		if t.Status == store.StatusCompleted {
			completed = append(completed, t)
		}
	}
	stats.CompletedCount = len(completed)
	stats.CompletionRate = clampScore(1 + 4*float64(len(completed))/float64(len(mine)))

	if len(completed) > 0 {
		stats.HasDifficulty = true
		var sum float64
		for _, t := range completed {
			sum += float64(t.Difficulty)
		}
		stats.Difficulty = clampScore(sum / float64(len(completed)))
	}

	var effs []float64
	for _, t := range completed {
		if t.StartedAt == nil || t.CompletedAt == nil {
			continue
		}
		actualHours := t.CompletedAt.Sub(*t.StartedAt).Hours() / 24 * 8
		estimated := actualHours
		if t.EstimatedHours != nil {
			estimated = *t.EstimatedHours
		}
		effs = append(effs, estimated/math.Max(actualHours, 0.1))
	}
	if len(effs) > 0 {
		stats.HasSpeed = true
		var sum float64
		for _, e := range effs {
			sum += e
		}
		stats.Speed = speedScore(sum / float64(len(effs)))
	}

	return stats
}

// speedScore maps average efficiency onto the 1-5 scale centered at 3.0.
// Finishing faster than estimated raises the score gently; overruns pull
// it down twice as hard.
func speedScore(efficiency float64) float64 {
	var score float64
	switch {
	case efficiency >= 1.2:
		score = neutralScore + (efficiency-1.2)*5
	case efficiency >= 1.0:
		score = neutralScore + (efficiency-1.0)*5
	default:
		score = neutralScore - (1.0-efficiency)*10
	}
	return clampScore(score)
}

func assignedTo(t *store.Task, studentID uuid.UUID) bool {
	for _, id := range t.Assignees {
		if id == studentID {
			return true
		}
	}
	return false
}
