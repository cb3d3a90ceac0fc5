package scoring

import (
	"math"
	"time"

	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

// LoadStrategy estimates a 1-5 workload score from a student's active
// (non-completed) tasks. The reference time is passed in so estimates
// stay deterministic under test.
//
// The two implementations are not interchangeable: TieredLoad leans on
// estimated hours, WeightedLoad on schedule pressure. Callers pick one
// per call context and must not expect their outputs to agree.
type LoadStrategy interface {
	Estimate(active []*store.Task, now time.Time) float64
}

// TieredLoad scores workload from task count, total estimated hours,
// mean difficulty and overdue count, each bucketed into fixed tiers.
type TieredLoad struct{}

func (TieredLoad) Estimate(active []*store.Task, now time.Time) float64 {
	score := 1.0

	switch n := len(active); {
	case n >= 10:
		score += 2.5
	case n >= 7:
		score += 2.0
	case n >= 5:
		score += 1.5
	case n >= 3:
		score += 1.0
	case n >= 1:
		score += 0.5
	}

	var hours float64
	for _, t := range active {
		if t.EstimatedHours != nil {
			hours += *t.EstimatedHours
		}
	}
	switch {
	case hours >= 40:
		score += 1.0
	case hours >= 30:
		score += 0.8
	case hours >= 20:
		score += 0.5
	case hours >= 10:
		score += 0.3
	}

	if len(active) > 0 {
		var sum float64
		for _, t := range active {
			sum += float64(t.Difficulty)
		}
		switch mean := sum / float64(len(active)); {
		case mean >= 4.5:
			score += 0.5
		case mean >= 4:
			score += 0.3
		case mean >= 3.5:
			score += 0.2
		}
	}

	switch overdue := countOverdue(active, now); {
	case overdue >= 3:
		score += 1.0
	case overdue == 2:
		score += 0.7
	case overdue == 1:
		score += 0.4
	}

	return clampScore(score)
}

// weightedLoadCeiling is the summed task weight treated as a full 5.0
// load.
const weightedLoadCeiling = 40.0

// WeightedLoad scores workload from per-task pressure: difficulty
// scaled by an inverse-duration time weight and a deadline urgency
// multiplier. Used when estimated hours are unreliable or absent.
type WeightedLoad struct{}

func (WeightedLoad) Estimate(active []*store.Task, now time.Time) float64 {
	if len(active) == 0 {
		return 1.0
	}

	var sum float64
	for _, t := range active {
		difficulty := float64(t.Difficulty)
		if t.Difficulty == 0 {
			difficulty = neutralScore
		}
		sum += difficulty * timeWeight(t) * urgencyMultiplier(t, now)
	}

	countMultiplier := math.Min(1.0+0.05*float64(len(active)), 1.5)
	normalized := math.Min(sum*countMultiplier/weightedLoadCeiling, 1.0)
	return clampScore(1 + 4*normalized)
}

// timeWeight weighs short tasks heavier per unit of difficulty. The
// duration comes from estimated hours when present, else from the
// start-to-deadline span, else defaults to one day.
func timeWeight(t *store.Task) float64 {
	durationDays := 1.0
	switch {
	case t.EstimatedHours != nil && *t.EstimatedHours > 0:
		durationDays = *t.EstimatedHours / 8
	case t.StartedAt != nil && t.Deadline != nil && t.Deadline.After(*t.StartedAt):
		durationDays = t.Deadline.Sub(*t.StartedAt).Hours() / 24
	}
	return math.Min(2.0, 2.0/math.Max(durationDays, 0.5))
}

// urgencyMultiplier scales pressure by days until the deadline.
func urgencyMultiplier(t *store.Task, now time.Time) float64 {
	if t.Deadline == nil {
		return 1.0
	}
	daysLeft := t.Deadline.Sub(now).Hours() / 24
	switch {
	case daysLeft < 0:
		return 2.0
	case daysLeft < 1:
		return 1.8
	case daysLeft < 3:
		return 1.5
	case daysLeft < 7:
		return 1.2
	default:
		return 1.0
	}
}

// EstimateDanger derives a 1-5 attrition-risk score from the current
// load, motivation and overdue active tasks. High load and low
// motivation dominate; overdue work adds a tiered bump on top.
func EstimateDanger(load, motivation float64, active []*store.Task, now time.Time) float64 {
	score := 1.0
	if load > 3 {
		score += load - 3
	}
	if motivation < 3 {
		score += (3 - motivation) * 0.8
	}
	switch overdue := countOverdue(active, now); {
	case overdue >= 3:
		score += 1.0
	case overdue == 2:
		score += 0.7
	case overdue == 1:
		score += 0.4
	}
	return clampScore(score)
}

func countOverdue(tasks []*store.Task, now time.Time) int {
	n := 0
	for _, t := range tasks {
		if t.Deadline != nil && now.After(*t.Deadline) {
			n++
		}
	}
	return n
}
