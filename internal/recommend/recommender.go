package recommend

import (
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/TeamPulse-Labs/Rebalance/internal/scoring"
	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

// Tunables are the fixed constants of the candidate scorer that have no
// derivation beyond "worked in practice", so they stay configurable.
type Tunables struct {
	SuggestThreshold int     // minimum score (exclusive) for emitting a suggestion
	PreferredBonus   float64 // added when the candidate is a preferred partner
	AvoidedPenalty   float64 // subtracted when either side avoids the other
}

func DefaultTunables() Tunables {
	return Tunables{
		SuggestThreshold: 50,
		PreferredBonus:   10,
		AvoidedPenalty:   5,
	}
}

// Suggestion proposes moving one task to a better-suited teammate.
// Ephemeral: produced fresh from the snapshots passed in.
type Suggestion struct {
	TaskID    uuid.UUID `json:"task_id"`
	TaskTitle string    `json:"task_title"`
	FromID    uuid.UUID `json:"from_student_id"`
	FromName  string    `json:"from_name"`
	ToID      uuid.UUID `json:"to_student_id"`
	ToName    string    `json:"to_name"`
	Reason    string    `json:"reason"`
	Priority  string    `json:"priority"` // high, medium, low
	Score     int       `json:"score"`    // 0-100
}

// Recommender scans task snapshots for struggling assignees and ranks
// same-team replacements.
type Recommender struct {
	tunables Tunables
	logger   *slog.Logger
}

func New(tunables Tunables, logger *slog.Logger) *Recommender {
	return &Recommender{tunables: tunables, logger: logger}
}

// Suggest runs a single pass over the tasks and returns suggestions
// sorted by suitability score across the whole set.
func (r *Recommender) Suggest(students []*store.Student, tasks []*store.Task) []Suggestion {
	byID := make(map[uuid.UUID]*store.Student, len(students))
	byTeam := make(map[uuid.UUID][]*store.Student)
	for _, s := range students {
		byID[s.ID] = s
		byTeam[s.TeamID] = append(byTeam[s.TeamID], s)
	}

	var suggestions []Suggestion
	for _, task := range tasks {
		if task.Status == store.StatusCompleted {
			continue
		}
		current := byID[task.Assignee()]
		if current == nil {
			continue
		}
		if !needsReassignment(current, task) {
			continue
		}

		best, bestScore := r.bestCandidate(current, task, byTeam[current.TeamID])
		if best == nil || bestScore <= r.tunables.SuggestThreshold {
			continue
		}

		suggestions = append(suggestions, Suggestion{
			TaskID:    task.ID,
			TaskTitle: task.Title,
			FromID:    current.ID,
			FromName:  current.Name,
			ToID:      best.ID,
			ToName:    best.Name,
			Reason:    buildReason(current, best, task),
			Priority:  priorityFor(current),
			Score:     bestScore,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	r.logger.Debug("reassignment scan complete",
		"tasks", len(tasks),
		"suggestions", len(suggestions),
	)
	return suggestions
}

// needsReassignment reports whether a task's current assignee is
// overloaded, unmotivated, or short on the category's skill.
func needsReassignment(current *store.Student, task *store.Task) bool {
	if current.Load >= 4 {
		return true
	}
	if current.Motivation <= 2 {
		return true
	}
	return lacksSkill(current, task.Category)
}

// lacksSkill triggers only on known categories with a recorded skill
// below 3; unknown categories and unrated students always pass.
func lacksSkill(s *store.Student, category string) bool {
	if !scoring.KnownCategory(category) {
		return false
	}
	skill, ok := s.Skills[category]
	if !ok {
		return false
	}
	return skill < 3
}

// bestCandidate scores every same-team replacement and returns the
// highest. Ties keep the earlier candidate.
func (r *Recommender) bestCandidate(current *store.Student, task *store.Task, team []*store.Student) (*store.Student, int) {
	var best *store.Student
	bestScore := -1
	for _, candidate := range team {
		if candidate.ID == current.ID {
			continue
		}
		if score := r.scoreCandidate(current, candidate, task); score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, bestScore
}

// scoreCandidate rates a replacement 0-100:
//
//	load differential   up to 30  (10 per point of load freed)
//	skill fit           up to 30
//	motivation          up to 20
//	compatibility       +bonus preferred / -penalty avoided
//	load ordering       +10 when the candidate is less loaded
func (r *Recommender) scoreCandidate(current, candidate *store.Student, task *store.Task) int {
	score := math.Min(30, math.Max(0, 10*(current.Load-candidate.Load)))
	score += candidate.Skill(task.Category) / 5 * 30
	score += candidate.Motivation / 5 * 20

	preferred, avoided := compatibility(current, candidate)
	if preferred {
		score += r.tunables.PreferredBonus
	} else if avoided {
		score -= r.tunables.AvoidedPenalty
	}

	if candidate.Load < current.Load {
		score += 10
	}

	return int(math.Round(math.Max(0, math.Min(100, score))))
}

// compatibility reports whether the candidate counts as a preferred
// partner (preferred by the current assignee and not avoided by either
// side) or as avoided (by either side).
func compatibility(current, candidate *store.Student) (preferred, avoided bool) {
	avoided = containsID(current.AvoidedPartners, candidate.ID) ||
		containsID(candidate.AvoidedPartners, current.ID)
	preferred = containsID(current.PreferredPartners, candidate.ID) && !avoided
	return preferred, avoided
}

// priorityFor derives the suggestion tier from the current assignee's
// state alone.
func priorityFor(current *store.Student) string {
	switch {
	case current.Load >= 4.5 || current.Motivation <= 1.5:
		return "high"
	case current.Load >= 4 || current.Motivation <= 2:
		return "medium"
	default:
		return "low"
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
