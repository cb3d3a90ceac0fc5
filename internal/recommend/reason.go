package recommend

import (
	"fmt"
	"strings"

	"github.com/TeamPulse-Labs/Rebalance/internal/scoring"
	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

// buildReason assembles a human-readable explanation from whichever
// signals are numerically significant, with the concrete numbers spelled
// out. Falls back to a generic sentence when nothing stands out.
func buildReason(current, candidate *store.Student, task *store.Task) string {
	var clauses []string

	if current.Load-candidate.Load >= 1.0 {
		clauses = append(clauses, fmt.Sprintf(
			"%s is carrying a %.1f/5 load while %s sits at %.1f",
			current.Name, current.Load, candidate.Name, candidate.Load))
	}

	if current.Motivation <= 2 {
		clauses = append(clauses, fmt.Sprintf(
			"%s's motivation has dropped to %.1f/5",
			current.Name, current.Motivation))
	}

	if scoring.KnownCategory(task.Category) {
		currentSkill, rated := current.Skills[task.Category]
		candidateSkill := candidate.Skill(task.Category)
		if rated && currentSkill < 3 && candidateSkill > currentSkill {
			clauses = append(clauses, fmt.Sprintf(
				"%s rates %.1f in %s against %s's %.1f",
				current.Name, currentSkill, task.Category, candidate.Name, candidateSkill))
		}
	}

	if preferred, _ := compatibility(current, candidate); preferred {
		clauses = append(clauses, fmt.Sprintf(
			"%s lists %s as a preferred partner",
			current.Name, candidate.Name))
	}

	if task.Difficulty >= 4 {
		clauses = append(clauses, fmt.Sprintf(
			"the task is rated difficulty %d/5", task.Difficulty))
	}

	if len(clauses) == 0 {
		return "Reassignment would improve load balancing and skill fit across the team."
	}
	return strings.Join(clauses, "; ") + "."
}
