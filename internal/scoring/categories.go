package scoring

import "math"

// Category is one of the fixed skill axes scores are computed for.
type Category string

const (
	Planning       Category = "planning"
	Execution      Category = "execution"
	Coordination   Category = "coordination"
	Exploration    Category = "exploration"
	Design         Category = "design"
	Development    Category = "development"
	Analysis       Category = "analysis"
	Documentation  Category = "documentation"
	Communication  Category = "communication"
	Leadership     Category = "leadership"
	Presentation   Category = "presentation"
	ProblemSolving Category = "problem_solving"
)

// AllCategories lists every skill axis in stable order.
var AllCategories = []Category{
	Planning, Execution, Coordination, Exploration,
	Design, Development, Analysis, Documentation,
	Communication, Leadership, Presentation, ProblemSolving,
}

// KnownCategory reports whether name is one of the fixed skill axes.
func KnownCategory(name string) bool {
	for _, c := range AllCategories {
		if string(c) == name {
			return true
		}
	}
	return false
}

// neutralScore is the midpoint every signal degrades to when there is
// not enough data to say anything.
const neutralScore = 3.0

// clampScore forces v into the 1-5 skill scale and rounds to 1 decimal.
func clampScore(v float64) float64 {
	return math.Round(clamp(v, 1.0, 5.0)*10) / 10
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
