package scoring

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

// Evaluation is the full multi-category skill picture for one student.
// Ephemeral: computed fresh from snapshots on every call, never stored
// by this package.
type Evaluation struct {
	StudentID  uuid.UUID              `json:"student_id"`
	Scores     map[Category]float64   `json:"scores"`
	Confidence map[Category]float64   `json:"confidence"`
	Breakdown  map[Category]Breakdown `json:"breakdown"`
}

// SkillMap flattens the scores into the string-keyed snapshot stored on
// the student record.
func (e *Evaluation) SkillMap() map[string]float64 {
	out := make(map[string]float64, len(e.Scores))
	for category, score := range e.Scores {
		out[string(category)] = score
	}
	return out
}

// Evaluator blends task history, trait priors and self-assessments into
// per-category skill scores.
type Evaluator struct {
	weights BlendWeights
	logger  *slog.Logger
}

func NewEvaluator(weights BlendWeights, logger *slog.Logger) *Evaluator {
	return &Evaluator{weights: weights, logger: logger}
}

// Evaluate scores every category for one student against a task
// snapshot and optional self-assessments.
func (e *Evaluator) Evaluate(student *store.Student, tasks []*store.Task, assessments []*store.SelfAssessment) *Evaluation {
	priors := TraitPriors(student.PersonalityCode)
	byCategory := assessmentsByCategory(assessments, student.ID)

	result := &Evaluation{
		StudentID:  student.ID,
		Scores:     make(map[Category]float64, len(AllCategories)),
		Confidence: make(map[Category]float64, len(AllCategories)),
		Breakdown:  make(map[Category]Breakdown, len(AllCategories)),
	}

	for _, category := range AllCategories {
		stats := AggregateTaskStats(student.ID, category, tasks)
		eval := BlendSkill(category, stats, priors[category], byCategory[category], e.weights)
		result.Scores[category] = eval.Score
		result.Confidence[category] = eval.Confidence
		result.Breakdown[category] = eval.Breakdown
	}

	e.logger.Debug("evaluated student",
		"student", student.ID,
		"tasks", len(tasks),
		"assessments", len(byCategory),
	)
	return result
}

// EvaluateCategory scores a single category for one student.
func (e *Evaluator) EvaluateCategory(student *store.Student, category Category, tasks []*store.Task, assessments []*store.SelfAssessment) CategoryEvaluation {
	priors := TraitPriors(student.PersonalityCode)
	stats := AggregateTaskStats(student.ID, category, tasks)
	return BlendSkill(category, stats, priors[category], assessmentsByCategory(assessments, student.ID)[category], e.weights)
}

// assessmentsByCategory indexes a student's assessments, keeping the
// last entry when a category repeats.
func assessmentsByCategory(assessments []*store.SelfAssessment, studentID uuid.UUID) map[Category]*store.SelfAssessment {
	out := make(map[Category]*store.SelfAssessment)
	for _, a := range assessments {
		if a.StudentID != studentID {
			continue
		}
		out[Category(a.Category)] = a
	}
	return out
}
