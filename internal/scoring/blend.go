package scoring

import (
	"fmt"
	"math"

	"github.com/TeamPulse-Labs/Rebalance/internal/store"
)

// Breakdown exposes every sub-score that went into a blended skill
// value. Returned verbatim so callers can explain any final score.
type Breakdown struct {
	CompletionRate       float64  `json:"completion_rate"`
	DifficultyAdaptation float64  `json:"difficulty_adaptation"`
	Speed                float64  `json:"speed"`
	TraitPrior           float64  `json:"trait_prior"`
	SelfAssessment       *float64 `json:"self_assessment,omitempty"`
}

// CategoryEvaluation is the blended result for one skill axis.
type CategoryEvaluation struct {
	Category   Category  `json:"category"`
	Score      float64   `json:"score"`      // 1-5
	Confidence float64   `json:"confidence"` // 0-1
	Breakdown  Breakdown `json:"breakdown"`
}

// WeightSet fixes how much each signal contributes to a blended skill
// score. Slots backed by missing data hand their weight to the trait
// prior at blend time, so the set must account for the full budget.
type WeightSet struct {
	Completion     float64 `yaml:"completion" json:"completion"`
	Difficulty     float64 `yaml:"difficulty" json:"difficulty"`
	Speed          float64 `yaml:"speed" json:"speed"`
	Prior          float64 `yaml:"prior" json:"prior"`
	SelfAssessment float64 `yaml:"self_assessment" json:"self_assessment"`
}

func (w WeightSet) Sum() float64 {
	return w.Completion + w.Difficulty + w.Speed + w.Prior + w.SelfAssessment
}

// Validate requires the set to sum to 1.0 within 0.001.
func (w WeightSet) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("blend weights sum to %.3f, expected 1.0", w.Sum())
	}
	return nil
}

// BlendWeights holds the two weight sets the blender switches between,
// depending on whether a self-assessment exists for the category.
type BlendWeights struct {
	WithAssessment    WeightSet
	WithoutAssessment WeightSet
}

func DefaultBlendWeights() BlendWeights {
	return BlendWeights{
		WithAssessment: WeightSet{
			SelfAssessment: 0.3,
			Completion:     0.2,
			Difficulty:     0.2,
			Speed:          0.1,
			Prior:          0.2,
		},
		WithoutAssessment: WeightSet{
			Completion: 0.3,
			Difficulty: 0.3,
			Speed:      0.2,
			Prior:      0.2,
		},
	}
}

// saConfidenceSwing is how much extra weight a fully confident
// self-assessment pulls from the prior slot.
const saConfidenceSwing = 0.2

// weighted is one (value, weight) contribution to a blended score.
type weighted struct {
	value  float64
	weight float64
}

// weightedAverage reduces contributions to a single score. A zero total
// weight falls back to the supplied default.
func weightedAverage(parts []weighted, fallback float64) float64 {
	var sum, total float64
	for _, p := range parts {
		sum += p.value * p.weight
		total += p.weight
	}
	if total == 0 {
		return fallback
	}
	return sum / total
}

// blendParts builds the contribution list for one category. Weights
// always sum to 1.0: slots backed by missing data hand their weight to
// the trait prior, and whatever is left after the fixed slots goes to
// the prior as well.
func blendParts(stats TaskStats, prior float64, sa *store.SelfAssessment, weights BlendWeights) []weighted {
	var parts []weighted

	if sa != nil {
		w := weights.WithAssessment
		saScore := clamp(sa.Score, 1, 5)
		saConfidence := clamp(sa.Confidence, 0, 5)

		// Self-reported certainty increases its own influence.
		parts = append(parts, weighted{saScore, w.SelfAssessment + (saConfidence/5)*saConfidenceSwing})
		parts = append(parts, weighted{stats.CompletionRate, w.Completion})
		if stats.HasDifficulty {
			parts = append(parts, weighted{stats.Difficulty, w.Difficulty})
		}
		if stats.HasSpeed {
			parts = append(parts, weighted{stats.Speed, w.Speed})
		}
	} else {
		w := weights.WithoutAssessment
		parts = append(parts, weighted{stats.CompletionRate, w.Completion})
		if stats.HasDifficulty {
			parts = append(parts, weighted{stats.Difficulty, w.Difficulty})
		}
		if stats.HasSpeed {
			parts = append(parts, weighted{stats.Speed, w.Speed})
		}
	}

	var used float64
	for _, p := range parts {
		used += p.weight
	}
	if leftover := 1.0 - used; leftover > 1e-9 {
		parts = append(parts, weighted{prior, leftover})
	}
	return parts
}

// BlendSkill combines task statistics, the trait prior and an optional
// self-assessment into the final score and confidence for one category.
func BlendSkill(category Category, stats TaskStats, prior float64, sa *store.SelfAssessment, weights BlendWeights) CategoryEvaluation {
	parts := blendParts(stats, prior, sa, weights)

	eval := CategoryEvaluation{
		Category: category,
		Score:    clampScore(weightedAverage(parts, prior)),
		Breakdown: Breakdown{
			CompletionRate:       stats.CompletionRate,
			DifficultyAdaptation: stats.Difficulty,
			Speed:                stats.Speed,
			TraitPrior:           prior,
		},
	}

	taskConfidence := math.Min(1.0, float64(stats.CompletedCount)/10)
	if sa != nil {
		saScore := clamp(sa.Score, 1, 5)
		saConfidence := clamp(sa.Confidence, 0, 5)
		eval.Breakdown.SelfAssessment = &saScore
		eval.Confidence = math.Max(taskConfidence*0.3+(saConfidence/5)*0.7, 0.5)
	} else {
		eval.Confidence = taskConfidence
	}

	return eval
}
