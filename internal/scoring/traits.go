package scoring

import "strings"

// traitDeltas maps (code position, letter) to per-category adjustments.
// Each of the four positions nudges its categories independently; the
// deltas are folded by summation so order never matters.
var traitDeltas = [4]map[byte]map[Category]float64{
	{ // attitude: extraversion / introversion
		'E': {Communication: 0.3, Presentation: 0.3, Leadership: 0.2, Coordination: 0.1, Documentation: -0.1},
		'I': {Analysis: 0.3, Documentation: 0.2, Development: 0.2, Exploration: 0.1, Presentation: -0.2},
	},
	{ // perception: sensing / intuition
		'S': {Execution: 0.3, Documentation: 0.2, Planning: 0.1, Exploration: -0.1},
		'N': {Exploration: 0.3, Design: 0.2, ProblemSolving: 0.2, Analysis: 0.1, Execution: -0.1},
	},
	{ // judgment: thinking / feeling
		'T': {Analysis: 0.3, ProblemSolving: 0.2, Planning: 0.1, Development: 0.1, Communication: -0.1},
		'F': {Coordination: 0.3, Communication: 0.2, Leadership: 0.1, Analysis: -0.1},
	},
	{ // lifestyle: judging / perceiving
		'J': {Planning: 0.3, Execution: 0.2, Coordination: 0.1, Documentation: 0.1, Exploration: -0.1},
		'P': {Exploration: 0.2, Design: 0.1, ProblemSolving: 0.1, Planning: -0.2},
	},
}

// TraitPriors maps a 4-letter personality code to baseline scores for
// every category. A missing or short code yields the all-3.0 defaults;
// unrecognized letters at a position contribute nothing.
func TraitPriors(code string) map[Category]float64 {
	priors := make(map[Category]float64, len(AllCategories))
	for _, c := range AllCategories {
		priors[c] = neutralScore
	}
	if len(code) < 4 {
		return priors
	}

	code = strings.ToUpper(code)
	for pos := 0; pos < 4; pos++ {
		for cat, delta := range traitDeltas[pos][code[pos]] {
			priors[cat] += delta
		}
	}

	for c, v := range priors {
		priors[c] = clampScore(v)
	}
	return priors
}
