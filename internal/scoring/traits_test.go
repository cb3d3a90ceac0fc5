package scoring

import (
	"math"
	"testing"
)

func TestTraitPriorsMalformedCodes(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"empty", ""},
		{"too short", "EN"},
		{"three letters", "ENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priors := TraitPriors(tt.code)
			if len(priors) != len(AllCategories) {
				t.Fatalf("expected %d categories, got %d", len(AllCategories), len(priors))
			}
			for cat, v := range priors {
				if v != 3.0 {
					t.Errorf("category %s: expected 3.0, got %f", cat, v)
				}
			}
		})
	}
}

func TestTraitPriorsAdjustments(t *testing.T) {
	priors := TraitPriors("ENTJ")

	// E +0.3, T -0.1
	if math.Abs(priors[Communication]-3.2) > 0.001 {
		t.Errorf("communication: expected 3.2, got %f", priors[Communication])
	}
	// T +0.1, J +0.3
	if math.Abs(priors[Planning]-3.4) > 0.001 {
		t.Errorf("planning: expected 3.4, got %f", priors[Planning])
	}
	// N +0.1, T +0.3
	if math.Abs(priors[Analysis]-3.4) > 0.001 {
		t.Errorf("analysis: expected 3.4, got %f", priors[Analysis])
	}
	// N +0.3, J -0.1
	if math.Abs(priors[Exploration]-3.2) > 0.001 {
		t.Errorf("exploration: expected 3.2, got %f", priors[Exploration])
	}
}

func TestTraitPriorsCaseInsensitive(t *testing.T) {
	upper := TraitPriors("INFP")
	lower := TraitPriors("infp")
	for _, cat := range AllCategories {
		if upper[cat] != lower[cat] {
			t.Errorf("category %s: %f != %f", cat, upper[cat], lower[cat])
		}
	}
}

func TestTraitPriorsUnknownLettersIgnored(t *testing.T) {
	priors := TraitPriors("XXXX")
	for cat, v := range priors {
		if v != 3.0 {
			t.Errorf("category %s: expected 3.0 for unknown letters, got %f", cat, v)
		}
	}
}

func TestTraitPriorsBounds(t *testing.T) {
	codes := []string{"ENTJ", "ISFP", "ESTP", "INFJ", "ENFP", "ISTJ"}
	for _, code := range codes {
		for cat, v := range TraitPriors(code) {
			if v < 1.0 || v > 5.0 {
				t.Errorf("%s/%s: score %f out of [1,5]", code, cat, v)
			}
			if math.Abs(v*10-math.Round(v*10)) > 1e-9 {
				t.Errorf("%s/%s: score %f not rounded to 1 decimal", code, cat, v)
			}
		}
	}
}
