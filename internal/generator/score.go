package generator

import (
	"math"

	"github.com/easeaico/shiming/internal/types"
)

// Composite weighting: the elemental score carries 60% of the total, the
// phonology score 40%.
const (
	wuxingWeight    = 0.6
	phonologyWeight = 0.4
)

// The wuxing sub-score blends balance against the target distribution with
// how many of the five elements the name covers.
const (
	balanceShare      = 0.6
	completenessShare = 0.4
)

// WuxingScore folds balance and elemental completeness into the wuxing
// sub-score.
func WuxingScore(counts map[types.Element]int, balance float64) float64 {
	present := 0
	for _, e := range types.Elements {
		if counts[e] > 0 {
			present++
		}
	}
	completeness := float64(present) / float64(len(types.Elements)) * 100
	return round1(balance*balanceShare + completeness*completenessShare)
}

// Composite combines the sub-scores into the total score and letter grade.
func Composite(wuxingScore, phonologyScore float64) types.NameScore {
	total := round1(clampScore(wuxingScore*wuxingWeight + phonologyScore*phonologyWeight))
	grade, description := gradeFor(total)
	return types.NameScore{
		TotalScore:     total,
		WuxingScore:    round1(clampScore(wuxingScore)),
		PhonologyScore: round1(clampScore(phonologyScore)),
		Level:          types.GradeLevel{Grade: grade, Description: description},
	}
}

// gradeFor applies the fixed monotonic tier thresholds.
func gradeFor(total float64) (types.Grade, string) {
	switch {
	case total >= 85:
		return types.GradeS, "卓越"
	case total >= 75:
		return types.GradeA, "优秀"
	case total >= 65:
		return types.GradeB, "良好"
	case total >= 55:
		return types.GradeC, "一般"
	default:
		return types.GradeD, "不佳"
	}
}

func clampScore(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
