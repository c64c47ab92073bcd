package recommend

import (
	"unicode/utf8"

	"github.com/easeaico/shiming/internal/types"
)

// FeatureDimensions is the fixed width of a candidate feature vector:
// gender flag, given-name length, five element shares, four tone counts, and
// the normalized total score.
const FeatureDimensions = 12

// Feature builds the deterministic similarity vector persisted next to a
// generated name and queried for nearest neighbours.
func Feature(n types.GeneratedName) []float32 {
	vec := make([]float32, 0, FeatureDimensions)

	genderFlag := float32(0)
	if n.Gender == types.GenderMale {
		genderFlag = 1
	}
	vec = append(vec, genderFlag)
	vec = append(vec, float32(utf8.RuneCountInString(n.GivenName)))

	for _, e := range types.Elements {
		vec = append(vec, float32(n.Wuxing.WuxingPercentages[e]/100))
	}

	for _, t := range types.Tones {
		count := 0
		if n.Phonology.Tone != nil {
			count = n.Phonology.Tone.ToneCounts[t]
		}
		vec = append(vec, float32(count))
	}

	vec = append(vec, float32(n.Score.TotalScore/100))
	return vec
}

// SignalFrom converts a stored name into the favorite signal the re-ranker
// consumes.
func SignalFrom(n types.GeneratedName) types.FavoriteSignal {
	elements := make(map[types.Element]float64, len(n.Wuxing.WuxingPercentages))
	for e, pct := range n.Wuxing.WuxingPercentages {
		elements[e] = pct / 100
	}
	return types.FavoriteSignal{
		Tags:       n.Tags,
		Elements:   elements,
		TotalScore: n.Score.TotalScore,
	}
}
