package phonology

import (
	"math"

	"github.com/easeaico/shiming/internal/types"
)

// Adjacent-pair rewards for the rhythm score. Alternating level and oblique
// tones scores full marks; an oblique run keeps some variety; a level run is
// monotonous.
const (
	alternationReward = 25
	obliqueRunReward  = 15
	levelRunReward    = 5
)

// Fluency adjustments per adjacent pair.
const (
	plosivePenalty     = 15
	sameFinalPenalty   = 10
	alliterationReward = 5
)

// Analyze scores the prosody of the full name. The surname syllable leads the
// tone sequence when present; given-name characters follow in order.
func Analyze(surname *types.Surname, chars []types.CharacterRecord) types.PhonologyAnalysis {
	syllables := make([]string, 0, len(chars)+1)
	glyphs := make([]string, 0, len(chars)+1)
	if surname != nil {
		syllables = append(syllables, surname.Pinyin)
		glyphs = append(glyphs, surname.Glyph)
	}
	for _, c := range chars {
		syllables = append(syllables, c.Pinyin)
		glyphs = append(glyphs, c.Glyph)
	}

	tones := make([]types.Tone, len(syllables))
	for i, s := range syllables {
		tones[i] = ClassifyTone(s)
	}

	rhythm := RhythmScore(tones)
	fluency := analyzeFluency(glyphs, syllables)

	return types.PhonologyAnalysis{
		RhythmScore: rhythm,
		RhythmLevel: RhythmLevel(rhythm),
		Fluency:     fluency,
		Tone:        analyzeTones(tones),
	}
}

// RhythmScore rewards alternation between level and oblique tones across
// adjacent syllables, normalized to 0-100. It is a pure function of the tone
// sequence.
func RhythmScore(tones []types.Tone) float64 {
	if len(tones) < 2 {
		return 100
	}
	score := 0
	for i := 0; i < len(tones)-1; i++ {
		cur, next := tones[i], tones[i+1]
		switch {
		case cur.IsPing() != next.IsPing():
			score += alternationReward
		case !cur.IsPing():
			score += obliqueRunReward
		default:
			score += levelRunReward
		}
	}
	max := alternationReward * (len(tones) - 1)
	return round1(float64(score) / float64(max) * 100)
}

// Score folds the rhythm and fluency components into the phonology sub-score
// used by the composite scorer.
func Score(a types.PhonologyAnalysis) float64 {
	fluency := 100.0
	if a.Fluency != nil {
		fluency = a.Fluency.FluencyScore
	}
	return round1(clamp(a.RhythmScore*0.7 + fluency*0.3))
}

// RhythmLevel maps a score to its qualitative band.
func RhythmLevel(score float64) types.Level {
	switch {
	case score >= 85:
		return types.Level{Level: "excellent", Description: "平仄和谐，韵律优美"}
	case score >= 70:
		return types.Level{Level: "good", Description: "韵律较为和谐"}
	case score >= 55:
		return types.Level{Level: "fair", Description: "韵律平稳"}
	default:
		return types.Level{Level: "poor", Description: "平仄不协调"}
	}
}

func analyzeTones(tones []types.Tone) *types.ToneAnalysis {
	counts := make(map[types.Tone]int, len(types.Tones))
	for _, t := range types.Tones {
		counts[t] = 0
	}
	for _, t := range tones {
		counts[t]++
	}
	percentages := make(map[types.Tone]float64, len(counts))
	for t, c := range counts {
		if len(tones) > 0 {
			percentages[t] = round1(float64(c) / float64(len(tones)) * 100)
		} else {
			percentages[t] = 0
		}
	}
	return &types.ToneAnalysis{
		ToneSequence:    tones,
		ToneCounts:      counts,
		TonePercentages: percentages,
	}
}

func analyzeFluency(glyphs, syllables []string) *types.FluencyAnalysis {
	result := &types.FluencyAnalysis{FluencyScore: 100}
	if len(syllables) < 2 {
		return result
	}

	score := 100.0
	for i := 0; i < len(syllables)-1; i++ {
		curIni, curFin := Split(syllables[i])
		nextIni, nextFin := Split(syllables[i+1])
		pair := glyphs[i] + glyphs[i+1]

		if plosiveInitials[curIni] && plosiveInitials[nextIni] {
			score -= plosivePenalty
			result.HardSequences = append(result.HardSequences, pair)
		}
		if curFin != "" && curFin == nextFin {
			score -= sameFinalPenalty
			result.Assonance = append(result.Assonance, pair)
		}
		if curIni != "" && curIni == nextIni {
			score += alliterationReward
			result.Alliteration = append(result.Alliteration, pair)
		}
	}
	result.FluencyScore = round1(clamp(score))
	return result
}

func clamp(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
