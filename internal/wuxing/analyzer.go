package wuxing

import (
	"fmt"
	"math"
	"strings"

	"github.com/easeaico/shiming/internal/types"
)

// Birth-context weights: the zodiac dominates, the hour branch follows, the
// birth month contributes least.
const (
	zodiacWeight = 1.0
	hourWeight   = 0.8
	monthWeight  = 0.6
)

// uniformShare is the ideal share per element absent a birth context.
const uniformShare = 100.0 / 5

// Analyze computes the elemental analysis of the given-name characters. The
// surname is excluded from balance accounting.
func Analyze(chars []types.CharacterRecord, birth *types.BirthContext) types.WuxingAnalysis {
	counts := Counts(chars)
	percentages, classed := Percentages(counts)

	var balance float64
	if classed > 0 {
		balance = BalanceScore(percentages, Target(birth))
	}

	return types.WuxingAnalysis{
		WuxingPercentages: percentages,
		BalanceScore:      balance,
		BalanceLevel:      Level(balance),
		Relationships:     relationships(counts),
	}
}

// Counts tallies characters per element, skipping glyphs with no settled
// class.
func Counts(chars []types.CharacterRecord) map[types.Element]int {
	counts := make(map[types.Element]int, len(types.Elements))
	for _, c := range chars {
		if c.Element != "" {
			counts[c.Element]++
		}
	}
	return counts
}

// Percentages converts element counts into a percentage distribution over the
// classed characters. All values are zero when no character is classed.
func Percentages(counts map[types.Element]int) (map[types.Element]float64, int) {
	classed := 0
	for _, c := range counts {
		classed += c
	}
	percentages := make(map[types.Element]float64, len(types.Elements))
	for _, e := range types.Elements {
		if classed == 0 {
			percentages[e] = 0
			continue
		}
		percentages[e] = round1(float64(counts[e]) / float64(classed) * 100)
	}
	return percentages, classed
}

// Target returns the ideal percentage distribution. Without a birth context it
// is uniform; with one, the element that complements the dominant birth
// element is favored, the dominant element itself is reinforced, and the rest
// share the remainder evenly.
func Target(birth *types.BirthContext) map[types.Element]float64 {
	target := make(map[types.Element]float64, len(types.Elements))
	for _, e := range types.Elements {
		target[e] = uniformShare
	}

	dominant, ok := DominantElement(birth)
	if !ok {
		return target
	}
	preferred := Sheng[dominant]
	for _, e := range types.Elements {
		target[e] = 15
	}
	target[preferred] = 30
	target[dominant] = 25
	return target
}

// DominantElement resolves the strongest element declared by the birth
// context, weighting zodiac over hour over month.
func DominantElement(birth *types.BirthContext) (types.Element, bool) {
	if birth == nil {
		return "", false
	}
	weights := make(map[types.Element]float64, len(types.Elements))
	if e, ok := zodiacElements[strings.ToLower(birth.Zodiac)]; ok {
		weights[e] += zodiacWeight
	}
	if e, ok := hourElements[strings.ToLower(birth.Hour)]; ok {
		weights[e] += hourWeight
	}
	if birth.Month >= 1 && birth.Month <= 12 {
		table := lunarMonthElements
		if birth.Calendar == types.CalendarSolar {
			table = solarMonthElements
		}
		weights[table[birth.Month]] += monthWeight
	}

	var dominant types.Element
	best := 0.0
	for _, e := range types.Elements {
		if w := weights[e]; w > best {
			best = w
			dominant = e
		}
	}
	return dominant, best > 0
}

// BalanceScore is 100 minus a penalty proportional to the total absolute
// deviation from the target distribution, clamped to 0-100.
func BalanceScore(observed, target map[types.Element]float64) float64 {
	deviation := 0.0
	for _, e := range types.Elements {
		deviation += math.Abs(observed[e] - target[e])
	}
	return round1(math.Max(0, math.Min(100, 100-deviation/2)))
}

// Level maps a balance score to its qualitative band.
func Level(score float64) types.Level {
	switch {
	case score >= 80:
		return types.Level{Level: "excellent", Description: "五行非常均衡，有利于各方面发展"}
	case score >= 60:
		return types.Level{Level: "good", Description: "五行较为均衡，整体发展较好"}
	case score >= 40:
		return types.Level{Level: "fair", Description: "五行分布不够均衡，某些方面可能需要加强"}
	default:
		return types.Level{Level: "poor", Description: "五行严重失衡，可能影响各方面发展"}
	}
}

func relationships(counts map[types.Element]int) *types.WuxingRelationships {
	rel := &types.WuxingRelationships{}
	for _, e := range types.Elements {
		if counts[e] == 0 {
			continue
		}
		if t := Sheng[e]; counts[t] > 0 {
			rel.Sheng = append(rel.Sheng, fmt.Sprintf("%s生%s", e, t))
		}
		if t := Ke[e]; counts[t] > 0 {
			rel.Ke = append(rel.Ke, fmt.Sprintf("%s克%s", e, t))
		}
	}
	if len(rel.Sheng) == 0 && len(rel.Ke) == 0 {
		return nil
	}
	return rel
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
