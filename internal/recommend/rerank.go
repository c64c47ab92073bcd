// Package recommend re-orders generated candidates using favorite-history
// signals. It never discards a candidate.
package recommend

import (
	"math"
	"sort"

	"github.com/easeaico/shiming/internal/types"
)

// Personalized score weights, relative to the candidate's own total score.
const (
	baseShare        = 0.3
	tagMatchWeight   = 20
	elementWeight    = 10
	scoreBandSlack   = 10
	scoreBandPenalty = 0.5
)

// Profile aggregates favorite signals into preference weights.
type Profile struct {
	TagWeights     map[string]float64
	ElementWeights map[types.Element]float64
	AvgScore       float64
}

// BuildProfile folds favorite signals into a profile, or nil when there is
// nothing to learn from.
func BuildProfile(favorites []types.FavoriteSignal) *Profile {
	if len(favorites) == 0 {
		return nil
	}
	p := &Profile{
		TagWeights:     make(map[string]float64),
		ElementWeights: make(map[types.Element]float64),
	}
	scoreSum := 0.0
	for _, fav := range favorites {
		for _, tag := range fav.Tags {
			p.TagWeights[tag]++
		}
		for e, share := range fav.Elements {
			p.ElementWeights[e] += share
		}
		scoreSum += fav.TotalScore
	}
	normalize(p.TagWeights)
	normalizeElements(p.ElementWeights)
	p.AvgScore = scoreSum / float64(len(favorites))
	return p
}

// Rerank re-orders names in place by descending personalized score. A nil
// profile leaves the order untouched.
func Rerank(names []types.GeneratedName, p *Profile) {
	if p == nil {
		return
	}
	sort.SliceStable(names, func(i, j int) bool {
		return p.score(names[i]) > p.score(names[j])
	})
}

func (p *Profile) score(n types.GeneratedName) float64 {
	score := n.Score.TotalScore * baseShare

	tagMatch := 0.0
	for _, tag := range n.Tags {
		tagMatch += p.TagWeights[tag]
	}
	score += tagMatch * tagMatchWeight

	elementMatch := 0.0
	for e, pct := range n.Wuxing.WuxingPercentages {
		elementMatch += p.ElementWeights[e] * pct / 100
	}
	score += elementMatch * elementWeight

	if diff := math.Abs(n.Score.TotalScore - p.AvgScore); diff > scoreBandSlack {
		score -= (diff - scoreBandSlack) * scoreBandPenalty
	}
	return score
}

func normalize(weights map[string]float64) {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return
	}
	for k := range weights {
		weights[k] /= total
	}
}

func normalizeElements(weights map[types.Element]float64) {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return
	}
	for k := range weights {
		weights[k] /= total
	}
}
