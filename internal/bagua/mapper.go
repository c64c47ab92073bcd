// Package bagua maps elemental deficits to trigram and compass-direction
// suggestions.
package bagua

import (
	"fmt"
	"sort"

	"github.com/easeaico/shiming/internal/types"
)

// WeakThreshold is the percentage under which an element counts as deficient.
const WeakThreshold = 10.0

// maxSuggestions caps the advice list at the most urgent deficits.
const maxSuggestions = 3

// Trigram is one of the eight trigrams with its primary element and compass
// direction.
type Trigram struct {
	Name      string
	Direction string
	Element   types.Element
	Meaning   string
}

// trigrams in the conventional order. Each trigram maps to exactly one
// primary element; jin and tu own two trigrams each.
var trigrams = []Trigram{
	{Name: "乾", Direction: "西北", Element: types.ElementJin, Meaning: "天、父、首领"},
	{Name: "坤", Direction: "西南", Element: types.ElementTu, Meaning: "地、母、包容"},
	{Name: "震", Direction: "东", Element: types.ElementMu, Meaning: "雷、长男、行动"},
	{Name: "巽", Direction: "东南", Element: types.ElementMu, Meaning: "风、长女、渗透"},
	{Name: "离", Direction: "南", Element: types.ElementHuo, Meaning: "火、中女、光明"},
	{Name: "坎", Direction: "北", Element: types.ElementShui, Meaning: "水、中男、险恶"},
	{Name: "艮", Direction: "东北", Element: types.ElementTu, Meaning: "山、少男、停止"},
	{Name: "兑", Direction: "西", Element: types.ElementJin, Meaning: "泽、少女、喜悦"},
}

// primary picks the leading trigram per element for suggestions.
var primary = map[types.Element]Trigram{
	types.ElementJin:  trigrams[0], // 乾
	types.ElementTu:   trigrams[1], // 坤
	types.ElementMu:   trigrams[2], // 震
	types.ElementHuo:  trigrams[4], // 离
	types.ElementShui: trigrams[5], // 坎
}

// Trigrams returns the full table.
func Trigrams() []Trigram {
	out := make([]Trigram, len(trigrams))
	copy(out, trigrams)
	return out
}

// Suggest returns directional advice for every element below the weak
// threshold, most deficient first. A balanced distribution yields no
// suggestions.
func Suggest(percentages map[types.Element]float64) types.BaguaSuggestions {
	weak := make([]types.Element, 0, len(types.Elements))
	for _, e := range types.Elements {
		if percentages[e] < WeakThreshold {
			weak = append(weak, e)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		return percentages[weak[i]] < percentages[weak[j]]
	})
	if len(weak) > maxSuggestions {
		weak = weak[:maxSuggestions]
	}

	suggestions := make([]types.BaguaSuggestion, 0, len(weak))
	for i, e := range weak {
		t := primary[e]
		reason := fmt.Sprintf("补充缺失的%s属性，增强整体平衡", types.ElementNames[e])
		if percentages[e] > 0 {
			reason = fmt.Sprintf("%s属性偏弱，宜借%s位（%s）加强", types.ElementNames[e], t.Name, t.Direction)
		}
		suggestions = append(suggestions, types.BaguaSuggestion{
			Bagua:     t.Name,
			Direction: t.Direction,
			Element:   e,
			Meaning:   t.Meaning,
			Reason:    reason,
			Priority:  i + 1,
		})
	}
	return types.BaguaSuggestions{Suggestions: suggestions}
}
