// Package wuxing computes the five-element composition of a name and scores
// its balance, optionally against a birth-context target.
package wuxing

import "github.com/easeaico/shiming/internal/types"

// Sheng is the generating cycle: 金生水，水生木，木生火，火生土，土生金.
var Sheng = map[types.Element]types.Element{
	types.ElementJin:  types.ElementShui,
	types.ElementShui: types.ElementMu,
	types.ElementMu:   types.ElementHuo,
	types.ElementHuo:  types.ElementTu,
	types.ElementTu:   types.ElementJin,
}

// Ke is the overcoming cycle: 金克木，木克土，土克水，水克火，火克金.
var Ke = map[types.Element]types.Element{
	types.ElementJin:  types.ElementMu,
	types.ElementMu:   types.ElementTu,
	types.ElementTu:   types.ElementShui,
	types.ElementShui: types.ElementHuo,
	types.ElementHuo:  types.ElementJin,
}

// zodiacElements maps the twelve branch animals to their element.
var zodiacElements = map[string]types.Element{
	"rat":     types.ElementShui, // 子鼠
	"ox":      types.ElementTu,   // 丑牛
	"tiger":   types.ElementMu,   // 寅虎
	"rabbit":  types.ElementMu,   // 卯兔
	"dragon":  types.ElementTu,   // 辰龙
	"snake":   types.ElementHuo,  // 巳蛇
	"horse":   types.ElementHuo,  // 午马
	"goat":    types.ElementTu,   // 未羊
	"monkey":  types.ElementJin,  // 申猴
	"rooster": types.ElementJin,  // 酉鸡
	"dog":     types.ElementTu,   // 戌狗
	"pig":     types.ElementShui, // 亥猪
}

// hourElements maps the twelve hour branches to their element.
var hourElements = map[string]types.Element{
	"zi":   types.ElementShui, // 23:00-01:00
	"chou": types.ElementTu,   // 01:00-03:00
	"yin":  types.ElementMu,   // 03:00-05:00
	"mao":  types.ElementMu,   // 05:00-07:00
	"chen": types.ElementTu,   // 07:00-09:00
	"si":   types.ElementHuo,  // 09:00-11:00
	"wu":   types.ElementHuo,  // 11:00-13:00
	"wei":  types.ElementTu,   // 13:00-15:00
	"shen": types.ElementJin,  // 15:00-17:00
	"you":  types.ElementJin,  // 17:00-19:00
	"xu":   types.ElementTu,   // 19:00-21:00
	"hai":  types.ElementShui, // 21:00-23:00
}

// lunarMonthElements follows the lunar seasonal cycle, with the transition
// months assigned to earth.
var lunarMonthElements = map[int]types.Element{
	1: types.ElementMu, 2: types.ElementMu, 3: types.ElementTu,
	4: types.ElementHuo, 5: types.ElementHuo, 6: types.ElementTu,
	7: types.ElementJin, 8: types.ElementJin, 9: types.ElementTu,
	10: types.ElementShui, 11: types.ElementShui, 12: types.ElementTu,
}

// solarMonthElements is the simplified solar-calendar mapping by season.
var solarMonthElements = map[int]types.Element{
	1: types.ElementShui, 2: types.ElementMu, 3: types.ElementMu,
	4: types.ElementMu, 5: types.ElementHuo, 6: types.ElementHuo,
	7: types.ElementHuo, 8: types.ElementJin, 9: types.ElementJin,
	10: types.ElementJin, 11: types.ElementShui, 12: types.ElementShui,
}

// ValidZodiac reports whether the branch animal is one of the twelve.
func ValidZodiac(z string) bool {
	_, ok := zodiacElements[z]
	return ok
}

// ValidHour reports whether the hour branch is one of the twelve.
func ValidHour(h string) bool {
	_, ok := hourElements[h]
	return ok
}
