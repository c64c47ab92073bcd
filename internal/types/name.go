// Package types holds the domain value records shared across the engine.
package types

import "strings"

// Gender of the person being named.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// GenderAffinity classifies which gender a character suits.
type GenderAffinity string

const (
	AffinityMale    GenderAffinity = "male"
	AffinityFemale  GenderAffinity = "female"
	AffinityNeutral GenderAffinity = "neutral"
	AffinityAny     GenderAffinity = "any"
)

// Element is one of the five wuxing classes.
type Element string

const (
	ElementJin  Element = "jin"  // 金
	ElementMu   Element = "mu"   // 木
	ElementShui Element = "shui" // 水
	ElementHuo  Element = "huo"  // 火
	ElementTu   Element = "tu"   // 土
)

// Elements lists the five classes in canonical order.
var Elements = []Element{ElementJin, ElementMu, ElementShui, ElementHuo, ElementTu}

// ElementNames maps each element to its Chinese name.
var ElementNames = map[Element]string{
	ElementJin:  "金",
	ElementMu:   "木",
	ElementShui: "水",
	ElementHuo:  "火",
	ElementTu:   "土",
}

// Tone is a classical tone class.
type Tone string

const (
	TonePing  Tone = "ping"
	ToneShang Tone = "shang"
	ToneQu    Tone = "qu"
	ToneRu    Tone = "ru"
)

// Tones lists the tone classes in canonical order.
var Tones = []Tone{TonePing, ToneShang, ToneQu, ToneRu}

// IsPing reports whether the tone belongs to the level class; the other three
// classes form the oblique (ze) group.
func (t Tone) IsPing() bool { return t == TonePing }

// TonePreference is the requested prosody bias.
type TonePreference string

const (
	PreferPing    TonePreference = "ping"
	PreferZe      TonePreference = "ze"
	PreferUnknown TonePreference = "unknown"
)

// CalendarKind distinguishes lunar from solar birth months.
type CalendarKind string

const (
	CalendarLunar CalendarKind = "lunar"
	CalendarSolar CalendarKind = "solar"
)

// CharacterRecord is an immutable per-glyph reference record.
type CharacterRecord struct {
	Glyph     string
	Pinyin    string
	Tone      Tone
	Initial   string
	Final     string
	Element   Element // empty when the glyph has no settled element class
	Affinity  GenderAffinity
	Meaning   string
	Tags      []string
	Frequency int
}

// HasTag reports whether the record carries the given semantic tag.
func (c CharacterRecord) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CorpusEntry is one indexed line of a classical work. Chars is aligned with
// the runes of Line; positions without a reference record are nil.
type CorpusEntry struct {
	Work    string
	Title   string
	Section string
	Line    string
	Chars   []*CharacterRecord
}

// Surname is an immutable surname reference record.
type Surname struct {
	Glyph     string
	Pinyin    string
	Tone      Tone
	Frequency int
}

// Citation records where a given name was drawn from.
type Citation struct {
	Work    string `json:"work"`
	Title   string `json:"title,omitempty"`
	Section string `json:"section,omitempty"`
	Line    string `json:"line,omitempty"`
}

// String renders the citation in the conventional 《work·section·title》 form.
func (c Citation) String() string {
	if c.Work == "" {
		return "源自古典诗词"
	}
	var sb strings.Builder
	sb.WriteString("《")
	sb.WriteString(c.Work)
	if c.Section != "" {
		sb.WriteString("·")
		sb.WriteString(c.Section)
	}
	if c.Title != "" {
		sb.WriteString("·")
		sb.WriteString(c.Title)
	}
	sb.WriteString("》")
	if c.Line != "" {
		sb.WriteString("：")
		sb.WriteString(c.Line)
	}
	return sb.String()
}

// Grade is a letter tier for the composite score.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)
