package types

// Level is a qualitative band for a numeric score.
type Level struct {
	Level       string `json:"level"`
	Description string `json:"description"`
}

// WuxingRelationships lists the generating and overcoming pairs present in a
// name's elemental composition.
type WuxingRelationships struct {
	Sheng []string `json:"sheng,omitempty"`
	Ke    []string `json:"ke,omitempty"`
}

// WuxingAnalysis is the elemental analysis block of a candidate.
type WuxingAnalysis struct {
	WuxingPercentages map[Element]float64  `json:"wuxing_percentages"`
	BalanceScore      float64              `json:"balance_score"`
	BalanceLevel      Level                `json:"balance_level"`
	Relationships     *WuxingRelationships `json:"relationships,omitempty"`
}

// ToneAnalysis describes the tone structure of the full name.
type ToneAnalysis struct {
	ToneSequence    []Tone           `json:"tone_sequence"`
	ToneCounts      map[Tone]int     `json:"tone_counts"`
	TonePercentages map[Tone]float64 `json:"tone_percentages"`
}

// FluencyAnalysis flags notable adjacent-syllable interactions.
type FluencyAnalysis struct {
	FluencyScore  float64  `json:"fluency_score"`
	Alliteration  []string `json:"alliteration,omitempty"`
	Assonance     []string `json:"assonance,omitempty"`
	HardSequences []string `json:"hard_sequences,omitempty"`
}

// PhonologyAnalysis is the prosody analysis block of a candidate.
type PhonologyAnalysis struct {
	RhythmScore float64          `json:"rhythm_score"`
	RhythmLevel Level            `json:"rhythm_level"`
	Fluency     *FluencyAnalysis `json:"fluency_analysis,omitempty"`
	Tone        *ToneAnalysis    `json:"tone_analysis,omitempty"`
}

// BaguaSuggestion maps an elemental deficit to a trigram and direction.
type BaguaSuggestion struct {
	Bagua     string  `json:"bagua"`
	Direction string  `json:"direction"`
	Element   Element `json:"wuxing"`
	Meaning   string  `json:"meaning"`
	Reason    string  `json:"reason"`
	Priority  int     `json:"priority"`
}

// BaguaSuggestions is the directional advice block of a candidate.
type BaguaSuggestions struct {
	Suggestions []BaguaSuggestion `json:"suggestions"`
}

// GradeLevel pairs the letter grade with its description.
type GradeLevel struct {
	Grade       Grade  `json:"grade"`
	Description string `json:"description"`
}

// NameScore is the composite scoring block of a candidate.
type NameScore struct {
	TotalScore     float64    `json:"total_score"`
	WuxingScore    float64    `json:"wuxing_score"`
	PhonologyScore float64    `json:"phonology_score"`
	Level          GradeLevel `json:"level"`
}

// GeneratedName is the full result shape exposed per candidate.
type GeneratedName struct {
	ID          int               `json:"id,omitempty"`
	FullName    string            `json:"full_name"`
	Surname     string            `json:"surname"`
	GivenName   string            `json:"given_name"`
	Pinyin      string            `json:"pinyin"`
	Gender      Gender            `json:"gender"`
	Meaning     string            `json:"meaning"`
	Origin      string            `json:"origin"`
	Tags        []string          `json:"tags"`
	Wuxing      WuxingAnalysis    `json:"wuxing_analysis"`
	Phonology   PhonologyAnalysis `json:"phonology_analysis"`
	Bagua       BaguaSuggestions  `json:"bagua_suggestions"`
	Score       NameScore         `json:"name_score"`
	Explanation string            `json:"explanation,omitempty"`

	// Fingerprint is the dedup identity within a generation context.
	Fingerprint string `json:"-"`

	// Repeated marks candidates readmitted from history under degraded
	// uniqueness.
	Repeated bool `json:"repeated_from_history,omitempty"`
}

// GenerationResult bundles the ranked candidates with the degradation flags.
type GenerationResult struct {
	Names []GeneratedName `json:"names"`

	// InsufficientCandidates is set when the pool was exhausted before the
	// requested count, even after all relaxations.
	InsufficientCandidates bool `json:"insufficient_candidates,omitempty"`

	// DegradedUniqueness is set when history repeats had to be permitted.
	DegradedUniqueness bool `json:"degraded_uniqueness,omitempty"`
}
