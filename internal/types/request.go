package types

// BirthContext is the optional birth information used to bias the elemental
// target distribution.
type BirthContext struct {
	Zodiac   string       `json:"zodiac,omitempty"`   // zodiac branch animal, e.g. "rat"
	Hour     string       `json:"hour,omitempty"`     // hour branch, e.g. "zi"
	Month    int          `json:"month,omitempty"`    // 1-12, zero when unset
	Calendar CalendarKind `json:"calendar,omitempty"` // lunar by default
}

// GenerationRequest describes one name generation call.
type GenerationRequest struct {
	Surname        string         `json:"surname,omitempty"`
	Gender         Gender         `json:"gender"`
	Length         int            `json:"length"`
	TonePreference TonePreference `json:"tone_preference,omitempty"`
	MeaningTags    []string       `json:"meaning_tags,omitempty"`
	Birth          *BirthContext  `json:"birth_context,omitempty"`
	Count          int            `json:"count"`
	Personalize    bool           `json:"personalize,omitempty"`

	// Seed makes the sampling reproducible; nil draws a process-default seed.
	Seed *int64 `json:"seed,omitempty"`

	// History holds fingerprints the caller wants excluded, typically loaded
	// from the favorites/history store.
	History []string `json:"-"`

	// Favorites carries personalization signals supplied by the caller.
	Favorites []FavoriteSignal `json:"-"`

	// UserID lets the service pull history and favorite signals itself when a
	// favorites repository is wired.
	UserID string `json:"-"`
}

// FavoriteSignal is the slice of a previously favorited name that the
// re-ranker cares about.
type FavoriteSignal struct {
	Tags       []string
	Elements   map[Element]float64 // element -> share of the name, 0-1
	TotalScore float64
}

// SearchFilter constrains a search over previously generated names.
type SearchFilter struct {
	Keyword string   `json:"keyword,omitempty"`
	Gender  Gender   `json:"gender,omitempty"`
	Surname string   `json:"surname,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}
