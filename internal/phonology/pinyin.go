// Package phonology scores the prosody of a full name: tone harmony,
// rhyme/alliteration interplay, and pronounceability.
package phonology

import (
	"strings"

	"github.com/easeaico/shiming/internal/types"
)

// initials ordered longest first so zh/ch/sh win over z/c/s.
var initials = []string{
	"zh", "ch", "sh",
	"b", "p", "m", "f", "d", "t", "n", "l",
	"g", "k", "h", "j", "q", "x", "r",
	"z", "c", "s", "y", "w",
}

// plosiveInitials are the stop consonants whose back-to-back runs read hard.
var plosiveInitials = map[string]bool{
	"b": true, "p": true, "d": true, "t": true, "g": true, "k": true,
}

// ClassifyTone maps a numbered pinyin syllable to its classical tone class.
// Tones 1 and 2 are level (ping); 3 is shang, 4 is qu, 5 is the entering tone.
func ClassifyTone(pinyin string) types.Tone {
	pinyin = strings.TrimSpace(pinyin)
	if len(pinyin) < 2 {
		return types.TonePing
	}
	switch pinyin[len(pinyin)-1] {
	case '1', '2':
		return types.TonePing
	case '3':
		return types.ToneShang
	case '4':
		return types.ToneQu
	case '5':
		return types.ToneRu
	default:
		return types.TonePing
	}
}

// Split divides a numbered pinyin syllable into initial and final.
func Split(pinyin string) (initial, final string) {
	pinyin = strings.TrimSpace(pinyin)
	pinyin = strings.TrimRight(pinyin, "12345")
	for _, ini := range initials {
		if strings.HasPrefix(pinyin, ini) {
			return ini, pinyin[len(ini):]
		}
	}
	return "", pinyin
}

// MatchesPreference reports whether a tone satisfies the requested bias.
func MatchesPreference(t types.Tone, pref types.TonePreference) bool {
	switch pref {
	case types.PreferPing:
		return t.IsPing()
	case types.PreferZe:
		return !t.IsPing()
	default:
		return true
	}
}
