// Package corpus holds the immutable, versioned view of the classical works
// the generator draws from.
package corpus

import (
	"sort"

	"github.com/easeaico/shiming/internal/types"
)

// Snapshot is an immutable corpus view. Concurrent reads need no locking; a
// reload builds a fresh snapshot and swaps it through the Index.
type Snapshot struct {
	version     string
	words       map[rune]*types.CharacterRecord
	entries     []types.CorpusEntry
	surnames    map[string]types.Surname
	surnameList []types.Surname
}

// Window is a contiguous run of reference characters on one corpus line,
// usable as a given-name n-gram.
type Window struct {
	Chars []*types.CharacterRecord
	Entry *types.CorpusEntry

	// Pos is the global ordinal of the window's first character; earlier
	// corpus positions win tie-breaks.
	Pos int
}

// Version identifies the snapshot, typically the load timestamp.
func (s *Snapshot) Version() string { return s.version }

// WordCount reports how many reference characters the snapshot indexes.
func (s *Snapshot) WordCount() int { return len(s.words) }

// EntryCount reports how many corpus lines the snapshot indexes.
func (s *Snapshot) EntryCount() int { return len(s.entries) }

// Word returns the reference record for a glyph, or nil.
func (s *Snapshot) Word(r rune) *types.CharacterRecord {
	return s.words[r]
}

// Surname looks up a surname reference record by glyph.
func (s *Snapshot) Surname(glyph string) (types.Surname, bool) {
	sn, ok := s.surnames[glyph]
	return sn, ok
}

// Surnames returns the surname records ordered by descending frequency.
func (s *Snapshot) Surnames() []types.Surname {
	return s.surnameList
}

// Windows slides a window of the given length over every corpus line and
// returns the runs where each character has a reference record matching one
// of the wanted affinities.
func (s *Snapshot) Windows(length int, affinities map[types.GenderAffinity]bool) []Window {
	var windows []Window
	pos := 0
	for i := range s.entries {
		entry := &s.entries[i]
		chars := entry.Chars
		for start := 0; start+length <= len(chars); start++ {
			pos++
			run := chars[start : start+length]
			if !usable(run, affinities) {
				continue
			}
			windows = append(windows, Window{Chars: run, Entry: entry, Pos: pos})
		}
	}
	return windows
}

// Characters returns every reference record matching the wanted affinities,
// ordered by descending frequency then glyph for determinism.
func (s *Snapshot) Characters(affinities map[types.GenderAffinity]bool) []*types.CharacterRecord {
	var records []*types.CharacterRecord
	for _, rec := range s.words {
		if affinities == nil || affinities[rec.Affinity] {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Frequency != records[j].Frequency {
			return records[i].Frequency > records[j].Frequency
		}
		return records[i].Glyph < records[j].Glyph
	})
	return records
}

func usable(run []*types.CharacterRecord, affinities map[types.GenderAffinity]bool) bool {
	for _, rec := range run {
		if rec == nil {
			return false
		}
		if affinities != nil && !affinities[rec.Affinity] {
			return false
		}
	}
	return true
}
