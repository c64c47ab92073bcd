package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/easeaico/shiming/internal/types"
)

// RawEntry is a work as the corpus store delivers it; Content may span
// multiple lines.
type RawEntry struct {
	Work    string
	Title   string
	Section string
	Content string
}

// Source is the corpus store read at load time.
type Source interface {
	Words(ctx context.Context) ([]types.CharacterRecord, error)
	Entries(ctx context.Context) ([]RawEntry, error)
	Surnames(ctx context.Context) ([]types.Surname, error)
}

// Load reads the whole corpus store and builds an immutable snapshot. Any
// store failure surfaces as ErrCorpusUnavailable; nothing fails after a
// successful load.
func Load(ctx context.Context, src Source) (*Snapshot, error) {
	words, err := src.Words(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading words: %v", types.ErrCorpusUnavailable, err)
	}
	raws, err := src.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading entries: %v", types.ErrCorpusUnavailable, err)
	}
	surnames, err := src.Surnames(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading surnames: %v", types.ErrCorpusUnavailable, err)
	}

	snap := build(words, raws, surnames)
	slog.Info("corpus snapshot loaded",
		"version", snap.version,
		"words", snap.WordCount(),
		"entries", snap.EntryCount(),
		"surnames", len(snap.surnameList))
	return snap, nil
}

func build(words []types.CharacterRecord, raws []RawEntry, surnames []types.Surname) *Snapshot {
	snap := &Snapshot{
		version:  time.Now().UTC().Format(time.RFC3339Nano),
		words:    make(map[rune]*types.CharacterRecord, len(words)),
		surnames: make(map[string]types.Surname, len(surnames)),
	}

	for i := range words {
		rec := words[i]
		runes := []rune(rec.Glyph)
		if len(runes) != 1 {
			continue
		}
		snap.words[runes[0]] = &words[i]
	}

	for _, raw := range raws {
		for _, line := range splitLines(raw.Content) {
			runes := []rune(line)
			entry := types.CorpusEntry{
				Work:    raw.Work,
				Title:   raw.Title,
				Section: raw.Section,
				Line:    line,
				Chars:   make([]*types.CharacterRecord, len(runes)),
			}
			for i, r := range runes {
				if unicode.Is(unicode.Han, r) {
					entry.Chars[i] = snap.words[r]
				}
			}
			snap.entries = append(snap.entries, entry)
		}
	}

	snap.surnameList = make([]types.Surname, len(surnames))
	copy(snap.surnameList, surnames)
	sort.Slice(snap.surnameList, func(i, j int) bool {
		if snap.surnameList[i].Frequency != snap.surnameList[j].Frequency {
			return snap.surnameList[i].Frequency > snap.surnameList[j].Frequency
		}
		return snap.surnameList[i].Glyph < snap.surnameList[j].Glyph
	})
	for _, sn := range surnames {
		snap.surnames[sn.Glyph] = sn
	}
	return snap
}

func splitLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
