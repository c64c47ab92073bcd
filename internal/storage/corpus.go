package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/easeaico/shiming/internal/corpus"
	"github.com/easeaico/shiming/internal/phonology"
	"github.com/easeaico/shiming/internal/types"
)

// wordModel maps to the corpus_words table.
type wordModel struct {
	ID        int
	Glyph     string
	Pinyin    string
	Element   string
	Affinity  string
	Meaning   string
	Tags      json.RawMessage `gorm:"type:jsonb"`
	Frequency int
}

func (wordModel) TableName() string {
	return "corpus_words"
}

// poemModel maps to the corpus_poems table. Content may hold several lines.
type poemModel struct {
	ID      int
	Work    string
	Title   string
	Section string
	Content string
}

func (poemModel) TableName() string {
	return "corpus_poems"
}

// surnameModel maps to the corpus_surnames table.
type surnameModel struct {
	ID        int
	Glyph     string
	Pinyin    string
	Frequency int
}

func (surnameModel) TableName() string {
	return "corpus_surnames"
}

// CorpusRepo reads the corpus tables the snapshot is built from.
type CorpusRepo struct {
	db *gorm.DB
}

// NewCorpusRepo returns a CorpusRepo.
func NewCorpusRepo(db *gorm.DB) *CorpusRepo {
	return &CorpusRepo{db: db}
}

var _ corpus.Source = (*CorpusRepo)(nil)

func (r *CorpusRepo) Words(ctx context.Context) ([]types.CharacterRecord, error) {
	var records []wordModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query corpus words: %w", err)
	}

	results := make([]types.CharacterRecord, 0, len(records))
	for _, record := range records {
		var tags []string
		_ = unmarshalJSON(record.Tags, &tags)
		initial, final := phonology.Split(record.Pinyin)
		results = append(results, types.CharacterRecord{
			Glyph:     record.Glyph,
			Pinyin:    record.Pinyin,
			Tone:      phonology.ClassifyTone(record.Pinyin),
			Initial:   initial,
			Final:     final,
			Element:   parseElement(record.Element),
			Affinity:  parseAffinity(record.Affinity),
			Meaning:   record.Meaning,
			Tags:      tags,
			Frequency: record.Frequency,
		})
	}
	return results, nil
}

func (r *CorpusRepo) Entries(ctx context.Context) ([]corpus.RawEntry, error) {
	var records []poemModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query corpus poems: %w", err)
	}

	results := make([]corpus.RawEntry, 0, len(records))
	for _, record := range records {
		results = append(results, corpus.RawEntry{
			Work:    record.Work,
			Title:   record.Title,
			Section: record.Section,
			Content: record.Content,
		})
	}
	return results, nil
}

func (r *CorpusRepo) Surnames(ctx context.Context) ([]types.Surname, error) {
	var records []surnameModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query corpus surnames: %w", err)
	}

	results := make([]types.Surname, 0, len(records))
	for _, record := range records {
		results = append(results, types.Surname{
			Glyph:     record.Glyph,
			Pinyin:    record.Pinyin,
			Tone:      phonology.ClassifyTone(record.Pinyin),
			Frequency: record.Frequency,
		})
	}
	return results, nil
}

// parseElement accepts both the pinyin code and the Chinese name of an
// element; anything else means the glyph is unclassified.
func parseElement(raw string) types.Element {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, e := range types.Elements {
		if raw == string(e) || raw == types.ElementNames[e] {
			return e
		}
	}
	return ""
}

func parseAffinity(raw string) types.GenderAffinity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m":
		return types.AffinityMale
	case "female", "f":
		return types.AffinityFemale
	case "neutral":
		return types.AffinityNeutral
	default:
		return types.AffinityAny
	}
}
