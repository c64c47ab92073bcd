package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/easeaico/shiming/internal/types"
)

// nameModel maps to the generated_names table.
type nameModel struct {
	ID        int
	FullName  string
	Surname   string
	GivenName string
	Pinyin    string
	Gender    string
	Meaning   string
	Origin    string
	// Fingerprint is the dedup identity surname|given|gender.
	Fingerprint string
	// Tags and the analysis blocks are stored as JSONB for search filters.
	Tags        json.RawMessage `gorm:"type:jsonb"`
	Wuxing      json.RawMessage `gorm:"type:jsonb"`
	Phonology   json.RawMessage `gorm:"type:jsonb"`
	Bagua       json.RawMessage `gorm:"type:jsonb"`
	Score       json.RawMessage `gorm:"type:jsonb"`
	TotalScore  float64
	Explanation string
	UserID      string
	// Feature stores the deterministic similarity vector.
	Feature   *pgvector.Vector `gorm:"type:vector"`
	CreatedAt time.Time
}

func (nameModel) TableName() string {
	return "generated_names"
}

// NameRepo accesses the generated-name archive.
type NameRepo struct {
	db *gorm.DB
}

// NewNameRepo returns a NameRepo.
func NewNameRepo(db *gorm.DB) *NameRepo {
	return &NameRepo{db: db}
}

// SaveBatch persists one generation batch. Features is aligned with names and
// may be nil when no vectors were built.
func (r *NameRepo) SaveBatch(ctx context.Context, userID string, names []types.GeneratedName, features [][]float32) error {
	if len(names) == 0 {
		return nil
	}

	records := make([]nameModel, 0, len(names))
	for i, name := range names {
		record, err := nameToModel(userID, name)
		if err != nil {
			return err
		}
		if features != nil && len(features[i]) > 0 {
			v := pgvector.NewVector(features[i])
			record.Feature = &v
		}
		records = append(records, record)
	}
	if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
		return fmt.Errorf("failed to insert generated names: %w", err)
	}
	return nil
}

// Search queries the archive by keyword and structured filters, newest first.
func (r *NameRepo) Search(ctx context.Context, filter types.SearchFilter) ([]types.GeneratedName, error) {
	query := r.db.WithContext(ctx).Model(&nameModel{})
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where(
			"given_name ILIKE ? OR meaning ILIKE ? OR origin ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", string(filter.Gender))
	}
	if filter.Surname != "" {
		query = query.Where("surname = ?", filter.Surname)
	}
	if len(filter.Tags) > 0 {
		tags, err := marshalJSON(filter.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tag filter: %w", err)
		}
		query = query.Where("tags @> ?", string(tags))
	}

	var records []nameModel
	if err := query.Order("created_at DESC").Limit(filter.Limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to search generated names: %w", err)
	}

	results := make([]types.GeneratedName, 0, len(records))
	for _, record := range records {
		results = append(results, nameFromModel(record))
	}
	return results, nil
}

// SearchSimilar returns archived names nearest to the given feature vector by
// cosine distance.
func (r *NameRepo) SearchSimilar(ctx context.Context, feature []float32, topK int) ([]types.GeneratedName, error) {
	if len(feature) == 0 {
		return nil, nil
	}

	query := `
		SELECT *
		FROM generated_names
		WHERE feature IS NOT NULL
		ORDER BY feature <=> $1
		LIMIT $2`

	var records []nameModel
	if err := r.db.WithContext(ctx).
		Raw(query, pgvector.NewVector(feature), topK).
		Scan(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to search similar names: %w", err)
	}

	results := make([]types.GeneratedName, 0, len(records))
	for _, record := range records {
		results = append(results, nameFromModel(record))
	}
	return results, nil
}

func nameToModel(userID string, name types.GeneratedName) (nameModel, error) {
	tags, err := marshalJSON(name.Tags)
	if err != nil {
		return nameModel{}, fmt.Errorf("failed to encode name tags: %w", err)
	}
	wx, err := marshalJSON(name.Wuxing)
	if err != nil {
		return nameModel{}, fmt.Errorf("failed to encode wuxing analysis: %w", err)
	}
	ph, err := marshalJSON(name.Phonology)
	if err != nil {
		return nameModel{}, fmt.Errorf("failed to encode phonology analysis: %w", err)
	}
	bg, err := marshalJSON(name.Bagua)
	if err != nil {
		return nameModel{}, fmt.Errorf("failed to encode bagua suggestions: %w", err)
	}
	score, err := marshalJSON(name.Score)
	if err != nil {
		return nameModel{}, fmt.Errorf("failed to encode name score: %w", err)
	}
	return nameModel{
		FullName:    name.FullName,
		Surname:     name.Surname,
		GivenName:   name.GivenName,
		Pinyin:      name.Pinyin,
		Gender:      string(name.Gender),
		Meaning:     name.Meaning,
		Origin:      name.Origin,
		Fingerprint: name.Fingerprint,
		Tags:        tags,
		Wuxing:      wx,
		Phonology:   ph,
		Bagua:       bg,
		Score:       score,
		TotalScore:  name.Score.TotalScore,
		Explanation: name.Explanation,
		UserID:      userID,
	}, nil
}

func nameFromModel(record nameModel) types.GeneratedName {
	name := types.GeneratedName{
		ID:          record.ID,
		FullName:    record.FullName,
		Surname:     record.Surname,
		GivenName:   record.GivenName,
		Pinyin:      record.Pinyin,
		Gender:      types.Gender(record.Gender),
		Meaning:     record.Meaning,
		Origin:      record.Origin,
		Explanation: record.Explanation,
		Fingerprint: record.Fingerprint,
	}
	_ = unmarshalJSON(record.Tags, &name.Tags)
	_ = unmarshalJSON(record.Wuxing, &name.Wuxing)
	_ = unmarshalJSON(record.Phonology, &name.Phonology)
	_ = unmarshalJSON(record.Bagua, &name.Bagua)
	_ = unmarshalJSON(record.Score, &name.Score)
	return name
}

// marshalJSON encodes a value into JSONB, returning nil for empty values.
func marshalJSON(value any) (json.RawMessage, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return json.RawMessage(raw), nil
}

// unmarshalJSON decodes JSONB into the provided target.
func unmarshalJSON(data json.RawMessage, target any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, target)
}
