package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/easeaico/shiming/internal/types"
)

// favoriteModel maps to the user_favorites table.
type favoriteModel struct {
	ID          int
	UserID      string
	Fingerprint string
	Tags        json.RawMessage `gorm:"type:jsonb"`
	Elements    json.RawMessage `gorm:"type:jsonb"`
	TotalScore  float64
	CreatedAt   time.Time
}

func (favoriteModel) TableName() string {
	return "user_favorites"
}

// FavoriteRepo accesses favorite and history records.
type FavoriteRepo struct {
	db *gorm.DB
}

// NewFavoriteRepo returns a FavoriteRepo.
func NewFavoriteRepo(db *gorm.DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

// Add records one favorited name for a user.
func (r *FavoriteRepo) Add(ctx context.Context, userID, fingerprint string, signal types.FavoriteSignal) error {
	tags, err := marshalJSON(signal.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode favorite tags: %w", err)
	}
	elements, err := marshalJSON(signal.Elements)
	if err != nil {
		return fmt.Errorf("failed to encode favorite elements: %w", err)
	}
	record := favoriteModel{
		UserID:      userID,
		Fingerprint: fingerprint,
		Tags:        tags,
		Elements:    elements,
		TotalScore:  signal.TotalScore,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	return nil
}

// HistoryFingerprints returns the fingerprints a user has already seen.
func (r *FavoriteRepo) HistoryFingerprints(ctx context.Context, userID string) ([]string, error) {
	var fingerprints []string
	if err := r.db.WithContext(ctx).
		Model(&favoriteModel{}).
		Where("user_id = ?", userID).
		Pluck("fingerprint", &fingerprints).Error; err != nil {
		return nil, fmt.Errorf("failed to query history fingerprints: %w", err)
	}
	return fingerprints, nil
}

// Signals returns a user's favorite signals for the re-ranker.
func (r *FavoriteRepo) Signals(ctx context.Context, userID string) ([]types.FavoriteSignal, error) {
	var records []favoriteModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}

	results := make([]types.FavoriteSignal, 0, len(records))
	for _, record := range records {
		var signal types.FavoriteSignal
		_ = unmarshalJSON(record.Tags, &signal.Tags)
		_ = unmarshalJSON(record.Elements, &signal.Elements)
		signal.TotalScore = record.TotalScore
		results = append(results, signal)
	}
	return results, nil
}
