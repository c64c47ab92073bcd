// Package service validates requests and orchestrates generation, enrichment,
// persistence, personalization, and search.
package service

import (
	"context"
	"log/slog"

	"github.com/easeaico/shiming/internal/corpus"
	"github.com/easeaico/shiming/internal/enrich"
	"github.com/easeaico/shiming/internal/generator"
	"github.com/easeaico/shiming/internal/recommend"
	"github.com/easeaico/shiming/internal/types"
	"github.com/easeaico/shiming/internal/wuxing"
)

// Request bounds.
const (
	defaultCount = 5
	maxCount     = 20
	minLength    = 1
	maxLength    = 3

	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// NamesRepo is the generated-name archive the service writes and searches.
type NamesRepo interface {
	SaveBatch(ctx context.Context, userID string, names []types.GeneratedName, features [][]float32) error
	Search(ctx context.Context, filter types.SearchFilter) ([]types.GeneratedName, error)
	SearchSimilar(ctx context.Context, feature []float32, topK int) ([]types.GeneratedName, error)
}

// FavoritesRepo supplies per-user history and personalization signals.
type FavoritesRepo interface {
	HistoryFingerprints(ctx context.Context, userID string) ([]string, error)
	Signals(ctx context.Context, userID string) ([]types.FavoriteSignal, error)
}

// NameService is the public entry point of the engine.
type NameService struct {
	index     *corpus.Index
	gen       *generator.Generator
	names     NamesRepo
	favorites FavoritesRepo
	enricher  enrich.Service
}

// New wires a NameService. names, favorites, and enricher are all optional;
// missing pieces disable the corresponding stage.
func New(index *corpus.Index, names NamesRepo, favorites FavoritesRepo, enricher enrich.Service) *NameService {
	return &NameService{
		index:     index,
		gen:       generator.New(),
		names:     names,
		favorites: favorites,
		enricher:  enricher,
	}
}

// Generate runs the full generation pipeline for one request.
func (s *NameService) Generate(ctx context.Context, req types.GenerationRequest) (types.GenerationResult, error) {
	if err := normalizeRequest(&req); err != nil {
		return types.GenerationResult{}, err
	}

	snap := s.index.Current()
	if snap == nil {
		return types.GenerationResult{}, types.ErrCorpusUnavailable
	}

	if s.favorites != nil && req.UserID != "" {
		history, err := s.favorites.HistoryFingerprints(ctx, req.UserID)
		if err != nil {
			slog.Warn("failed to load user history", "error", err.Error(), "user_id", req.UserID)
		} else {
			req.History = append(req.History, history...)
		}
		if req.Personalize && len(req.Favorites) == 0 {
			signals, err := s.favorites.Signals(ctx, req.UserID)
			if err != nil {
				slog.Warn("failed to load favorite signals", "error", err.Error(), "user_id", req.UserID)
			} else {
				req.Favorites = signals
			}
		}
	}

	result, err := s.gen.Generate(snap, req)
	if err != nil {
		return types.GenerationResult{}, err
	}

	s.enrichNames(ctx, result.Names)
	s.persistNames(ctx, req.UserID, result.Names)

	if req.Personalize {
		if profile := recommend.BuildProfile(req.Favorites); profile != nil {
			recommend.Rerank(result.Names, profile)
		}
	}

	return result, nil
}

// Search queries the archive of previously generated names.
func (s *NameService) Search(ctx context.Context, filter types.SearchFilter) ([]types.GeneratedName, error) {
	if s.names == nil {
		return nil, nil
	}
	var errs types.ValidationErrors
	if filter.Limit == 0 {
		filter.Limit = defaultSearchLimit
	}
	if filter.Limit < 1 || filter.Limit > maxSearchLimit {
		errs = append(errs, &types.ValidationError{Field: "limit", Message: "limit 必须在 1-100 之间"})
	}
	if filter.Gender != "" && filter.Gender != types.GenderMale && filter.Gender != types.GenderFemale {
		errs = append(errs, &types.ValidationError{Field: "gender", Message: "gender 必须为 M 或 F"})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return s.names.Search(ctx, filter)
}

// Similar returns archived names closest to the given one in feature space.
func (s *NameService) Similar(ctx context.Context, name types.GeneratedName, topK int) ([]types.GeneratedName, error) {
	if s.names == nil {
		return nil, nil
	}
	if topK <= 0 {
		topK = defaultCount
	}
	return s.names.SearchSimilar(ctx, recommend.Feature(name), topK)
}

// EnrichmentStatus reports the enrichment capability state.
func (s *NameService) EnrichmentStatus() enrich.Status {
	if s.enricher == nil {
		return enrich.Status{State: "disabled"}
	}
	return s.enricher.Status()
}

// enrichNames best-effort fills explanations; failures never block results.
func (s *NameService) enrichNames(ctx context.Context, names []types.GeneratedName) {
	if s.enricher == nil || !s.enricher.Status().Configured {
		return
	}
	for i := range names {
		if err := s.enricher.Enrich(ctx, &names[i]); err != nil {
			slog.Warn("enrichment failed, serving bare result",
				"error", err.Error(), "name", names[i].FullName)
		}
	}
}

// persistNames best-effort archives the batch with its feature vectors.
func (s *NameService) persistNames(ctx context.Context, userID string, names []types.GeneratedName) {
	if s.names == nil || len(names) == 0 {
		return
	}
	features := make([][]float32, len(names))
	for i, name := range names {
		features[i] = recommend.Feature(name)
	}
	if err := s.names.SaveBatch(ctx, userID, names, features); err != nil {
		slog.Warn("failed to archive generated names", "error", err.Error())
	}
}

// normalizeRequest applies defaults and collects every bound violation.
func normalizeRequest(req *types.GenerationRequest) error {
	var errs types.ValidationErrors

	if req.Count == 0 {
		req.Count = defaultCount
	}
	if req.Count < 1 || req.Count > maxCount {
		errs = append(errs, &types.ValidationError{Field: "count", Message: "count 必须在 1-20 之间"})
	}
	if req.Length < minLength || req.Length > maxLength {
		errs = append(errs, &types.ValidationError{Field: "length", Message: "length 必须在 1-3 之间"})
	}
	if req.Gender != types.GenderMale && req.Gender != types.GenderFemale {
		errs = append(errs, &types.ValidationError{Field: "gender", Message: "gender 必须为 M 或 F"})
	}
	switch req.TonePreference {
	case "", types.PreferPing, types.PreferZe, types.PreferUnknown:
	default:
		errs = append(errs, &types.ValidationError{Field: "tone_preference", Message: "tone_preference 必须为 ping、ze 或 unknown"})
	}
	if req.Birth != nil {
		if req.Birth.Zodiac != "" && !wuxing.ValidZodiac(req.Birth.Zodiac) {
			errs = append(errs, &types.ValidationError{Field: "birth_context.zodiac", Message: "未知的生肖"})
		}
		if req.Birth.Hour != "" && !wuxing.ValidHour(req.Birth.Hour) {
			errs = append(errs, &types.ValidationError{Field: "birth_context.hour", Message: "未知的时辰"})
		}
		if req.Birth.Month != 0 && (req.Birth.Month < 1 || req.Birth.Month > 12) {
			errs = append(errs, &types.ValidationError{Field: "birth_context.month", Message: "month 必须在 1-12 之间"})
		}
		switch req.Birth.Calendar {
		case "", types.CalendarLunar, types.CalendarSolar:
		default:
			errs = append(errs, &types.ValidationError{Field: "birth_context.calendar", Message: "calendar 必须为 lunar 或 solar"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
