package service

import (
	"context"
	"errors"
	"testing"

	"github.com/easeaico/shiming/internal/corpus"
	"github.com/easeaico/shiming/internal/enrich"
	"github.com/easeaico/shiming/internal/types"
)

type fakeSource struct{}

func (fakeSource) Words(ctx context.Context) ([]types.CharacterRecord, error) {
	return []types.CharacterRecord{
		{Glyph: "清", Pinyin: "qing1", Tone: types.TonePing, Element: types.ElementShui, Affinity: types.AffinityAny, Meaning: "纯净", Tags: []string{"高洁"}},
		{Glyph: "扬", Pinyin: "yang2", Tone: types.TonePing, Element: types.ElementHuo, Affinity: types.AffinityAny, Meaning: "飞扬", Tags: []string{"志向"}},
		{Glyph: "彦", Pinyin: "yan4", Tone: types.ToneQu, Element: types.ElementMu, Affinity: types.AffinityAny, Meaning: "才德出众", Tags: []string{"才华"}},
		{Glyph: "博", Pinyin: "bo2", Tone: types.TonePing, Element: types.ElementHuo, Affinity: types.AffinityAny, Meaning: "博学", Tags: []string{"才华"}},
	}, nil
}

func (fakeSource) Entries(ctx context.Context) ([]corpus.RawEntry, error) {
	return []corpus.RawEntry{
		{Work: "诗经", Title: "测试", Content: "清扬彦博"},
	}, nil
}

func (fakeSource) Surnames(ctx context.Context) ([]types.Surname, error) {
	return []types.Surname{{Glyph: "王", Pinyin: "wang2", Tone: types.TonePing, Frequency: 100}}, nil
}

func loadedIndex(t *testing.T) *corpus.Index {
	t.Helper()
	snap, err := corpus.Load(context.Background(), fakeSource{})
	if err != nil {
		t.Fatalf("failed to load test corpus: %v", err)
	}
	return corpus.NewIndex(snap)
}

type fakeNamesRepo struct {
	saved      []types.GeneratedName
	features   [][]float32
	saveErr    error
	searched   *types.SearchFilter
	searchOut  []types.GeneratedName
	similarIn  []float32
	similarOut []types.GeneratedName
}

func (r *fakeNamesRepo) SaveBatch(ctx context.Context, userID string, names []types.GeneratedName, features [][]float32) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, names...)
	r.features = append(r.features, features...)
	return nil
}

func (r *fakeNamesRepo) Search(ctx context.Context, filter types.SearchFilter) ([]types.GeneratedName, error) {
	r.searched = &filter
	return r.searchOut, nil
}

func (r *fakeNamesRepo) SearchSimilar(ctx context.Context, feature []float32, topK int) ([]types.GeneratedName, error) {
	r.similarIn = feature
	return r.similarOut, nil
}

type fakeFavoritesRepo struct {
	history    []string
	historyErr error
	signals    []types.FavoriteSignal
}

func (r *fakeFavoritesRepo) HistoryFingerprints(ctx context.Context, userID string) ([]string, error) {
	return r.history, r.historyErr
}

func (r *fakeFavoritesRepo) Signals(ctx context.Context, userID string) ([]types.FavoriteSignal, error) {
	return r.signals, nil
}

type fakeEnricher struct {
	configured bool
	enrichErr  error
	calls      int
}

func (e *fakeEnricher) Configure(ctx context.Context, cfg enrich.Config) error { return nil }

func (e *fakeEnricher) Status() enrich.Status {
	return enrich.Status{Enabled: true, Configured: e.configured, State: "ready"}
}

func (e *fakeEnricher) Enrich(ctx context.Context, name *types.GeneratedName) error {
	e.calls++
	if e.enrichErr != nil {
		return e.enrichErr
	}
	name.Explanation = "测试释义"
	return nil
}

func validRequest() types.GenerationRequest {
	seed := int64(1)
	return types.GenerationRequest{
		Surname: "王",
		Gender:  types.GenderMale,
		Length:  2,
		Count:   2,
		Seed:    &seed,
	}
}

func TestGenerateCollectsValidationErrors(t *testing.T) {
	svc := New(loadedIndex(t), nil, nil, nil)
	_, err := svc.Generate(context.Background(), types.GenerationRequest{
		Gender: "X",
		Length: 5,
		Count:  99,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	verrs, ok := types.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	fields := make(map[string]bool, len(verrs))
	for _, v := range verrs {
		fields[v.Field] = true
	}
	for _, want := range []string{"gender", "length", "count"} {
		if !fields[want] {
			t.Fatalf("missing validation for %s: %v", want, err)
		}
	}
}

func TestGenerateValidatesBirthContext(t *testing.T) {
	svc := New(loadedIndex(t), nil, nil, nil)
	req := validRequest()
	req.Birth = &types.BirthContext{Zodiac: "cat", Hour: "midnight", Month: 13, Calendar: "mayan"}
	_, err := svc.Generate(context.Background(), req)
	verrs, ok := types.AsValidation(err)
	if !ok || len(verrs) != 4 {
		t.Fatalf("expected 4 birth-context violations, got %v", err)
	}
}

func TestGenerateDefaultsCount(t *testing.T) {
	svc := New(loadedIndex(t), nil, nil, nil)
	req := validRequest()
	req.Count = 0
	result, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Names) == 0 || len(result.Names) > defaultCount {
		t.Fatalf("names = %d, want up to default %d", len(result.Names), defaultCount)
	}
}

func TestGenerateCorpusUnavailable(t *testing.T) {
	svc := New(corpus.NewIndex(nil), nil, nil, nil)
	_, err := svc.Generate(context.Background(), validRequest())
	if !errors.Is(err, types.ErrCorpusUnavailable) {
		t.Fatalf("expected ErrCorpusUnavailable, got %v", err)
	}
}

func TestGenerateEnrichmentFailureIsSwallowed(t *testing.T) {
	enricher := &fakeEnricher{configured: true, enrichErr: errors.New("model offline")}
	svc := New(loadedIndex(t), nil, nil, enricher)

	result, err := svc.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("enrichment failure must not fail generation: %v", err)
	}
	if enricher.calls == 0 {
		t.Fatal("enricher was never called")
	}
	for _, name := range result.Names {
		if name.Explanation != "" {
			t.Fatalf("explanation set despite failure: %s", name.Explanation)
		}
	}
}

func TestGenerateEnrichmentFillsExplanations(t *testing.T) {
	enricher := &fakeEnricher{configured: true}
	svc := New(loadedIndex(t), nil, nil, enricher)

	result, err := svc.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	for _, name := range result.Names {
		if name.Explanation != "测试释义" {
			t.Fatalf("explanation missing on %s", name.FullName)
		}
	}
}

func TestGeneratePersistFailureIsSwallowed(t *testing.T) {
	names := &fakeNamesRepo{saveErr: errors.New("db down")}
	svc := New(loadedIndex(t), names, nil, nil)

	result, err := svc.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("persistence failure must not fail generation: %v", err)
	}
	if len(result.Names) == 0 {
		t.Fatal("expected candidates despite persistence failure")
	}
}

func TestGeneratePersistsBatchWithFeatures(t *testing.T) {
	names := &fakeNamesRepo{}
	svc := New(loadedIndex(t), names, nil, nil)

	result, err := svc.Generate(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(names.saved) != len(result.Names) {
		t.Fatalf("archived %d names, want %d", len(names.saved), len(result.Names))
	}
	for i, feature := range names.features {
		if len(feature) != 12 {
			t.Fatalf("feature %d has %d dimensions", i, len(feature))
		}
	}
}

func TestGenerateMergesStoredHistory(t *testing.T) {
	// First run without history to learn the fingerprints.
	svc := New(loadedIndex(t), nil, nil, nil)
	req := validRequest()
	req.Count = 5
	baseline, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(baseline.Names) == 0 {
		t.Fatal("expected candidates")
	}

	favorites := &fakeFavoritesRepo{}
	for _, name := range baseline.Names {
		favorites.history = append(favorites.history, name.Fingerprint)
	}
	svc = New(loadedIndex(t), nil, favorites, nil)
	req.UserID = "u1"
	result, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.DegradedUniqueness && !result.InsufficientCandidates {
		t.Fatal("stored history should force a degradation flag on a tiny corpus")
	}
}

func TestGeneratePersonalizeUsesStoredSignals(t *testing.T) {
	favorites := &fakeFavoritesRepo{
		signals: []types.FavoriteSignal{{Tags: []string{"才华"}, TotalScore: 64}},
	}
	svc := New(loadedIndex(t), nil, favorites, nil)
	req := validRequest()
	req.Count = 4
	req.UserID = "u1"
	req.Personalize = true

	result, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Names) < 2 {
		t.Fatalf("names = %d, want several", len(result.Names))
	}
	leadHasTag := false
	for _, tag := range result.Names[0].Tags {
		if tag == "才华" {
			leadHasTag = true
		}
	}
	if !leadHasTag {
		t.Fatalf("personalized leader %s lacks the favorite tag", result.Names[0].GivenName)
	}
}

func TestSearchAppliesDefaults(t *testing.T) {
	names := &fakeNamesRepo{searchOut: []types.GeneratedName{{GivenName: "彦博"}}}
	svc := New(loadedIndex(t), names, nil, nil)

	out, err := svc.Search(context.Background(), types.SearchFilter{Keyword: "彦"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("results = %d, want 1", len(out))
	}
	if names.searched == nil || names.searched.Limit != defaultSearchLimit {
		t.Fatalf("default limit not applied: %#v", names.searched)
	}
}

func TestSearchRejectsBadLimit(t *testing.T) {
	names := &fakeNamesRepo{}
	svc := New(loadedIndex(t), names, nil, nil)

	_, err := svc.Search(context.Background(), types.SearchFilter{Limit: 101})
	verrs, ok := types.AsValidation(err)
	if !ok || verrs[0].Field != "limit" {
		t.Fatalf("expected limit validation error, got %v", err)
	}
	if names.searched != nil {
		t.Fatal("repository must not be queried on invalid input")
	}
}

func TestSimilarBuildsFeatureVector(t *testing.T) {
	names := &fakeNamesRepo{similarOut: []types.GeneratedName{{GivenName: "清扬"}}}
	svc := New(loadedIndex(t), names, nil, nil)

	out, err := svc.Similar(context.Background(), types.GeneratedName{
		GivenName: "彦博",
		Gender:    types.GenderMale,
		Wuxing:    types.WuxingAnalysis{WuxingPercentages: map[types.Element]float64{}},
	}, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("results = %d, want 1", len(out))
	}
	if len(names.similarIn) != 12 {
		t.Fatalf("similar query feature has %d dimensions", len(names.similarIn))
	}
}

func TestEnrichmentStatusWithoutEnricher(t *testing.T) {
	svc := New(loadedIndex(t), nil, nil, nil)
	if st := svc.EnrichmentStatus(); st.State != "disabled" {
		t.Fatalf("status = %#v, want disabled", st)
	}
}
