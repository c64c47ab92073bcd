package recommend

import (
	"testing"

	"github.com/easeaico/shiming/internal/types"
)

func favoriteOf(tags []string, elements map[types.Element]float64, score float64) types.FavoriteSignal {
	return types.FavoriteSignal{Tags: tags, Elements: elements, TotalScore: score}
}

func namedCandidate(given string, tags []string, score float64) types.GeneratedName {
	return types.GeneratedName{
		GivenName: given,
		Tags:      tags,
		Wuxing: types.WuxingAnalysis{
			WuxingPercentages: map[types.Element]float64{},
		},
		Score: types.NameScore{TotalScore: score},
	}
}

func TestBuildProfileEmpty(t *testing.T) {
	if p := BuildProfile(nil); p != nil {
		t.Fatalf("profile from no favorites = %#v, want nil", p)
	}
}

func TestBuildProfileNormalizesWeights(t *testing.T) {
	p := BuildProfile([]types.FavoriteSignal{
		favoriteOf([]string{"高雅", "聪慧"}, nil, 80),
		favoriteOf([]string{"高雅"}, nil, 70),
	})
	if p == nil {
		t.Fatal("profile missing")
	}
	if p.TagWeights["高雅"] <= p.TagWeights["聪慧"] {
		t.Fatalf("repeated tag should weigh more: %#v", p.TagWeights)
	}
	sum := 0.0
	for _, w := range p.TagWeights {
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		t.Fatalf("tag weights not normalized: %v", sum)
	}
	if p.AvgScore != 75 {
		t.Fatalf("avg score = %v, want 75", p.AvgScore)
	}
}

func TestRerankNilProfileKeepsOrder(t *testing.T) {
	names := []types.GeneratedName{
		namedCandidate("甲一", nil, 60),
		namedCandidate("乙二", nil, 90),
	}
	Rerank(names, nil)
	if names[0].GivenName != "甲一" || names[1].GivenName != "乙二" {
		t.Fatalf("nil profile changed order: %v %v", names[0].GivenName, names[1].GivenName)
	}
}

func TestRerankBoostsTagOverlapWithoutDropping(t *testing.T) {
	names := []types.GeneratedName{
		namedCandidate("无关", []string{"山水"}, 72),
		namedCandidate("合意", []string{"高雅"}, 70),
	}
	profile := BuildProfile([]types.FavoriteSignal{
		favoriteOf([]string{"高雅"}, nil, 70),
	})

	Rerank(names, profile)
	if len(names) != 2 {
		t.Fatalf("rerank dropped candidates: %d", len(names))
	}
	if names[0].GivenName != "合意" {
		t.Fatalf("tag-matching candidate should lead, got %s", names[0].GivenName)
	}
}

func TestRerankPenalizesFarScores(t *testing.T) {
	names := []types.GeneratedName{
		namedCandidate("极高", nil, 100),
		namedCandidate("接近", nil, 72),
	}
	profile := BuildProfile([]types.FavoriteSignal{
		favoriteOf(nil, nil, 70),
	})

	Rerank(names, profile)
	if names[0].GivenName != "接近" {
		t.Fatalf("candidate near the favorite score band should lead, got %s", names[0].GivenName)
	}
}

func TestFeatureShape(t *testing.T) {
	name := types.GeneratedName{
		GivenName: "彦博",
		Gender:    types.GenderMale,
		Wuxing: types.WuxingAnalysis{
			WuxingPercentages: map[types.Element]float64{
				types.ElementMu: 50, types.ElementHuo: 50,
			},
		},
		Phonology: types.PhonologyAnalysis{
			Tone: &types.ToneAnalysis{
				ToneCounts: map[types.Tone]int{
					types.TonePing: 2, types.ToneQu: 1,
				},
			},
		},
		Score: types.NameScore{TotalScore: 64},
	}

	vec := Feature(name)
	if len(vec) != FeatureDimensions {
		t.Fatalf("feature has %d dimensions, want %d", len(vec), FeatureDimensions)
	}
	if vec[0] != 1 {
		t.Fatalf("gender flag = %v, want 1", vec[0])
	}
	if vec[1] != 2 {
		t.Fatalf("length dimension = %v, want 2", vec[1])
	}
	// element order: jin, mu, shui, huo, tu
	if vec[3] != 0.5 || vec[5] != 0.5 {
		t.Fatalf("element shares wrong: %v", vec)
	}
	// tone order: ping, shang, qu, ru
	if vec[7] != 2 || vec[9] != 1 {
		t.Fatalf("tone counts wrong: %v", vec)
	}
	if vec[11] != 0.64 {
		t.Fatalf("score dimension = %v, want 0.64", vec[11])
	}

	again := Feature(name)
	for i := range vec {
		if vec[i] != again[i] {
			t.Fatalf("feature not deterministic at %d", i)
		}
	}
}

func TestSignalFromName(t *testing.T) {
	name := types.GeneratedName{
		Tags: []string{"才华"},
		Wuxing: types.WuxingAnalysis{
			WuxingPercentages: map[types.Element]float64{types.ElementMu: 100},
		},
		Score: types.NameScore{TotalScore: 80},
	}
	signal := SignalFrom(name)
	if signal.TotalScore != 80 || len(signal.Tags) != 1 {
		t.Fatalf("unexpected signal: %#v", signal)
	}
	if signal.Elements[types.ElementMu] != 1 {
		t.Fatalf("element share = %v, want 1", signal.Elements[types.ElementMu])
	}
}
