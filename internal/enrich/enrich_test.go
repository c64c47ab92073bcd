package enrich

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/easeaico/shiming/internal/types"
)

func TestParseExplanation(t *testing.T) {
	out, err := parseExplanation(`{"explanation":"取自诗经，寓意才德出众"}`)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Explanation != "取自诗经，寓意才德出众" {
		t.Fatalf("unexpected explanation: %s", out.Explanation)
	}
}

func TestParseExplanationStripsSurroundingProse(t *testing.T) {
	raw := "```json\n{\"explanation\":\"水木清华之意\"}\n```"
	out, err := parseExplanation(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Explanation != "水木清华之意" {
		t.Fatalf("unexpected explanation: %s", out.Explanation)
	}
}

func TestParseExplanationRejectsGarbage(t *testing.T) {
	if _, err := parseExplanation("not json at all"); err == nil {
		t.Fatal("expected error for non-JSON output")
	}
	if _, err := parseExplanation(`{"explanation":"  "}`); err == nil {
		t.Fatal("expected error for blank explanation")
	}
}

func TestExplainerStatusTransitions(t *testing.T) {
	e := NewExplainer()
	if st := e.Status(); st.State != "disabled" || st.Configured {
		t.Fatalf("fresh explainer status = %#v", st)
	}

	if err := e.Configure(context.Background(), Config{Enabled: false}); err != nil {
		t.Fatalf("disabling must not error, got %v", err)
	}
	if st := e.Status(); st.State != "disabled" {
		t.Fatalf("disabled status = %#v", st)
	}
}

func TestConfigureRequiresKeyAndModel(t *testing.T) {
	e := NewExplainer()
	err := e.Configure(context.Background(), Config{Enabled: true, Model: "gpt-4o-mini"})
	if err == nil {
		t.Fatal("expected error without API key")
	}

	err = e.Configure(context.Background(), Config{Enabled: true, APIKey: "sk-test"})
	if err == nil {
		t.Fatal("expected error without model name")
	}
}

func TestEnrichUnconfigured(t *testing.T) {
	e := NewExplainer()
	name := types.GeneratedName{FullName: "王彦博"}
	if err := e.Enrich(context.Background(), &name); err == nil {
		t.Fatal("expected error from unconfigured explainer")
	}
	if name.Explanation != "" {
		t.Fatalf("explanation set despite failure: %s", name.Explanation)
	}
}

func TestBuildPromptCarriesContext(t *testing.T) {
	name := &types.GeneratedName{
		FullName: "王彦博",
		Pinyin:   "wang2 yan4 bo2",
		Origin:   "《诗经·小雅·彦博》：彦博",
		Meaning:  "才德出众、博学",
		Tags:     []string{"才华"},
		Score: types.NameScore{
			TotalScore: 64,
			Level:      types.GradeLevel{Grade: types.GradeC},
		},
	}
	prompt := buildPrompt(name)
	for _, want := range []string{"王彦博", "《诗经·小雅·彦博》", "才德出众", "才华", "64.0"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestConfigureDefaultsTimeout(t *testing.T) {
	e := NewExplainer()
	if err := e.Configure(context.Background(), Config{Enabled: false}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	e.mu.RLock()
	timeout := e.cfg.Timeout
	e.mu.RUnlock()
	if timeout != 15*time.Second {
		t.Fatalf("timeout = %v, want default 15s", timeout)
	}
}
