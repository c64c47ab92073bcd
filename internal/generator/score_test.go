package generator

import (
	"testing"

	"github.com/easeaico/shiming/internal/types"
)

func TestWuxingScoreBlendsBalanceAndCompleteness(t *testing.T) {
	counts := map[types.Element]int{
		types.ElementMu: 1, types.ElementHuo: 1,
	}
	// balance 40, completeness 2/5
	if got := WuxingScore(counts, 40); got != 40 {
		t.Fatalf("wuxing score = %v, want 40", got)
	}

	full := map[types.Element]int{
		types.ElementJin: 1, types.ElementMu: 1, types.ElementShui: 1,
		types.ElementHuo: 1, types.ElementTu: 1,
	}
	if got := WuxingScore(full, 100); got != 100 {
		t.Fatalf("wuxing score = %v, want 100", got)
	}

	if got := WuxingScore(map[types.Element]int{}, 0); got != 0 {
		t.Fatalf("wuxing score = %v, want 0", got)
	}
}

func TestCompositeWeighting(t *testing.T) {
	score := Composite(50, 100)
	if score.TotalScore != 70 {
		t.Fatalf("total = %v, want 70", score.TotalScore)
	}
	if score.WuxingScore != 50 || score.PhonologyScore != 100 {
		t.Fatalf("sub-scores lost: %#v", score)
	}
}

func TestCompositeClampsOutOfRangeInputs(t *testing.T) {
	score := Composite(150, -10)
	if score.WuxingScore != 100 || score.PhonologyScore != 0 {
		t.Fatalf("inputs not clamped: %#v", score)
	}
	if score.TotalScore < 0 || score.TotalScore > 100 {
		t.Fatalf("total out of range: %v", score.TotalScore)
	}
}

func TestGradeTiers(t *testing.T) {
	cases := []struct {
		total float64
		grade types.Grade
	}{
		{92, types.GradeS},
		{85, types.GradeS},
		{84.9, types.GradeA},
		{75, types.GradeA},
		{65, types.GradeB},
		{55, types.GradeC},
		{54.9, types.GradeD},
		{0, types.GradeD},
	}
	for _, c := range cases {
		grade, description := gradeFor(c.total)
		if grade != c.grade {
			t.Fatalf("gradeFor(%v) = %s, want %s", c.total, grade, c.grade)
		}
		if description == "" {
			t.Fatalf("gradeFor(%v) missing description", c.total)
		}
	}
}

func TestGradeMonotonic(t *testing.T) {
	order := map[types.Grade]int{
		types.GradeS: 5, types.GradeA: 4, types.GradeB: 3,
		types.GradeC: 2, types.GradeD: 1,
	}
	prev := 6
	for total := 100.0; total >= 0; total -= 5 {
		grade, _ := gradeFor(total)
		if order[grade] > prev {
			t.Fatalf("grade rank increased as score fell at %v", total)
		}
		prev = order[grade]
	}
}
