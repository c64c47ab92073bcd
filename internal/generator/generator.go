// Package generator turns a corpus snapshot and a generation request into
// ranked, scored, deduplicated name candidates.
package generator

import (
	"log/slog"
	"math/rand"
	"sort"
	"sync"

	"github.com/easeaico/shiming/internal/bagua"
	"github.com/easeaico/shiming/internal/corpus"
	"github.com/easeaico/shiming/internal/phonology"
	"github.com/easeaico/shiming/internal/types"
	"github.com/easeaico/shiming/internal/wuxing"
)

// maxMeaningParts caps how many per-character meanings join into the summary.
const maxMeaningParts = 3

// maxTags caps the tag union carried on a candidate.
const maxTags = 5

// Generator is stateless; every call is a pure function of the snapshot, the
// request, and the seed.
type Generator struct{}

// New returns a Generator.
func New() *Generator { return &Generator{} }

var (
	defaultSeedMu sync.Mutex
	defaultSeed   = rand.New(rand.NewSource(rand.Int63()))
)

// attempt is one rung of the fixed relaxation ladder.
type attempt struct {
	useTags     bool
	widenGender bool
	crossLine   bool
}

// ladder relaxes in the fixed order: drop tag boosting, widen the gender
// filter, allow cross-line stitching.
var ladder = []attempt{
	{useTags: true},
	{},
	{widenGender: true},
	{widenGender: true, crossLine: true},
}

// rawCandidate is an unscored given-name character run.
type rawCandidate struct {
	chars []*types.CharacterRecord
	entry *types.CorpusEntry
	pos   int
	boost int
}

// Generate runs the full pipeline against one snapshot. It only errors on
// request-level problems (an unknown surname); pool exhaustion degrades into
// result flags instead.
func (g *Generator) Generate(snap *corpus.Snapshot, req types.GenerationRequest) (types.GenerationResult, error) {
	rng := rand.New(rand.NewSource(seedFor(req)))

	surname, err := resolveSurname(snap, req, rng)
	if err != nil {
		return types.GenerationResult{}, err
	}

	history := make(map[string]bool, len(req.History))
	for _, fp := range req.History {
		history[fp] = true
	}

	batch := make(map[string]bool, req.Count)
	var accepted []rawCandidate
	var blocked []rawCandidate
	surnameGlyph := ""
	if surname != nil {
		surnameGlyph = surname.Glyph
	}

	accept := func(rc rawCandidate) bool {
		fp := Fingerprint(surnameGlyph, givenName(rc.chars), req.Gender)
		if batch[fp] {
			return false
		}
		if history[fp] {
			batch[fp] = true
			blocked = append(blocked, rc)
			return false
		}
		batch[fp] = true
		accepted = append(accepted, rc)
		return true
	}

	for _, att := range ladder {
		if len(accepted) >= req.Count {
			break
		}
		if att.crossLine {
			g.sampleStitched(rng, snap, req, att, req.Count-len(accepted), accept)
			continue
		}
		pool := g.pool(snap, req, att)
		sampleWeighted(rng, pool, req.Count-len(accepted), accept)
	}

	result := types.GenerationResult{}

	if len(accepted) < req.Count && len(blocked) > 0 {
		// Pool exhausted: permit history repeats rather than fail.
		result.DegradedUniqueness = true
		readmitted := 0
		for _, rc := range blocked {
			if len(accepted) >= req.Count {
				break
			}
			accepted = append(accepted, rc)
			readmitted++
		}
		slog.Warn("uniqueness degraded, history repeats permitted",
			"requested", req.Count, "repeats", readmitted)
	}
	if len(accepted) < req.Count {
		result.InsufficientCandidates = true
		slog.Warn("candidate pool exhausted after all relaxations",
			"requested", req.Count, "found", len(accepted))
	}

	names := make([]types.GeneratedName, 0, len(accepted))
	for _, rc := range accepted {
		name := g.build(surname, rc, req)
		name.Repeated = history[name.Fingerprint]
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		if names[i].Score.TotalScore != names[j].Score.TotalScore {
			return names[i].Score.TotalScore > names[j].Score.TotalScore
		}
		return names[i].Fingerprint < names[j].Fingerprint
	})
	result.Names = names
	return result, nil
}

// pool collects the single-line windows admissible under one relaxation rung,
// ordered by boost then corpus position.
func (g *Generator) pool(snap *corpus.Snapshot, req types.GenerationRequest, att attempt) []rawCandidate {
	windows := snap.Windows(req.Length, affinitySet(req.Gender, att.widenGender))
	windows = filterByTone(windows, req.TonePreference)

	pool := make([]rawCandidate, 0, len(windows))
	for _, w := range windows {
		rc := rawCandidate{chars: w.Chars, entry: w.Entry, pos: w.Pos}
		if att.useTags {
			rc.boost = tagBoost(w.Chars, req.MeaningTags)
		}
		pool = append(pool, rc)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].boost != pool[j].boost {
			return pool[i].boost > pool[j].boost
		}
		return pool[i].pos < pool[j].pos
	})
	return pool
}

// sampleWeighted draws without replacement, weighting each candidate by
// 1 + its tag boost, until need acceptances or the pool runs out.
func sampleWeighted(rng *rand.Rand, pool []rawCandidate, need int, accept func(rawCandidate) bool) {
	total := 0
	for _, rc := range pool {
		total += 1 + rc.boost
	}
	taken := 0
	for taken < need && len(pool) > 0 {
		pick := rng.Intn(total)
		idx := 0
		for i, rc := range pool {
			pick -= 1 + rc.boost
			if pick < 0 {
				idx = i
				break
			}
		}
		rc := pool[idx]
		total -= 1 + rc.boost
		pool = append(pool[:idx], pool[idx+1:]...)
		if accept(rc) {
			taken++
		}
	}
}

// sampleStitched builds candidates across corpus lines by chaining characters
// that share at least one semantic tag.
func (g *Generator) sampleStitched(rng *rand.Rand, snap *corpus.Snapshot, req types.GenerationRequest, att attempt, need int, accept func(rawCandidate) bool) {
	chars := snap.Characters(affinitySet(req.Gender, att.widenGender))
	chars = filterCharsByTone(chars, req.TonePreference)
	if len(chars) == 0 {
		return
	}

	byTag := make(map[string][]*types.CharacterRecord)
	for _, c := range chars {
		for _, tag := range c.Tags {
			byTag[tag] = append(byTag[tag], c)
		}
	}

	taken := 0
	for attempts := need*20 + 50; attempts > 0 && taken < need; attempts-- {
		seq := make([]*types.CharacterRecord, 0, req.Length)
		seq = append(seq, chars[rng.Intn(len(chars))])
		for len(seq) < req.Length {
			next := stitchNext(rng, seq[len(seq)-1], byTag)
			if next == nil {
				break
			}
			seq = append(seq, next)
		}
		if len(seq) != req.Length {
			continue
		}
		if accept(rawCandidate{chars: seq}) {
			taken++
		}
	}
}

func stitchNext(rng *rand.Rand, prev *types.CharacterRecord, byTag map[string][]*types.CharacterRecord) *types.CharacterRecord {
	var shared []*types.CharacterRecord
	for _, tag := range prev.Tags {
		for _, c := range byTag[tag] {
			if c.Glyph != prev.Glyph {
				shared = append(shared, c)
			}
		}
	}
	if len(shared) == 0 {
		return nil
	}
	return shared[rng.Intn(len(shared))]
}

// build assembles the scored result record for one raw candidate.
func (g *Generator) build(surname *types.Surname, rc rawCandidate, req types.GenerationRequest) types.GeneratedName {
	chars := make([]types.CharacterRecord, len(rc.chars))
	for i, c := range rc.chars {
		chars[i] = *c
	}
	given := givenName(rc.chars)

	wuxingAnalysis := wuxing.Analyze(chars, req.Birth)
	phonologyAnalysis := phonology.Analyze(surname, chars)
	suggestions := bagua.Suggest(wuxingAnalysis.WuxingPercentages)

	counts := wuxing.Counts(chars)
	score := Composite(
		WuxingScore(counts, wuxingAnalysis.BalanceScore),
		phonology.Score(phonologyAnalysis),
	)

	surnameGlyph, surnamePinyin := "", ""
	if surname != nil {
		surnameGlyph = surname.Glyph
		surnamePinyin = surname.Pinyin
	}

	return types.GeneratedName{
		FullName:    surnameGlyph + given,
		Surname:     surnameGlyph,
		GivenName:   given,
		Pinyin:      joinPinyin(surnamePinyin, chars),
		Gender:      req.Gender,
		Meaning:     meaningSummary(chars),
		Origin:      citationFor(rc).String(),
		Tags:        tagUnion(chars),
		Wuxing:      wuxingAnalysis,
		Phonology:   phonologyAnalysis,
		Bagua:       suggestions,
		Score:       score,
		Fingerprint: Fingerprint(surnameGlyph, given, req.Gender),
	}
}

func citationFor(rc rawCandidate) types.Citation {
	if rc.entry == nil {
		return types.Citation{}
	}
	return types.Citation{
		Work:    rc.entry.Work,
		Title:   rc.entry.Title,
		Section: rc.entry.Section,
		Line:    rc.entry.Line,
	}
}

func resolveSurname(snap *corpus.Snapshot, req types.GenerationRequest, rng *rand.Rand) (*types.Surname, error) {
	if req.Surname != "" {
		sn, ok := snap.Surname(req.Surname)
		if !ok {
			return nil, &types.ValidationError{Field: "surname", Message: "姓氏不在参考数据中"}
		}
		return &sn, nil
	}
	surnames := snap.Surnames()
	if len(surnames) == 0 {
		return nil, nil
	}
	sn := surnames[rng.Intn(len(surnames))]
	return &sn, nil
}

func seedFor(req types.GenerationRequest) int64 {
	if req.Seed != nil {
		return *req.Seed
	}
	defaultSeedMu.Lock()
	defer defaultSeedMu.Unlock()
	return defaultSeed.Int63()
}

// affinitySet returns the record affinities admissible for a gender; widening
// admits every affinity.
func affinitySet(gender types.Gender, widen bool) map[types.GenderAffinity]bool {
	if widen {
		return map[types.GenderAffinity]bool{
			types.AffinityMale: true, types.AffinityFemale: true,
			types.AffinityNeutral: true, types.AffinityAny: true,
		}
	}
	set := map[types.GenderAffinity]bool{
		types.AffinityNeutral: true,
		types.AffinityAny:     true,
	}
	if gender == types.GenderFemale {
		set[types.AffinityFemale] = true
	} else {
		set[types.AffinityMale] = true
	}
	return set
}

// filterByTone keeps windows whose characters all satisfy the tone
// preference, falling back to the unfiltered set when nothing survives.
func filterByTone(windows []corpus.Window, pref types.TonePreference) []corpus.Window {
	if pref == "" || pref == types.PreferUnknown {
		return windows
	}
	filtered := windows[:0:0]
	for _, w := range windows {
		ok := true
		for _, c := range w.Chars {
			if !phonology.MatchesPreference(c.Tone, pref) {
				ok = false
				break
			}
		}
		if ok {
			filtered = append(filtered, w)
		}
	}
	if len(filtered) == 0 {
		return windows
	}
	return filtered
}

func filterCharsByTone(chars []*types.CharacterRecord, pref types.TonePreference) []*types.CharacterRecord {
	if pref == "" || pref == types.PreferUnknown {
		return chars
	}
	filtered := chars[:0:0]
	for _, c := range chars {
		if phonology.MatchesPreference(c.Tone, pref) {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return chars
	}
	return filtered
}

func tagBoost(chars []*types.CharacterRecord, wanted []string) int {
	boost := 0
	for _, tag := range wanted {
		for _, c := range chars {
			if c.HasTag(tag) {
				boost++
				break
			}
		}
	}
	return boost
}

func givenName(chars []*types.CharacterRecord) string {
	out := ""
	for _, c := range chars {
		out += c.Glyph
	}
	return out
}

func joinPinyin(surnamePinyin string, chars []types.CharacterRecord) string {
	parts := make([]string, 0, len(chars)+1)
	if surnamePinyin != "" {
		parts = append(parts, surnamePinyin)
	}
	for _, c := range chars {
		parts = append(parts, c.Pinyin)
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

func meaningSummary(chars []types.CharacterRecord) string {
	parts := make([]string, 0, maxMeaningParts)
	for _, c := range chars {
		if c.Meaning == "" {
			continue
		}
		parts = append(parts, c.Meaning)
		if len(parts) == maxMeaningParts {
			break
		}
	}
	if len(parts) == 0 {
		return "诗意名字"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += "、" + p
	}
	return out
}

func tagUnion(chars []types.CharacterRecord) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, c := range chars {
		for _, tag := range c.Tags {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
			if len(tags) == maxTags {
				return tags
			}
		}
	}
	return tags
}
