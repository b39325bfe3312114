package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-prospector-go/internal/model"
	"social-prospector-go/internal/profile"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	p := &profile.Profile{
		Slug: "test",
		Keywords: []profile.Keyword{
			{Phrase: "looking for a contractor", Weight: 10},
			{Phrase: "need a remodeler", Weight: 10},
			{Phrase: "kitchen remodel", Weight: 7},
			{Phrase: "backsplash", Weight: 6},
			{Phrase: "houzz", Weight: 6},
			{Phrase: "gold price", Weight: 4},
		},
		TargetLocations:  []string{"Denver", "Boulder"},
		LocationBoost:    3,
		LocationTriggers: []string{"remodel", "contractor", "kitchen"},
		Competitors:      []string{"Home Depot", "Angi"},
		ComplaintPhrases: []string{"ripped off", "never again"},
		ReplyTemplates:   profile.ReplyTemplates{Low: []string{"x"}},
	}
	p.Normalize()
	require.NoError(t, p.Validate())
	return NewEngine(p)
}

func TestScoreKeywordLocationClamped(t *testing.T) {
	e := testEngine(t)
	res := e.Score("Looking for a contractor for a kitchen remodel in Denver", model.CategoryLocal)

	assert.Equal(t, 10, res.Score)
	assert.Equal(t, "looking for a contractor", res.Best)
	assert.Equal(t, "denver", res.Location)
	kws := res.Keywords()
	require.Len(t, kws, 2)
	assert.Equal(t, 10, kws[0].Weight)
	assert.Equal(t, 7, kws[1].Weight)
}

func TestScoreSingleKeywordNationalUnderCap(t *testing.T) {
	e := testEngine(t)
	res := e.Score("gold price today", model.CategoryNational)
	assert.Equal(t, 4, res.Score)
}

func TestScoreNoSignals(t *testing.T) {
	e := testEngine(t)
	res := e.Score("what a lovely afternoon", model.CategoryLocal)
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Matches)
}

func TestScoreDensityBonusCapped(t *testing.T) {
	e := testEngine(t)
	res := e.Score("kitchen remodel with a backsplash, saw it on houzz, gold price too", model.CategoryUnscoped)
	// 7 + min(4-1, 2)
	assert.Equal(t, 9, res.Score)

	res = e.Score("kitchen remodel backsplash", model.CategoryUnscoped)
	assert.Equal(t, 8, res.Score)
}

func TestScoreNationalCapWithoutLocation(t *testing.T) {
	e := testEngine(t)
	res := e.Score("Looking for a contractor, kitchen remodel", model.CategoryNational)
	assert.Equal(t, profile.DefaultNationalCap, res.Score)
	assert.Equal(t, KindCapped, res.Matches[len(res.Matches)-1].Kind)

	res = e.Score("Looking for a contractor in Boulder", model.CategoryNational)
	assert.Equal(t, 10, res.Score)

	res = e.Score("Looking for a contractor, kitchen remodel", model.CategoryUnscoped)
	assert.Equal(t, 10, res.Score)
}

func TestScoreLocationFallback(t *testing.T) {
	e := testEngine(t)
	res := e.Score("Any remodel folks around Denver?", model.CategoryNational)
	assert.Equal(t, 6, res.Score)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, KindFallback, res.Matches[0].Kind)

	res = e.Score("Moving to Denver next month", model.CategoryLocal)
	assert.Equal(t, 0, res.Score)
}

func TestScoreTieBreakFirstInProfileOrder(t *testing.T) {
	e := testEngine(t)
	res := e.Score("need a remodeler, looking for a contractor", model.CategoryLocal)
	assert.Equal(t, "looking for a contractor", res.Best)
}

func TestScoreDeterministicAndBounded(t *testing.T) {
	e := testEngine(t)
	texts := []string{
		"",
		"LOOKING FOR A CONTRACTOR denver boulder kitchen remodel backsplash houzz",
		"gold price",
		"random chatter",
	}
	for _, text := range texts {
		for _, cat := range []model.Category{model.CategoryLocal, model.CategoryNational, model.CategoryUnscoped} {
			a := e.Score(text, cat)
			b := e.Score(text, cat)
			assert.Equal(t, a, b)
			assert.GreaterOrEqual(t, a.Score, 0)
			assert.LessOrEqual(t, a.Score, MaxScore)
		}
	}
}

func TestScoreEmptyProfile(t *testing.T) {
	e := NewEngine(&profile.Profile{TargetLocations: []string{"denver"}, LocationBoost: 3, LocationFallbackScore: 6})
	res := e.Score("looking for a contractor in denver", model.CategoryLocal)
	assert.Equal(t, 0, res.Score)
	assert.Empty(t, res.Matches)
}

func TestCompetitorSignal(t *testing.T) {
	e := testEngine(t)

	sig := e.Competitor("Got ripped off by Home Depot installers")
	assert.True(t, sig.Complaint)
	assert.Equal(t, 10, sig.Score)
	assert.Equal(t, "[competitor_complaint:Home Depot]", sig.NoteTag())

	sig = e.Competitor("Anyone used Angi for a quote?")
	assert.False(t, sig.Complaint)
	assert.Equal(t, 6, sig.Score)
	assert.Equal(t, "[competitor_mention:Angi]", sig.NoteTag())

	sig = e.Competitor("nothing relevant here")
	assert.False(t, sig.Found())
	assert.Empty(t, sig.NoteTag())
}

func TestCompetitorIgnoresBlankNames(t *testing.T) {
	p := &profile.Profile{Slug: "x", Competitors: []string{"", "  "}, ComplaintPhrases: []string{"scammed"}}
	p.Normalize()
	assert.Empty(t, p.Competitors)

	e := NewEngine(&profile.Profile{Competitors: []string{""}})
	assert.False(t, e.Competitor("any text at all").Found())
}
