package scoring

import (
	"strings"

	"social-prospector-go/internal/model"
	"social-prospector-go/internal/profile"
)

// MaxScore is the upper bound of every intent score
const MaxScore = 10

// MatchKind tells where a match came from
type MatchKind string

const (
	KindKeyword  MatchKind = "keyword"
	KindLocation MatchKind = "location"
	KindFallback MatchKind = "fallback"
	KindCapped   MatchKind = "national_cap"
)

// Match is one signal that contributed to a score
type Match struct {
	Term   string    `json:"term"`
	Weight int       `json:"weight"`
	Kind   MatchKind `json:"kind"`
}

// Result is the outcome of scoring one piece of text
type Result struct {
	Score   int     `json:"score"`
	Matches []Match `json:"matches"`
	// Best is the first keyword in profile order carrying the highest weight
	Best     string `json:"best,omitempty"`
	Location string `json:"location,omitempty"`
}

// Keywords returns only the keyword matches
func (r Result) Keywords() []Match {
	out := make([]Match, 0, len(r.Matches))
	for _, m := range r.Matches {
		if m.Kind == KindKeyword {
			out = append(out, m)
		}
	}
	return out
}

// Engine scores text against one profile. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	keywords    []profile.Keyword
	locations   []string
	triggers    []string
	boost       int
	fallback    int
	nationalCap int
	competitors []string
	complaints  []string
}

// NewEngine builds an engine from a normalized profile
func NewEngine(p *profile.Profile) *Engine {
	return &Engine{
		keywords:    append([]profile.Keyword(nil), p.Keywords...),
		locations:   append([]string(nil), p.TargetLocations...),
		triggers:    append([]string(nil), p.LocationTriggers...),
		boost:       p.LocationBoost,
		fallback:    p.LocationFallbackScore,
		nationalCap: p.NationalCap,
		competitors: append([]string(nil), p.Competitors...),
		complaints:  append([]string(nil), p.ComplaintPhrases...),
	}
}

// Score computes the intent score of text for a source category
func (e *Engine) Score(text string, category model.Category) Result {
	lower := strings.ToLower(text)
	res := Result{Matches: []Match{}}
	if len(e.keywords) == 0 || strings.TrimSpace(lower) == "" {
		return res
	}

	bestWeight := 0
	for _, kw := range e.keywords {
		if !strings.Contains(lower, kw.Phrase) {
			continue
		}
		res.Matches = append(res.Matches, Match{Term: kw.Phrase, Weight: kw.Weight, Kind: KindKeyword})
		if kw.Weight > bestWeight {
			bestWeight = kw.Weight
			res.Best = kw.Phrase
		}
	}
	res.Location = e.location(lower)

	if len(res.Matches) == 0 {
		if res.Location != "" && e.fallback > 0 && containsAny(lower, e.triggers) {
			res.Score = clamp(e.fallback)
			res.Matches = append(res.Matches, Match{Term: res.Location, Weight: e.fallback, Kind: KindFallback})
		}
		return res
	}

	score := bestWeight + min(len(res.Matches)-1, 2)
	if res.Location != "" {
		score += e.boost
		res.Matches = append(res.Matches, Match{Term: res.Location, Weight: e.boost, Kind: KindLocation})
	} else if category == model.CategoryNational && score > e.nationalCap {
		score = e.nationalCap
		res.Matches = append(res.Matches, Match{Term: "no target location", Weight: 0, Kind: KindCapped})
	}
	res.Score = clamp(score)
	return res
}

func (e *Engine) location(lower string) string {
	for _, loc := range e.locations {
		if strings.Contains(lower, loc) {
			return loc
		}
	}
	return ""
}

func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
