package profile

import (
	"fmt"
	"strings"
)

const (
	// DefaultNationalCap is the ceiling for national-source leads without a location mention
	DefaultNationalCap = 6
	// DefaultMinScore is the qualification threshold when a profile leaves it unset
	DefaultMinScore = 4
)

// Keyword is a weighted intent phrase
type Keyword struct {
	Phrase string `yaml:"phrase"`
	Weight int    `yaml:"weight"`
}

// Topic maps trigger words to a reply topic
type Topic struct {
	Name  string   `yaml:"name"`
	Match []string `yaml:"match"`
}

// ReplyTemplates holds text/template sources per intent tier
type ReplyTemplates struct {
	High   []string `yaml:"high"`
	Medium []string `yaml:"medium"`
	Low    []string `yaml:"low"`
}

// SearchQueries groups web search queries by the platform they target
type SearchQueries struct {
	Web        []string `yaml:"web"`
	Craigslist []string `yaml:"craigslist"`
	Facebook   []string `yaml:"facebook"`
}

// Profile is the industry configuration driving scoring, filtering and collection
type Profile struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`

	Keywords []Keyword `yaml:"keywords"`
	MinScore int       `yaml:"min_score"`

	Subreddits         []string `yaml:"subreddits"`
	LocalSubreddits    []string `yaml:"local_subreddits"`
	LocalRequiredTerms []string `yaml:"local_required_terms"`

	TargetLocations []string `yaml:"target_locations"`
	LocationBoost   int      `yaml:"location_boost"`
	// LocationFallbackScore is granted when a location and a trigger word appear
	// without any keyword; zero means LocationBoost+3
	LocationFallbackScore int      `yaml:"location_fallback_score"`
	LocationTriggers      []string `yaml:"location_triggers"`
	NationalCap           int      `yaml:"national_cap"`

	NegativeKeywords []string `yaml:"negative_keywords"`
	SellerSignals    []string `yaml:"seller_signals"`
	IgnoredAuthors   []string `yaml:"ignored_authors"`

	Competitors          []string `yaml:"competitors"`
	CompetitorSubreddits []string `yaml:"competitor_subreddits"`
	ComplaintPhrases     []string `yaml:"complaint_phrases"`

	YouTubeQueries []string      `yaml:"youtube_queries"`
	SearchQueries  SearchQueries `yaml:"search_queries"`

	DefaultTopic   string         `yaml:"default_topic"`
	Topics         []Topic        `yaml:"topics"`
	ReplyTemplates ReplyTemplates `yaml:"reply_templates"`
}

var defaultIgnoredAuthors = []string{"[deleted]", "[removed]", "AutoModerator"}

// Normalize lower-cases match lists and fills defaults. It is idempotent.
func (p *Profile) Normalize() {
	for i := range p.Keywords {
		p.Keywords[i].Phrase = strings.ToLower(strings.TrimSpace(p.Keywords[i].Phrase))
	}
	p.LocalRequiredTerms = lowerAll(p.LocalRequiredTerms)
	p.TargetLocations = lowerAll(p.TargetLocations)
	p.LocationTriggers = lowerAll(p.LocationTriggers)
	p.NegativeKeywords = lowerAll(p.NegativeKeywords)
	p.SellerSignals = lowerAll(p.SellerSignals)
	p.ComplaintPhrases = lowerAll(p.ComplaintPhrases)
	// competitor names keep their casing for note tags
	p.Competitors = trimAll(p.Competitors)
	for i := range p.Topics {
		p.Topics[i].Match = lowerAll(p.Topics[i].Match)
	}

	if p.MinScore == 0 {
		p.MinScore = DefaultMinScore
	}
	if p.NationalCap == 0 {
		p.NationalCap = DefaultNationalCap
	}
	if p.LocationFallbackScore == 0 && p.LocationBoost > 0 {
		p.LocationFallbackScore = p.LocationBoost + 3
	}
	if len(p.IgnoredAuthors) == 0 {
		p.IgnoredAuthors = append([]string(nil), defaultIgnoredAuthors...)
	}
}

// Validate checks that the profile can drive the scoring engine
func (p *Profile) Validate() error {
	if p.Slug == "" {
		return fmt.Errorf("profile slug is required")
	}
	if len(p.Keywords) == 0 {
		return fmt.Errorf("profile %s: at least one keyword is required", p.Slug)
	}
	seen := make(map[string]bool, len(p.Keywords))
	for _, kw := range p.Keywords {
		if kw.Phrase == "" {
			return fmt.Errorf("profile %s: empty keyword phrase", p.Slug)
		}
		if kw.Weight < 1 || kw.Weight > 10 {
			return fmt.Errorf("profile %s: keyword %q weight %d outside 1..10", p.Slug, kw.Phrase, kw.Weight)
		}
		if seen[kw.Phrase] {
			return fmt.Errorf("profile %s: duplicate keyword %q", p.Slug, kw.Phrase)
		}
		seen[kw.Phrase] = true
	}
	if p.MinScore < 0 || p.MinScore > 10 {
		return fmt.Errorf("profile %s: min score %d outside 0..10", p.Slug, p.MinScore)
	}
	if p.NationalCap < 0 || p.NationalCap > 10 {
		return fmt.Errorf("profile %s: national cap %d outside 0..10", p.Slug, p.NationalCap)
	}
	if p.LocationBoost < 0 || p.LocationBoost > 10 {
		return fmt.Errorf("profile %s: location boost %d outside 0..10", p.Slug, p.LocationBoost)
	}
	if len(p.ReplyTemplates.High)+len(p.ReplyTemplates.Medium)+len(p.ReplyTemplates.Low) == 0 {
		return fmt.Errorf("profile %s: reply templates are required", p.Slug)
	}
	return nil
}

// IsLocalSubreddit reports whether the subreddit is a geo-focused community
func (p *Profile) IsLocalSubreddit(name string) bool {
	for _, s := range p.LocalSubreddits {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// IsIgnoredAuthor reports whether author is a known non-lead account
func (p *Profile) IsIgnoredAuthor(author string) bool {
	if strings.TrimSpace(author) == "" {
		return true
	}
	for _, a := range p.IgnoredAuthors {
		if a == author {
			return true
		}
	}
	return false
}

// KeywordPhrases returns the keyword phrases in profile order
func (p *Profile) KeywordPhrases() []string {
	out := make([]string, 0, len(p.Keywords))
	for _, kw := range p.Keywords {
		out = append(out, kw.Phrase)
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
