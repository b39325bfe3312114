package reply

import (
	"fmt"
	"hash/fnv"
	"strings"
	"text/template"

	"social-prospector-go/internal/profile"
)

const (
	highIntentScore   = 8
	mediumIntentScore = 5
)

// Data is passed to every reply template
type Data struct {
	Username string
	Topic    string
	Source   string
	Score    int
}

// Drafter renders reply drafts from a profile's templates. Drafting is pure:
// the same lead always gets the same draft.
type Drafter struct {
	topics       []profile.Topic
	defaultTopic string
	high         []*template.Template
	medium       []*template.Template
	low          []*template.Template
}

func NewDrafter(p *profile.Profile) (*Drafter, error) {
	d := &Drafter{topics: p.Topics, defaultTopic: p.DefaultTopic}
	if d.defaultTopic == "" {
		d.defaultTopic = p.Name
	}

	var err error
	if d.high, err = parseAll("high", p.ReplyTemplates.High); err != nil {
		return nil, err
	}
	if d.medium, err = parseAll("medium", p.ReplyTemplates.Medium); err != nil {
		return nil, err
	}
	if d.low, err = parseAll("low", p.ReplyTemplates.Low); err != nil {
		return nil, err
	}
	if len(d.high)+len(d.medium)+len(d.low) == 0 {
		return nil, fmt.Errorf("profile %s has no reply templates", p.Slug)
	}
	return d, nil
}

func parseAll(tier string, sources []string) ([]*template.Template, error) {
	out := make([]*template.Template, 0, len(sources))
	for i, src := range sources {
		tmpl, err := template.New(fmt.Sprintf("%s-%d", tier, i)).Option("missingkey=error").Parse(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s reply template %d: %w", tier, i, err)
		}
		out = append(out, tmpl)
	}
	return out, nil
}

// Topic picks the first topic whose match words appear in content
func (d *Drafter) Topic(content string) string {
	lower := strings.ToLower(content)
	for _, t := range d.topics {
		for _, m := range t.Match {
			if strings.Contains(lower, m) {
				return t.Name
			}
		}
	}
	return d.defaultTopic
}

// Draft renders a reply for the lead
func (d *Drafter) Draft(username, content, sourceLabel string, score int) (string, error) {
	tier := d.tier(score)
	h := fnv.New32a()
	h.Write([]byte(username))
	h.Write([]byte{0})
	h.Write([]byte(content))
	tmpl := tier[int(h.Sum32()%uint32(len(tier)))]

	var b strings.Builder
	data := Data{Username: username, Topic: d.Topic(content), Source: sourceLabel, Score: score}
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render reply: %w", err)
	}
	return b.String(), nil
}

// tier returns the template set for score, falling back to the nearest
// non-empty tier
func (d *Drafter) tier(score int) []*template.Template {
	var order [][]*template.Template
	switch {
	case score >= highIntentScore:
		order = [][]*template.Template{d.high, d.medium, d.low}
	case score >= mediumIntentScore:
		order = [][]*template.Template{d.medium, d.high, d.low}
	default:
		order = [][]*template.Template{d.low, d.medium, d.high}
	}
	for _, set := range order {
		if len(set) > 0 {
			return set
		}
	}
	return nil
}
