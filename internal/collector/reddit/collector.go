package reddit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"social-prospector-go/internal/collector"
	"social-prospector-go/internal/model"
	"social-prospector-go/internal/profile"
)

const hotLimit = 25

// Collector scans the profile's subreddits
type Collector struct {
	client        *Client
	profile       *profile.Profile
	postLimit     int
	checkComments bool
}

func NewCollector(client *Client, p *profile.Profile, postLimit int, checkComments bool) *Collector {
	if postLimit <= 0 {
		postLimit = 50
	}
	return &Collector{client: client, profile: p, postLimit: postLimit, checkComments: checkComments}
}

func (c *Collector) Name() string { return "reddit" }

// Collect reads new and hot posts of every subreddit, plus the comment trees
// of new posts whose title carries a keyword. A failing subreddit is skipped.
func (c *Collector) Collect(ctx context.Context) ([]collector.Candidate, error) {
	var out []collector.Candidate
	var errs []error
	for _, sub := range c.profile.Subreddits {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		found, err := c.scanSubreddit(ctx, sub)
		out = append(out, found...)
		if err != nil {
			logrus.Warnf("Error scanning r/%s: %v", sub, err)
			errs = append(errs, fmt.Errorf("r/%s: %w", sub, err))
		}
	}
	return out, errors.Join(errs...)
}

func (c *Collector) scanSubreddit(ctx context.Context, sub string) ([]collector.Candidate, error) {
	category := model.CategoryNational
	if c.profile.IsLocalSubreddit(sub) {
		category = model.CategoryLocal
	}

	var out []collector.Candidate
	var errs []error

	posts, err := c.client.Posts(ctx, sub, "new", c.postLimit)
	if err != nil {
		errs = append(errs, err)
	}
	for _, p := range posts {
		out = append(out, postCandidate(p, sub, category))
		if !c.checkComments || !c.titleHasKeyword(p.Title) {
			continue
		}
		if err := c.client.pause(ctx); err != nil {
			return out, err
		}
		comments, err := c.client.Comments(ctx, p.Permalink)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, cm := range comments {
			out = append(out, commentCandidate(cm, sub, category))
		}
	}

	if err := c.client.pause(ctx); err != nil {
		return out, err
	}
	hot, err := c.client.Posts(ctx, sub, "hot", hotLimit)
	if err != nil {
		errs = append(errs, err)
	}
	for _, p := range hot {
		out = append(out, postCandidate(p, sub, category))
	}
	return out, errors.Join(errs...)
}

func (c *Collector) titleHasKeyword(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range c.profile.Keywords {
		if strings.Contains(lower, kw.Phrase) {
			return true
		}
	}
	return false
}

// CompetitorCollector searches subreddits for competitor names
type CompetitorCollector struct {
	client  *Client
	profile *profile.Profile
}

func NewCompetitorCollector(client *Client, p *profile.Profile) *CompetitorCollector {
	return &CompetitorCollector{client: client, profile: p}
}

func (c *CompetitorCollector) Name() string { return "competitors" }

func (c *CompetitorCollector) Collect(ctx context.Context) ([]collector.Candidate, error) {
	subs := c.profile.CompetitorSubreddits
	if len(subs) == 0 {
		subs = c.profile.LocalSubreddits
	}

	var out []collector.Candidate
	var errs []error
	for _, sub := range subs {
		for _, name := range c.profile.Competitors {
			if err := c.client.pause(ctx); err != nil {
				return out, err
			}
			posts, err := c.client.Search(ctx, sub, fmt.Sprintf("%q", name), hotLimit)
			if err != nil {
				logrus.Warnf("Error searching r/%s for %s: %v", sub, name, err)
				errs = append(errs, err)
				continue
			}
			for _, p := range posts {
				cand := postCandidate(p, sub, model.CategoryNational)
				cand.Competitor = true
				out = append(out, cand)
			}
		}
	}
	return out, errors.Join(errs...)
}

func postCandidate(p Post, sub string, category model.Category) collector.Candidate {
	return collector.Candidate{
		Platform:    model.PlatformReddit,
		Text:        strings.TrimSpace(p.Title + " " + p.Selftext),
		Author:      p.Author,
		URL:         "https://reddit.com" + p.Permalink,
		SourceLabel: sub,
		Category:    category,
		PostedAt:    unix(p.CreatedUTC),
	}
}

func commentCandidate(cm Comment, sub string, category model.Category) collector.Candidate {
	return collector.Candidate{
		Platform:    model.PlatformReddit,
		Text:        cm.Body,
		Author:      cm.Author,
		URL:         "https://reddit.com" + cm.Permalink,
		SourceLabel: sub,
		Category:    category,
		PostedAt:    unix(cm.CreatedUTC),
	}
}

func unix(sec float64) time.Time {
	if sec <= 0 {
		return time.Now()
	}
	return time.Unix(int64(sec), 0).UTC()
}
