// Package websearch turns search-engine results for the profile's query
// groups into candidates. Each group targets one platform.
package websearch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"social-prospector-go/internal/collector"
	"social-prospector-go/internal/model"
	"social-prospector-go/internal/profile"
)

// skipDomains never carry homeowner requests
var skipDomains = []string{"amazon.com", "ebay.com", "wikipedia.org", "youtube.com", "twitter.com"}

var craigslistRegion = regexp.MustCompile(`^([a-z]+)\.craigslist\.`)

// Searcher runs one search query
type Searcher interface {
	Search(ctx context.Context, q string) ([]Result, error)
}

// Collector runs every query group of the profile
type Collector struct {
	search  Searcher
	profile *profile.Profile
	delay   time.Duration
}

func NewCollector(search Searcher, p *profile.Profile, delay time.Duration) *Collector {
	return &Collector{search: search, profile: p, delay: delay}
}

func (c *Collector) Name() string { return "websearch" }

type group struct {
	platform model.Platform
	queries  []string
}

func (c *Collector) Collect(ctx context.Context) ([]collector.Candidate, error) {
	groups := []group{
		{model.PlatformWeb, c.profile.SearchQueries.Web},
		{model.PlatformCraigslist, c.profile.SearchQueries.Craigslist},
		{model.PlatformFacebook, c.profile.SearchQueries.Facebook},
	}

	var out []collector.Candidate
	var errs []error
	seen := make(map[string]bool)
	first := true

	for _, g := range groups {
		for _, q := range g.queries {
			if !first {
				if err := sleep(ctx, c.delay); err != nil {
					return out, err
				}
			}
			first = false

			results, err := c.search.Search(ctx, q)
			if err != nil {
				logrus.Warnf("Search %q failed: %v", q, err)
				errs = append(errs, fmt.Errorf("%s query %q: %w", g.platform, q, err))
				continue
			}
			for _, r := range results {
				if r.URL == "" || r.Title == "" || seen[r.URL] {
					continue
				}
				seen[r.URL] = true
				if cand, ok := toCandidate(g.platform, r); ok {
					out = append(out, cand)
				}
			}
		}
	}
	return out, errors.Join(errs...)
}

func toCandidate(platform model.Platform, r Result) (collector.Candidate, bool) {
	u, err := url.Parse(r.URL)
	if err != nil || u.Host == "" {
		return collector.Candidate{}, false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if platform == model.PlatformWeb {
		for _, d := range skipDomains {
			if strings.Contains(host, d) {
				return collector.Candidate{}, false
			}
		}
	}

	author, label := host, host
	switch platform {
	case model.PlatformCraigslist:
		region := "unknown"
		if m := craigslistRegion.FindStringSubmatch(host); m != nil {
			region = m[1]
		}
		author, label = "cl/"+region, "craigslist-"+region
	case model.PlatformFacebook:
		author, label = "facebook", "facebook-groups"
	}

	return collector.Candidate{
		Platform:    platform,
		Text:        strings.TrimSpace(r.Title + " " + r.Description),
		Author:      author,
		URL:         r.URL,
		SourceLabel: label,
		Category:    model.CategoryUnscoped,
		PostedAt:    time.Now().UTC(),
	}, true
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
