// Package mailbox turns saved-search alert emails (Craigslist searches,
// Facebook group digests) into candidates.
package mailbox

import (
	"context"
	"html"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"social-prospector-go/internal/collector"
	"social-prospector-go/internal/model"
)

var (
	linkPattern = regexp.MustCompile(`https?://[^\s"'<>()\]]+`)
	tagPattern  = regexp.MustCompile(`(?s)<[^>]*>`)
	spaces      = regexp.MustCompile(`\s+`)
)

// Collector emits one candidate per alert email that links to a known platform
type Collector struct {
	fetcher Fetcher
}

func NewCollector(f Fetcher) *Collector {
	return &Collector{fetcher: f}
}

func (c *Collector) Name() string { return "mailbox" }

func (c *Collector) Collect(ctx context.Context) ([]collector.Candidate, error) {
	emails, err := c.fetcher.FetchNewEmails(ctx)
	if err != nil {
		return nil, err
	}
	var out []collector.Candidate
	for _, e := range emails {
		cand, ok := toCandidate(e)
		if !ok {
			logrus.Debugf("Alert email %q has no platform link", e.Subject)
			continue
		}
		out = append(out, cand)
	}
	return out, nil
}

func toCandidate(e Email) (collector.Candidate, bool) {
	text := e.Body
	if strings.TrimSpace(text) == "" {
		text = stripHTML(e.HTMLBody)
	}
	link, platform, ok := firstPlatformLink(e.Body + "\n" + e.HTMLBody)
	if !ok {
		return collector.Candidate{}, false
	}

	author, label := sender(e.From), string(platform)
	switch platform {
	case model.PlatformCraigslist:
		region := strings.SplitN(hostOf(link), ".", 2)[0]
		author, label = "cl/"+region, "craigslist-"+region
	case model.PlatformFacebook:
		label = "facebook-groups"
	}

	posted := e.Date
	if posted.IsZero() {
		posted = time.Now().UTC()
	}
	return collector.Candidate{
		Platform:    platform,
		Text:        spaces.ReplaceAllString(strings.TrimSpace(e.Subject+" "+text), " "),
		Author:      author,
		URL:         link,
		SourceLabel: label,
		Category:    model.CategoryUnscoped,
		PostedAt:    posted,
	}, true
}

// firstPlatformLink finds the first link pointing at a post on a known platform
func firstPlatformLink(body string) (string, model.Platform, bool) {
	for _, raw := range linkPattern.FindAllString(body, -1) {
		link := html.UnescapeString(strings.TrimRight(raw, ".,;"))
		host := hostOf(link)
		switch {
		case strings.HasSuffix(host, "craigslist.org"):
			return link, model.PlatformCraigslist, true
		case host == "facebook.com" || strings.HasSuffix(host, ".facebook.com"):
			return link, model.PlatformFacebook, true
		case host == "reddit.com" || strings.HasSuffix(host, ".reddit.com"):
			return link, model.PlatformReddit, true
		}
	}
	return "", "", false
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func sender(from string) string {
	if i := strings.Index(from, "<"); i > 0 {
		return strings.Trim(strings.TrimSpace(from[:i]), `"`)
	}
	return from
}

func stripHTML(s string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(s, " "))
}
