package app

import (
	"context"

	"social-prospector-go/internal/collector"
	"social-prospector-go/internal/collector/mailbox"
	"social-prospector-go/internal/collector/reddit"
	"social-prospector-go/internal/collector/websearch"
	"social-prospector-go/internal/collector/youtube"
	"social-prospector-go/internal/config"
	"social-prospector-go/internal/profile"
)

// collectorRegistry registers every collector; the unconfigured ones build to nil
func collectorRegistry(ctx context.Context, cfg *config.Config, p *profile.Profile) *collector.Registry {
	r := collector.NewRegistry()

	redditClient := reddit.NewClient("", cfg.Reddit.UserAgent, cfg.Scanner.RequestDelay)
	r.Register("reddit", func() (collector.Collector, error) {
		if len(p.Subreddits) == 0 {
			return nil, nil
		}
		return reddit.NewCollector(redditClient, p, cfg.Scanner.PostLimit, cfg.Scanner.CheckComments), nil
	})
	r.Register("competitors", func() (collector.Collector, error) {
		if len(p.Competitors) == 0 {
			return nil, nil
		}
		return reddit.NewCompetitorCollector(redditClient, p), nil
	})
	r.Register("youtube", func() (collector.Collector, error) {
		if cfg.YouTube.APIKey == "" || len(p.YouTubeQueries) == 0 {
			return nil, nil
		}
		svc, err := youtube.NewService(ctx, cfg.YouTube.APIKey)
		if err != nil {
			return nil, err
		}
		return youtube.NewCollector(svc, p, int(cfg.YouTube.MaxResults)), nil
	})
	r.Register("websearch", func() (collector.Collector, error) {
		if cfg.Brave.APIKey == "" {
			return nil, nil
		}
		client := websearch.NewClient(cfg.Brave.APIKey, cfg.Brave.BaseURL, cfg.Brave.Count)
		return websearch.NewCollector(client, p, cfg.Scanner.RequestDelay), nil
	})
	r.Register("mailbox", func() (collector.Collector, error) {
		if !cfg.Mailbox.Enabled {
			return nil, nil
		}
		return mailbox.NewCollector(mailbox.NewIMAPFetcher(cfg.Mailbox)), nil
	})
	return r
}
