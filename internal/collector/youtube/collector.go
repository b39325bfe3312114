// Package youtube collects top-level comments from videos matching the
// profile's search queries.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"social-prospector-go/internal/collector"
	"social-prospector-go/internal/model"
	"social-prospector-go/internal/profile"
)

const (
	defaultVideosPerQuery   = 5
	defaultCommentsPerVideo = 50
)

// Collector searches videos per query and reads their comment threads
type Collector struct {
	service          *yt.Service
	profile          *profile.Profile
	videosPerQuery   int64
	commentsPerVideo int64
}

// NewService builds a YouTube Data API client authenticated with an API key
func NewService(ctx context.Context, apiKey string, opts ...option.ClientOption) (*yt.Service, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return svc, nil
}

func NewCollector(service *yt.Service, p *profile.Profile, videosPerQuery int) *Collector {
	if videosPerQuery <= 0 {
		videosPerQuery = defaultVideosPerQuery
	}
	return &Collector{
		service:          service,
		profile:          p,
		videosPerQuery:   int64(videosPerQuery),
		commentsPerVideo: defaultCommentsPerVideo,
	}
}

func (c *Collector) Name() string { return "youtube" }

// Collect runs every query; a failing query or video does not stop the rest
func (c *Collector) Collect(ctx context.Context) ([]collector.Candidate, error) {
	var out []collector.Candidate
	var errs []error
	seen := make(map[string]bool)

	for _, q := range c.profile.YouTubeQueries {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		resp, err := c.service.Search.List([]string{"snippet"}).
			Q(q).
			Type("video").
			Order("date").
			MaxResults(c.videosPerQuery).
			Context(ctx).
			Do()
		if err != nil {
			logrus.Warnf("YouTube search %q failed: %v", q, err)
			errs = append(errs, fmt.Errorf("search %q: %w", q, err))
			continue
		}
		for _, item := range resp.Items {
			if item.Id == nil || item.Id.VideoId == "" || seen[item.Id.VideoId] {
				continue
			}
			seen[item.Id.VideoId] = true
			title := ""
			if item.Snippet != nil {
				title = item.Snippet.Title
			}
			found, err := c.videoComments(ctx, item.Id.VideoId, title)
			out = append(out, found...)
			if err != nil {
				// comments disabled is common and not worth failing the scan
				logrus.Debugf("Skipping comments of video %s: %v", item.Id.VideoId, err)
			}
		}
	}
	return out, errors.Join(errs...)
}

func (c *Collector) videoComments(ctx context.Context, videoID, title string) ([]collector.Candidate, error) {
	resp, err := c.service.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		Order("time").
		TextFormat("plainText").
		MaxResults(c.commentsPerVideo).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	label := "YouTube"
	if title != "" {
		label = "YouTube: " + title
	}
	var out []collector.Candidate
	for _, th := range resp.Items {
		if th.Snippet == nil || th.Snippet.TopLevelComment == nil || th.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		s := th.Snippet.TopLevelComment.Snippet
		out = append(out, collector.Candidate{
			Platform:    model.PlatformYouTube,
			Text:        s.TextDisplay,
			Author:      s.AuthorDisplayName,
			URL:         commentURL(videoID, th.Id),
			SourceLabel: label,
			Category:    model.CategoryUnscoped,
			PostedAt:    published(s.PublishedAt),
		})
	}
	return out, nil
}

func commentURL(videoID, commentID string) string {
	u := "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
	if commentID != "" {
		u += "&lc=" + url.QueryEscape(commentID)
	}
	return u
}

func published(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Now()
	}
	return t.UTC()
}
