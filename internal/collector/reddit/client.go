package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const publicBaseURL = "https://www.reddit.com"

// Client reads Reddit's public JSON listings
type Client struct {
	baseURL   string
	userAgent string
	delay     time.Duration
	http      *http.Client
}

func NewClient(baseURL, userAgent string, delay time.Duration) *Client {
	if baseURL == "" {
		baseURL = publicBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		delay:     delay,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

type listing struct {
	Data struct {
		Children []thing `json:"children"`
	} `json:"data"`
}

type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Post is a submission in a listing
type Post struct {
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Author     string  `json:"author"`
	Permalink  string  `json:"permalink"`
	CreatedUTC float64 `json:"created_utc"`
}

// Comment is one node of a comment tree
type Comment struct {
	Body       string          `json:"body"`
	Author     string          `json:"author"`
	Permalink  string          `json:"permalink"`
	CreatedUTC float64         `json:"created_utc"`
	Replies    json.RawMessage `json:"replies"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("request %s returned %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// Posts returns the posts of a subreddit listing (new, hot)
func (c *Client) Posts(ctx context.Context, subreddit, sort string, limit int) ([]Post, error) {
	var l listing
	params := url.Values{"limit": {fmt.Sprint(limit)}}
	if err := c.get(ctx, fmt.Sprintf("/r/%s/%s.json", subreddit, sort), params, &l); err != nil {
		return nil, err
	}
	return decodePosts(l), nil
}

// Search returns recent posts in a subreddit matching query
func (c *Client) Search(ctx context.Context, subreddit, query string, limit int) ([]Post, error) {
	var l listing
	params := url.Values{
		"q":           {query},
		"restrict_sr": {"on"},
		"sort":        {"new"},
		"t":           {"month"},
		"limit":       {fmt.Sprint(limit)},
	}
	if err := c.get(ctx, fmt.Sprintf("/r/%s/search.json", subreddit), params, &l); err != nil {
		return nil, err
	}
	return decodePosts(l), nil
}

// Comments returns every comment under a post, depth first
func (c *Client) Comments(ctx context.Context, permalink string) ([]Comment, error) {
	var pages []listing
	path := strings.TrimRight(permalink, "/") + ".json"
	if err := c.get(ctx, path, url.Values{"limit": {"100"}}, &pages); err != nil {
		return nil, err
	}
	if len(pages) < 2 {
		return nil, nil
	}
	return flattenComments(pages[1].Data.Children), nil
}

func decodePosts(l listing) []Post {
	out := make([]Post, 0, len(l.Data.Children))
	for _, t := range l.Data.Children {
		if t.Kind != "t3" {
			continue
		}
		var p Post
		if err := json.Unmarshal(t.Data, &p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func flattenComments(children []thing) []Comment {
	var out []Comment
	for _, t := range children {
		if t.Kind != "t1" {
			continue
		}
		var c Comment
		if err := json.Unmarshal(t.Data, &c); err != nil {
			continue
		}
		out = append(out, c)
		// replies is "" when there are none
		var nested listing
		if len(c.Replies) > 0 && c.Replies[0] == '{' && json.Unmarshal(c.Replies, &nested) == nil {
			out = append(out, flattenComments(nested.Data.Children)...)
		}
	}
	return out
}

// pause waits out the polite delay between requests
func (c *Client) pause(ctx context.Context) error {
	if c.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.delay):
		return nil
	}
}
