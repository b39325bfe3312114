package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const braveBaseURL = "https://api.search.brave.com/res/v1/web/search"

// Result is one organic search hit
type Result struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Client calls the Brave Search web endpoint
type Client struct {
	apiKey  string
	baseURL string
	count   int
	http    *http.Client
}

func NewClient(apiKey, baseURL string, count int) *Client {
	if baseURL == "" {
		baseURL = braveBaseURL
	}
	if count <= 0 {
		count = 10
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		count:   count,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type searchResponse struct {
	Web struct {
		Results []Result `json:"results"`
	} `json:"web"`
}

// Search returns the web results for q
func (c *Client) Search(ctx context.Context, q string) ([]Result, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("count", strconv.Itoa(c.count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, body)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return out.Web.Results, nil
}
