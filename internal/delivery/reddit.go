package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"social-prospector-go/internal/config"
)

const (
	redditTokenURL = "https://www.reddit.com/api/v1/access_token"
	redditAPIBase  = "https://oauth.reddit.com"
	redditTimeout  = 30 * time.Second
)

// RedditPoster comments on posts and comments as the configured account
type RedditPoster struct {
	cfg     config.RedditConfig
	apiBase string
	oauth   *oauth2.Config
	client  *http.Client

	mu    sync.Mutex
	token *oauth2.Token
}

func NewRedditPoster(cfg config.RedditConfig) *RedditPoster {
	return newRedditPoster(cfg, redditTokenURL, redditAPIBase)
}

func newRedditPoster(cfg config.RedditConfig, tokenURL, apiBase string) *RedditPoster {
	p := &RedditPoster{
		cfg:     cfg,
		apiBase: strings.TrimRight(apiBase, "/"),
		client:  &http.Client{Timeout: redditTimeout},
	}
	if !cfg.HasCredentials() {
		return p
	}
	p.oauth = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInHeader},
	}
	return p
}

// accessToken returns the cached token or fetches a fresh one with the
// password grant, which issues no refresh token. The fetch is bound to ctx.
func (p *RedditPoster) accessToken(ctx context.Context) (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token.Valid() {
		return p.token, nil
	}
	tok, err := p.oauth.PasswordCredentialsToken(context.WithValue(ctx, oauth2.HTTPClient, p.client), p.cfg.Username, p.cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain reddit token: %w", err)
	}
	p.token = tok
	return tok, nil
}

type commentResponse struct {
	JSON struct {
		Errors [][]interface{} `json:"errors"`
	} `json:"json"`
}

// PostReply comments under the post or comment the permalink points at
func (p *RedditPoster) PostReply(ctx context.Context, targetURL, text string) error {
	if p.oauth == nil {
		return fmt.Errorf("reddit account not configured: %w", ErrCredentialsUnavailable)
	}
	thing, err := ThingID(targetURL)
	if err != nil {
		return err
	}
	tok, err := p.accessToken(ctx)
	if err != nil {
		return err
	}

	form := url.Values{"api_type": {"json"}, "thing_id": {thing}, "text": {text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiBase+"/api/comment", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build reddit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", p.cfg.UserAgent)
	tok.SetAuthHeader(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("reddit comment request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reddit returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var parsed commentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("failed to decode reddit response: %w", err)
	}
	if len(parsed.JSON.Errors) > 0 {
		return fmt.Errorf("reddit rejected comment: %v", parsed.JSON.Errors)
	}
	return nil
}

// ThingID converts a Reddit permalink into the fullname of the post (t3_) or
// comment (t1_) it points at
func ThingID(permalink string) (string, error) {
	u, err := url.Parse(permalink)
	if err != nil {
		return "", fmt.Errorf("invalid reddit url %q: %w", permalink, err)
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, s := range segs {
		if s != "comments" || i+1 >= len(segs) || segs[i+1] == "" {
			continue
		}
		if i+3 < len(segs) && segs[i+3] != "" {
			return "t1_" + segs[i+3], nil
		}
		return "t3_" + segs[i+1], nil
	}
	return "", fmt.Errorf("no post id in reddit url %q", permalink)
}
