package delivery

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrCredentialsUnavailable is returned when no account is configured for the target platform
	ErrCredentialsUnavailable = errors.New("posting credentials unavailable")
	// ErrUnsupportedTarget is returned when no poster handles the target URL
	ErrUnsupportedTarget = errors.New("unsupported reply target")
)

// Poster delivers a reply to the origin platform
type Poster interface {
	PostReply(ctx context.Context, targetURL, text string) error
}

// Router picks a poster by the target URL's host
type Router struct {
	posters map[string]Poster
}

func NewRouter() *Router {
	return &Router{posters: make(map[string]Poster)}
}

// Handle registers p for host and all of its subdomains
func (r *Router) Handle(host string, p Poster) *Router {
	r.posters[strings.ToLower(host)] = p
	return r
}

func (r *Router) PostReply(ctx context.Context, targetURL, text string) error {
	u, err := url.Parse(targetURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid target url %q: %w", targetURL, ErrUnsupportedTarget)
	}
	host := strings.ToLower(u.Hostname())
	for h, p := range r.posters {
		if host == h || strings.HasSuffix(host, "."+h) {
			return p.PostReply(ctx, targetURL, text)
		}
	}
	return fmt.Errorf("no poster for host %s: %w", host, ErrUnsupportedTarget)
}
