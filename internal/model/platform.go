package model

import "fmt"

// Platform identifies the origin network of a lead
type Platform string

const (
	PlatformReddit     Platform = "reddit"
	PlatformYouTube    Platform = "youtube"
	PlatformCraigslist Platform = "craigslist"
	PlatformFacebook   Platform = "facebook"
	PlatformWeb        Platform = "web"
)

// Platforms lists every supported platform
var Platforms = []Platform{PlatformReddit, PlatformYouTube, PlatformCraigslist, PlatformFacebook, PlatformWeb}

// Valid reports whether p is a known platform
func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePlatform converts a raw string into a Platform
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown platform %q", s)
	}
	return p, nil
}

// Category describes the locality of the source a candidate was collected from
type Category string

const (
	// CategoryLocal is a geo-focused community (city subreddit, regional board)
	CategoryLocal Category = "local"
	// CategoryNational is a topic community with no geographic scope
	CategoryNational Category = "national"
	// CategoryUnscoped carries no locality information (search results, video comments)
	CategoryUnscoped Category = ""
)
