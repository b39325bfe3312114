// Package collector defines the candidate records platform adapters hand to
// the qualification pipeline.
package collector

import (
	"context"
	"time"

	"social-prospector-go/internal/model"
)

// Candidate is one piece of text pulled from a platform
type Candidate struct {
	Platform    model.Platform
	Text        string
	Author      string
	URL         string
	SourceLabel string
	Category    model.Category
	PostedAt    time.Time
	// Competitor marks candidates found by searching for competitor names;
	// they are scored on the competitor signal instead of keywords
	Competitor bool
}

// Collector pulls candidates from one source
type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]Candidate, error)
}
