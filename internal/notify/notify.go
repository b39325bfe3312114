package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"social-prospector-go/internal/model"
)

// Alert describes a high-intent lead worth an immediate look
type Alert struct {
	Username    string
	SourceLabel string
	Platform    model.Platform
	Score       int
	Excerpt     string
	URL         string
}

// Notifier delivers high-intent alerts
type Notifier interface {
	NotifyHighIntent(ctx context.Context, alert Alert) error
}

// Multi fans an alert out to every notifier and joins their errors
type Multi []Notifier

func (m Multi) NotifyHighIntent(ctx context.Context, alert Alert) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyHighIntent(ctx, alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards every alert
type Nop struct{}

func (Nop) NotifyHighIntent(context.Context, Alert) error { return nil }

func subject(a Alert) string {
	return fmt.Sprintf("High-intent lead (%d/10) in %s", a.Score, a.SourceLabel)
}

func plainBody(a Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d/10\n", a.Score)
	fmt.Fprintf(&b, "User: %s\n", a.Username)
	fmt.Fprintf(&b, "Source: %s (%s)\n", a.SourceLabel, a.Platform)
	fmt.Fprintf(&b, "Link: %s\n\n", a.URL)
	b.WriteString(model.Truncate(a.Excerpt, model.MaxExcerptLength))
	b.WriteString("\n")
	return b.String()
}
