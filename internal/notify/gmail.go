package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"social-prospector-go/internal/config"
)

const gmailMaxAttempts = 3

// GmailNotifier emails alerts through the Gmail API
type GmailNotifier struct {
	send      func(ctx context.Context, msg *gmail.Message) error
	userEmail string
	to        string
	backoff   func(attempt int) time.Duration
}

// NewGmailNotifier creates a notifier authorised by a stored refresh token
func NewGmailNotifier(ctx context.Context, cfg config.GmailConfig) (*GmailNotifier, error) {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{gmail.GmailSendScope},
		Endpoint:     google.Endpoint,
	}
	tokenSource := oauth2Config.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	user := cfg.UserEmail
	if user == "" {
		user = "me"
	}
	return &GmailNotifier{
		send: func(ctx context.Context, msg *gmail.Message) error {
			_, err := service.Users.Messages.Send(user, msg).Context(ctx).Do()
			return err
		},
		userEmail: cfg.UserEmail,
		to:        cfg.NotifyTo,
		backoff:   func(attempt int) time.Duration { return time.Duration(attempt*attempt) * time.Second },
	}, nil
}

// NotifyHighIntent sends the alert, retrying only on quota and rate errors
func (g *GmailNotifier) NotifyHighIntent(ctx context.Context, alert Alert) error {
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString([]byte(g.compose(alert)))}

	var lastErr error
	for attempt := 1; attempt <= gmailMaxAttempts; attempt++ {
		err := g.send(ctx, msg)
		if err == nil {
			logrus.Infof("Sent lead alert for %s to %s", alert.URL, g.to)
			return nil
		}
		lastErr = err
		logrus.Warnf("Failed to send lead alert (attempt %d/%d): %v", attempt, gmailMaxAttempts, err)

		if !strings.Contains(err.Error(), "quota") && !strings.Contains(err.Error(), "rate") {
			break
		}
		if attempt == gmailMaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.backoff(attempt)):
		}
	}
	return fmt.Errorf("failed to send lead alert: %w", lastErr)
}

func (g *GmailNotifier) compose(alert Alert) string {
	var b strings.Builder
	if g.userEmail != "" {
		b.WriteString(fmt.Sprintf("From: %s\r\n", g.userEmail))
	}
	b.WriteString(fmt.Sprintf("To: %s\r\n", g.to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", headerValue(subject(alert))))
	b.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(plainBody(alert), "\n", "\r\n"))
	return b.String()
}

// headerValue folds line breaks out of scraped text and encodes non-ASCII
// words per RFC 2047
func headerValue(s string) string {
	return mime.QEncoding.Encode("utf-8", strings.Join(strings.Fields(s), " "))
}
