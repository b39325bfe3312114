package mailbox

import (
	"context"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message"
	"github.com/sirupsen/logrus"

	"social-prospector-go/internal/config"
)

// Email is an alert message pulled from the inbox
type Email struct {
	ID       string
	Subject  string
	From     string
	Date     time.Time
	Body     string
	HTMLBody string
}

// Fetcher returns the messages received since the previous call
type Fetcher interface {
	FetchNewEmails(ctx context.Context) ([]Email, error)
}

// IMAPFetcher reads a mailbox folder over IMAP. It connects per fetch so a
// dropped connection between scans is never reused.
type IMAPFetcher struct {
	cfg       config.MailboxConfig
	mu        sync.Mutex
	lastCheck time.Time
}

func NewIMAPFetcher(cfg config.MailboxConfig) *IMAPFetcher {
	if cfg.Folder == "" {
		cfg.Folder = "INBOX"
	}
	return &IMAPFetcher{
		cfg:       cfg,
		lastCheck: time.Now().Add(-24 * time.Hour),
	}
}

// FetchNewEmails fetches messages since the last successful check
func (f *IMAPFetcher) FetchNewEmails(ctx context.Context) ([]Email, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, err := client.DialTLS(fmt.Sprintf("%s:%d", f.cfg.Host, f.cfg.Port), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to IMAP server: %w", err)
	}
	defer c.Logout()

	// unblock the IMAP calls if the scan is cancelled
	stop := context.AfterFunc(ctx, func() { _ = c.Terminate() })
	defer stop()

	if err := c.Login(f.cfg.User, f.cfg.Password); err != nil {
		return nil, fmt.Errorf("failed to login to IMAP server: %w", err)
	}
	if _, err := c.Select(f.cfg.Folder, true); err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", f.cfg.Folder, err)
	}

	started := time.Now()
	criteria := imap.NewSearchCriteria()
	criteria.Since = f.lastCheck
	seqNums, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	if len(seqNums) == 0 {
		f.lastCheck = started
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(seqNums...)
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, len(seqNums))
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	var emails []Email
	for msg := range messages {
		r := msg.GetBody(section)
		if r == nil {
			continue
		}
		email, err := ParseMessage(r)
		if err != nil {
			logrus.Warnf("Failed to parse IMAP message %d: %v", msg.Uid, err)
			continue
		}
		email.ID = fmt.Sprintf("%d", msg.Uid)
		if msg.Envelope != nil {
			if email.Subject == "" {
				email.Subject = msg.Envelope.Subject
			}
			if email.Date.IsZero() {
				email.Date = msg.Envelope.Date
			}
		}
		emails = append(emails, email)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	f.lastCheck = started
	return emails, nil
}

// ParseMessage reads an RFC 822 message, keeping the first plain and HTML parts
func ParseMessage(r io.Reader) (Email, error) {
	var email Email

	entity, err := message.Read(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return email, fmt.Errorf("failed to read message: %w", err)
	}

	h := entity.Header
	email.Subject = headerText(h, "Subject")
	email.From = headerText(h, "From")
	if d := h.Get("Date"); d != "" {
		if t, err := mail.ParseDate(d); err == nil {
			email.Date = t.UTC()
		}
	}

	err = entity.Walk(func(path []int, part *message.Entity, err error) error {
		if err != nil {
			return err
		}
		if part.MultipartReader() != nil {
			return nil
		}
		mediaType, _, _ := part.Header.ContentType()
		if mediaType != "" && mediaType != "text/plain" && mediaType != "text/html" {
			return nil
		}
		content, err := io.ReadAll(part.Body)
		if err != nil {
			return fmt.Errorf("failed to read part body: %w", err)
		}
		switch {
		case mediaType == "text/html" && email.HTMLBody == "":
			email.HTMLBody = string(content)
		case mediaType != "text/html" && email.Body == "":
			email.Body = string(content)
		}
		return nil
	})
	if err != nil {
		return email, err
	}
	return email, nil
}

func headerText(h message.Header, key string) string {
	v, err := h.Text(key)
	if err != nil {
		return h.Get(key)
	}
	return strings.TrimSpace(v)
}
