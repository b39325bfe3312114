package qualify

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"social-prospector-go/internal/collector"
	"social-prospector-go/internal/metrics"
	"social-prospector-go/internal/model"
	"social-prospector-go/internal/notify"
	"social-prospector-go/internal/profile"
	"social-prospector-go/internal/scoring"
)

const (
	// AutoQueueScore is the minimum score that gets an auto-drafted reply
	AutoQueueScore = 7
	// NotifyScore is the minimum score that triggers a high-intent alert
	NotifyScore = 8
	// sellerRejectCount distinct seller phrases mark a post as an advert
	sellerRejectCount = 2
)

// Reason explains why a candidate was not stored
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonEmpty          Reason = "empty"
	ReasonIgnoredAuthor  Reason = "ignored_author"
	ReasonNegative       Reason = "negative_keyword"
	ReasonSeller         Reason = "seller"
	ReasonNotLocal       Reason = "not_local"
	ReasonBelowThreshold Reason = "below_threshold"
	ReasonStoreError     Reason = "store_error"
)

// LeadStore persists qualified leads
type LeadStore interface {
	Insert(ctx context.Context, lead *model.Lead) (bool, error)
	AppendNoteTag(ctx context.Context, url, tag string) error
}

// Enqueuer adds auto-drafted replies to the queue
type Enqueuer interface {
	EnqueueAuto(ctx context.Context, leadID uint, text, targetURL string) (bool, error)
}

// Drafter renders a reply for a lead
type Drafter interface {
	Draft(username, content, sourceLabel string, score int) (string, error)
}

// Outcome reports what happened to one candidate
type Outcome struct {
	Reason   Reason
	Score    int
	Matches  []scoring.Match
	LeadID   uint
	Inserted bool
	Queued   bool
	Notified bool
}

// Accepted reports whether the candidate passed every filter
func (o Outcome) Accepted() bool { return o.Reason == ReasonNone }

// Pipeline filters, scores and stores candidates
type Pipeline struct {
	profile  *profile.Profile
	engine   *scoring.Engine
	leads    LeadStore
	queue    Enqueuer
	drafter  Drafter
	notifier notify.Notifier
	metrics  *metrics.Metrics
}

func NewPipeline(p *profile.Profile, engine *scoring.Engine, leads LeadStore, queue Enqueuer, drafter Drafter, notifier notify.Notifier, m *metrics.Metrics) *Pipeline {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Pipeline{
		profile:  p,
		engine:   engine,
		leads:    leads,
		queue:    queue,
		drafter:  drafter,
		notifier: notifier,
		metrics:  m,
	}
}

// Process runs one candidate through the filters. Store, queue and notifier
// failures are logged and never abort the caller's batch.
func (p *Pipeline) Process(ctx context.Context, c collector.Candidate) Outcome {
	text := strings.TrimSpace(c.Text)
	if text == "" || c.URL == "" {
		return p.reject(c, ReasonEmpty, 0)
	}
	lower := strings.ToLower(text)

	if p.profile.IsIgnoredAuthor(c.Author) {
		return p.reject(c, ReasonIgnoredAuthor, 0)
	}
	if containsAny(lower, p.profile.NegativeKeywords) {
		return p.reject(c, ReasonNegative, 0)
	}
	if countDistinct(lower, p.profile.SellerSignals) >= sellerRejectCount {
		return p.reject(c, ReasonSeller, 0)
	}
	if !c.Competitor && c.Category == model.CategoryLocal &&
		len(p.profile.LocalRequiredTerms) > 0 && !containsAny(lower, p.profile.LocalRequiredTerms) {
		return p.reject(c, ReasonNotLocal, 0)
	}

	var out Outcome
	var noteTag string
	if c.Competitor {
		sig := p.engine.Competitor(text)
		out.Score = sig.Score
		noteTag = sig.NoteTag()
	} else {
		res := p.engine.Score(text, c.Category)
		out.Score = res.Score
		out.Matches = res.Matches
	}
	if out.Score == 0 || out.Score < p.profile.MinScore {
		return p.reject(c, ReasonBelowThreshold, out.Score)
	}

	lead := &model.Lead{
		Platform:    c.Platform,
		Username:    c.Author,
		Content:     model.Truncate(text, model.MaxContentLength),
		URL:         c.URL,
		SourceLabel: c.SourceLabel,
		IntentScore: out.Score,
		FoundAt:     c.PostedAt,
	}
	inserted, err := p.leads.Insert(ctx, lead)
	if err != nil {
		logrus.WithError(err).WithField("url", c.URL).Error("Failed to store lead")
		out.Reason = ReasonStoreError
		return out
	}
	if !inserted {
		if p.metrics != nil {
			p.metrics.DuplicateLeads.Inc()
		}
		return out
	}

	out.Inserted = true
	out.LeadID = lead.ID
	if p.metrics != nil {
		p.metrics.LeadsInserted.WithLabelValues(string(c.Platform)).Inc()
	}
	log := logrus.WithFields(logrus.Fields{
		"lead_id":  lead.ID,
		"platform": c.Platform,
		"source":   c.SourceLabel,
		"score":    out.Score,
	})
	log.Info("New lead")

	if noteTag != "" {
		if err := p.leads.AppendNoteTag(ctx, c.URL, noteTag); err != nil {
			log.WithError(err).Warn("Failed to tag competitor lead")
		}
	}
	if out.Score >= AutoQueueScore {
		out.Queued = p.autoQueue(ctx, lead, log)
	}
	if out.Score >= NotifyScore {
		out.Notified = p.notify(ctx, lead, log)
	}
	return out
}

func (p *Pipeline) autoQueue(ctx context.Context, lead *model.Lead, log *logrus.Entry) bool {
	if p.queue == nil || p.drafter == nil {
		return false
	}
	text, err := p.drafter.Draft(lead.Username, lead.Content, lead.SourceLabel, lead.IntentScore)
	if err != nil {
		log.WithError(err).Warn("Failed to draft reply")
		return false
	}
	queued, err := p.queue.EnqueueAuto(ctx, lead.ID, text, lead.URL)
	if err != nil {
		log.WithError(err).Warn("Failed to queue reply")
		return false
	}
	if queued && p.metrics != nil {
		p.metrics.RepliesEnqueued.Inc()
	}
	return queued
}

func (p *Pipeline) notify(ctx context.Context, lead *model.Lead, log *logrus.Entry) bool {
	alert := notify.Alert{
		Username:    lead.Username,
		SourceLabel: lead.SourceLabel,
		Platform:    lead.Platform,
		Score:       lead.IntentScore,
		Excerpt:     model.Truncate(lead.Content, model.MaxExcerptLength),
		URL:         lead.URL,
	}
	if err := p.notifier.NotifyHighIntent(ctx, alert); err != nil {
		log.WithError(err).Warn("Failed to send high-intent notification")
		if p.metrics != nil {
			p.metrics.NotifyFailures.Inc()
		}
		return false
	}
	return true
}

func (p *Pipeline) reject(c collector.Candidate, reason Reason, score int) Outcome {
	if p.metrics != nil {
		p.metrics.Rejections.WithLabelValues(string(reason)).Inc()
	}
	logrus.WithFields(logrus.Fields{
		"url":    c.URL,
		"reason": reason,
		"score":  score,
	}).Debug("Candidate rejected")
	return Outcome{Reason: reason, Score: score}
}

func containsAny(lower string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func countDistinct(lower string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			n++
		}
	}
	return n
}
