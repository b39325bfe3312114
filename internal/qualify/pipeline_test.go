package qualify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-prospector-go/internal/collector"
	"social-prospector-go/internal/metrics"
	"social-prospector-go/internal/model"
	"social-prospector-go/internal/notify"
	"social-prospector-go/internal/profile"
	"social-prospector-go/internal/reply"
	"social-prospector-go/internal/replyqueue"
	"social-prospector-go/internal/repository"
	"social-prospector-go/internal/scoring"
	"social-prospector-go/internal/testutil"
)

type recordingNotifier struct {
	alerts []notify.Alert
	err    error
}

func (r *recordingNotifier) NotifyHighIntent(_ context.Context, a notify.Alert) error {
	r.alerts = append(r.alerts, a)
	return r.err
}

type fixture struct {
	pipeline *Pipeline
	leads    *repository.LeadRepository
	queue    *replyqueue.Service
	notifier *recordingNotifier
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	p := &profile.Profile{
		Slug: "test",
		Keywords: []profile.Keyword{
			{Phrase: "looking for a contractor", Weight: 10},
			{Phrase: "kitchen remodel", Weight: 7},
			{Phrase: "backsplash", Weight: 5},
			{Phrase: "tile", Weight: 2},
			{Phrase: "quartz countertops", Weight: 6},
		},
		MinScore:           4,
		LocalSubreddits:    []string{"Denver"},
		LocalRequiredTerms: []string{"remodel", "contractor", "tile", "backsplash"},
		TargetLocations:    []string{"denver"},
		LocationBoost:      3,
		LocationTriggers:   []string{"remodel"},
		NegativeKeywords:   []string{"hair salon"},
		SellerSignals:      []string{"free estimate", "call us", "licensed and insured"},
		Competitors:        []string{"Angi"},
		ComplaintPhrases:   []string{"ripped off"},
		ReplyTemplates:     profile.ReplyTemplates{High: []string{"Happy to help with your {{.Topic}}"}},
		DefaultTopic:       "remodel",
	}
	p.Normalize()
	require.NoError(t, p.Validate())

	gdb := testutil.NewDB(t)
	leads := repository.NewLeadRepository(gdb)
	queue := replyqueue.NewService(repository.NewReplyQueueRepository(gdb))
	drafter, err := reply.NewDrafter(p)
	require.NoError(t, err)
	n := &recordingNotifier{}
	m := metrics.NewMetrics(prometheus.NewRegistry())

	return &fixture{
		pipeline: NewPipeline(p, scoring.NewEngine(p), leads, queue, drafter, n, m),
		leads:    leads,
		queue:    queue,
		notifier: n,
		metrics:  m,
	}
}

func candidate(text, url string) collector.Candidate {
	return collector.Candidate{
		Platform:    model.PlatformReddit,
		Text:        text,
		Author:      "homeowner42",
		URL:         url,
		SourceLabel: "r/Denver",
		Category:    model.CategoryLocal,
		PostedAt:    time.Now(),
	}
}

func TestHighIntentLeadStoredQueuedAndNotified(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out := f.pipeline.Process(ctx, candidate("Looking for a contractor for a kitchen remodel in Denver", "https://r/1"))
	require.True(t, out.Accepted())
	assert.True(t, out.Inserted)
	assert.Equal(t, 10, out.Score)
	assert.True(t, out.Queued)
	assert.True(t, out.Notified)

	items, err := f.queue.List(ctx, model.ReplyPending, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, out.LeadID, items[0].LeadID)
	assert.Equal(t, "https://r/1", items[0].TargetURL)
	assert.Equal(t, "Happy to help with your remodel", items[0].ReplyText)

	require.Len(t, f.notifier.alerts, 1)
	assert.Equal(t, 10, f.notifier.alerts[0].Score)
}

func TestDuplicateURLIsSilentNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.pipeline.Process(ctx, candidate("Looking for a contractor in Denver", "https://r/dup"))
	require.True(t, first.Inserted)

	second := f.pipeline.Process(ctx, candidate("kitchen remodel backsplash tile", "https://r/dup"))
	assert.True(t, second.Accepted())
	assert.False(t, second.Inserted)
	assert.False(t, second.Queued)
	assert.False(t, second.Notified)

	stored, err := f.leads.GetByURL(ctx, "https://r/dup")
	require.NoError(t, err)
	assert.Equal(t, first.Score, stored.IntentScore)
	assert.Len(t, f.notifier.alerts, 1)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.DuplicateLeads))
}

func TestMidScoreStoredWithoutSideEffects(t *testing.T) {
	f := newFixture(t)
	out := f.pipeline.Process(context.Background(), candidate("thinking about a backsplash", "https://r/mid"))
	require.True(t, out.Inserted)
	assert.Equal(t, 5, out.Score)
	assert.False(t, out.Queued)
	assert.False(t, out.Notified)
	assert.Empty(t, f.notifier.alerts)
}

func TestRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		c      collector.Candidate
		reason Reason
	}{
		{"empty", candidate("   ", "https://r/a"), ReasonEmpty},
		{"deleted author", func() collector.Candidate {
			c := candidate("Looking for a contractor", "https://r/b")
			c.Author = "[deleted]"
			return c
		}(), ReasonIgnoredAuthor},
		{"bot", func() collector.Candidate {
			c := candidate("Looking for a contractor", "https://r/c")
			c.Author = "AutoModerator"
			return c
		}(), ReasonIgnoredAuthor},
		{"negative", candidate("Looking for a contractor near my hair salon", "https://r/d"), ReasonNegative},
		{"seller", candidate("Kitchen remodel? Free estimate, call us today", "https://r/e"), ReasonSeller},
		{"not local", candidate("Best brunch spot downtown?", "https://r/f"), ReasonNotLocal},
		{"below threshold", candidate("new tile in the entry", "https://r/g"), ReasonBelowThreshold},
		{"nothing matched", func() collector.Candidate {
			c := candidate("Best brunch spot downtown?", "https://r/h")
			c.Category = model.CategoryNational
			return c
		}(), ReasonBelowThreshold},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := f.pipeline.Process(ctx, tc.c)
			assert.Equal(t, tc.reason, out.Reason)
			assert.False(t, out.Inserted)
		})
	}

	all, err := f.leads.List(ctx, repository.LeadFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.Rejections.WithLabelValues(string(ReasonSeller))))
}

func TestSingleSellerPhraseIsNoise(t *testing.T) {
	f := newFixture(t)
	out := f.pipeline.Process(context.Background(), candidate("Looking for a contractor, got one free estimate so far", "https://r/s"))
	assert.True(t, out.Inserted)
}

func TestLocalFilterOnlyForLocalSources(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	local := candidate("Anyone recommend quartz countertops", "https://r/l")
	out := f.pipeline.Process(ctx, local)
	assert.Equal(t, ReasonNotLocal, out.Reason)

	national := candidate("Anyone recommend quartz countertops", "https://r/n")
	national.Category = model.CategoryNational
	out = f.pipeline.Process(ctx, national)
	assert.True(t, out.Inserted)
	assert.Equal(t, 6, out.Score)
}

func TestNotificationFailureDoesNotAffectLead(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("smtp down")
	ctx := context.Background()

	out := f.pipeline.Process(ctx, candidate("Looking for a contractor in Denver", "https://r/nf"))
	assert.True(t, out.Inserted)
	assert.True(t, out.Queued)
	assert.False(t, out.Notified)

	_, err := f.leads.GetByURL(ctx, "https://r/nf")
	assert.NoError(t, err)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.NotifyFailures))
}

func TestCompetitorCandidateTagged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := candidate("Got ripped off by Angi, never again", "https://r/comp")
	c.Category = model.CategoryNational
	c.Competitor = true
	out := f.pipeline.Process(ctx, c)
	require.True(t, out.Inserted)
	assert.Equal(t, 10, out.Score)

	stored, err := f.leads.GetByURL(ctx, "https://r/comp")
	require.NoError(t, err)
	assert.Equal(t, "[competitor_complaint:Angi]", stored.Notes)

	mention := candidate("Used Angi last year", "https://r/comp2")
	mention.Competitor = true
	out = f.pipeline.Process(ctx, mention)
	assert.Equal(t, 6, out.Score)
	assert.False(t, out.Queued)
}
