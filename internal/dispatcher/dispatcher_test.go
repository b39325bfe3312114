package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-prospector-go/internal/config"
	"social-prospector-go/internal/delivery"
	"social-prospector-go/internal/metrics"
	"social-prospector-go/internal/model"
	"social-prospector-go/internal/replyqueue"
	"social-prospector-go/internal/repository"
	"social-prospector-go/internal/testutil"
)

type fakePoster struct {
	mu     sync.Mutex
	err    error
	calls  []time.Time
	active int
	maxAct int
}

func (f *fakePoster) PostReply(ctx context.Context, _, _ string) error {
	f.mu.Lock()
	f.active++
	if f.active > f.maxAct {
		f.maxAct = f.active
	}
	f.calls = append(f.calls, time.Now())
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.active--
	f.mu.Unlock()
	return f.err
}

func (f *fakePoster) callTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.calls...)
}

func approvedItem(t *testing.T, svc *replyqueue.Service, leadID uint) *model.ReplyQueueItem {
	t.Helper()
	ctx := context.Background()
	item, err := svc.Enqueue(ctx, leadID, "reply text", "https://reddit.com/r/Denver/comments/abc/x/")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, item.ID, nil)
	require.NoError(t, err)
	return item
}

func newQueue(t *testing.T) *replyqueue.Service {
	return replyqueue.NewService(repository.NewReplyQueueRepository(testutil.NewDB(t)))
}

var fastConfig = config.DispatcherConfig{
	BaseDelay:    80 * time.Millisecond,
	IdleInterval: 10 * time.Millisecond,
	PostTimeout:  time.Second,
}

func TestDispatchOnceNoCredentials(t *testing.T) {
	svc := newQueue(t)
	item := approvedItem(t, svc, 1)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	d := NewDispatcher(svc, delivery.NewRedditPoster(config.RedditConfig{}), fastConfig, m)

	attempted, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, attempted)

	stored, err := svc.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReplyFailed, stored.Status)
	assert.NotEmpty(t, stored.ErrorMessage)
	assert.Nil(t, stored.PostedAt)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.DispatchOutcomes.WithLabelValues("no_credentials")))
}

func TestDispatchOncePlatformError(t *testing.T) {
	svc := newQueue(t)
	item := approvedItem(t, svc, 1)
	d := NewDispatcher(svc, &fakePoster{err: errors.New("THREAD_LOCKED")}, fastConfig, nil)

	_, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)

	stored, err := svc.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReplyFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, "THREAD_LOCKED")
}

func TestDispatchOnceSuccessAndIdle(t *testing.T) {
	svc := newQueue(t)
	item := approvedItem(t, svc, 1)
	d := NewDispatcher(svc, &fakePoster{}, fastConfig, nil)

	attempted, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, attempted)

	stored, err := svc.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReplyPosted, stored.Status)
	assert.NotNil(t, stored.PostedAt)

	attempted, err = d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, attempted)
	assert.Equal(t, "posted", d.Status().LastOutcome)
}

func TestDispatchSkipsPendingItems(t *testing.T) {
	svc := newQueue(t)
	_, err := svc.Enqueue(context.Background(), 1, "draft", "https://reddit.com/r/x/comments/1/")
	require.NoError(t, err)
	poster := &fakePoster{}
	d := NewDispatcher(svc, poster, fastConfig, nil)

	attempted, err := d.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, attempted)
	assert.Empty(t, poster.callTimes())
}

func TestLoopSpacesPostsByBaseDelay(t *testing.T) {
	svc := newQueue(t)
	first := approvedItem(t, svc, 1)
	second := approvedItem(t, svc, 2)
	poster := &fakePoster{}
	d := NewDispatcher(svc, poster, fastConfig, nil)

	d.Start()
	d.Start()
	defer d.Stop()
	assert.True(t, d.IsRunning())

	require.Eventually(t, func() bool { return len(poster.callTimes()) == 2 }, 2*time.Second, 5*time.Millisecond)
	calls := poster.callTimes()
	assert.GreaterOrEqual(t, calls[1].Sub(calls[0]), fastConfig.BaseDelay)

	poster.mu.Lock()
	assert.Equal(t, 1, poster.maxAct)
	poster.mu.Unlock()

	for _, id := range []uint{first.ID, second.ID} {
		id := id
		require.Eventually(t, func() bool {
			item, err := svc.Get(context.Background(), id)
			return err == nil && item.Status == model.ReplyPosted
		}, time.Second, 5*time.Millisecond)
	}
}

func TestStopEndsLoop(t *testing.T) {
	d := NewDispatcher(newQueue(t), &fakePoster{}, fastConfig, nil)
	d.Start()
	d.Stop()
	d.Wait()
	assert.False(t, d.IsRunning())
	assert.False(t, d.Status().Running)

	d.Stop()
	d.Start()
	assert.True(t, d.IsRunning())
	d.Stop()
}

// blockingPoster holds the post open until released or its context ends
type blockingPoster struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingPoster) PostReply(ctx context.Context, _, _ string) error {
	close(b.started)
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestStopDuringPostRecordsOutcome(t *testing.T) {
	svc := newQueue(t)
	item := approvedItem(t, svc, 1)
	poster := &blockingPoster{started: make(chan struct{}), release: make(chan struct{})}
	d := NewDispatcher(svc, poster, fastConfig, nil)

	d.Start()
	select {
	case <-poster.started:
	case <-time.After(2 * time.Second):
		t.Fatal("post never started")
	}

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()

	// Stop waits for the in-flight post rather than cancelling it
	select {
	case <-stopped:
		t.Fatal("Stop returned while the post was in flight")
	case <-time.After(50 * time.Millisecond):
	}
	close(poster.release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the post finished")
	}

	stored, err := svc.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReplyPosted, stored.Status)
	assert.NotNil(t, stored.PostedAt)
}

func TestCancelledContextStillRecordsFailure(t *testing.T) {
	svc := newQueue(t)
	item := approvedItem(t, svc, 1)
	d := NewDispatcher(svc, &fakePoster{err: errors.New("upstream closed")}, fastConfig, nil)

	ctx, cancel := context.WithCancel(context.Background())
	d.queue = cancelAfterFetch{Queue: svc, cancel: cancel}

	attempted, err := d.DispatchOnce(ctx)
	require.NoError(t, err)
	assert.True(t, attempted)

	stored, err := svc.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReplyFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, "upstream closed")
}

// cancelAfterFetch cancels the caller's context as soon as an item is handed out
type cancelAfterFetch struct {
	Queue
	cancel context.CancelFunc
}

func (c cancelAfterFetch) NextApproved(ctx context.Context) (*model.ReplyQueueItem, error) {
	item, err := c.Queue.NextApproved(ctx)
	c.cancel()
	return item, err
}

func TestJitterBounded(t *testing.T) {
	d := NewDispatcher(nil, nil, fastConfig, nil)
	for i := 0; i < 100; i++ {
		j := d.jitter(60 * time.Second)
		assert.GreaterOrEqual(t, j, time.Duration(0))
		assert.LessOrEqual(t, j, 60*time.Second)
	}
	assert.Equal(t, time.Duration(0), d.jitter(0))
}
