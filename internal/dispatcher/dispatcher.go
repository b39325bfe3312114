package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"social-prospector-go/internal/config"
	"social-prospector-go/internal/delivery"
	"social-prospector-go/internal/metrics"
	"social-prospector-go/internal/model"
)

const defaultPostTimeout = 30 * time.Second

// Queue is the slice of the reply queue the dispatcher drains
type Queue interface {
	NextApproved(ctx context.Context) (*model.ReplyQueueItem, error)
	MarkPosted(ctx context.Context, id uint) error
	MarkFailed(ctx context.Context, id uint, cause error) error
}

// Status is a snapshot of the dispatcher for the API
type Status struct {
	Running     bool      `json:"running"`
	Attempts    int       `json:"attempts"`
	LastAttempt time.Time `json:"last_attempt,omitempty"`
	LastItemID  uint      `json:"last_item_id,omitempty"`
	LastOutcome string    `json:"last_outcome,omitempty"`
	NextCheck   time.Time `json:"next_check,omitempty"`
}

// Dispatcher posts approved replies one at a time with a rate-limit pause
// after every attempt
type Dispatcher struct {
	queue   Queue
	poster  delivery.Poster
	cfg     config.DispatcherConfig
	metrics *metrics.Metrics
	jitter  func(max time.Duration) time.Duration

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	status    Status
	mu        sync.RWMutex
}

func NewDispatcher(queue Queue, poster delivery.Poster, cfg config.DispatcherConfig, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		queue:   queue,
		poster:  poster,
		cfg:     cfg,
		metrics: m,
		jitter: func(max time.Duration) time.Duration {
			if max <= 0 {
				return 0
			}
			return time.Duration(rand.Int64N(int64(max) + 1))
		},
	}
}

// Start launches the drain loop. Starting a running dispatcher is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isRunning {
		logrus.Debug("Dispatcher already running")
		return
	}
	d.ctx, d.cancel = context.WithCancel(context.Background())
	d.isRunning = true
	d.status.Running = true

	d.wg.Add(1)
	go d.loop(d.ctx)
	logrus.Infof("Dispatcher started (base delay %v, jitter up to %v)", d.cfg.BaseDelay, d.cfg.Jitter)
}

// Stop ends the loop and waits for an in-flight post to finish. The post and
// the recording of its outcome are not cancelled.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.isRunning {
		d.mu.Unlock()
		return
	}
	d.cancel()
	d.isRunning = false
	d.status.Running = false
	d.mu.Unlock()

	d.wg.Wait()
	logrus.Info("Dispatcher stopped")
}

func (d *Dispatcher) IsRunning() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.isRunning
}

// Wait blocks until the loop has exited
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

func (d *Dispatcher) loop(ctx context.Context) {
	defer d.wg.Done()

	for {
		processed, err := d.DispatchOnce(ctx)
		if err != nil && ctx.Err() == nil {
			logrus.Errorf("Dispatcher iteration failed: %v", err)
		}

		wait := d.cfg.IdleInterval
		if processed {
			wait = d.cfg.BaseDelay + d.jitter(d.cfg.Jitter)
		}
		d.mu.Lock()
		d.status.NextCheck = time.Now().Add(wait)
		d.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// DispatchOnce attempts the oldest approved item. It reports whether an item
// was attempted; delivery failures are recorded on the item, not returned.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (bool, error) {
	item, err := d.queue.NextApproved(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to fetch approved reply: %w", err)
	}
	if item == nil {
		return false, nil
	}

	// once an item is picked up its attempt must reach posted or failed
	work := context.WithoutCancel(ctx)

	log := logrus.WithFields(logrus.Fields{"item_id": item.ID, "lead_id": item.LeadID, "target": item.TargetURL})
	postErr := d.post(work, item)

	outcome := "posted"
	var markErr error
	if postErr != nil {
		outcome = "failed"
		if errors.Is(postErr, delivery.ErrCredentialsUnavailable) {
			outcome = "no_credentials"
		}
		log.WithError(postErr).Warn("Reply delivery failed")
		markErr = d.queue.MarkFailed(work, item.ID, postErr)
	} else {
		log.Info("Reply posted")
		markErr = d.queue.MarkPosted(work, item.ID)
	}

	if d.metrics != nil {
		d.metrics.DispatchOutcomes.WithLabelValues(outcome).Inc()
	}
	d.mu.Lock()
	d.status.Attempts++
	d.status.LastAttempt = time.Now()
	d.status.LastItemID = item.ID
	d.status.LastOutcome = outcome
	d.mu.Unlock()

	if markErr != nil {
		return true, fmt.Errorf("failed to record outcome for item %d: %w", item.ID, markErr)
	}
	return true, nil
}

func (d *Dispatcher) post(ctx context.Context, item *model.ReplyQueueItem) error {
	if d.poster == nil {
		return fmt.Errorf("no poster configured: %w", delivery.ErrCredentialsUnavailable)
	}
	timeout := d.cfg.PostTimeout
	if timeout <= 0 {
		timeout = defaultPostTimeout
	}
	postCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return d.poster.PostReply(postCtx, item.TargetURL, item.ReplyText)
}
