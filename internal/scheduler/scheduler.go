package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"social-prospector-go/internal/collector"
	"social-prospector-go/internal/metrics"
	"social-prospector-go/internal/qualify"
)

// ErrScanInProgress is returned when a scan is requested while another runs
var ErrScanInProgress = errors.New("scan already running")

// Processor qualifies one candidate
type Processor interface {
	Process(ctx context.Context, c collector.Candidate) qualify.Outcome
}

// CollectorReport summarises one collector's part of a scan
type CollectorReport struct {
	Collector  string        `json:"collector"`
	Candidates int           `json:"candidates"`
	Accepted   int           `json:"accepted"`
	Inserted   int           `json:"inserted"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// ScanResult summarises a full scan
type ScanResult struct {
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Inserted   int               `json:"inserted"`
	Collectors []CollectorReport `json:"collectors"`
}

// Status is a snapshot of the scheduler for the API
type Status struct {
	Running    bool        `json:"running"`
	Scanning   bool        `json:"scanning"`
	Interval   int         `json:"interval_minutes"`
	NextRun    time.Time   `json:"next_run,omitempty"`
	LastRun    time.Time   `json:"last_run,omitempty"`
	LastResult *ScanResult `json:"last_result,omitempty"`
}

// Scheduler runs periodic scans over the registered collectors
type Scheduler struct {
	cron            *cron.Cron
	entryID         cron.EntryID
	intervalMinutes int
	collectors      []collector.Collector
	pipeline        Processor
	lock            Lock
	metrics         *metrics.Metrics
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	isRunning       bool
	scanning        bool
	lastRun         time.Time
	lastResult      *ScanResult
	mu              sync.RWMutex
}

// NewScheduler creates a new scheduler. A nil lock guards within the process only.
func NewScheduler(intervalMinutes int, collectors []collector.Collector, pipeline Processor, lock Lock, m *metrics.Metrics) *Scheduler {
	if lock == nil {
		lock = &LocalLock{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:            cron.New(),
		intervalMinutes: intervalMinutes,
		collectors:      collectors,
		pipeline:        pipeline,
		lock:            lock,
		metrics:         m,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Start starts the periodic scan
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %dm", s.intervalMinutes), s.runScheduled)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true

	logrus.Infof("Scheduler started with interval: %d minutes", s.intervalMinutes)
	return nil
}

// Stop stops the periodic scan. A scan already in progress finishes.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.cron.Remove(s.entryID)
	ctx := s.cron.Stop()
	s.isRunning = false
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		logrus.Info("Scheduler stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Scheduler stop timeout, forcing shutdown")
	}
	return nil
}

// Shutdown stops the schedule, cancels in-flight scans and waits for them
func (s *Scheduler) Shutdown() {
	_ = s.Stop()
	s.cancel()
	s.wg.Wait()
}

// IsRunning returns whether the periodic scan is active
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *Scheduler) runScheduled() {
	if _, err := s.RunOnce(s.ctx); err != nil {
		if errors.Is(err, ErrScanInProgress) {
			logrus.Info("Skipping scheduled scan, a scan is already running")
			return
		}
		logrus.Errorf("Scheduled scan failed: %v", err)
	}
}

// RunOnce runs a full scan now unless one is already running
func (s *Scheduler) RunOnce(ctx context.Context) (*ScanResult, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer s.release()
	return s.scan(ctx), nil
}

// TriggerAsync starts a scan in the background. The guard is checked before
// returning so callers learn about a running scan immediately.
func (s *Scheduler) TriggerAsync() error {
	if err := s.acquire(s.ctx); err != nil {
		return err
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release()
		s.scan(s.ctx)
	}()
	return nil
}

func (s *Scheduler) acquire(ctx context.Context) error {
	ok, err := s.lock.TryLock(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrScanInProgress
	}
	s.mu.Lock()
	s.scanning = true
	s.mu.Unlock()
	return nil
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.scanning = false
	s.mu.Unlock()
	if err := s.lock.Unlock(context.Background()); err != nil {
		logrus.Errorf("Failed to release scan lock: %v", err)
	}
}

// scan runs every collector concurrently; one failing collector never
// affects the others
func (s *Scheduler) scan(ctx context.Context) *ScanResult {
	result := &ScanResult{StartedAt: time.Now(), Collectors: make([]CollectorReport, len(s.collectors))}
	logrus.Infof("Starting scan over %d collectors", len(s.collectors))

	var wg sync.WaitGroup
	for i, c := range s.collectors {
		wg.Add(1)
		go func(i int, c collector.Collector) {
			defer wg.Done()
			result.Collectors[i] = s.runCollector(ctx, c)
		}(i, c)
	}
	wg.Wait()

	result.FinishedAt = time.Now()
	for _, r := range result.Collectors {
		result.Inserted += r.Inserted
	}
	if s.metrics != nil {
		s.metrics.Scans.Inc()
		s.metrics.ScanDuration.Observe(result.FinishedAt.Sub(result.StartedAt).Seconds())
	}

	s.mu.Lock()
	s.lastRun = result.StartedAt
	s.lastResult = result
	s.mu.Unlock()

	logrus.Infof("Scan completed in %v, %d new leads", result.FinishedAt.Sub(result.StartedAt), result.Inserted)
	return result
}

func (s *Scheduler) runCollector(ctx context.Context, c collector.Collector) (report CollectorReport) {
	report.Collector = c.Name()
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			report.Error = fmt.Sprintf("panic: %v", r)
			logrus.Errorf("Collector %s panicked: %v", c.Name(), r)
			s.collectorFailed(c.Name())
		}
		report.Duration = time.Since(start)
	}()

	candidates, err := c.Collect(ctx)
	if err != nil {
		// partial results are still processed
		report.Error = err.Error()
		logrus.Warnf("Collector %s failed: %v", c.Name(), err)
		s.collectorFailed(c.Name())
	}
	report.Candidates = len(candidates)
	if s.metrics != nil {
		s.metrics.Candidates.WithLabelValues(c.Name()).Add(float64(len(candidates)))
	}

	for _, cand := range candidates {
		if ctx.Err() != nil {
			break
		}
		out := s.pipeline.Process(ctx, cand)
		if out.Accepted() {
			report.Accepted++
		}
		if out.Inserted {
			report.Inserted++
		}
	}
	return report
}

func (s *Scheduler) collectorFailed(name string) {
	if s.metrics != nil {
		s.metrics.CollectorFailures.WithLabelValues(name).Inc()
	}
}

// Status returns a snapshot for the API
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		Running:    s.isRunning,
		Scanning:   s.scanning,
		Interval:   s.intervalMinutes,
		LastRun:    s.lastRun,
		LastResult: s.lastResult,
	}
	if s.isRunning {
		st.NextRun = s.cron.Entry(s.entryID).Next
	}
	return st
}

// GetNextRun returns the time of the next scheduled run
func (s *Scheduler) GetNextRun() time.Time {
	return s.Status().NextRun
}

// GetLastRun returns the start time of the last scan
func (s *Scheduler) GetLastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

// Wait waits for in-flight scans to finish
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
