package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"tabletdash/internal/logx"
)

// Fetcher returns the current weather.
type Fetcher interface {
	Current(ctx context.Context) (Report, error)
}

// PollerConfig controls refresh cadence.
type PollerConfig struct {
	Interval time.Duration
	// MinManualGap throttles user-triggered refreshes.
	MinManualGap time.Duration
	Timeout      time.Duration
}

// Poller refreshes the weather on a schedule and keeps the last good report.
// Fetch errors are logged and the previous report stays visible.
type Poller struct {
	mu        sync.Mutex
	fetcher   Fetcher
	config    PollerConfig
	log       logx.Logger
	limiter   *rate.Limiter
	onUpdate  func(Report)
	last      Report
	hasReport bool
	scheduler *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc
	inflight  sync.WaitGroup
}

// NewPoller creates a stopped poller.
func NewPoller(fetcher Fetcher, config PollerConfig, log logx.Logger, onUpdate func(Report)) *Poller {
	if config.Interval <= 0 {
		config.Interval = 5 * time.Minute
	}
	if config.MinManualGap <= 0 {
		config.MinManualGap = 30 * time.Second
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Poller{
		fetcher:  fetcher,
		config:   config,
		log:      log.With(logx.String("component", "weather")),
		limiter:  rate.NewLimiter(rate.Every(config.MinManualGap), 1),
		onUpdate: onUpdate,
	}
}

// Start fetches once immediately and then on every interval.
func (poller *Poller) Start(ctx context.Context) error {
	poller.mu.Lock()
	if poller.scheduler != nil {
		poller.mu.Unlock()
		return nil
	}
	scheduler := cron.New()
	spec := fmt.Sprintf("@every %s", poller.config.Interval)
	if _, err := scheduler.AddFunc(spec, poller.refreshAsync); err != nil {
		poller.mu.Unlock()
		return fmt.Errorf("schedule weather poll: %w", err)
	}
	poller.ctx, poller.cancel = context.WithCancel(ctx)
	poller.scheduler = scheduler
	poller.mu.Unlock()

	scheduler.Start()
	poller.refreshAsync()
	return nil
}

// Stop halts the schedule, cancels in-flight fetches and waits for them.
func (poller *Poller) Stop() {
	poller.mu.Lock()
	scheduler := poller.scheduler
	if scheduler == nil {
		poller.mu.Unlock()
		return
	}
	poller.scheduler = nil
	poller.cancel()
	poller.cancel = nil
	poller.ctx = nil
	poller.mu.Unlock()

	<-scheduler.Stop().Done()
	poller.inflight.Wait()
}

// Refresh triggers a fetch unless one was requested too recently.
// It reports whether a fetch was started.
func (poller *Poller) Refresh() bool {
	if !poller.limiter.Allow() {
		poller.log.Debug("manual weather refresh throttled")
		return false
	}
	poller.refreshAsync()
	return true
}

// Last returns the most recent successful report.
func (poller *Poller) Last() (Report, bool) {
	poller.mu.Lock()
	defer poller.mu.Unlock()
	return poller.last, poller.hasReport
}

func (poller *Poller) refreshAsync() {
	poller.mu.Lock()
	ctx := poller.ctx
	if ctx == nil || ctx.Err() != nil {
		poller.mu.Unlock()
		return
	}
	poller.inflight.Add(1)
	poller.mu.Unlock()
	go func() {
		defer poller.inflight.Done()
		poller.fetch(ctx)
	}()
}

func (poller *Poller) fetch(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, poller.config.Timeout)
	defer cancel()

	report, err := poller.fetcher.Current(ctx)
	if err != nil {
		if parent.Err() == nil {
			poller.log.Warn("weather fetch failed", logx.Err(err))
		}
		return
	}

	poller.mu.Lock()
	poller.last = report
	poller.hasReport = true
	onUpdate := poller.onUpdate
	poller.mu.Unlock()

	poller.log.Debug("weather updated",
		logx.Int("temperature", report.Temperature),
		logx.String("condition", report.Condition),
	)
	if onUpdate != nil {
		onUpdate(report)
	}
}
