package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
	"github.com/couchcryptid/sentinel-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// MaxDays bounds the day window accepted by SetDays.
const MaxDays = 3650

// ErrInvalidDays is returned by SetDays for a window outside [1, MaxDays].
var ErrInvalidDays = fmt.Errorf("days must be between 1 and %d", MaxDays)

// Fetcher loads the two halves of a refresh cycle.
type Fetcher interface {
	FetchEvents(ctx context.Context, days int) (domain.Dataset, error)
	FetchStatus(ctx context.Context) (domain.SystemStatus, error)
}

// Publisher receives the events of every committed Ready snapshot.
type Publisher interface {
	Publish(ctx context.Context, events []domain.DisplayEvent) error
}

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	Days      int
	Interval  time.Duration
	Clock     clockwork.Clock
	Publisher Publisher
}

const (
	defaultDays     = 30
	defaultInterval = 5 * time.Minute
)

// Controller owns the dashboard state machine. Cycles run in their own
// goroutine; views read the current Snapshot without locking.
type Controller struct {
	fetcher   Fetcher
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	interval  time.Duration

	mu       sync.Mutex
	latest   uint64
	inFlight bool
	days     int

	snap   atomic.Pointer[Snapshot]
	ready  atomic.Bool
	cycles sync.WaitGroup
}

// New creates an idle Controller. No cycle starts until Refresh, Reload, or Run.
func New(f Fetcher, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Controller {
	if opts.Days <= 0 {
		opts.Days = defaultDays
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	c := &Controller{
		fetcher:   f,
		publisher: opts.Publisher,
		logger:    logger,
		metrics:   metrics,
		clock:     opts.Clock,
		interval:  opts.Interval,
		days:      opts.Days,
	}
	c.store(&Snapshot{State: StateIdle, Days: opts.Days})
	return c
}

// Snapshot returns the current committed state. The result is shared and
// must not be modified.
func (c *Controller) Snapshot() *Snapshot {
	return c.snap.Load()
}

// Days returns the day window used by the next cycle.
func (c *Controller) Days() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.days
}

// CheckReadiness returns nil once a Ready snapshot has been committed.
func (c *Controller) CheckReadiness(_ context.Context) error {
	if !c.ready.Load() {
		return errors.New("dashboard has not loaded any data yet")
	}
	return nil
}

// Refresh starts a cycle unless one is already in flight. It reports whether
// a cycle was started.
func (c *Controller) Refresh(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		c.metrics.RefreshCycles.WithLabelValues("skipped").Inc()
		c.logger.Debug("refresh skipped, cycle in flight", "token", c.latest)
		return false
	}
	c.startLocked(ctx)
	return true
}

// Reload starts a cycle regardless of state. A cycle still in flight is
// superseded and its result discarded.
func (c *Controller) Reload(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked(ctx)
}

// SetDays changes the day window and reloads.
func (c *Controller) SetDays(ctx context.Context, days int) error {
	if days < 1 || days > MaxDays {
		return ErrInvalidDays
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.days = days
	c.startLocked(ctx)
	return nil
}

// Wait blocks until every started cycle has finished.
func (c *Controller) Wait() {
	c.cycles.Wait()
}

// WaitContext is Wait bounded by ctx. Cycles run detached from their
// caller's context, so a slow fetch or publish can outlive a shutdown
// deadline; the abandoned cycles keep running until the process exits.
// Callers must stop starting cycles (Run returned, server shut down) first.
func (c *Controller) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.cycles.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for refresh cycles: %w", ctx.Err())
	}
}

// Run performs the initial load, then reloads every interval until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("dashboard controller started", "interval", c.interval, "days", c.Days())
	c.Reload(ctx)

	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("dashboard controller stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			c.Reload(ctx)
		}
	}
}

// startLocked must be called with c.mu held.
func (c *Controller) startLocked(ctx context.Context) {
	c.latest++
	token := c.latest
	c.inFlight = true

	prev := c.snap.Load()
	c.store(&Snapshot{
		State:    StateLoading,
		Dataset:  prev.Dataset,
		Events:   prev.Events,
		Status:   prev.Status,
		Days:     c.days,
		Token:    token,
		LoadedAt: prev.LoadedAt,
	})

	c.cycles.Add(1)
	go c.cycle(context.WithoutCancel(ctx), token, c.days)
}

func (c *Controller) cycle(ctx context.Context, token uint64, days int) {
	defer c.cycles.Done()
	start := c.clock.Now()
	c.logger.Debug("refresh cycle started", "token", token, "days", days)

	var (
		dataset domain.Dataset
		status  domain.SystemStatus
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dataset, err = c.fetcher.FetchEvents(gctx, days)
		return err
	})
	g.Go(func() error {
		var err error
		status, err = c.fetcher.FetchStatus(gctx)
		return err
	})
	err := g.Wait()

	snap := &Snapshot{Days: days, Token: token, LoadedAt: c.clock.Now()}
	if err != nil {
		snap.State = StateFailed
		snap.Err = err
	} else {
		snap.State = StateReady
		snap.Dataset = dataset
		snap.Events = domain.Aggregate(dataset)
		snap.Status = status
	}

	if !c.commit(snap) {
		c.metrics.RefreshCycles.WithLabelValues("stale").Inc()
		c.logger.Debug("discarding stale refresh result", "token", token)
		return
	}
	c.metrics.RefreshDuration.Observe(c.clock.Since(start).Seconds())

	if err != nil {
		c.metrics.RefreshCycles.WithLabelValues("failed").Inc()
		c.logger.Error("refresh cycle failed", "token", token, "days", days, "error", err)
		return
	}

	c.metrics.RefreshCycles.WithLabelValues("ready").Inc()
	c.ready.Store(true)
	c.logger.Info("refresh cycle complete",
		"token", token,
		"days", days,
		"events", len(snap.Events),
	)
	c.publish(ctx, snap)
}

// commit stores snap if its token is still the latest.
func (c *Controller) commit(snap *Snapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if snap.Token != c.latest {
		return false
	}
	c.inFlight = false
	c.store(snap)
	return true
}

func (c *Controller) store(snap *Snapshot) {
	if snap.State == StateFailed {
		snap.Dataset = domain.Dataset{}
		snap.Events = nil
	}
	c.snap.Store(snap)
	c.metrics.ControllerState.Set(float64(snap.State))
	if snap.State != StateLoading {
		for _, cat := range domain.Categories {
			c.metrics.EventsLoaded.WithLabelValues(string(cat)).Set(float64(len(snap.Dataset.Of(cat))))
		}
	}
}

func (c *Controller) publish(ctx context.Context, snap *Snapshot) {
	if c.publisher == nil || len(snap.Events) == 0 {
		return
	}
	if err := c.publisher.Publish(ctx, snap.Events); err != nil {
		c.metrics.PublishErrors.Inc()
		c.logger.Warn("publish events failed", "token", snap.Token, "error", err)
		return
	}
	c.metrics.EventsPublished.Add(float64(len(snap.Events)))
}
