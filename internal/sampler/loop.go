// Package sampler drives periodic acquisition, feeds the window store and
// publishes immutable updates to consumers.
package sampler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"sysdash/internal/collector"
	"sysdash/internal/snapshot"
	"sysdash/internal/window"
)

// AcquireFunc returns one raw provider reading.
type AcquireFunc func(ctx context.Context) (*collector.RawSnapshot, error)

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the loop logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithConsumers registers consumers that receive every publication in order.
func WithConsumers(c ...Consumer) Option {
	return func(l *Loop) {
		l.consumers = append(l.consumers, c...)
	}
}

type acquireResult struct {
	raw *collector.RawSnapshot
	err error
}

// Loop runs acquire → normalize → append → publish once per interval. The
// loop goroutine is the only writer of the window store.
type Loop struct {
	cfg       Config
	acquire   AcquireFunc
	logger    *slog.Logger
	consumers []Consumer

	// Owned by the loop goroutine.
	store   *window.Store
	tick    uint64
	pending chan acquireResult

	latest  atomic.Pointer[Update]
	lastErr atomic.Pointer[AcquisitionError]

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	wg      sync.WaitGroup
}

// New creates a stopped loop. Invalid config fields fall back to their defaults.
func New(cfg Config, acquire AcquireFunc, opts ...Option) *Loop {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.WindowCapacity < 1 {
		cfg.WindowCapacity = def.WindowCapacity
	}
	if cfg.AcquireTimeout < 0 {
		cfg.AcquireTimeout = def.AcquireTimeout
	}

	l := &Loop{
		cfg:     cfg,
		acquire: acquire,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		store:   window.New(cfg.WindowCapacity),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewFromProvider is New with p.Acquire as the acquisition callback.
func NewFromProvider(cfg Config, p collector.Provider, opts ...Option) *Loop {
	return New(cfg, p.Acquire, opts...)
}

func (l *Loop) Config() Config {
	return l.cfg
}

// Start runs one tick immediately, then one per interval, until ctx is done
// or Stop is called.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.running = true
	l.wg.Add(1)
	l.mu.Unlock()

	l.logger.Info("sampler started",
		"interval", l.cfg.Interval,
		"window", l.cfg.WindowCapacity,
		"acquire_timeout", l.cfg.AcquireTimeout,
		"gpu_policy", l.cfg.GPUPolicy,
	)

	go l.run(ctx)
	return nil
}

// Stop halts the timer and waits for the loop goroutine. An acquisition still
// in flight may finish but its result is dropped; nothing is published after
// Stop returns.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.running = false
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
}

func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Latest returns the most recent successful update, or nil before the first one.
func (l *Loop) Latest() *Update {
	return l.latest.Load()
}

// LastError returns the error of the most recent tick, or nil if it succeeded.
func (l *Loop) LastError() error {
	if e := l.lastErr.Load(); e != nil {
		return e
	}
	return nil
}

func (l *Loop) run(ctx context.Context) {
	defer l.wg.Done()
	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	l.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("sampler stopped", "ticks", l.tick)
			return
		case <-ticker.C:
			// time.Ticker drops ticks while a cycle is running, so a slow
			// acquisition defers the next tick instead of queueing it.
			l.cycle(ctx)
		}
	}
}

// cycle performs one tick.
func (l *Loop) cycle(ctx context.Context) {
	l.tick++
	tick := l.tick

	raw, err := l.acquireOnce(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		l.fail(tick, err)
		return
	}

	snap, err := snapshot.Normalize(raw)
	if err != nil {
		l.fail(tick, err)
		return
	}

	l.record(snap)

	u := &Update{
		Snapshot: snap,
		Windows:  l.store.SnapshotAll(),
		Series:   l.store.Series(),
		Capacity: l.store.Capacity(),
		Tick:     tick,
		At:       time.Now(),
	}
	l.latest.Store(u)
	l.lastErr.Store(nil)

	l.logger.Debug("tick published",
		"tick", tick,
		"cpu", snap.Processor.UsagePercent,
		"mem", snap.Memory.UsagePercent,
		"gpu", snap.HasGPU(),
		"window", len(u.Windows[KeyProcessorUsage]),
	)

	for _, c := range l.consumers {
		c.OnUpdate(*u)
	}
}

// acquireOnce runs the acquisition in a helper goroutine so the timeout can
// be enforced. An acquisition abandoned on timeout keeps the slot until it
// returns.
func (l *Loop) acquireOnce(ctx context.Context) (*collector.RawSnapshot, error) {
	if l.pending != nil {
		select {
		case <-l.pending:
			l.pending = nil
		default:
			return nil, ErrAcquisitionPending
		}
	}

	// Stop must not interrupt a running acquisition, so it gets its own
	// cancellation; only the timeout cancels it.
	actx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan acquireResult, 1)
	go func() {
		defer cancel()
		raw, err := l.acquire(actx)
		done <- acquireResult{raw: raw, err: err}
	}()

	var expired <-chan time.Time
	if l.cfg.AcquireTimeout > 0 {
		timer := time.NewTimer(l.cfg.AcquireTimeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case res := <-done:
		return res.raw, res.err
	case <-expired:
		cancel()
		l.pending = done
		return nil, ErrAcquisitionTimeout
	case <-ctx.Done():
		l.pending = done
		return nil, ctx.Err()
	}
}

func (l *Loop) fail(tick uint64, err error) {
	aerr := &AcquisitionError{Tick: tick, Err: err}
	l.lastErr.Store(aerr)
	l.logger.Warn("tick failed", "tick", tick, "error", err)

	for _, c := range l.consumers {
		c.OnError(aerr)
	}
}
