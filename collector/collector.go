// Package collector keeps every active session's weather current by
// refreshing it on a schedule.
package collector

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"skycast/session"
)

// SessionSource lists the sessions to refresh
type SessionSource interface {
	Sessions() []*session.Session
}

// Refresher periodically refreshes every session that has a selection
type Refresher struct {
	sessions     SessionSource
	interval     time.Duration
	concurrency  int
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewRefresher creates a refresher over sessions
func NewRefresher(sessions SessionSource, interval time.Duration, concurrency int, logger *zap.Logger) *Refresher {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		sessions:     sessions,
		interval:     interval,
		concurrency:  concurrency,
		fetchTimeout: 15 * time.Second,
		logger:       logger,
	}
}

// SetFetchTimeout changes the timeout for one session refresh
func (r *Refresher) SetFetchTimeout(timeout time.Duration) {
	r.fetchTimeout = timeout
}

// Start refreshes on every tick until ctx ends. The returned function stops
// the loop and waits for it to finish.
func (r *Refresher) Start(ctx context.Context) func() {
	refreshCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if r.interval <= 0 {
			return
		}

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.RefreshOnce(refreshCtx)
			case <-refreshCtx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}

// RefreshOnce refreshes every idle session with a location, at most
// concurrency at a time, and returns how many were refreshed successfully.
// Sessions with a request in flight are left alone.
func (r *Refresher) RefreshOnce(ctx context.Context) int {
	var (
		mu        sync.Mutex
		refreshed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, s := range r.sessions.Sessions() {
		if snap := s.Store().Snapshot(); snap.Location == nil || snap.Pending {
			continue
		}
		s := s
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, r.fetchTimeout)
			defer cancel()

			res := s.Handle(fetchCtx, session.Refresh{Background: true})
			switch res.Status {
			case session.StatusOK:
				mu.Lock()
				refreshed++
				mu.Unlock()
			case session.StatusStale, session.StatusSkipped:
				// the user's own request wins
			default:
				r.logger.Warn("scheduled refresh failed",
					zap.String("status", string(res.Status)), zap.String("message", res.Message))
			}
			// one failing session never cancels the others
			return nil
		})
	}
	g.Wait()

	if refreshed > 0 {
		r.logger.Debug("sessions refreshed", zap.Int("count", refreshed))
	}
	return refreshed
}
