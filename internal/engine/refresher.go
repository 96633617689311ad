package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RefreshTarget re-runs its active queries and reports how many it
// dispatched. Session implements it for a single query; the API's session
// registry implements it across all open sessions.
type RefreshTarget interface {
	RefreshActive() int
}

// Refresher periodically re-runs active queries so long-lived sessions
// see current prices. Idle sessions are untouched.
type Refresher struct {
	cron   *cron.Cron
	target RefreshTarget
	log    *slog.Logger
}

// NewRefresher creates a Refresher that refreshes target every interval.
func NewRefresher(target RefreshTarget, interval time.Duration, log *slog.Logger) (*Refresher, error) {
	c := cron.New()

	r := &Refresher{
		cron:   c,
		target: target,
		log:    log,
	}

	if _, err := c.AddFunc("@every "+interval.String(), r.refresh); err != nil {
		return nil, err
	}

	return r, nil
}

// Start begins the refresh schedule.
func (r *Refresher) Start() {
	r.log.Info("refresher started")
	r.cron.Start()
}

// Stop halts the schedule, waiting for a running refresh to finish.
func (r *Refresher) Stop() context.Context {
	r.log.Info("refresher stopping")
	return r.cron.Stop()
}

func (r *Refresher) refresh() {
	if n := r.target.RefreshActive(); n > 0 {
		r.log.Debug("refreshed active queries", "count", n)
	}
}

// RefreshActive re-runs the session's query if one is active.
func (s *Session) RefreshActive() int {
	if s.Snapshot().Query == "" {
		return 0
	}
	s.Refresh()
	return 1
}
