package boltrouting

import (
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Logger is the optional collaborator refresh failures are reported
// through, matching internal/boltconn.Logger's shape.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Refresher periodically re-resolves a routing table and updates the
// cache, the way the teacher's taskManager registers a gocron job for
// its LDAP sync: a single DurationJob running a closure, with failures
// logged rather than propagated since nothing downstream is waiting
// synchronously on this particular invocation.
type Refresher struct {
	scheduler gocron.Scheduler
	log       Logger
}

// NewRefresher creates (but does not start) a scheduler for periodic
// routing-table refresh jobs.
func NewRefresher(log Logger) (*Refresher, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = noopLogger{}
	}
	return &Refresher{scheduler: s, log: log}, nil
}

// Register schedules fetch to run every interval, invalidating and
// refilling cache's (db, impUser) entry on each tick.
func (r *Refresher) Register(interval time.Duration, cache *Cache, db, impUser string, fetch func() (RoutingTable, error)) error {
	_, err := r.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			cache.Invalidate(db, impUser)
			if _, err := cache.Get(db, impUser, fetch); err != nil {
				r.log.Warn("routing table refresh failed", "db", db, "error", err)
			}
		}),
	)
	return err
}

// Start begins running registered jobs.
func (r *Refresher) Start() { r.scheduler.Start() }

// Stop shuts the scheduler down, waiting for in-flight jobs.
func (r *Refresher) Stop() error { return r.scheduler.Shutdown() }
