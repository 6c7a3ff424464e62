package ratelimit

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Janitor periodically sweeps expired records from a set of limiters. It
// owns its cron scheduler: Start launches it, Stop halts it, and a stopped
// janitor keeps no goroutines alive, so it never prevents process shutdown.
type Janitor struct {
	schedule string
	limiters []*Limiter
	logger   *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	running bool
}

// NewJanitor creates a janitor sweeping the given limiters on the cron
// schedule (standard five-field syntax).
func NewJanitor(schedule string, limiters ...*Limiter) (*Janitor, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return &Janitor{
		schedule: schedule,
		limiters: limiters,
		logger:   slog.Default().With("component", "ratelimit-janitor"),
	}, nil
}

// Start begins scheduled sweeping. Calling Start on a running janitor is an
// error.
func (j *Janitor) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return fmt.Errorf("janitor already running")
	}

	j.cron = cron.New()
	id, err := j.cron.AddFunc(j.schedule, j.sweep)
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}
	j.entryID = id
	j.cron.Start()
	j.running = true

	j.logger.Info("rate limit sweep scheduled", "schedule", j.schedule)
	return nil
}

// Stop halts scheduled sweeping and waits for an in-flight sweep to finish.
// Safe to call on a janitor that was never started.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.running {
		return
	}
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.running = false
	j.logger.Info("rate limit sweep stopped")
}

func (j *Janitor) sweep() {
	for _, l := range j.limiters {
		removed := l.Sweep()
		if removed > 0 {
			j.logger.Debug("swept expired rate limit records",
				"policy", l.Policy().Name,
				"removed", removed,
				"remaining", l.Len(),
			)
		}
	}
}
