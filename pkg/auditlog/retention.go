package auditlog

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Pruner deletes aged audit rows on a cron schedule. It only applies to the
// SQLite backend; the NDJSON fallback is an emergency store and is left for
// operators to rotate.
type Pruner struct {
	sink          *SQLiteSink
	schedule      string
	retentionDays int
	logger        *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewPruner creates a pruner deleting entries older than retentionDays on
// the given cron schedule.
func NewPruner(sink *SQLiteSink, schedule string, retentionDays int) (*Pruner, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	if retentionDays <= 0 {
		return nil, fmt.Errorf("retention days must be positive, got %d", retentionDays)
	}
	return &Pruner{
		sink:          sink,
		schedule:      schedule,
		retentionDays: retentionDays,
		logger:        slog.Default().With("component", "auditlog-pruner"),
	}, nil
}

// Start begins scheduled pruning.
func (p *Pruner) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("pruner already running")
	}

	p.cron = cron.New()
	if _, err := p.cron.AddFunc(p.schedule, p.prune); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}
	p.cron.Start()
	p.running = true

	p.logger.Info("audit retention scheduled",
		"schedule", p.schedule,
		"retention_days", p.retentionDays,
	)
	return nil
}

// Stop halts scheduled pruning and waits for an in-flight run.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	ctx := p.cron.Stop()
	<-ctx.Done()
	p.running = false
}

func (p *Pruner) prune() {
	removed, err := p.sink.PruneOlderThan(p.retentionDays)
	if err != nil {
		p.logger.Error("audit prune failed", "error", err)
		return
	}
	if removed > 0 {
		p.logger.Info("pruned audit entries", "removed", removed)
	}
}
